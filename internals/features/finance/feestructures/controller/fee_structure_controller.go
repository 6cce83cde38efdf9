package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/feestructures/dto"
	"schoolbill_backend/internals/features/finance/feestructures/model"
	paymentservice "schoolbill_backend/internals/features/finance/payments/service"
	helper "schoolbill_backend/internals/helpers"
	helperAuth "schoolbill_backend/internals/helpers/auth"
)

type FeeStructureController struct {
	DB *gorm.DB
}

func NewFeeStructureController(db *gorm.DB) *FeeStructureController {
	return &FeeStructureController{DB: db}
}

var feeStructureSortable = map[string]string{
	"created_at":  "fee_structure_created_at",
	"year":        "fee_structure_year",
	"class_level": "fee_structure_class_level",
	"fee_type":    "fee_structure_fee_type",
	"amount":      "fee_structure_amount",
}

// =========================================================
// GET /api/a/fee-structures
// =========================================================
func (ctrl *FeeStructureController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	orderBy, _ := p.SafeOrderClause(feeStructureSortable, "created_at")

	q := ctrl.DB.WithContext(c.Context()).
		Model(&model.FeeStructure{}).
		Where("fee_structure_school_id = ?", schoolID)

	if v := strings.TrimSpace(c.Query("year")); v != "" {
		if y, e := strconv.Atoi(v); e == nil {
			q = q.Where("fee_structure_year = ?", y)
		}
	}
	if v := strings.TrimSpace(c.Query("term")); v != "" {
		if t, e := strconv.Atoi(v); e == nil {
			q = q.Where("fee_structure_term = ?", t)
		}
	}
	if v := strings.TrimSpace(c.Query("class_level")); v != "" {
		q = q.Where("fee_structure_class_level = ?", v)
	}
	if v := strings.TrimSpace(c.Query("fee_type")); v != "" {
		q = q.Where("fee_structure_fee_type = ?", v)
	}
	if v := strings.TrimSpace(c.Query("is_active")); v != "" {
		q = q.Where("fee_structure_is_active = ?", v == "true" || v == "1")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count fee structures")
	}

	var rows []model.FeeStructure
	if err := q.Order(orderBy).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch fee structures")
	}

	return helper.JsonList(c, "fee structures fetched", rows, helper.BuildMeta(total, p))
}

// =========================================================
// POST /api/a/fee-structures
// =========================================================
func (ctrl *FeeStructureController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.FeeStructureCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields := helper.ValidateStruct(&in); fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	row := in.ToModel(schoolID)
	if err := ctrl.DB.WithContext(c.Context()).Create(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create fee structure")
	}

	return helper.JsonCreated(c, "fee structure created", row)
}

// =========================================================
// PATCH /api/a/fee-structures/:id
// =========================================================
func (ctrl *FeeStructureController) Update(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid fee structure id")
	}

	var in dto.FeeStructureUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields := helper.ValidateStruct(&in); fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	var row model.FeeStructure
	if err := ctrl.DB.WithContext(c.Context()).
		Where("fee_structure_id = ? AND fee_structure_school_id = ?", id, schoolID).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "fee structure not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch fee structure")
	}

	in.Apply(&row)
	if err := ctrl.DB.WithContext(c.Context()).Save(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update fee structure")
	}

	return helper.JsonUpdated(c, "fee structure updated", row)
}

// =========================================================
// DELETE /api/a/fee-structures/:id
// Retirement, not removal: generated invoices keep their item snapshots.
// =========================================================
func (ctrl *FeeStructureController) Delete(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid fee structure id")
	}

	res := ctrl.DB.WithContext(c.Context()).
		Model(&model.FeeStructure{}).
		Where("fee_structure_id = ? AND fee_structure_school_id = ?", id, schoolID).
		Update("fee_structure_is_active", false)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to deactivate fee structure")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "fee structure not found")
	}

	return helper.JsonDeleted(c, "fee structure deactivated", fiber.Map{"fee_structure_id": id})
}

// =========================================================
// GET /api/a/fee-overrides
// =========================================================
func (ctrl *FeeStructureController) ListOverrides(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	q := ctrl.DB.WithContext(c.Context()).
		Model(&model.StudentFeeOverride{}).
		Where("student_fee_override_school_id = ?", schoolID)

	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		sid, e := uuid.Parse(v)
		if e != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
		}
		q = q.Where("student_fee_override_student_id = ?", sid)
	}
	if v := strings.TrimSpace(c.Query("year")); v != "" {
		if y, e := strconv.Atoi(v); e == nil {
			q = q.Where("student_fee_override_year = ?", y)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count overrides")
	}

	var rows []model.StudentFeeOverride
	if err := q.Order("student_fee_override_created_at DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch overrides")
	}

	return helper.JsonList(c, "fee overrides fetched", rows, helper.BuildMeta(total, p))
}

// =========================================================
// POST /api/a/fee-overrides
// =========================================================
func (ctrl *FeeStructureController) CreateOverride(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.StudentFeeOverrideCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields := helper.ValidateStruct(&in); fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	if err := paymentservice.EnsureStudentInSchool(ctrl.DB.WithContext(c.Context()), schoolID, in.StudentFeeOverrideStudentID); err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, "student does not belong to this school")
	}

	row := in.ToModel(schoolID)
	if err := ctrl.DB.WithContext(c.Context()).Create(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create fee override")
	}

	return helper.JsonCreated(c, "fee override created", row)
}

// =========================================================
// DELETE /api/a/fee-overrides/:id
// =========================================================
func (ctrl *FeeStructureController) DeleteOverride(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid override id")
	}

	res := ctrl.DB.WithContext(c.Context()).
		Model(&model.StudentFeeOverride{}).
		Where("student_fee_override_id = ? AND student_fee_override_school_id = ?", id, schoolID).
		Update("student_fee_override_is_active", false)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to deactivate override")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "fee override not found")
	}

	return helper.JsonDeleted(c, "fee override deactivated", fiber.Map{"student_fee_override_id": id})
}
