package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/feestructures/dto"
	"schoolbill_backend/internals/features/finance/feestructures/model"
	paymentservice "schoolbill_backend/internals/features/finance/payments/service"
	helper "schoolbill_backend/internals/helpers"
	helperAuth "schoolbill_backend/internals/helpers/auth"
)

type ScholarshipController struct {
	DB *gorm.DB
}

func NewScholarshipController(db *gorm.DB) *ScholarshipController {
	return &ScholarshipController{DB: db}
}

// =========================================================
// GET /api/a/scholarships
// =========================================================
func (ctrl *ScholarshipController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	q := ctrl.DB.WithContext(c.Context()).
		Model(&model.Scholarship{}).
		Where("scholarship_school_id = ?", schoolID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count scholarships")
	}

	var rows []model.Scholarship
	if err := q.Order("scholarship_created_at DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch scholarships")
	}

	return helper.JsonList(c, "scholarships fetched", rows, helper.BuildMeta(total, p))
}

// =========================================================
// POST /api/a/scholarships
// =========================================================
func (ctrl *ScholarshipController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.ScholarshipCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields := helper.ValidateStruct(&in); fields != nil {
		return helper.JsonValidationError(c, fields)
	}
	if in.ScholarshipDiscountType == string(model.DiscountTypePercentage) && in.ScholarshipDiscountValue > 100 {
		return helper.JsonValidationError(c, map[string][]string{
			"ScholarshipDiscountValue": {"percentage discount cannot exceed 100"},
		})
	}

	row, err := in.ToModel(schoolID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid fee type list")
	}
	if err := ctrl.DB.WithContext(c.Context()).Create(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create scholarship")
	}

	return helper.JsonCreated(c, "scholarship created", row)
}

// =========================================================
// POST /api/a/scholarships/:id/assign
// =========================================================
func (ctrl *ScholarshipController) Assign(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	scholarshipID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid scholarship id")
	}

	var in dto.StudentScholarshipAssignDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields := helper.ValidateStruct(&in); fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	db := ctrl.DB.WithContext(c.Context())

	var rule model.Scholarship
	if err := db.Where("scholarship_id = ? AND scholarship_school_id = ?", scholarshipID, schoolID).
		First(&rule).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "scholarship not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch scholarship")
	}

	if err := paymentservice.EnsureStudentInSchool(db, schoolID, in.StudentScholarshipStudentID); err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, "student does not belong to this school")
	}

	assignment := model.StudentScholarship{
		StudentScholarshipSchoolID:      schoolID,
		StudentScholarshipScholarshipID: rule.ScholarshipID,
		StudentScholarshipStudentID:     in.StudentScholarshipStudentID,
		StudentScholarshipTerm:          in.StudentScholarshipTerm,
		StudentScholarshipYear:          in.StudentScholarshipYear,
		StudentScholarshipStatus:        model.StudentScholarshipStatusActive,
	}
	if err := db.Create(&assignment).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to assign scholarship")
	}

	return helper.JsonCreated(c, "scholarship assigned", assignment)
}
