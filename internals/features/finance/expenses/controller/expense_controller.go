package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/expenses/dto"
	"schoolbill_backend/internals/features/finance/expenses/model"
	helper "schoolbill_backend/internals/helpers"
	helperAuth "schoolbill_backend/internals/helpers/auth"
)

type ExpenseController struct {
	DB *gorm.DB
}

func NewExpenseController(db *gorm.DB) *ExpenseController {
	return &ExpenseController{DB: db}
}

// =========================================================
// GET /api/a/expenses
// =========================================================
func (ctrl *ExpenseController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "date", "desc", helper.DefaultOpts)

	q := ctrl.DB.WithContext(c.Context()).
		Model(&model.Expense{}).
		Where("expense_school_id = ?", schoolID)

	if v := strings.TrimSpace(c.Query("category")); v != "" {
		q = q.Where("expense_category = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count expenses")
	}

	var rows []model.Expense
	if err := q.Order("expense_date DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch expenses")
	}

	return helper.JsonList(c, "expenses fetched", rows, helper.BuildMeta(total, p))
}

// =========================================================
// POST /api/a/expenses
// =========================================================
func (ctrl *ExpenseController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	userID, err := helperAuth.GetUserIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.ExpenseCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields := helper.ValidateStruct(&in); fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	row := in.ToModel(schoolID, userID)
	if err := ctrl.DB.WithContext(c.Context()).Create(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to record expense")
	}

	return helper.JsonCreated(c, "expense recorded", row)
}

// =========================================================
// DELETE /api/a/expenses/:id  (soft delete)
// =========================================================
func (ctrl *ExpenseController) Delete(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid expense id")
	}

	res := ctrl.DB.WithContext(c.Context()).
		Where("expense_id = ? AND expense_school_id = ?", id, schoolID).
		Delete(&model.Expense{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete expense")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "expense not found")
	}

	return helper.JsonDeleted(c, "expense deleted", fiber.Map{"expense_id": id})
}
