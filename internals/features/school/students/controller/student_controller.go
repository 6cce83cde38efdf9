package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/school/students/model"
	helper "schoolbill_backend/internals/helpers"
	helperAuth "schoolbill_backend/internals/helpers/auth"
)

// StudentController exposes the roster read-side used by billing screens.
// Enrollment and profile management live in the student service.
type StudentController struct {
	DB *gorm.DB
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db}
}

// =========================================================
// GET /api/a/students
// =========================================================
func (ctrl *StudentController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)

	q := ctrl.DB.WithContext(c.Context()).
		Model(&model.Student{}).
		Where("student_school_id = ?", schoolID)

	if v := strings.TrimSpace(c.Query("class_level")); v != "" {
		q = q.Where("student_class_level = ?", v)
	}
	if v := strings.TrimSpace(c.Query("is_active")); v != "" {
		q = q.Where("student_is_active = ?", v == "true" || v == "1")
	}
	if v := strings.TrimSpace(c.Query("q")); v != "" {
		q = q.Where("student_full_name LIKE ?", "%"+v+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count students")
	}

	var rows []model.Student
	if err := q.Order("student_full_name ASC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch students")
	}

	return helper.JsonList(c, "students fetched", rows, helper.BuildMeta(total, p))
}

// =========================================================
// GET /api/a/students/:id
// =========================================================
func (ctrl *StudentController) GetByID(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var row model.Student
	if err := ctrl.DB.WithContext(c.Context()).
		Where("student_id = ? AND student_school_id = ?", id, schoolID).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch student")
	}

	return helper.JsonOK(c, "student fetched", row)
}
