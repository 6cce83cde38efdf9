package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/invoices/dto"
	"schoolbill_backend/internals/features/finance/invoices/model"
	"schoolbill_backend/internals/features/finance/invoices/service"
	helper "schoolbill_backend/internals/helpers"
	helperAuth "schoolbill_backend/internals/helpers/auth"
)

type InvoiceController struct {
	DB        *gorm.DB
	Generator *service.Generator
}

func NewInvoiceController(db *gorm.DB) *InvoiceController {
	return &InvoiceController{DB: db, Generator: service.NewGenerator(db)}
}

var invoiceSortable = map[string]string{
	"created_at": "invoice_created_at",
	"due_date":   "invoice_due_date",
	"balance":    "invoice_balance",
	"total":      "invoice_total_amount",
	"year":       "invoice_year",
}

// =========================================================
// GET /api/a/invoices
// =========================================================
func (ctrl *InvoiceController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	orderBy, _ := p.SafeOrderClause(invoiceSortable, "created_at")

	q := ctrl.DB.WithContext(c.Context()).
		Model(&model.Invoice{}).
		Where("invoice_school_id = ?", schoolID)

	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		sid, e := uuid.Parse(v)
		if e != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
		}
		q = q.Where("invoice_student_id = ?", sid)
	}
	if v := strings.TrimSpace(c.Query("term")); v != "" {
		if t, e := strconv.Atoi(v); e == nil {
			q = q.Where("invoice_term = ?", t)
		}
	}
	if v := strings.TrimSpace(c.Query("year")); v != "" {
		if y, e := strconv.Atoi(v); e == nil {
			q = q.Where("invoice_year = ?", y)
		}
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		q = q.Where("invoice_status = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count invoices")
	}

	var rows []model.Invoice
	if err := q.Order(orderBy).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch invoices")
	}

	return helper.JsonList(c, "invoices fetched", rows, helper.BuildMeta(total, p))
}

// =========================================================
// GET /api/a/invoices/:id  (line items included)
// =========================================================
func (ctrl *InvoiceController) GetByID(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid invoice id")
	}

	var row model.Invoice
	if err := ctrl.DB.WithContext(c.Context()).
		Preload("InvoiceItems").
		Where("invoice_id = ? AND invoice_school_id = ?", id, schoolID).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "invoice not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch invoice")
	}

	return helper.JsonOK(c, "invoice fetched", row)
}

// =========================================================
// PATCH /api/a/invoices/:id  (due date / notes only)
// =========================================================
func (ctrl *InvoiceController) Update(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid invoice id")
	}

	var in dto.InvoiceUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var row model.Invoice
	if err := ctrl.DB.WithContext(c.Context()).
		Where("invoice_id = ? AND invoice_school_id = ?", id, schoolID).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "invoice not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch invoice")
	}

	updates := map[string]any{}
	if in.InvoiceDueDate != nil {
		updates["invoice_due_date"] = *in.InvoiceDueDate
	}
	if in.InvoiceNotes != nil {
		updates["invoice_notes"] = *in.InvoiceNotes
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "nothing to update", row)
	}

	if err := ctrl.DB.WithContext(c.Context()).
		Model(&row).Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update invoice")
	}

	return helper.JsonUpdated(c, "invoice updated", row)
}

// =========================================================
// POST /api/a/invoices/generate
// =========================================================
func (ctrl *InvoiceController) Generate(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.InvoiceGenerateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields := helper.ValidateStruct(&in); fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	res, err := ctrl.Generator.Generate(c.Context(), service.GenerateParams{
		SchoolID:   schoolID,
		Term:       in.InvoiceTerm,
		Year:       in.InvoiceYear,
		ClassLevel: in.InvoiceClassLevel,
		DueDate:    in.InvoiceDueDate,
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "invoice generation failed")
	}

	return helper.JsonCreated(c, "invoices generated", res)
}

// =========================================================
// POST /api/a/invoices/:id/remind
// =========================================================
func (ctrl *InvoiceController) Remind(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid invoice id")
	}

	now := time.Now()
	res := ctrl.DB.WithContext(c.Context()).
		Model(&model.Invoice{}).
		Where("invoice_id = ? AND invoice_school_id = ? AND invoice_status <> ?",
			id, schoolID, model.InvoiceStatusPaid).
		Updates(map[string]any{
			"invoice_reminder_sent_at": now,
			"invoice_reminder_count":   gorm.Expr("invoice_reminder_count + 1"),
		})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to record reminder")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "no unpaid invoice to remind")
	}

	return helper.JsonOK(c, "reminder recorded", fiber.Map{
		"invoice_id":  id,
		"reminded_at": now,
	})
}

// =========================================================
// POST /api/a/invoices/remind-all
// Marks every unpaid/partial invoice of the period as reminded.
// =========================================================
func (ctrl *InvoiceController) BulkRemind(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.InvoiceBulkRemindDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields := helper.ValidateStruct(&in); fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	q := ctrl.DB.WithContext(c.Context()).
		Model(&model.Invoice{}).
		Where("invoice_school_id = ? AND invoice_status <> ?", schoolID, model.InvoiceStatusPaid)
	if in.InvoiceTerm != nil {
		q = q.Where("invoice_term = ?", *in.InvoiceTerm)
	}
	if in.InvoiceYear != nil {
		q = q.Where("invoice_year = ?", *in.InvoiceYear)
	}

	now := time.Now()
	res := q.Updates(map[string]any{
		"invoice_reminder_sent_at": now,
		"invoice_reminder_count":   gorm.Expr("invoice_reminder_count + 1"),
	})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to record reminders")
	}

	return helper.JsonOK(c, "reminders recorded", fiber.Map{
		"reminded":    res.RowsAffected,
		"reminded_at": now,
	})
}
