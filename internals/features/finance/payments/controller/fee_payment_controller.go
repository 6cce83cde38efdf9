package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/payments/dto"
	"schoolbill_backend/internals/features/finance/payments/model"
	"schoolbill_backend/internals/features/finance/payments/service"
	helper "schoolbill_backend/internals/helpers"
	helperAuth "schoolbill_backend/internals/helpers/auth"
)

type FeePaymentController struct {
	DB     *gorm.DB
	Ledger *service.Ledger
}

func NewFeePaymentController(db *gorm.DB) *FeePaymentController {
	return &FeePaymentController{DB: db, Ledger: service.NewLedger(db)}
}

var feePaymentSortable = map[string]string{
	"date":       "fee_payment_date",
	"created_at": "fee_payment_created_at",
	"amount":     "fee_payment_amount_paid",
	"receipt":    "fee_payment_receipt_number",
}

// =========================================================
// GET /api/a/payments
// =========================================================
func (ctrl *FeePaymentController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "date", "desc", helper.DefaultOpts)
	orderBy, _ := p.SafeOrderClause(feePaymentSortable, "date")

	q := ctrl.DB.WithContext(c.Context()).
		Model(&model.FeePayment{}).
		Where("fee_payment_school_id = ?", schoolID)

	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		sid, e := uuid.Parse(v)
		if e != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
		}
		q = q.Where("fee_payment_student_id = ?", sid)
	}
	if v := strings.TrimSpace(c.Query("term")); v != "" {
		if t, e := strconv.Atoi(v); e == nil {
			q = q.Where("fee_payment_term = ?", t)
		}
	}
	if v := strings.TrimSpace(c.Query("year")); v != "" {
		if y, e := strconv.Atoi(v); e == nil {
			q = q.Where("fee_payment_year = ?", y)
		}
	}
	if v := strings.TrimSpace(c.Query("method")); v != "" {
		q = q.Where("fee_payment_method = ?", v)
	}
	// Voided rows stay listed unless the caller filters them out.
	if v := strings.TrimSpace(c.Query("include_voided")); v == "false" || v == "0" {
		q = q.Where("fee_payment_is_voided = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count payments")
	}

	var rows []model.FeePayment
	if err := q.Order(orderBy).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch payments")
	}

	return helper.JsonList(c, "payments fetched", rows, helper.BuildMeta(total, p))
}

// =========================================================
// GET /api/a/payments/students/:studentId
// Payment history for one student, newest first.
// =========================================================
func (ctrl *FeePaymentController) StudentHistory(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	studentID, err := uuid.Parse(c.Params("studentId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student id")
	}

	db := ctrl.DB.WithContext(c.Context())
	if err := service.EnsureStudentInSchool(db, schoolID, studentID); err != nil {
		if errors.Is(err, service.ErrStudentAccess) {
			return helper.JsonErrorCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to verify student")
	}

	p := helper.ParseFiber(c, "date", "desc", helper.DefaultOpts)

	q := db.Model(&model.FeePayment{}).
		Where("fee_payment_school_id = ? AND fee_payment_student_id = ?", schoolID, studentID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count payments")
	}

	var rows []model.FeePayment
	if err := q.Order("fee_payment_date DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch payments")
	}

	return helper.JsonList(c, "payment history fetched", rows, helper.BuildMeta(total, p))
}

// =========================================================
// POST /api/a/payments
// =========================================================
func (ctrl *FeePaymentController) Record(c *fiber.Ctx) error {
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

	var in dto.FeePaymentCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields := helper.ValidateStruct(&in); fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	payment, err := ctrl.Ledger.RecordPayment(c.Context(), service.RecordPaymentParams{
		SchoolID:  schoolID,
		UserID:    userID,
		StudentID: in.FeePaymentStudentID,
		FeeType:   in.FeePaymentFeeType,
		Amount:    in.FeePaymentAmount,
		Term:      in.FeePaymentTerm,
		Year:      in.FeePaymentYear,
		Method:    model.PaymentMethod(in.FeePaymentMethod),
		Notes:     in.FeePaymentNotes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentAccess):
			return helper.JsonErrorCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		case errors.Is(err, service.ErrOverpayment):
			return helper.JsonErrorCode(c, fiber.StatusBadRequest, "OVERPAYMENT", err.Error())
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to record payment")
		}
	}

	return helper.JsonCreated(c, "payment recorded", payment)
}

// =========================================================
// POST /api/a/payments/:id/void
// =========================================================
func (ctrl *FeePaymentController) Void(c *fiber.Ctx) error {
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

	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payment id")
	}

	var in dto.FeePaymentVoidDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields := helper.ValidateStruct(&in); fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	payment, err := ctrl.Ledger.VoidPayment(c.Context(), service.VoidParams{
		PaymentID: paymentID,
		SchoolID:  schoolID,
		UserID:    userID,
		Reason:    in.FeePaymentVoidReason,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, service.ErrAlreadyVoided):
			return helper.JsonErrorCode(c, fiber.StatusConflict, "ALREADY_VOIDED", err.Error())
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to void payment")
		}
	}

	return helper.JsonOK(c, "payment voided", payment)
}
