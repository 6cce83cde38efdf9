package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentmodel "schoolbill_backend/internals/features/finance/payments/model"
	paymentservice "schoolbill_backend/internals/features/finance/payments/service"
	"schoolbill_backend/internals/features/finance/paymentplans/dto"
	"schoolbill_backend/internals/features/finance/paymentplans/model"
	"schoolbill_backend/internals/features/finance/paymentplans/service"
	helper "schoolbill_backend/internals/helpers"
	helperAuth "schoolbill_backend/internals/helpers/auth"
)

type PaymentPlanController struct {
	DB    *gorm.DB
	Plans *service.Plans
}

func NewPaymentPlanController(db *gorm.DB) *PaymentPlanController {
	return &PaymentPlanController{DB: db, Plans: service.NewPlans(db)}
}

// =========================================================
// GET /api/a/payment-plans
// =========================================================
func (ctrl *PaymentPlanController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	q := ctrl.DB.WithContext(c.Context()).
		Model(&model.PaymentPlan{}).
		Where("payment_plan_school_id = ?", schoolID)

	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		sid, e := uuid.Parse(v)
		if e != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
		}
		q = q.Where("payment_plan_student_id = ?", sid)
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		q = q.Where("payment_plan_status = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count payment plans")
	}

	var rows []model.PaymentPlan
	if err := q.Order("payment_plan_created_at DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch payment plans")
	}

	return helper.JsonList(c, "payment plans fetched", rows, helper.BuildMeta(total, p))
}

// =========================================================
// GET /api/a/payment-plans/:id  (installments included)
// =========================================================
func (ctrl *PaymentPlanController) GetByID(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid plan id")
	}

	var row model.PaymentPlan
	if err := ctrl.DB.WithContext(c.Context()).
		Preload("PaymentPlanInstallments", func(db *gorm.DB) *gorm.DB {
			return db.Order("plan_installment_number ASC")
		}).
		Where("payment_plan_id = ? AND payment_plan_school_id = ?", id, schoolID).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "payment plan not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch payment plan")
	}

	return helper.JsonOK(c, "payment plan fetched", row)
}

// =========================================================
// POST /api/a/payment-plans
// =========================================================
func (ctrl *PaymentPlanController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureStaffSchool(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	var in dto.PaymentPlanCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields := helper.ValidateStruct(&in); fields != nil {
		return helper.JsonValidationError(c, fields)
	}
	if in.PaymentPlanDownPayment >= in.PaymentPlanTotalAmount {
		return helper.JsonValidationError(c, map[string][]string{
			"PaymentPlanDownPayment": {"down payment must be less than the total amount"},
		})
	}

	plan, err := ctrl.Plans.CreatePlan(c.Context(), service.CreatePlanParams{
		SchoolID:         schoolID,
		StudentID:        in.PaymentPlanStudentID,
		InvoiceID:        in.PaymentPlanInvoiceID,
		PlanName:         in.PaymentPlanName,
		TotalAmount:      in.PaymentPlanTotalAmount,
		DownPayment:      in.PaymentPlanDownPayment,
		InstallmentCount: in.PaymentPlanInstallmentCount,
		Frequency:        model.PlanFrequency(in.PaymentPlanFrequency),
		StartDate:        in.PaymentPlanStartDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, paymentservice.ErrStudentAccess):
			return helper.JsonErrorCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		case errors.Is(err, service.ErrInvoiceAccess):
			return helper.JsonErrorCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create payment plan")
		}
	}

	return helper.JsonCreated(c, "payment plan created", plan)
}

// =========================================================
// POST /api/a/payment-plans/:id/installments/:installmentId/pay
// =========================================================
func (ctrl *PaymentPlanController) PayInstallment(c *fiber.Ctx) error {
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

	planID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid plan id")
	}
	installmentID, err := uuid.Parse(c.Params("installmentId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid installment id")
	}

	var in dto.PayInstallmentDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields := helper.ValidateStruct(&in); fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	installment, err := ctrl.Plans.PayInstallment(c.Context(), service.PayInstallmentParams{
		PlanID:        planID,
		InstallmentID: installmentID,
		Amount:        in.PlanInstallmentAmount,
		SchoolID:      schoolID,
		UserID:        userID,
		Method:        paymentmodel.PaymentMethod(in.PlanInstallmentMethod),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, service.ErrInstallmentNotFound):
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, service.ErrPlanAccess):
			return helper.JsonErrorCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		case errors.Is(err, service.ErrInstallmentOverpay):
			return helper.JsonErrorCode(c, fiber.StatusBadRequest, "INSTALLMENT_OVERPAY", err.Error())
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to pay installment")
		}
	}

	return helper.JsonOK(c, "installment paid", installment)
}
