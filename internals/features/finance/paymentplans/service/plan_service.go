package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	invoicemodel "schoolbill_backend/internals/features/finance/invoices/model"
	invoiceservice "schoolbill_backend/internals/features/finance/invoices/service"
	paymentmodel "schoolbill_backend/internals/features/finance/payments/model"
	paymentservice "schoolbill_backend/internals/features/finance/payments/service"
	"schoolbill_backend/internals/features/finance/paymentplans/model"
)

var (
	ErrPlanNotFound        = errors.New("payment plan not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrPlanAccess          = errors.New("payment plan belongs to a different school")
	ErrInstallmentOverpay  = errors.New("amount exceeds the installment's remaining balance")
	ErrInvoiceAccess       = errors.New("invoice does not belong to this student")
)

// Plans schedules installment plans and collects payments against them.
type Plans struct {
	DB *gorm.DB
}

func NewPlans(db *gorm.DB) *Plans {
	return &Plans{DB: db}
}

type CreatePlanParams struct {
	SchoolID         uuid.UUID
	StudentID        uuid.UUID
	InvoiceID        *uuid.UUID
	PlanName         string
	TotalAmount      int
	DownPayment      int
	InstallmentCount int
	Frequency        model.PlanFrequency
	StartDate        time.Time
}

// CreatePlan writes the plan and its full installment schedule in one
// transaction. Installment i falls due i periods after the start date
// (7 days for weekly, 1 calendar month for monthly).
func (s *Plans) CreatePlan(ctx context.Context, p CreatePlanParams) (*model.PaymentPlan, error) {
	db := s.DB.WithContext(ctx)

	if err := paymentservice.EnsureStudentInSchool(db, p.SchoolID, p.StudentID); err != nil {
		return nil, err
	}
	if p.InvoiceID != nil {
		var inv invoicemodel.Invoice
		err := db.First(&inv,
			"invoice_id = ? AND invoice_school_id = ? AND invoice_student_id = ?",
			*p.InvoiceID, p.SchoolID, p.StudentID,
		).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceAccess
		}
		if err != nil {
			return nil, err
		}
	}

	perInstallment := int(math.Round(float64(p.TotalAmount-p.DownPayment) / float64(p.InstallmentCount)))

	plan := model.PaymentPlan{
		PaymentPlanSchoolID:         p.SchoolID,
		PaymentPlanStudentID:        p.StudentID,
		PaymentPlanInvoiceID:        p.InvoiceID,
		PaymentPlanName:             p.PlanName,
		PaymentPlanTotalAmount:      p.TotalAmount,
		PaymentPlanDownPayment:      p.DownPayment,
		PaymentPlanInstallmentCount: p.InstallmentCount,
		PaymentPlanFrequency:        p.Frequency,
		PaymentPlanStartDate:        p.StartDate,
		PaymentPlanStatus:           model.PlanStatusActive,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}
		installments := make([]model.PlanInstallment, 0, p.InstallmentCount)
		for i := 1; i <= p.InstallmentCount; i++ {
			installments = append(installments, model.PlanInstallment{
				PlanInstallmentPlanID:  plan.PaymentPlanID,
				PlanInstallmentNumber:  i,
				PlanInstallmentDueDate: installmentDueDate(p.StartDate, p.Frequency, i),
				PlanInstallmentAmount:  perInstallment,
				PlanInstallmentStatus:  model.InstallmentStatusPending,
			})
		}
		return tx.Create(&installments).Error
	})
	if err != nil {
		return nil, err
	}
	plan.PaymentPlanInstallments = nil
	return &plan, nil
}

func installmentDueDate(start time.Time, freq model.PlanFrequency, n int) time.Time {
	if freq == model.PlanFrequencyWeekly {
		return start.AddDate(0, 0, 7*n)
	}
	return start.AddDate(0, n, 0)
}

type PayInstallmentParams struct {
	PlanID        uuid.UUID
	InstallmentID uuid.UUID
	Amount        int
	SchoolID      uuid.UUID
	UserID        uuid.UUID
	Method        paymentmodel.PaymentMethod
}

// PayInstallment collects money against one installment. In a single
// transaction it advances the installment, writes the FeePayment +
// FinanceTransaction pair (same receipt scheme as direct payments) and, when
// the plan references an invoice, reconciles the amount into that invoice
// through the shared payment-application path.
func (s *Plans) PayInstallment(ctx context.Context, p PayInstallmentParams) (*model.PlanInstallment, error) {
	db := s.DB.WithContext(ctx)

	var plan model.PaymentPlan
	err := db.First(&plan, "payment_plan_id = ?", p.PlanID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	if plan.PaymentPlanSchoolID != p.SchoolID {
		return nil, ErrPlanAccess
	}

	var inst model.PlanInstallment
	err = db.First(&inst,
		"plan_installment_id = ? AND plan_installment_plan_id = ?", p.InstallmentID, p.PlanID,
	).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInstallmentNotFound
	}
	if err != nil {
		return nil, err
	}

	remaining := inst.PlanInstallmentAmount - inst.PlanInstallmentPaidAmount
	if p.Amount > remaining {
		return nil, ErrInstallmentOverpay
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		inst.PlanInstallmentPaidAmount += p.Amount
		if inst.PlanInstallmentPaidAmount >= inst.PlanInstallmentAmount {
			inst.PlanInstallmentStatus = model.InstallmentStatusPaid
			inst.PlanInstallmentPaidAt = &now
		} else {
			inst.PlanInstallmentStatus = model.InstallmentStatusPartial
		}
		if err := tx.Model(&model.PlanInstallment{}).
			Where("plan_installment_id = ?", inst.PlanInstallmentID).
			Updates(map[string]any{
				"plan_installment_paid_amount": inst.PlanInstallmentPaidAmount,
				"plan_installment_status":      inst.PlanInstallmentStatus,
				"plan_installment_paid_at":     inst.PlanInstallmentPaidAt,
				"plan_installment_updated_at":  now,
			}).Error; err != nil {
			return err
		}

		// Term/year for the audit pair come from the linked invoice when the
		// plan has one; free-standing plans book under the due date's year.
		var term *int16
		year := int16(inst.PlanInstallmentDueDate.Year())
		if plan.PaymentPlanInvoiceID != nil {
			var invoice invoicemodel.Invoice
			if err := tx.First(&invoice, "invoice_id = ?", *plan.PaymentPlanInvoiceID).Error; err != nil {
				return err
			}
			t := invoice.InvoiceTerm
			term = &t
			year = invoice.InvoiceYear
		}

		amountDue := remaining
		if _, err := paymentservice.InsertLedgerPair(tx, paymentservice.LedgerPairParams{
			SchoolID:   p.SchoolID,
			StudentID:  plan.PaymentPlanStudentID,
			FeeType:    "installment",
			Amount:     p.Amount,
			AmountDue:  amountDue,
			Term:       term,
			Year:       year,
			Method:     p.Method,
			ReceivedBy: p.UserID,
			Descriptor: fmt.Sprintf("%s installment #%d", plan.PaymentPlanName, inst.PlanInstallmentNumber),
		}); err != nil {
			return err
		}

		if plan.PaymentPlanInvoiceID != nil {
			if _, err := invoiceservice.ApplyPaymentToInvoice(tx, *plan.PaymentPlanInvoiceID, p.Amount); err != nil {
				return err
			}
		}

		// Close out the plan once every installment is settled.
		if inst.PlanInstallmentStatus == model.InstallmentStatusPaid {
			var open int64
			if err := tx.Model(&model.PlanInstallment{}).
				Where("plan_installment_plan_id = ? AND plan_installment_status <> ?", p.PlanID, model.InstallmentStatusPaid).
				Count(&open).Error; err != nil {
				return err
			}
			if open == 0 {
				if err := tx.Model(&model.PaymentPlan{}).
					Where("payment_plan_id = ?", p.PlanID).
					Updates(map[string]any{
						"payment_plan_status":     model.PlanStatusCompleted,
						"payment_plan_updated_at": now,
					}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inst, nil
}
