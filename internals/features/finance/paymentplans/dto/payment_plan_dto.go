package dto

import (
	"time"

	"github.com/google/uuid"
)

type PaymentPlanCreateDTO struct {
	PaymentPlanStudentID        uuid.UUID  `json:"payment_plan_student_id" validate:"required"`
	PaymentPlanInvoiceID        *uuid.UUID `json:"payment_plan_invoice_id,omitempty"`
	PaymentPlanName             string     `json:"payment_plan_name" validate:"required,max=120"`
	PaymentPlanTotalAmount      int        `json:"payment_plan_total_amount" validate:"required,min=1"`
	PaymentPlanDownPayment      int        `json:"payment_plan_down_payment" validate:"min=0"`
	PaymentPlanInstallmentCount int        `json:"payment_plan_installment_count" validate:"required,min=1,max=36"`
	PaymentPlanFrequency        string     `json:"payment_plan_frequency" validate:"required,oneof=weekly monthly"`
	PaymentPlanStartDate        time.Time  `json:"payment_plan_start_date" validate:"required"`
}

type PayInstallmentDTO struct {
	PlanInstallmentAmount int    `json:"plan_installment_amount" validate:"required,min=1"`
	PlanInstallmentMethod string `json:"plan_installment_method" validate:"required,oneof=cash mobile_money bank cheque"`
}
