package dto

import "github.com/google/uuid"

type FeePaymentCreateDTO struct {
	FeePaymentStudentID uuid.UUID `json:"fee_payment_student_id" validate:"required"`
	FeePaymentFeeType   string    `json:"fee_payment_fee_type" validate:"required,max=60"`
	FeePaymentAmount    int       `json:"fee_payment_amount" validate:"required,min=1"`
	FeePaymentTerm      int16     `json:"fee_payment_term" validate:"required,min=1,max=3"`
	FeePaymentYear      int16     `json:"fee_payment_year" validate:"required,min=2020,max=2100"`
	FeePaymentMethod    string    `json:"fee_payment_method" validate:"required,oneof=cash mobile_money bank cheque"`
	FeePaymentNotes     *string   `json:"fee_payment_notes,omitempty"`
}

type FeePaymentVoidDTO struct {
	FeePaymentVoidReason string `json:"fee_payment_void_reason" validate:"required,min=3"`
}
