package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUMS
// =========================================================

type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
	PaymentMethodBank        PaymentMethod = "bank"
	PaymentMethodCheque      PaymentMethod = "cheque"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMobileMoney, PaymentMethodBank, PaymentMethodCheque:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// =========================================================
// MODEL: fee payment (audit record)
// =========================================================

// FeePayment is an immutable audit record of money received. AmountDue and
// Balance are snapshots of the invoice balance before/after this payment.
// Only the voided flag pair ever changes after insert.
type FeePayment struct {
	FeePaymentID       uuid.UUID `gorm:"column:fee_payment_id;type:uuid;primaryKey" json:"fee_payment_id"`
	FeePaymentSchoolID uuid.UUID `gorm:"column:fee_payment_school_id;type:uuid;not null;index:idx_fee_payments_school" json:"fee_payment_school_id"`

	FeePaymentStudentID uuid.UUID `gorm:"column:fee_payment_student_id;type:uuid;not null;index:idx_fee_payments_student" json:"fee_payment_student_id"`
	FeePaymentFeeType   string    `gorm:"column:fee_payment_fee_type;type:varchar(60);not null" json:"fee_payment_fee_type"`

	FeePaymentAmountDue  int `gorm:"column:fee_payment_amount_due;not null" json:"fee_payment_amount_due"`
	FeePaymentAmountPaid int `gorm:"column:fee_payment_amount_paid;not null;check:fee_payment_amount_paid>0" json:"fee_payment_amount_paid"`
	FeePaymentBalance    int `gorm:"column:fee_payment_balance;not null" json:"fee_payment_balance"`

	// Term is nil for plan installments collected outside an invoice period.
	FeePaymentTerm *int16 `gorm:"column:fee_payment_term;type:smallint" json:"fee_payment_term,omitempty"`
	FeePaymentYear int16  `gorm:"column:fee_payment_year;type:smallint;not null" json:"fee_payment_year"`

	FeePaymentDate          time.Time     `gorm:"column:fee_payment_date;not null" json:"fee_payment_date"`
	FeePaymentMethod        PaymentMethod `gorm:"column:fee_payment_method;type:varchar(20);not null" json:"fee_payment_method"`
	FeePaymentReceiptNumber string        `gorm:"column:fee_payment_receipt_number;type:varchar(40);not null;uniqueIndex:uniq_fee_payment_receipt" json:"fee_payment_receipt_number"`
	FeePaymentStatus        PaymentStatus `gorm:"column:fee_payment_status;type:varchar(12);not null" json:"fee_payment_status"`
	FeePaymentNotes         *string       `gorm:"column:fee_payment_notes;type:text" json:"fee_payment_notes,omitempty"`

	FeePaymentIsVoided   bool    `gorm:"column:fee_payment_is_voided;not null;default:false;index:idx_fee_payments_voided" json:"fee_payment_is_voided"`
	FeePaymentVoidReason *string `gorm:"column:fee_payment_void_reason;type:text" json:"fee_payment_void_reason,omitempty"`

	FeePaymentReceivedBy uuid.UUID `gorm:"column:fee_payment_received_by;type:uuid;not null" json:"fee_payment_received_by"`

	FeePaymentCreatedAt time.Time `gorm:"column:fee_payment_created_at;not null;autoCreateTime" json:"fee_payment_created_at"`
	FeePaymentUpdatedAt time.Time `gorm:"column:fee_payment_updated_at;not null;autoUpdateTime" json:"fee_payment_updated_at"`
}

func (FeePayment) TableName() string { return "fee_payments" }

func (m *FeePayment) BeforeCreate(tx *gorm.DB) error {
	if m.FeePaymentID == uuid.Nil {
		m.FeePaymentID = uuid.New()
	}
	return nil
}
