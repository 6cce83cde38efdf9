package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUMS
// =========================================================

type PlanFrequency string

const (
	PlanFrequencyWeekly  PlanFrequency = "weekly"
	PlanFrequencyMonthly PlanFrequency = "monthly"
)

func (f PlanFrequency) Valid() bool {
	return f == PlanFrequencyWeekly || f == PlanFrequencyMonthly
}

type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusDefaulted PlanStatus = "defaulted"
	PlanStatusCancelled PlanStatus = "cancelled"
)

type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPartial InstallmentStatus = "partial"
	InstallmentStatusPaid    InstallmentStatus = "paid"
)

// =========================================================
// MODEL: payment plan
// =========================================================

// PaymentPlan splits an agreed amount into dated installments. When it
// references an invoice, installment payments reconcile into that invoice
// through the same path as direct payments.
type PaymentPlan struct {
	PaymentPlanID       uuid.UUID `gorm:"column:payment_plan_id;type:uuid;primaryKey" json:"payment_plan_id"`
	PaymentPlanSchoolID uuid.UUID `gorm:"column:payment_plan_school_id;type:uuid;not null;index:idx_payment_plans_school" json:"payment_plan_school_id"`

	PaymentPlanStudentID uuid.UUID  `gorm:"column:payment_plan_student_id;type:uuid;not null;index:idx_payment_plans_student" json:"payment_plan_student_id"`
	PaymentPlanInvoiceID *uuid.UUID `gorm:"column:payment_plan_invoice_id;type:uuid;index:idx_payment_plans_invoice" json:"payment_plan_invoice_id,omitempty"`

	PaymentPlanName             string        `gorm:"column:payment_plan_name;type:varchar(120);not null" json:"payment_plan_name"`
	PaymentPlanTotalAmount      int           `gorm:"column:payment_plan_total_amount;not null;check:payment_plan_total_amount>0" json:"payment_plan_total_amount"`
	PaymentPlanDownPayment      int           `gorm:"column:payment_plan_down_payment;not null;default:0;check:payment_plan_down_payment>=0" json:"payment_plan_down_payment"`
	PaymentPlanInstallmentCount int           `gorm:"column:payment_plan_installment_count;not null;check:payment_plan_installment_count>0" json:"payment_plan_installment_count"`
	PaymentPlanFrequency        PlanFrequency `gorm:"column:payment_plan_frequency;type:varchar(12);not null" json:"payment_plan_frequency"`
	PaymentPlanStartDate        time.Time     `gorm:"column:payment_plan_start_date;not null" json:"payment_plan_start_date"`

	PaymentPlanStatus PlanStatus `gorm:"column:payment_plan_status;type:varchar(12);not null;default:'active';index:idx_payment_plans_status" json:"payment_plan_status"`

	PaymentPlanCreatedAt time.Time      `gorm:"column:payment_plan_created_at;not null;autoCreateTime" json:"payment_plan_created_at"`
	PaymentPlanUpdatedAt time.Time      `gorm:"column:payment_plan_updated_at;not null;autoUpdateTime" json:"payment_plan_updated_at"`
	PaymentPlanDeletedAt gorm.DeletedAt `gorm:"column:payment_plan_deleted_at;index" json:"-"`

	PaymentPlanInstallments []PlanInstallment `gorm:"foreignKey:PlanInstallmentPlanID;references:PaymentPlanID" json:"payment_plan_installments,omitempty"`
}

func (PaymentPlan) TableName() string { return "payment_plans" }

func (m *PaymentPlan) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentPlanID == uuid.Nil {
		m.PaymentPlanID = uuid.New()
	}
	return nil
}

// =========================================================
// MODEL: plan installment
// =========================================================

// PlanInstallment transitions pending→partial→paid monotonically. Sum of
// amounts plus the plan's down payment equals the plan total (up to rounding).
type PlanInstallment struct {
	PlanInstallmentID     uuid.UUID `gorm:"column:plan_installment_id;type:uuid;primaryKey" json:"plan_installment_id"`
	PlanInstallmentPlanID uuid.UUID `gorm:"column:plan_installment_plan_id;type:uuid;not null;index:idx_plan_installments_plan;uniqueIndex:uniq_plan_installment_no,priority:1" json:"plan_installment_plan_id"`

	PlanInstallmentNumber  int       `gorm:"column:plan_installment_number;not null;uniqueIndex:uniq_plan_installment_no,priority:2" json:"plan_installment_number"`
	PlanInstallmentDueDate time.Time `gorm:"column:plan_installment_due_date;not null" json:"plan_installment_due_date"`

	PlanInstallmentAmount     int `gorm:"column:plan_installment_amount;not null;check:plan_installment_amount>=0" json:"plan_installment_amount"`
	PlanInstallmentPaidAmount int `gorm:"column:plan_installment_paid_amount;not null;default:0" json:"plan_installment_paid_amount"`

	PlanInstallmentPaidAt *time.Time        `gorm:"column:plan_installment_paid_at" json:"plan_installment_paid_at,omitempty"`
	PlanInstallmentStatus InstallmentStatus `gorm:"column:plan_installment_status;type:varchar(12);not null;default:'pending'" json:"plan_installment_status"`

	PlanInstallmentCreatedAt time.Time `gorm:"column:plan_installment_created_at;not null;autoCreateTime" json:"plan_installment_created_at"`
	PlanInstallmentUpdatedAt time.Time `gorm:"column:plan_installment_updated_at;not null;autoUpdateTime" json:"plan_installment_updated_at"`
}

func (PlanInstallment) TableName() string { return "plan_installments" }

func (m *PlanInstallment) BeforeCreate(tx *gorm.DB) error {
	if m.PlanInstallmentID == uuid.Nil {
		m.PlanInstallmentID = uuid.New()
	}
	return nil
}
