package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM: invoice status
// =========================================================

type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// ComputeStatus derives the invoice status from (totalAmount, amountPaid).
// Status is a pure function of that pair:
//
//	unpaid  → amountPaid <= 0
//	paid    → amountPaid >= totalAmount
//	partial → otherwise
func ComputeStatus(totalAmount, amountPaid int) InvoiceStatus {
	switch {
	case amountPaid <= 0:
		return InvoiceStatusUnpaid
	case amountPaid >= totalAmount:
		return InvoiceStatusPaid
	default:
		return InvoiceStatusPartial
	}
}

// ComputeBalance clamps the outstanding balance at zero.
func ComputeBalance(totalAmount, amountPaid int) int {
	if b := totalAmount - amountPaid; b > 0 {
		return b
	}
	return 0
}

// =========================================================
// MODEL: invoice
// =========================================================

// Invoice is the billed amount owed by one student for one term/year. At most
// one exists per (school, student, term, year); only the paid/balance/status
// trio, due date, notes and reminder metadata mutate after creation.
type Invoice struct {
	InvoiceID       uuid.UUID `gorm:"column:invoice_id;type:uuid;primaryKey" json:"invoice_id"`
	InvoiceSchoolID uuid.UUID `gorm:"column:invoice_school_id;type:uuid;not null;index:idx_invoices_school;uniqueIndex:uniq_invoice_period,priority:1" json:"invoice_school_id"`

	InvoiceStudentID uuid.UUID `gorm:"column:invoice_student_id;type:uuid;not null;index:idx_invoices_student;uniqueIndex:uniq_invoice_period,priority:2" json:"invoice_student_id"`
	InvoiceNumber    string    `gorm:"column:invoice_number;type:varchar(60);not null;uniqueIndex:uniq_invoice_number" json:"invoice_number"`

	InvoiceTerm int16 `gorm:"column:invoice_term;type:smallint;not null;uniqueIndex:uniq_invoice_period,priority:3" json:"invoice_term"`
	InvoiceYear int16 `gorm:"column:invoice_year;type:smallint;not null;uniqueIndex:uniq_invoice_period,priority:4" json:"invoice_year"`

	InvoiceTotalAmount int `gorm:"column:invoice_total_amount;not null;check:invoice_total_amount>=0" json:"invoice_total_amount"`
	InvoiceAmountPaid  int `gorm:"column:invoice_amount_paid;not null;default:0" json:"invoice_amount_paid"`
	InvoiceBalance     int `gorm:"column:invoice_balance;not null;default:0" json:"invoice_balance"`

	InvoiceDueDate *time.Time    `gorm:"column:invoice_due_date" json:"invoice_due_date,omitempty"`
	InvoiceStatus  InvoiceStatus `gorm:"column:invoice_status;type:varchar(12);not null;default:'unpaid';index:idx_invoices_status" json:"invoice_status"`
	InvoiceNotes   *string       `gorm:"column:invoice_notes;type:text" json:"invoice_notes,omitempty"`

	InvoiceReminderSentAt *time.Time `gorm:"column:invoice_reminder_sent_at" json:"invoice_reminder_sent_at,omitempty"`
	InvoiceReminderCount  int        `gorm:"column:invoice_reminder_count;not null;default:0" json:"invoice_reminder_count"`

	InvoiceCreatedAt time.Time      `gorm:"column:invoice_created_at;not null;autoCreateTime" json:"invoice_created_at"`
	InvoiceUpdatedAt time.Time      `gorm:"column:invoice_updated_at;not null;autoUpdateTime" json:"invoice_updated_at"`
	InvoiceDeletedAt gorm.DeletedAt `gorm:"column:invoice_deleted_at;index" json:"-"`

	InvoiceItems []InvoiceItem `gorm:"foreignKey:InvoiceItemInvoiceID;references:InvoiceID" json:"invoice_items,omitempty"`
}

func (Invoice) TableName() string { return "invoices" }

func (m *Invoice) BeforeCreate(tx *gorm.DB) error {
	if m.InvoiceID == uuid.Nil {
		m.InvoiceID = uuid.New()
	}
	return nil
}

// =========================================================
// MODEL: invoice line item (immutable after creation)
// =========================================================

type InvoiceItem struct {
	InvoiceItemID        uuid.UUID `gorm:"column:invoice_item_id;type:uuid;primaryKey" json:"invoice_item_id"`
	InvoiceItemInvoiceID uuid.UUID `gorm:"column:invoice_item_invoice_id;type:uuid;not null;index:idx_invoice_items_invoice" json:"invoice_item_invoice_id"`

	InvoiceItemFeeType     string `gorm:"column:invoice_item_fee_type;type:varchar(60);not null" json:"invoice_item_fee_type"`
	InvoiceItemDescription string `gorm:"column:invoice_item_description;type:text" json:"invoice_item_description"`
	InvoiceItemAmount      int    `gorm:"column:invoice_item_amount;not null;check:invoice_item_amount>=0" json:"invoice_item_amount"`

	InvoiceItemCreatedAt time.Time `gorm:"column:invoice_item_created_at;not null;autoCreateTime" json:"invoice_item_created_at"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

func (m *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if m.InvoiceItemID == uuid.Nil {
		m.InvoiceItemID = uuid.New()
	}
	return nil
}
