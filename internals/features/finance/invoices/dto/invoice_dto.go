package dto

import "time"

// Bulk generation request for one billing period.
type InvoiceGenerateDTO struct {
	InvoiceTerm       int16      `json:"invoice_term" validate:"required,min=1,max=3"`
	InvoiceYear       int16      `json:"invoice_year" validate:"required,min=2020,max=2100"`
	InvoiceClassLevel *string    `json:"invoice_class_level,omitempty"`
	InvoiceDueDate    *time.Time `json:"invoice_due_date,omitempty"`
}

// Update (partial): only due date and notes are editable by hand. Amounts,
// items and status move exclusively through payments.
type InvoiceUpdateDTO struct {
	InvoiceDueDate *time.Time `json:"invoice_due_date,omitempty"`
	InvoiceNotes   *string    `json:"invoice_notes,omitempty"`
}

// Bulk reminder request.
type InvoiceBulkRemindDTO struct {
	InvoiceTerm *int16 `json:"invoice_term,omitempty" validate:"omitempty,min=1,max=3"`
	InvoiceYear *int16 `json:"invoice_year,omitempty" validate:"omitempty,min=2020,max=2100"`
}
