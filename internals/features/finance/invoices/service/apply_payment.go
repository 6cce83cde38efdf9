package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/invoices/model"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

// ApplyPaymentToInvoice adds amount (negative for reversals) to an invoice's
// amount_paid and recomputes balance and status in the same statement. Both
// the direct payment path and the plan installment path go through here, so
// concurrent applications serialize on the row update instead of racing a
// read-modify-write. Must run inside the caller's transaction.
func ApplyPaymentToInvoice(tx *gorm.DB, invoiceID uuid.UUID, amount int) (*model.Invoice, error) {
	res := tx.Exec(`
		UPDATE invoices SET
			invoice_amount_paid = invoice_amount_paid + ?,
			invoice_balance = CASE
				WHEN invoice_total_amount - (invoice_amount_paid + ?) > 0
				THEN invoice_total_amount - (invoice_amount_paid + ?)
				ELSE 0 END,
			invoice_status = CASE
				WHEN invoice_amount_paid + ? <= 0 THEN 'unpaid'
				WHEN invoice_amount_paid + ? >= invoice_total_amount THEN 'paid'
				ELSE 'partial' END,
			invoice_updated_at = ?
		WHERE invoice_id = ? AND invoice_deleted_at IS NULL`,
		amount, amount, amount, amount, amount, time.Now(), invoiceID,
	)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvoiceNotFound
	}

	var inv model.Invoice
	if err := tx.First(&inv, "invoice_id = ?", invoiceID).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindInvoiceForPeriod returns the invoice for (school, student, term, year),
// or nil when the student has none for that period.
func FindInvoiceForPeriod(tx *gorm.DB, schoolID, studentID uuid.UUID, term, year int16) (*model.Invoice, error) {
	var inv model.Invoice
	err := tx.First(&inv,
		"invoice_school_id = ? AND invoice_student_id = ? AND invoice_term = ? AND invoice_year = ?",
		schoolID, studentID, term, year,
	).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
