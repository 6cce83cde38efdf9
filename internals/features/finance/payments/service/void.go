package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	invoiceservice "schoolbill_backend/internals/features/finance/invoices/service"
	"schoolbill_backend/internals/features/finance/payments/model"
)

type VoidParams struct {
	PaymentID uuid.UUID
	SchoolID  uuid.UUID
	UserID    uuid.UUID
	Reason    string
}

// VoidPayment reverses a recorded payment across all three ledgers in one
// transaction: flags the FeePayment, flags the matching FinanceTransaction,
// and backs the amount out of the invoice. Nothing is deleted; a crash cannot
// leave the payment flagged but the invoice unreversed.
func (s *Ledger) VoidPayment(ctx context.Context, p VoidParams) (*model.FeePayment, error) {
	db := s.DB.WithContext(ctx)

	var payment model.FeePayment
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&payment,
			"fee_payment_id = ? AND fee_payment_school_id = ?", p.PaymentID, p.SchoolID,
		).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		if err != nil {
			return err
		}
		if payment.FeePaymentIsVoided {
			return ErrAlreadyVoided
		}

		now := time.Now()
		payment.FeePaymentIsVoided = true
		payment.FeePaymentVoidReason = &p.Reason
		payment.FeePaymentUpdatedAt = now
		if err := tx.Model(&model.FeePayment{}).
			Where("fee_payment_id = ?", payment.FeePaymentID).
			Updates(map[string]any{
				"fee_payment_is_voided":   true,
				"fee_payment_void_reason": p.Reason,
				"fee_payment_updated_at":  now,
			}).Error; err != nil {
			return err
		}

		if err := voidFinanceTransaction(tx, &payment); err != nil {
			return err
		}

		// Back the amount out of the invoice, if the period has one.
		if payment.FeePaymentTerm != nil {
			invoice, err := invoiceservice.FindInvoiceForPeriod(tx,
				payment.FeePaymentSchoolID, payment.FeePaymentStudentID,
				*payment.FeePaymentTerm, payment.FeePaymentYear,
			)
			if err != nil {
				return err
			}
			if invoice != nil {
				if _, err := invoiceservice.ApplyPaymentToInvoice(tx, invoice.InvoiceID, -payment.FeePaymentAmountPaid); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// voidFinanceTransaction flags the ledger row caused by the payment. Rows
// written by this codebase carry the fee_payment_id back-reference; older rows
// are matched by (school, student, credit, amount, receipt in description).
func voidFinanceTransaction(tx *gorm.DB, payment *model.FeePayment) error {
	res := tx.Model(&model.FinanceTransaction{}).
		Where("finance_transaction_fee_payment_id = ? AND finance_transaction_is_voided = ?", payment.FeePaymentID, false).
		Update("finance_transaction_is_voided", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Legacy fallback: best-effort textual match on the receipt number.
	var legacy model.FinanceTransaction
	err := tx.
		Where("finance_transaction_school_id = ?", payment.FeePaymentSchoolID).
		Where("finance_transaction_student_id = ?", payment.FeePaymentStudentID).
		Where("finance_transaction_type = ?", model.TransactionTypeCredit).
		Where("finance_transaction_amount = ?", payment.FeePaymentAmountPaid).
		Where("finance_transaction_is_voided = ?", false).
		Where("finance_transaction_description LIKE ?", "%"+payment.FeePaymentReceiptNumber+"%").
		Order("finance_transaction_created_at ASC").
		First(&legacy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No matching ledger row; the void still proceeds.
		return nil
	}
	if err != nil {
		return err
	}
	return tx.Model(&legacy).Update("finance_transaction_is_voided", true).Error
}
