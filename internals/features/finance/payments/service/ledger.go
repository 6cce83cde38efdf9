package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	invoiceservice "schoolbill_backend/internals/features/finance/invoices/service"
	"schoolbill_backend/internals/features/finance/payments/model"
	studentmodel "schoolbill_backend/internals/features/school/students/model"
)

// Domain errors surfaced to the HTTP layer. All of them abort the enclosing
// transaction before any write sticks.
var (
	ErrStudentAccess   = errors.New("student does not belong to this school")
	ErrOverpayment     = errors.New("amount exceeds the invoice balance")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrAlreadyVoided   = errors.New("payment is already voided")
)

// Ledger records fee payments and keeps the fee_payments, finance_transactions
// and invoices tables consistent with each other.
type Ledger struct {
	DB *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{DB: db}
}

type RecordPaymentParams struct {
	SchoolID  uuid.UUID
	UserID    uuid.UUID
	StudentID uuid.UUID
	FeeType   string
	Amount    int
	Term      int16
	Year      int16
	Method    model.PaymentMethod
	Notes     *string
}

// RecordPayment writes the payment audit row, its ledger credit and the
// invoice update as one transaction; all three land or none do.
//
// The overpayment guard deliberately fires only while the invoice still has a
// positive balance. Payments against an already settled invoice are accepted
// unchecked. Longstanding product behavior, kept until product says otherwise.
func (s *Ledger) RecordPayment(ctx context.Context, p RecordPaymentParams) (*model.FeePayment, error) {
	db := s.DB.WithContext(ctx)

	if err := EnsureStudentInSchool(db, p.SchoolID, p.StudentID); err != nil {
		return nil, err
	}

	var payment *model.FeePayment
	err := db.Transaction(func(tx *gorm.DB) error {
		invoice, err := invoiceservice.FindInvoiceForPeriod(tx, p.SchoolID, p.StudentID, p.Term, p.Year)
		if err != nil {
			return err
		}

		dueBefore := 0
		if invoice != nil {
			dueBefore = invoice.InvoiceBalance
		}
		if invoice != nil && invoice.InvoiceBalance > 0 && p.Amount > invoice.InvoiceBalance {
			return ErrOverpayment
		}

		term := p.Term
		payment, err = InsertLedgerPair(tx, LedgerPairParams{
			SchoolID:   p.SchoolID,
			StudentID:  p.StudentID,
			FeeType:    p.FeeType,
			Amount:     p.Amount,
			AmountDue:  dueBefore,
			Term:       &term,
			Year:       p.Year,
			Method:     p.Method,
			Notes:      p.Notes,
			ReceivedBy: p.UserID,
			Descriptor: fmt.Sprintf("%s fees", p.FeeType),
		})
		if err != nil {
			return err
		}

		if invoice != nil {
			if _, err := invoiceservice.ApplyPaymentToInvoice(tx, invoice.InvoiceID, p.Amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// LedgerPairParams drives the shared FeePayment + FinanceTransaction insert
// used by both the direct payment path and the plan installment path.
type LedgerPairParams struct {
	SchoolID   uuid.UUID
	StudentID  uuid.UUID
	FeeType    string
	Amount     int
	AmountDue  int // invoice balance before this payment (0 when no invoice)
	Term       *int16
	Year       int16
	Method     model.PaymentMethod
	Notes      *string
	ReceivedBy uuid.UUID
	Descriptor string // human fragment for the ledger description
}

// InsertLedgerPair allocates a receipt number and writes the payment audit row
// plus its ledger credit. Must run inside a transaction.
func InsertLedgerPair(tx *gorm.DB, p LedgerPairParams) (*model.FeePayment, error) {
	receipt, err := AllocateReceiptNumber(tx, p.SchoolID, p.Year)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	balance := p.AmountDue - p.Amount
	if balance < 0 {
		balance = 0
	}
	status := model.PaymentStatusPartial
	if balance <= 0 {
		status = model.PaymentStatusPaid
	}

	payment := model.FeePayment{
		FeePaymentSchoolID:      p.SchoolID,
		FeePaymentStudentID:     p.StudentID,
		FeePaymentFeeType:       p.FeeType,
		FeePaymentAmountDue:     p.AmountDue,
		FeePaymentAmountPaid:    p.Amount,
		FeePaymentBalance:       balance,
		FeePaymentTerm:          p.Term,
		FeePaymentYear:          p.Year,
		FeePaymentDate:          now,
		FeePaymentMethod:        p.Method,
		FeePaymentReceiptNumber: receipt,
		FeePaymentStatus:        status,
		FeePaymentNotes:         p.Notes,
		FeePaymentReceivedBy:    p.ReceivedBy,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return nil, err
	}

	descriptor := strings.TrimSpace(p.Descriptor)
	if descriptor == "" {
		descriptor = "fee payment"
	}
	studentID := p.StudentID
	trx := model.FinanceTransaction{
		FinanceTransactionSchoolID:     p.SchoolID,
		FinanceTransactionStudentID:    &studentID,
		FinanceTransactionType:         model.TransactionTypeCredit,
		FinanceTransactionAmount:       p.Amount,
		FinanceTransactionDescription:  fmt.Sprintf("Payment received for %s (receipt %s)", descriptor, receipt),
		FinanceTransactionFeePaymentID: &payment.FeePaymentID,
		FinanceTransactionTerm:         p.Term,
		FinanceTransactionYear:         p.Year,
		FinanceTransactionDate:         now,
	}
	if err := tx.Create(&trx).Error; err != nil {
		return nil, err
	}

	return &payment, nil
}

// EnsureStudentInSchool enforces the tenant boundary on student-scoped writes.
func EnsureStudentInSchool(db *gorm.DB, schoolID, studentID uuid.UUID) error {
	var n int64
	if err := db.Model(&studentmodel.Student{}).
		Where("student_id = ? AND student_school_id = ?", studentID, schoolID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrStudentAccess
	}
	return nil
}
