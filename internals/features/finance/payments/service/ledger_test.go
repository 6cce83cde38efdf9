package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	invoicemodel "schoolbill_backend/internals/features/finance/invoices/model"
	invoiceservice "schoolbill_backend/internals/features/finance/invoices/service"
	"schoolbill_backend/internals/features/finance/payments/model"
	studentmodel "schoolbill_backend/internals/features/school/students/model"
	"schoolbill_backend/internals/testutil"
)

func seedInvoice(t *testing.T, db *gorm.DB, schoolID, studentID uuid.UUID, term, year int16, total int) invoicemodel.Invoice {
	t.Helper()
	inv := invoicemodel.Invoice{
		InvoiceSchoolID:    schoolID,
		InvoiceStudentID:   studentID,
		InvoiceNumber:      invoiceservice.InvoiceNumber(year, term, schoolID, studentID),
		InvoiceTerm:        term,
		InvoiceYear:        year,
		InvoiceTotalAmount: total,
		InvoiceBalance:     total,
		InvoiceStatus:      invoicemodel.InvoiceStatusUnpaid,
	}
	require.NoError(t, db.Create(&inv).Error)
	return inv
}

func recordParams(schoolID uuid.UUID, studentID uuid.UUID, amount int) RecordPaymentParams {
	return RecordPaymentParams{
		SchoolID:  schoolID,
		UserID:    uuid.New(),
		StudentID: studentID,
		FeeType:   "tuition",
		Amount:    amount,
		Term:      1,
		Year:      2025,
		Method:    model.PaymentMethodCash,
	}
}

func TestRecordPaymentWritesAllThreeLedgers(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)
	inv := seedInvoice(t, db, schoolID, st.StudentID, 1, 2025, 500000)

	payment, err := NewLedger(db).RecordPayment(context.Background(), recordParams(schoolID, st.StudentID, 200000))
	require.NoError(t, err)

	assert.Equal(t, "REC-2025-1", payment.FeePaymentReceiptNumber)
	assert.Equal(t, 500000, payment.FeePaymentAmountDue)
	assert.Equal(t, 200000, payment.FeePaymentAmountPaid)
	assert.Equal(t, 300000, payment.FeePaymentBalance)
	assert.Equal(t, model.PaymentStatusPartial, payment.FeePaymentStatus)
	require.NotNil(t, payment.FeePaymentTerm)
	assert.EqualValues(t, 1, *payment.FeePaymentTerm)

	var got invoicemodel.Invoice
	require.NoError(t, db.First(&got, "invoice_id = ?", inv.InvoiceID).Error)
	assert.Equal(t, 200000, got.InvoiceAmountPaid)
	assert.Equal(t, 300000, got.InvoiceBalance)
	assert.Equal(t, invoicemodel.InvoiceStatusPartial, got.InvoiceStatus)

	var trx model.FinanceTransaction
	require.NoError(t, db.First(&trx, "finance_transaction_fee_payment_id = ?", payment.FeePaymentID).Error)
	assert.Equal(t, model.TransactionTypeCredit, trx.FinanceTransactionType)
	assert.Equal(t, 200000, trx.FinanceTransactionAmount)
	assert.Contains(t, trx.FinanceTransactionDescription, payment.FeePaymentReceiptNumber)
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)
	inv := seedInvoice(t, db, schoolID, st.StudentID, 1, 2025, 300000)

	_, err := NewLedger(db).RecordPayment(context.Background(), recordParams(schoolID, st.StudentID, 400000))
	require.ErrorIs(t, err, ErrOverpayment)

	// Nothing sticks: no payment, no ledger row, invoice untouched.
	var payments, transactions int64
	require.NoError(t, db.Model(&model.FeePayment{}).Count(&payments).Error)
	require.NoError(t, db.Model(&model.FinanceTransaction{}).Count(&transactions).Error)
	assert.EqualValues(t, 0, payments)
	assert.EqualValues(t, 0, transactions)

	var got invoicemodel.Invoice
	require.NoError(t, db.First(&got, "invoice_id = ?", inv.InvoiceID).Error)
	assert.Equal(t, 0, got.InvoiceAmountPaid)
	assert.Equal(t, 300000, got.InvoiceBalance)
}

func TestRecordPaymentOnSettledInvoiceIsAccepted(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)
	inv := seedInvoice(t, db, schoolID, st.StudentID, 1, 2025, 300000)

	ledger := NewLedger(db)
	_, err := ledger.RecordPayment(context.Background(), recordParams(schoolID, st.StudentID, 300000))
	require.NoError(t, err)

	// The guard only fires while the balance is positive, so any amount goes
	// through once the invoice is settled.
	extra, err := ledger.RecordPayment(context.Background(), recordParams(schoolID, st.StudentID, 999999))
	require.NoError(t, err)
	assert.Equal(t, 0, extra.FeePaymentAmountDue)
	assert.Equal(t, model.PaymentStatusPaid, extra.FeePaymentStatus)

	var got invoicemodel.Invoice
	require.NoError(t, db.First(&got, "invoice_id = ?", inv.InvoiceID).Error)
	assert.Equal(t, 1299999, got.InvoiceAmountPaid)
	assert.Equal(t, 0, got.InvoiceBalance, "balance is clamped at zero")
	assert.Equal(t, invoicemodel.InvoiceStatusPaid, got.InvoiceStatus)
}

func TestRecordPaymentWithoutInvoiceStandsAlone(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)

	payment, err := NewLedger(db).RecordPayment(context.Background(), recordParams(schoolID, st.StudentID, 150000))
	require.NoError(t, err)
	assert.Equal(t, 0, payment.FeePaymentAmountDue)
	assert.Equal(t, 0, payment.FeePaymentBalance)
	assert.Equal(t, model.PaymentStatusPaid, payment.FeePaymentStatus)
}

func TestReceiptNumbersAreSequentialPerSchoolYear(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)

	ledger := NewLedger(db)
	for i, want := range []string{"REC-2025-1", "REC-2025-2", "REC-2025-3"} {
		p, err := ledger.RecordPayment(context.Background(), recordParams(schoolID, st.StudentID, 1000+i))
		require.NoError(t, err)
		assert.Equal(t, want, p.FeePaymentReceiptNumber)
	}

	// A different school has its own counter.
	otherSchool := uuid.New()
	otherStudent := testutil.SeedStudent(t, db, otherSchool, "Bob Okello", "P1", studentmodel.BoardingStatusDay)
	p, err := ledger.RecordPayment(context.Background(), recordParams(otherSchool, otherStudent.StudentID, 5000))
	require.NoError(t, err)
	assert.Equal(t, "REC-2025-1", p.FeePaymentReceiptNumber)
}

func TestRecordPaymentEnforcesTenantBoundary(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolA := uuid.New()
	schoolB := uuid.New()
	foreign := testutil.SeedStudent(t, db, schoolB, "Foreign Student", "P1", studentmodel.BoardingStatusDay)

	_, err := NewLedger(db).RecordPayment(context.Background(), recordParams(schoolA, foreign.StudentID, 1000))
	require.ErrorIs(t, err, ErrStudentAccess)
}
