package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	expensemodel "schoolbill_backend/internals/features/finance/expenses/model"
	paymentmodel "schoolbill_backend/internals/features/finance/payments/model"
	studentmodel "schoolbill_backend/internals/features/school/students/model"
	"schoolbill_backend/internals/testutil"
)

func seedTransaction(t *testing.T, db *gorm.DB, schoolID uuid.UUID, typ paymentmodel.TransactionType, amount int, voided bool) {
	t.Helper()
	trx := paymentmodel.FinanceTransaction{
		FinanceTransactionSchoolID:    schoolID,
		FinanceTransactionType:        typ,
		FinanceTransactionAmount:      amount,
		FinanceTransactionDescription: "seed",
		FinanceTransactionYear:        2025,
		FinanceTransactionDate:        time.Now(),
		FinanceTransactionIsVoided:    voided,
	}
	require.NoError(t, db.Create(&trx).Error)
}

func seedPayment(t *testing.T, db *gorm.DB, schoolID, studentID uuid.UUID, amount int, voided bool) {
	t.Helper()
	term := int16(1)
	p := paymentmodel.FeePayment{
		FeePaymentSchoolID:      schoolID,
		FeePaymentStudentID:     studentID,
		FeePaymentFeeType:       "tuition",
		FeePaymentAmountPaid:    amount,
		FeePaymentTerm:          &term,
		FeePaymentYear:          2025,
		FeePaymentDate:          time.Now(),
		FeePaymentMethod:        paymentmodel.PaymentMethodCash,
		FeePaymentReceiptNumber: "REC-2025-" + uuid.NewString()[:8],
		FeePaymentStatus:        paymentmodel.PaymentStatusPaid,
		FeePaymentIsVoided:      voided,
		FeePaymentReceivedBy:    uuid.New(),
	}
	require.NoError(t, db.Create(&p).Error)
}

func TestFinancialSummary(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)

	seedDebtorInvoice(t, db, schoolID, st.StudentID, 1, 1000000, 400000, nil)

	seedTransaction(t, db, schoolID, paymentmodel.TransactionTypeCredit, 400000, false)
	seedTransaction(t, db, schoolID, paymentmodel.TransactionTypeDebit, 50000, false)
	seedTransaction(t, db, schoolID, paymentmodel.TransactionTypeCredit, 999999, true) // voided, ignored

	seedPayment(t, db, schoolID, st.StudentID, 400000, false)
	seedPayment(t, db, schoolID, st.StudentID, 123456, true) // voided, ignored

	exp := expensemodel.Expense{
		ExpenseSchoolID:   schoolID,
		ExpenseCategory:   "utilities",
		ExpenseAmount:     100000,
		ExpenseDate:       time.Now(),
		ExpenseRecordedBy: uuid.New(),
	}
	require.NoError(t, db.Create(&exp).Error)

	got, err := NewStats(db).FinancialSummary(context.Background(), schoolID)
	require.NoError(t, err)

	assert.EqualValues(t, 400000, got.TotalCredits)
	assert.EqualValues(t, 50000, got.TotalDebits)
	assert.EqualValues(t, 1000000, got.TotalInvoiced)
	assert.EqualValues(t, 400000, got.TotalCollected)
	assert.EqualValues(t, 600000, got.TotalOutstanding)
	assert.EqualValues(t, 100000, got.TotalExpenses)
	assert.EqualValues(t, 300000, got.NetIncome)
	assert.Equal(t, 40, got.CollectionRate)
}

func TestFinancialSummaryEmptySchool(t *testing.T) {
	db := testutil.OpenDB(t)

	got, err := NewStats(db).FinancialSummary(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.TotalInvoiced)
	assert.Equal(t, 0, got.CollectionRate, "no billing means a zero rate, not a division error")
}

func TestHubStatsNarrowsToPeriod(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	alice := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)
	bob := testutil.SeedStudent(t, db, schoolID, "Bob Okello", "P1", studentmodel.BoardingStatusDay)

	seedDebtorInvoice(t, db, schoolID, alice.StudentID, 1, 500000, 500000, nil) // settled
	seedDebtorInvoice(t, db, schoolID, bob.StudentID, 1, 500000, 100000, nil)   // debtor
	seedDebtorInvoice(t, db, schoolID, alice.StudentID, 2, 300000, 0, nil)      // other term

	term := int16(1)
	year := int16(2025)
	got, err := NewStats(db).HubStats(context.Background(), schoolID, &term, &year)
	require.NoError(t, err)

	assert.EqualValues(t, 2, got.InvoiceCount)
	assert.EqualValues(t, 1, got.DebtorCount)
	assert.EqualValues(t, 1000000, got.TotalDue)
	assert.EqualValues(t, 600000, got.TotalCollected)
	assert.EqualValues(t, 400000, got.Outstanding)
	assert.Equal(t, 60, got.CollectionRate)
}

func TestCollectionRateRounds(t *testing.T) {
	assert.Equal(t, 0, collectionRate(0, 0))
	assert.Equal(t, 33, collectionRate(3, 1))
	assert.Equal(t, 67, collectionRate(3, 2))
	assert.Equal(t, 100, collectionRate(3, 3))
}
