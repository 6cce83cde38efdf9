package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolbill_backend/internals/features/finance/invoices/model"
	studentmodel "schoolbill_backend/internals/features/school/students/model"
	"schoolbill_backend/internals/testutil"
)

func TestApplyPaymentToInvoiceTransitions(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)

	inv := model.Invoice{
		InvoiceSchoolID:    schoolID,
		InvoiceStudentID:   st.StudentID,
		InvoiceNumber:      InvoiceNumber(2025, 1, schoolID, st.StudentID),
		InvoiceTerm:        1,
		InvoiceYear:        2025,
		InvoiceTotalAmount: 500000,
		InvoiceBalance:     500000,
		InvoiceStatus:      model.InvoiceStatusUnpaid,
	}
	require.NoError(t, db.Create(&inv).Error)

	got, err := ApplyPaymentToInvoice(db, inv.InvoiceID, 200000)
	require.NoError(t, err)
	assert.Equal(t, 200000, got.InvoiceAmountPaid)
	assert.Equal(t, 300000, got.InvoiceBalance)
	assert.Equal(t, model.InvoiceStatusPartial, got.InvoiceStatus)

	got, err = ApplyPaymentToInvoice(db, inv.InvoiceID, 300000)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, got.InvoiceStatus)
	assert.Equal(t, 0, got.InvoiceBalance)

	// Negative amounts reverse; used by the void path.
	got, err = ApplyPaymentToInvoice(db, inv.InvoiceID, -500000)
	require.NoError(t, err)
	assert.Equal(t, 0, got.InvoiceAmountPaid)
	assert.Equal(t, 500000, got.InvoiceBalance)
	assert.Equal(t, model.InvoiceStatusUnpaid, got.InvoiceStatus)
}

func TestApplyPaymentToInvoiceNotFound(t *testing.T) {
	db := testutil.OpenDB(t)

	_, err := ApplyPaymentToInvoice(db, uuid.New(), 1000)
	require.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestFindInvoiceForPeriod(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)

	inv := model.Invoice{
		InvoiceSchoolID:    schoolID,
		InvoiceStudentID:   st.StudentID,
		InvoiceNumber:      InvoiceNumber(2025, 1, schoolID, st.StudentID),
		InvoiceTerm:        1,
		InvoiceYear:        2025,
		InvoiceTotalAmount: 100,
		InvoiceBalance:     100,
		InvoiceStatus:      model.InvoiceStatusUnpaid,
	}
	require.NoError(t, db.Create(&inv).Error)

	got, err := FindInvoiceForPeriod(db, schoolID, st.StudentID, 1, 2025)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, inv.InvoiceID, got.InvoiceID)

	// Missing period is not an error; payments may stand alone.
	got, err = FindInvoiceForPeriod(db, schoolID, st.StudentID, 2, 2025)
	require.NoError(t, err)
	assert.Nil(t, got)
}
