package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	invoicemodel "schoolbill_backend/internals/features/finance/invoices/model"
	invoiceservice "schoolbill_backend/internals/features/finance/invoices/service"
	studentmodel "schoolbill_backend/internals/features/school/students/model"
	"schoolbill_backend/internals/testutil"
)

func seedDebtorInvoice(t *testing.T, db *gorm.DB, schoolID, studentID uuid.UUID, term int16, total, paid int, due *time.Time) invoicemodel.Invoice {
	t.Helper()
	inv := invoicemodel.Invoice{
		InvoiceSchoolID:    schoolID,
		InvoiceStudentID:   studentID,
		InvoiceNumber:      invoiceservice.InvoiceNumber(2025, term, schoolID, studentID),
		InvoiceTerm:        term,
		InvoiceYear:        2025,
		InvoiceTotalAmount: total,
		InvoiceAmountPaid:  paid,
		InvoiceBalance:     invoicemodel.ComputeBalance(total, paid),
		InvoiceDueDate:     due,
		InvoiceStatus:      invoicemodel.ComputeStatus(total, paid),
	}
	require.NoError(t, db.Create(&inv).Error)
	return inv
}

func TestListDebtorsBucketsByDaysOverdue(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

	alice := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)
	bob := testutil.SeedStudent(t, db, schoolID, "Bob Okello", "P1", studentmodel.BoardingStatusDay)
	carol := testutil.SeedStudent(t, db, schoolID, "Carol Apio", "P2", studentmodel.BoardingStatusDay)

	due40 := now.AddDate(0, 0, -40)
	dueFuture := now.AddDate(0, 0, 10)
	due100 := now.AddDate(0, 0, -100)

	seedDebtorInvoice(t, db, schoolID, alice.StudentID, 1, 500000, 300000, &due40)
	seedDebtorInvoice(t, db, schoolID, bob.StudentID, 1, 400000, 0, &dueFuture)
	seedDebtorInvoice(t, db, schoolID, carol.StudentID, 1, 300000, 100000, &due100)
	// Fully paid invoices never show up as debtors.
	seedDebtorInvoice(t, db, schoolID, alice.StudentID, 2, 500000, 500000, &due40)

	rows, summary, total, err := NewDebtors(db).ListDebtors(context.Background(), ListDebtorsParams{
		SchoolID: schoolID,
		Now:      now,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 3)

	byStudent := map[uuid.UUID]DebtorRow{}
	for _, r := range rows {
		byStudent[r.StudentID] = r
	}

	assert.Equal(t, 40, byStudent[alice.StudentID].DaysOverdue)
	assert.Equal(t, Bucket31To60, byStudent[alice.StudentID].AgingBucket)
	assert.Equal(t, 0, byStudent[bob.StudentID].DaysOverdue)
	assert.Equal(t, BucketCurrent, byStudent[bob.StudentID].AgingBucket)
	assert.Equal(t, BucketOver90, byStudent[carol.StudentID].AgingBucket)

	assert.EqualValues(t, 200000+400000+200000, summary.TotalOutstanding)
	assert.EqualValues(t, 200000, summary.Buckets[Bucket31To60])
	assert.EqualValues(t, 400000, summary.Buckets[BucketCurrent])
	assert.EqualValues(t, 200000, summary.Buckets[BucketOver90])
	assert.EqualValues(t, 0, summary.Buckets[Bucket1To30])
}

func TestListDebtorsSummaryCoversWholeSetNotJustPage(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	now := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"One", "Two", "Three"} {
		st := testutil.SeedStudent(t, db, schoolID, name, "P1", studentmodel.BoardingStatusDay)
		due := now.AddDate(0, 0, -10)
		seedDebtorInvoice(t, db, schoolID, st.StudentID, int16(i+1), 100000, 0, &due)
	}

	rows, summary, total, err := NewDebtors(db).ListDebtors(context.Background(), ListDebtorsParams{
		SchoolID: schoolID,
		Limit:    1,
		Now:      now,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1, "page size honored")
	assert.EqualValues(t, 3, total)
	assert.EqualValues(t, 300000, summary.TotalOutstanding, "summary spans the entire filtered set")
}

func TestListDebtorsFilters(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	now := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)

	p1 := testutil.SeedStudent(t, db, schoolID, "P1 Student", "P1", studentmodel.BoardingStatusDay)
	p2 := testutil.SeedStudent(t, db, schoolID, "P2 Student", "P2", studentmodel.BoardingStatusDay)
	due := now.AddDate(0, 0, -5)
	seedDebtorInvoice(t, db, schoolID, p1.StudentID, 1, 100000, 0, &due)
	seedDebtorInvoice(t, db, schoolID, p2.StudentID, 1, 200000, 0, &due)

	class := "P2"
	rows, summary, total, err := NewDebtors(db).ListDebtors(context.Background(), ListDebtorsParams{
		SchoolID:   schoolID,
		ClassLevel: &class,
		Now:        now,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, p2.StudentID, rows[0].StudentID)
	assert.EqualValues(t, 200000, summary.TotalOutstanding)

	// Another tenant sees nothing.
	otherSchool := uuid.New()
	rows, _, total, err = NewDebtors(db).ListDebtors(context.Background(), ListDebtorsParams{
		SchoolID: otherSchool,
		Now:      now,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, rows)
}

func TestDaysOverdueFallsBackToCreatedAt(t *testing.T) {
	now := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	created := now.AddDate(0, 0, -45)

	assert.Equal(t, 45, daysOverdue(now, nil, created))

	due := now.AddDate(0, 0, -3)
	assert.Equal(t, 3, daysOverdue(now, &due, created), "explicit due date wins over created_at")
}

func TestAgingBucketBoundaries(t *testing.T) {
	assert.Equal(t, BucketCurrent, agingBucket(0))
	assert.Equal(t, Bucket1To30, agingBucket(1))
	assert.Equal(t, Bucket1To30, agingBucket(30))
	assert.Equal(t, Bucket31To60, agingBucket(31))
	assert.Equal(t, Bucket31To60, agingBucket(60))
	assert.Equal(t, Bucket61To90, agingBucket(90))
	assert.Equal(t, BucketOver90, agingBucket(91))
}
