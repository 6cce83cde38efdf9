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
	paymentmodel "schoolbill_backend/internals/features/finance/payments/model"
	paymentservice "schoolbill_backend/internals/features/finance/payments/service"
	"schoolbill_backend/internals/features/finance/paymentplans/model"
	studentmodel "schoolbill_backend/internals/features/school/students/model"
	"schoolbill_backend/internals/testutil"
)

func seedPlanInvoice(t *testing.T, db *gorm.DB, schoolID, studentID uuid.UUID, total int) invoicemodel.Invoice {
	t.Helper()
	inv := invoicemodel.Invoice{
		InvoiceSchoolID:    schoolID,
		InvoiceStudentID:   studentID,
		InvoiceNumber:      invoiceservice.InvoiceNumber(2025, 1, schoolID, studentID),
		InvoiceTerm:        1,
		InvoiceYear:        2025,
		InvoiceTotalAmount: total,
		InvoiceBalance:     total,
		InvoiceStatus:      invoicemodel.InvoiceStatusUnpaid,
	}
	require.NoError(t, db.Create(&inv).Error)
	return inv
}

func TestCreatePlanBuildsMonthlySchedule(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	plan, err := NewPlans(db).CreatePlan(context.Background(), CreatePlanParams{
		SchoolID:         schoolID,
		StudentID:        st.StudentID,
		PlanName:         "Term 1 fees",
		TotalAmount:      1000000,
		DownPayment:      100000,
		InstallmentCount: 3,
		Frequency:        model.PlanFrequencyMonthly,
		StartDate:        start,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PlanStatusActive, plan.PaymentPlanStatus)

	var installments []model.PlanInstallment
	require.NoError(t, db.
		Where("plan_installment_plan_id = ?", plan.PaymentPlanID).
		Order("plan_installment_number ASC").
		Find(&installments).Error)
	require.Len(t, installments, 3)

	wantDue := []time.Time{
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, inst := range installments {
		assert.Equal(t, i+1, inst.PlanInstallmentNumber)
		assert.Equal(t, 300000, inst.PlanInstallmentAmount)
		assert.True(t, wantDue[i].Equal(inst.PlanInstallmentDueDate), "installment %d due date", i+1)
		assert.Equal(t, model.InstallmentStatusPending, inst.PlanInstallmentStatus)
	}
}

func TestCreatePlanWeeklyScheduleAndRounding(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	plan, err := NewPlans(db).CreatePlan(context.Background(), CreatePlanParams{
		SchoolID:         schoolID,
		StudentID:        st.StudentID,
		PlanName:         "Weekly plan",
		TotalAmount:      1000,
		DownPayment:      0,
		InstallmentCount: 3,
		Frequency:        model.PlanFrequencyWeekly,
		StartDate:        start,
	})
	require.NoError(t, err)

	var installments []model.PlanInstallment
	require.NoError(t, db.
		Where("plan_installment_plan_id = ?", plan.PaymentPlanID).
		Order("plan_installment_number ASC").
		Find(&installments).Error)
	require.Len(t, installments, 3)

	for i, inst := range installments {
		assert.Equal(t, 333, inst.PlanInstallmentAmount, "1000/3 rounds to 333")
		want := start.AddDate(0, 0, 7*(i+1))
		assert.True(t, want.Equal(inst.PlanInstallmentDueDate))
	}
}

func TestCreatePlanEnforcesOwnership(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolA := uuid.New()
	schoolB := uuid.New()
	foreign := testutil.SeedStudent(t, db, schoolB, "Foreign", "P1", studentmodel.BoardingStatusDay)

	_, err := NewPlans(db).CreatePlan(context.Background(), CreatePlanParams{
		SchoolID:         schoolA,
		StudentID:        foreign.StudentID,
		PlanName:         "x",
		TotalAmount:      1000,
		InstallmentCount: 2,
		Frequency:        model.PlanFrequencyMonthly,
		StartDate:        time.Now(),
	})
	require.ErrorIs(t, err, paymentservice.ErrStudentAccess)

	// Linking someone else's invoice is refused too.
	mine := testutil.SeedStudent(t, db, schoolA, "Mine", "P1", studentmodel.BoardingStatusDay)
	other := testutil.SeedStudent(t, db, schoolA, "Other", "P1", studentmodel.BoardingStatusDay)
	inv := seedPlanInvoice(t, db, schoolA, other.StudentID, 1000)
	_, err = NewPlans(db).CreatePlan(context.Background(), CreatePlanParams{
		SchoolID:         schoolA,
		StudentID:        mine.StudentID,
		InvoiceID:        &inv.InvoiceID,
		PlanName:         "x",
		TotalAmount:      1000,
		InstallmentCount: 2,
		Frequency:        model.PlanFrequencyMonthly,
		StartDate:        time.Now(),
	})
	require.ErrorIs(t, err, ErrInvoiceAccess)
}

func TestPayInstallmentRejectsOverpay(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)

	plans := NewPlans(db)
	plan, err := plans.CreatePlan(context.Background(), CreatePlanParams{
		SchoolID:         schoolID,
		StudentID:        st.StudentID,
		PlanName:         "Plan",
		TotalAmount:      600000,
		InstallmentCount: 2,
		Frequency:        model.PlanFrequencyMonthly,
		StartDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var inst model.PlanInstallment
	require.NoError(t, db.First(&inst, "plan_installment_plan_id = ? AND plan_installment_number = 1", plan.PaymentPlanID).Error)

	_, err = plans.PayInstallment(context.Background(), PayInstallmentParams{
		PlanID:        plan.PaymentPlanID,
		InstallmentID: inst.PlanInstallmentID,
		Amount:        inst.PlanInstallmentAmount + 1,
		SchoolID:      schoolID,
		UserID:        uuid.New(),
		Method:        paymentmodel.PaymentMethodCash,
	})
	require.ErrorIs(t, err, ErrInstallmentOverpay)
}

func TestPayInstallmentPartialThenCompletion(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)

	plans := NewPlans(db)
	plan, err := plans.CreatePlan(context.Background(), CreatePlanParams{
		SchoolID:         schoolID,
		StudentID:        st.StudentID,
		PlanName:         "Plan",
		TotalAmount:      400000,
		InstallmentCount: 2,
		Frequency:        model.PlanFrequencyMonthly,
		StartDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var installments []model.PlanInstallment
	require.NoError(t, db.
		Where("plan_installment_plan_id = ?", plan.PaymentPlanID).
		Order("plan_installment_number ASC").
		Find(&installments).Error)
	require.Len(t, installments, 2)

	pay := func(instID uuid.UUID, amount int) *model.PlanInstallment {
		got, err := plans.PayInstallment(context.Background(), PayInstallmentParams{
			PlanID:        plan.PaymentPlanID,
			InstallmentID: instID,
			Amount:        amount,
			SchoolID:      schoolID,
			UserID:        uuid.New(),
			Method:        paymentmodel.PaymentMethodMobileMoney,
		})
		require.NoError(t, err)
		return got
	}

	half := pay(installments[0].PlanInstallmentID, 100000)
	assert.Equal(t, model.InstallmentStatusPartial, half.PlanInstallmentStatus)
	assert.Equal(t, 100000, half.PlanInstallmentPaidAmount)
	assert.Nil(t, half.PlanInstallmentPaidAt)

	full := pay(installments[0].PlanInstallmentID, 100000)
	assert.Equal(t, model.InstallmentStatusPaid, full.PlanInstallmentStatus)
	assert.NotNil(t, full.PlanInstallmentPaidAt)

	// Plan stays active until the last installment settles.
	var got model.PaymentPlan
	require.NoError(t, db.First(&got, "payment_plan_id = ?", plan.PaymentPlanID).Error)
	assert.Equal(t, model.PlanStatusActive, got.PaymentPlanStatus)

	pay(installments[1].PlanInstallmentID, 200000)
	require.NoError(t, db.First(&got, "payment_plan_id = ?", plan.PaymentPlanID).Error)
	assert.Equal(t, model.PlanStatusCompleted, got.PaymentPlanStatus)

	// Every collection produced a receipt-bearing audit pair. Free-standing
	// plans book the payment without a term.
	var payments []paymentmodel.FeePayment
	require.NoError(t, db.Order("fee_payment_created_at ASC").Find(&payments).Error)
	require.Len(t, payments, 3)
	for _, p := range payments {
		assert.Equal(t, "installment", p.FeePaymentFeeType)
		assert.Nil(t, p.FeePaymentTerm)
		assert.NotEmpty(t, p.FeePaymentReceiptNumber)
	}
}

func TestPayInstallmentReconcilesLinkedInvoice(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)
	inv := seedPlanInvoice(t, db, schoolID, st.StudentID, 600000)

	plans := NewPlans(db)
	plan, err := plans.CreatePlan(context.Background(), CreatePlanParams{
		SchoolID:         schoolID,
		StudentID:        st.StudentID,
		InvoiceID:        &inv.InvoiceID,
		PlanName:         "Invoice plan",
		TotalAmount:      600000,
		InstallmentCount: 3,
		Frequency:        model.PlanFrequencyMonthly,
		StartDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var inst model.PlanInstallment
	require.NoError(t, db.First(&inst, "plan_installment_plan_id = ? AND plan_installment_number = 1", plan.PaymentPlanID).Error)

	_, err = plans.PayInstallment(context.Background(), PayInstallmentParams{
		PlanID:        plan.PaymentPlanID,
		InstallmentID: inst.PlanInstallmentID,
		Amount:        200000,
		SchoolID:      schoolID,
		UserID:        uuid.New(),
		Method:        paymentmodel.PaymentMethodBank,
	})
	require.NoError(t, err)

	var got invoicemodel.Invoice
	require.NoError(t, db.First(&got, "invoice_id = ?", inv.InvoiceID).Error)
	assert.Equal(t, 200000, got.InvoiceAmountPaid)
	assert.Equal(t, 400000, got.InvoiceBalance)
	assert.Equal(t, invoicemodel.InvoiceStatusPartial, got.InvoiceStatus)

	// The audit row carries the invoice's period.
	var p paymentmodel.FeePayment
	require.NoError(t, db.First(&p).Error)
	require.NotNil(t, p.FeePaymentTerm)
	assert.EqualValues(t, 1, *p.FeePaymentTerm)
	assert.EqualValues(t, 2025, p.FeePaymentYear)
}

func TestPayInstallmentScopedToSchool(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, "Alice Auma", "P1", studentmodel.BoardingStatusDay)

	plans := NewPlans(db)
	plan, err := plans.CreatePlan(context.Background(), CreatePlanParams{
		SchoolID:         schoolID,
		StudentID:        st.StudentID,
		PlanName:         "Plan",
		TotalAmount:      1000,
		InstallmentCount: 1,
		Frequency:        model.PlanFrequencyMonthly,
		StartDate:        time.Now(),
	})
	require.NoError(t, err)

	var inst model.PlanInstallment
	require.NoError(t, db.First(&inst, "plan_installment_plan_id = ?", plan.PaymentPlanID).Error)

	_, err = plans.PayInstallment(context.Background(), PayInstallmentParams{
		PlanID:        plan.PaymentPlanID,
		InstallmentID: inst.PlanInstallmentID,
		Amount:        1000,
		SchoolID:      uuid.New(),
		UserID:        uuid.New(),
		Method:        paymentmodel.PaymentMethodCash,
	})
	require.ErrorIs(t, err, ErrPlanAccess)
}
