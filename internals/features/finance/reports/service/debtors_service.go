package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Aging bucket labels, in ascending severity.
const (
	BucketCurrent = "current"
	Bucket1To30   = "1-30"
	Bucket31To60  = "31-60"
	Bucket61To90  = "61-90"
	BucketOver90  = "90+"
)

// Debtors computes aging buckets over unpaid invoices. Read-only.
type Debtors struct {
	DB *gorm.DB
}

func NewDebtors(db *gorm.DB) *Debtors {
	return &Debtors{DB: db}
}

type ListDebtorsParams struct {
	SchoolID   uuid.UUID
	Term       *int16
	Year       *int16
	ClassLevel *string
	Limit      int
	Offset     int
	Now        time.Time // zero = time.Now()
}

type DebtorRow struct {
	InvoiceID     uuid.UUID  `json:"invoice_id"`
	InvoiceNumber string     `json:"invoice_number"`
	StudentID     uuid.UUID  `json:"student_id"`
	StudentName   string     `json:"student_name"`
	ClassLevel    string     `json:"class_level"`
	Term          int16      `json:"term"`
	Year          int16      `json:"year"`
	TotalAmount   int        `json:"total_amount"`
	AmountPaid    int        `json:"amount_paid"`
	Balance       int        `json:"balance"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	DaysOverdue   int        `json:"days_overdue"`
	AgingBucket   string     `json:"aging_bucket"`
}

type AgingSummary struct {
	TotalOutstanding int64            `json:"total_outstanding"`
	Buckets          map[string]int64 `json:"buckets"`
}

// debtorScan is the raw join row; bucketing happens in Go.
type debtorScan struct {
	InvoiceID        uuid.UUID
	InvoiceNumber    string
	InvoiceStudentID uuid.UUID
	StudentFullName  string
	StudentClass     string
	InvoiceTerm      int16
	InvoiceYear      int16
	InvoiceTotal     int
	InvoicePaid      int
	InvoiceBalance   int
	InvoiceDueDate   *time.Time
	InvoiceCreatedAt time.Time
}

// ListDebtors returns one page of debtor rows plus a summary computed over the
// entire filtered set, not just the page.
func (s *Debtors) ListDebtors(ctx context.Context, p ListDebtorsParams) ([]DebtorRow, *AgingSummary, int64, error) {
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	if p.Limit <= 0 {
		p.Limit = 25
	}

	q := s.DB.WithContext(ctx).Table("invoices").
		Select(`invoices.invoice_id, invoices.invoice_number,
			invoices.invoice_student_id, students.student_full_name,
			students.student_class_level AS student_class,
			invoices.invoice_term, invoices.invoice_year,
			invoices.invoice_total_amount AS invoice_total,
			invoices.invoice_amount_paid AS invoice_paid,
			invoices.invoice_balance, invoices.invoice_due_date, invoices.invoice_created_at`).
		Joins("JOIN students ON students.student_id = invoices.invoice_student_id").
		Where("invoices.invoice_school_id = ?", p.SchoolID).
		Where("invoices.invoice_balance > 0").
		Where("invoices.invoice_deleted_at IS NULL")
	if p.Term != nil {
		q = q.Where("invoices.invoice_term = ?", *p.Term)
	}
	if p.Year != nil {
		q = q.Where("invoices.invoice_year = ?", *p.Year)
	}
	if p.ClassLevel != nil && *p.ClassLevel != "" {
		q = q.Where("students.student_class_level = ?", *p.ClassLevel)
	}

	// Whole filtered set: the summary must aggregate beyond the page.
	var all []debtorScan
	if err := q.Order("invoices.invoice_balance DESC").Scan(&all).Error; err != nil {
		return nil, nil, 0, err
	}

	summary := &AgingSummary{Buckets: map[string]int64{
		BucketCurrent: 0, Bucket1To30: 0, Bucket31To60: 0, Bucket61To90: 0, BucketOver90: 0,
	}}
	rows := make([]DebtorRow, 0, len(all))
	for i := range all {
		d := &all[i]
		days := daysOverdue(now, d.InvoiceDueDate, d.InvoiceCreatedAt)
		bucket := agingBucket(days)
		summary.TotalOutstanding += int64(d.InvoiceBalance)
		summary.Buckets[bucket] += int64(d.InvoiceBalance)
		rows = append(rows, DebtorRow{
			InvoiceID:     d.InvoiceID,
			InvoiceNumber: d.InvoiceNumber,
			StudentID:     d.InvoiceStudentID,
			StudentName:   d.StudentFullName,
			ClassLevel:    d.StudentClass,
			Term:          d.InvoiceTerm,
			Year:          d.InvoiceYear,
			TotalAmount:   d.InvoiceTotal,
			AmountPaid:    d.InvoicePaid,
			Balance:       d.InvoiceBalance,
			DueDate:       d.InvoiceDueDate,
			DaysOverdue:   days,
			AgingBucket:   bucket,
		})
	}

	total := int64(len(rows))
	page := paginate(rows, p.Offset, p.Limit)
	return page, summary, total, nil
}

// daysOverdue counts whole days past the due date (created_at when no due
// date was set), clamped at zero.
func daysOverdue(now time.Time, dueDate *time.Time, createdAt time.Time) int {
	ref := createdAt
	if dueDate != nil {
		ref = *dueDate
	}
	days := int(now.Sub(ref).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func agingBucket(days int) string {
	switch {
	case days <= 0:
		return BucketCurrent
	case days <= 30:
		return Bucket1To30
	case days <= 60:
		return Bucket31To60
	case days <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

func paginate(rows []DebtorRow, offset, limit int) []DebtorRow {
	if offset >= len(rows) {
		return []DebtorRow{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
