package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stats rolls up revenue, outstanding balance and expenses. Read-only.
type Stats struct {
	DB *gorm.DB
}

func NewStats(db *gorm.DB) *Stats {
	return &Stats{DB: db}
}

type FinancialSummary struct {
	TotalCredits     int64 `json:"total_credits"`
	TotalDebits      int64 `json:"total_debits"`
	TotalInvoiced    int64 `json:"total_invoiced"`
	TotalCollected   int64 `json:"total_collected"`
	TotalOutstanding int64 `json:"total_outstanding"`
	TotalExpenses    int64 `json:"total_expenses"`
	NetIncome        int64 `json:"net_income"`
	CollectionRate   int   `json:"collection_rate"`
}

// FinancialSummary aggregates the whole school: ledger credits/debits,
// invoice totals, non-voided payments and expenses.
func (s *Stats) FinancialSummary(ctx context.Context, schoolID uuid.UUID) (*FinancialSummary, error) {
	db := s.DB.WithContext(ctx)
	out := &FinancialSummary{}

	if err := db.Raw(`
		SELECT COALESCE(SUM(CASE WHEN finance_transaction_type = 'credit' THEN finance_transaction_amount ELSE 0 END), 0)
		FROM finance_transactions
		WHERE finance_transaction_school_id = ? AND finance_transaction_is_voided = ?`,
		schoolID, false,
	).Scan(&out.TotalCredits).Error; err != nil {
		return nil, err
	}
	if err := db.Raw(`
		SELECT COALESCE(SUM(CASE WHEN finance_transaction_type = 'debit' THEN finance_transaction_amount ELSE 0 END), 0)
		FROM finance_transactions
		WHERE finance_transaction_school_id = ? AND finance_transaction_is_voided = ?`,
		schoolID, false,
	).Scan(&out.TotalDebits).Error; err != nil {
		return nil, err
	}

	var inv struct {
		Invoiced    int64
		Paid        int64
		Outstanding int64
	}
	if err := db.Raw(`
		SELECT COALESCE(SUM(invoice_total_amount), 0) AS invoiced,
		       COALESCE(SUM(invoice_amount_paid), 0) AS paid,
		       COALESCE(SUM(invoice_balance), 0) AS outstanding
		FROM invoices
		WHERE invoice_school_id = ? AND invoice_deleted_at IS NULL`,
		schoolID,
	).Scan(&inv).Error; err != nil {
		return nil, err
	}
	out.TotalInvoiced = inv.Invoiced
	out.TotalOutstanding = inv.Outstanding

	if err := db.Raw(`
		SELECT COALESCE(SUM(fee_payment_amount_paid), 0)
		FROM fee_payments
		WHERE fee_payment_school_id = ? AND fee_payment_is_voided = ?`,
		schoolID, false,
	).Scan(&out.TotalCollected).Error; err != nil {
		return nil, err
	}

	if err := db.Raw(`
		SELECT COALESCE(SUM(expense_amount), 0)
		FROM expenses
		WHERE expense_school_id = ? AND expense_deleted_at IS NULL`,
		schoolID,
	).Scan(&out.TotalExpenses).Error; err != nil {
		return nil, err
	}

	out.NetIncome = out.TotalCollected - out.TotalExpenses
	out.CollectionRate = collectionRate(out.TotalInvoiced, inv.Paid)
	return out, nil
}

type HubStats struct {
	InvoiceCount   int64 `json:"invoice_count"`
	DebtorCount    int64 `json:"debtor_count"`
	TotalDue       int64 `json:"total_due"`
	TotalCollected int64 `json:"total_collected"`
	Outstanding    int64 `json:"outstanding"`
	CollectionRate int   `json:"collection_rate"`
}

// HubStats is the dashboard rollup, optionally narrowed to a term/year.
func (s *Stats) HubStats(ctx context.Context, schoolID uuid.UUID, term, year *int16) (*HubStats, error) {
	q := s.DB.WithContext(ctx).Table("invoices").
		Where("invoice_school_id = ? AND invoice_deleted_at IS NULL", schoolID)
	if term != nil {
		q = q.Where("invoice_term = ?", *term)
	}
	if year != nil {
		q = q.Where("invoice_year = ?", *year)
	}

	var agg struct {
		InvoiceCount int64
		DebtorCount  int64
		TotalDue     int64
		Collected    int64
		Outstanding  int64
	}
	if err := q.Select(`
		COUNT(*) AS invoice_count,
		COALESCE(SUM(CASE WHEN invoice_balance > 0 THEN 1 ELSE 0 END), 0) AS debtor_count,
		COALESCE(SUM(invoice_total_amount), 0) AS total_due,
		COALESCE(SUM(invoice_amount_paid), 0) AS collected,
		COALESCE(SUM(invoice_balance), 0) AS outstanding`).
		Scan(&agg).Error; err != nil {
		return nil, err
	}

	return &HubStats{
		InvoiceCount:   agg.InvoiceCount,
		DebtorCount:    agg.DebtorCount,
		TotalDue:       agg.TotalDue,
		TotalCollected: agg.Collected,
		Outstanding:    agg.Outstanding,
		CollectionRate: collectionRate(agg.TotalDue, agg.Collected),
	}, nil
}

// collectionRate is round(collected/due*100), 0 when nothing is due.
func collectionRate(due, collected int64) int {
	if due == 0 {
		return 0
	}
	return int(math.Round(float64(collected) / float64(due) * 100))
}
