package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// =========================================================
// MODEL: finance ledger row (append-only)
// =========================================================

// FinanceTransaction is the free-text ledger used by summary reporting. Rows
// caused by a fee payment carry an explicit fee_payment_id back-reference; the
// receipt number stays embedded in the description for report text and for
// legacy rows created before the column existed.
type FinanceTransaction struct {
	FinanceTransactionID       uuid.UUID `gorm:"column:finance_transaction_id;type:uuid;primaryKey" json:"finance_transaction_id"`
	FinanceTransactionSchoolID uuid.UUID `gorm:"column:finance_transaction_school_id;type:uuid;not null;index:idx_finance_transactions_school" json:"finance_transaction_school_id"`

	FinanceTransactionStudentID *uuid.UUID `gorm:"column:finance_transaction_student_id;type:uuid;index:idx_finance_transactions_student" json:"finance_transaction_student_id,omitempty"`

	FinanceTransactionType        TransactionType `gorm:"column:finance_transaction_type;type:varchar(8);not null;index:idx_finance_transactions_type" json:"finance_transaction_type"`
	FinanceTransactionAmount      int             `gorm:"column:finance_transaction_amount;not null;check:finance_transaction_amount>0" json:"finance_transaction_amount"`
	FinanceTransactionDescription string          `gorm:"column:finance_transaction_description;type:text;not null" json:"finance_transaction_description"`

	FinanceTransactionFeePaymentID *uuid.UUID `gorm:"column:finance_transaction_fee_payment_id;type:uuid;index:idx_finance_transactions_payment" json:"finance_transaction_fee_payment_id,omitempty"`

	FinanceTransactionTerm *int16 `gorm:"column:finance_transaction_term;type:smallint" json:"finance_transaction_term,omitempty"`
	FinanceTransactionYear int16  `gorm:"column:finance_transaction_year;type:smallint;not null" json:"finance_transaction_year"`

	FinanceTransactionDate     time.Time `gorm:"column:finance_transaction_date;not null" json:"finance_transaction_date"`
	FinanceTransactionIsVoided bool      `gorm:"column:finance_transaction_is_voided;not null;default:false" json:"finance_transaction_is_voided"`

	FinanceTransactionCreatedAt time.Time `gorm:"column:finance_transaction_created_at;not null;autoCreateTime" json:"finance_transaction_created_at"`
}

func (FinanceTransaction) TableName() string { return "finance_transactions" }

func (m *FinanceTransaction) BeforeCreate(tx *gorm.DB) error {
	if m.FinanceTransactionID == uuid.Nil {
		m.FinanceTransactionID = uuid.New()
	}
	return nil
}
