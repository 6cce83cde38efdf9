package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense is a school outgoing consumed by the financial summary
// (netIncome = collected - expenses).
type Expense struct {
	ExpenseID       uuid.UUID `gorm:"column:expense_id;type:uuid;primaryKey" json:"expense_id"`
	ExpenseSchoolID uuid.UUID `gorm:"column:expense_school_id;type:uuid;not null;index:idx_expenses_school" json:"expense_school_id"`

	ExpenseCategory    string    `gorm:"column:expense_category;type:varchar(60);not null" json:"expense_category"`
	ExpenseDescription string    `gorm:"column:expense_description;type:text" json:"expense_description"`
	ExpenseAmount      int       `gorm:"column:expense_amount;not null;check:expense_amount>0" json:"expense_amount"`
	ExpenseDate        time.Time `gorm:"column:expense_date;not null" json:"expense_date"`

	ExpenseRecordedBy uuid.UUID `gorm:"column:expense_recorded_by;type:uuid;not null" json:"expense_recorded_by"`

	ExpenseCreatedAt time.Time      `gorm:"column:expense_created_at;not null;autoCreateTime" json:"expense_created_at"`
	ExpenseUpdatedAt time.Time      `gorm:"column:expense_updated_at;not null;autoUpdateTime" json:"expense_updated_at"`
	ExpenseDeletedAt gorm.DeletedAt `gorm:"column:expense_deleted_at;index" json:"-"`
}

func (Expense) TableName() string { return "expenses" }

func (m *Expense) BeforeCreate(tx *gorm.DB) error {
	if m.ExpenseID == uuid.Nil {
		m.ExpenseID = uuid.New()
	}
	return nil
}
