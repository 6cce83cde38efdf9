package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolbill_backend/internals/features/finance/expenses/model"
)

type ExpenseCreateDTO struct {
	ExpenseCategory    string     `json:"expense_category" validate:"required,max=60"`
	ExpenseDescription string     `json:"expense_description" validate:"omitempty,max=500"`
	ExpenseAmount      int        `json:"expense_amount" validate:"required,min=1"`
	ExpenseDate        *time.Time `json:"expense_date,omitempty"`
}

func (in ExpenseCreateDTO) ToModel(schoolID, recordedBy uuid.UUID) model.Expense {
	date := time.Now()
	if in.ExpenseDate != nil {
		date = *in.ExpenseDate
	}
	return model.Expense{
		ExpenseSchoolID:    schoolID,
		ExpenseCategory:    in.ExpenseCategory,
		ExpenseDescription: in.ExpenseDescription,
		ExpenseAmount:      in.ExpenseAmount,
		ExpenseDate:        date,
		ExpenseRecordedBy:  recordedBy,
	}
}
