package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =========================================================
// ENUMS
// =========================================================

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

type StudentScholarshipStatus string

const (
	StudentScholarshipStatusActive   StudentScholarshipStatus = "active"
	StudentScholarshipStatusInactive StudentScholarshipStatus = "inactive"
)

// =========================================================
// MODEL: scholarship / discount rule
// =========================================================

// Scholarship is a percentage or fixed reduction applied to one or more fee
// types. An empty fee-type set means the discount applies to every item.
type Scholarship struct {
	ScholarshipID       uuid.UUID `gorm:"column:scholarship_id;type:uuid;primaryKey" json:"scholarship_id"`
	ScholarshipSchoolID uuid.UUID `gorm:"column:scholarship_school_id;type:uuid;not null;index:idx_scholarships_school" json:"scholarship_school_id"`

	ScholarshipName          string         `gorm:"column:scholarship_name;type:varchar(120);not null" json:"scholarship_name"`
	ScholarshipDiscountType  DiscountType   `gorm:"column:scholarship_discount_type;type:varchar(12);not null" json:"scholarship_discount_type"`
	ScholarshipDiscountValue int            `gorm:"column:scholarship_discount_value;not null;check:scholarship_discount_value>=0" json:"scholarship_discount_value"`
	ScholarshipFeeTypes      datatypes.JSON `gorm:"column:scholarship_fee_types" json:"scholarship_fee_types,omitempty"`

	ScholarshipIsActive bool `gorm:"column:scholarship_is_active;not null;default:true" json:"scholarship_is_active"`

	ScholarshipCreatedAt time.Time `gorm:"column:scholarship_created_at;not null;autoCreateTime" json:"scholarship_created_at"`
	ScholarshipUpdatedAt time.Time `gorm:"column:scholarship_updated_at;not null;autoUpdateTime" json:"scholarship_updated_at"`
}

func (Scholarship) TableName() string { return "scholarships" }

func (m *Scholarship) BeforeCreate(tx *gorm.DB) error {
	if m.ScholarshipID == uuid.Nil {
		m.ScholarshipID = uuid.New()
	}
	return nil
}

// FeeTypeList decodes the JSON fee-type set. Empty slice = applies to all.
func (m *Scholarship) FeeTypeList() []string {
	if len(m.ScholarshipFeeTypes) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(m.ScholarshipFeeTypes, &out); err != nil {
		return nil
	}
	return out
}

// SetFeeTypes encodes the fee-type set; nil/empty clears it (applies to all).
func (m *Scholarship) SetFeeTypes(types []string) error {
	if len(types) == 0 {
		m.ScholarshipFeeTypes = nil
		return nil
	}
	b, err := json.Marshal(types)
	if err != nil {
		return err
	}
	m.ScholarshipFeeTypes = datatypes.JSON(b)
	return nil
}

// CoversFeeType reports whether the discount applies to the given item.
func (m *Scholarship) CoversFeeType(feeType string) bool {
	types := m.FeeTypeList()
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == feeType {
			return true
		}
	}
	return false
}

// =========================================================
// MODEL: scholarship assignment
// =========================================================

// StudentScholarship assigns a scholarship to a student for a term/year.
type StudentScholarship struct {
	StudentScholarshipID       uuid.UUID `gorm:"column:student_scholarship_id;type:uuid;primaryKey" json:"student_scholarship_id"`
	StudentScholarshipSchoolID uuid.UUID `gorm:"column:student_scholarship_school_id;type:uuid;not null;index:idx_student_scholarships_school" json:"student_scholarship_school_id"`

	StudentScholarshipScholarshipID uuid.UUID `gorm:"column:student_scholarship_scholarship_id;type:uuid;not null;index:idx_student_scholarships_rule" json:"student_scholarship_scholarship_id"`
	StudentScholarshipStudentID     uuid.UUID `gorm:"column:student_scholarship_student_id;type:uuid;not null;index:idx_student_scholarships_student" json:"student_scholarship_student_id"`

	StudentScholarshipTerm *int16 `gorm:"column:student_scholarship_term;type:smallint" json:"student_scholarship_term,omitempty"`
	StudentScholarshipYear int16  `gorm:"column:student_scholarship_year;type:smallint;not null" json:"student_scholarship_year"`

	StudentScholarshipStatus StudentScholarshipStatus `gorm:"column:student_scholarship_status;type:varchar(12);not null;default:'active'" json:"student_scholarship_status"`

	StudentScholarshipCreatedAt time.Time `gorm:"column:student_scholarship_created_at;not null;autoCreateTime" json:"student_scholarship_created_at"`
	StudentScholarshipUpdatedAt time.Time `gorm:"column:student_scholarship_updated_at;not null;autoUpdateTime" json:"student_scholarship_updated_at"`
}

func (StudentScholarship) TableName() string { return "student_scholarships" }

func (m *StudentScholarship) BeforeCreate(tx *gorm.DB) error {
	if m.StudentScholarshipID == uuid.Nil {
		m.StudentScholarshipID = uuid.New()
	}
	return nil
}
