package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// MODEL: fee catalog entry
// =========================================================

// FeeStructure defines the default amount charged for one fee type to one
// class level in a term/year. Boarding status "all" applies to every student;
// otherwise it must match the student's. Retired entries are deactivated via
// fee_structure_is_active=false, never deleted.
type FeeStructure struct {
	FeeStructureID       uuid.UUID `gorm:"column:fee_structure_id;type:uuid;primaryKey" json:"fee_structure_id"`
	FeeStructureSchoolID uuid.UUID `gorm:"column:fee_structure_school_id;type:uuid;not null;index:idx_fee_structures_school" json:"fee_structure_school_id"`

	FeeStructureClassLevel string `gorm:"column:fee_structure_class_level;type:varchar(20);not null;index:idx_fee_structures_class" json:"fee_structure_class_level"`
	FeeStructureFeeType    string `gorm:"column:fee_structure_fee_type;type:varchar(60);not null" json:"fee_structure_fee_type"`
	FeeStructureAmount     int    `gorm:"column:fee_structure_amount;not null;check:fee_structure_amount>=0" json:"fee_structure_amount"`

	// Period: term is optional (nil = applies to every term of the year)
	FeeStructureTerm *int16 `gorm:"column:fee_structure_term;type:smallint" json:"fee_structure_term,omitempty"`
	FeeStructureYear int16  `gorm:"column:fee_structure_year;type:smallint;not null;index:idx_fee_structures_year" json:"fee_structure_year"`

	// "all" | "day" | "boarding"
	FeeStructureBoardingStatus string `gorm:"column:fee_structure_boarding_status;type:varchar(12);not null;default:'all'" json:"fee_structure_boarding_status"`

	FeeStructureIsActive bool `gorm:"column:fee_structure_is_active;not null;default:true;index:idx_fee_structures_active" json:"fee_structure_is_active"`

	FeeStructureCreatedAt time.Time `gorm:"column:fee_structure_created_at;not null;autoCreateTime" json:"fee_structure_created_at"`
	FeeStructureUpdatedAt time.Time `gorm:"column:fee_structure_updated_at;not null;autoUpdateTime" json:"fee_structure_updated_at"`
}

func (FeeStructure) TableName() string { return "fee_structures" }

func (m *FeeStructure) BeforeCreate(tx *gorm.DB) error {
	if m.FeeStructureID == uuid.Nil {
		m.FeeStructureID = uuid.New()
	}
	return nil
}

// AppliesTo reports whether this catalog entry bills a student with the given
// class level and boarding status.
func (m *FeeStructure) AppliesTo(classLevel, boardingStatus string) bool {
	if m.FeeStructureClassLevel != classLevel {
		return false
	}
	return m.FeeStructureBoardingStatus == "all" || m.FeeStructureBoardingStatus == boardingStatus
}

// =========================================================
// MODEL: per-student override
// =========================================================

// StudentFeeOverride replaces the catalog amount of one fee type for one
// student. Looked up by (student_id, fee_type) during invoice generation.
type StudentFeeOverride struct {
	StudentFeeOverrideID       uuid.UUID `gorm:"column:student_fee_override_id;type:uuid;primaryKey" json:"student_fee_override_id"`
	StudentFeeOverrideSchoolID uuid.UUID `gorm:"column:student_fee_override_school_id;type:uuid;not null;index:idx_fee_overrides_school" json:"student_fee_override_school_id"`

	StudentFeeOverrideStudentID    uuid.UUID `gorm:"column:student_fee_override_student_id;type:uuid;not null;index:idx_fee_overrides_student" json:"student_fee_override_student_id"`
	StudentFeeOverrideFeeType      string    `gorm:"column:student_fee_override_fee_type;type:varchar(60);not null" json:"student_fee_override_fee_type"`
	StudentFeeOverrideCustomAmount int       `gorm:"column:student_fee_override_custom_amount;not null;check:student_fee_override_custom_amount>=0" json:"student_fee_override_custom_amount"`

	StudentFeeOverrideTerm *int16 `gorm:"column:student_fee_override_term;type:smallint" json:"student_fee_override_term,omitempty"`
	StudentFeeOverrideYear int16  `gorm:"column:student_fee_override_year;type:smallint;not null" json:"student_fee_override_year"`

	StudentFeeOverrideReason   string `gorm:"column:student_fee_override_reason;type:text" json:"student_fee_override_reason"`
	StudentFeeOverrideIsActive bool   `gorm:"column:student_fee_override_is_active;not null;default:true" json:"student_fee_override_is_active"`

	StudentFeeOverrideCreatedAt time.Time `gorm:"column:student_fee_override_created_at;not null;autoCreateTime" json:"student_fee_override_created_at"`
	StudentFeeOverrideUpdatedAt time.Time `gorm:"column:student_fee_override_updated_at;not null;autoUpdateTime" json:"student_fee_override_updated_at"`
}

func (StudentFeeOverride) TableName() string { return "student_fee_overrides" }

func (m *StudentFeeOverride) BeforeCreate(tx *gorm.DB) error {
	if m.StudentFeeOverrideID == uuid.Nil {
		m.StudentFeeOverrideID = uuid.New()
	}
	return nil
}
