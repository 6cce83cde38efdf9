package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM: boarding status
// =========================================================

type BoardingStatus string

const (
	BoardingStatusDay      BoardingStatus = "day"
	BoardingStatusBoarding BoardingStatus = "boarding"
)

// =========================================================
// MODEL: read-side collaborator record
// =========================================================

// Student is the roster record the billing engine consumes. Enrollment,
// promotion and profile management live in the student service; billing only
// reads (id, school, class level, boarding status).
type Student struct {
	StudentID             uuid.UUID      `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`
	StudentSchoolID       uuid.UUID      `gorm:"column:student_school_id;type:uuid;not null;index:idx_students_school" json:"student_school_id"`
	StudentFullName       string         `gorm:"column:student_full_name;type:varchar(120);not null" json:"student_full_name"`
	StudentClassLevel     string         `gorm:"column:student_class_level;type:varchar(20);not null;index:idx_students_class" json:"student_class_level"`
	StudentBoardingStatus BoardingStatus `gorm:"column:student_boarding_status;type:varchar(12);not null;default:'day'" json:"student_boarding_status"`
	StudentIsActive       bool           `gorm:"column:student_is_active;not null;default:true" json:"student_is_active"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;not null;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;not null;autoUpdateTime" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"-"`
}

func (Student) TableName() string { return "students" }

func (m *Student) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}
