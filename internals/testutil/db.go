package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "schoolbill_backend/internals/databases"
	studentmodel "schoolbill_backend/internals/features/school/students/model"
)

// OpenDB returns a fresh in-memory database with the full billing schema.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedStudent inserts an active roster record and returns it.
func SeedStudent(t *testing.T, db *gorm.DB, schoolID uuid.UUID, name, classLevel string, boarding studentmodel.BoardingStatus) studentmodel.Student {
	t.Helper()

	st := studentmodel.Student{
		StudentSchoolID:       schoolID,
		StudentFullName:       name,
		StudentClassLevel:     classLevel,
		StudentBoardingStatus: boarding,
		StudentIsActive:       true,
	}
	if err := db.Create(&st).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return st
}
