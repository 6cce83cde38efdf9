package model

import (
	"github.com/google/uuid"
)

// ReceiptCounter is the per-(school, year) receipt sequence. Allocation is a
// single upsert-increment so concurrent requests cannot mint the same number.
type ReceiptCounter struct {
	ReceiptCounterSchoolID uuid.UUID `gorm:"column:receipt_counter_school_id;type:uuid;primaryKey" json:"receipt_counter_school_id"`
	ReceiptCounterYear     int16     `gorm:"column:receipt_counter_year;type:smallint;primaryKey" json:"receipt_counter_year"`
	ReceiptCounterLastSeq  int64     `gorm:"column:receipt_counter_last_seq;not null;default:0" json:"receipt_counter_last_seq"`
}

func (ReceiptCounter) TableName() string { return "receipt_counters" }
