package service

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllocateReceiptNumber mints the next REC-{year}-{seq} for the school. The
// sequence lives in receipt_counters and is bumped with a single
// upsert-increment, so two concurrent payments can never share a number.
// Runs inside the caller's transaction; rolled-back payments leave gaps.
// Receipts need to be unique and ascending, not gapless.
func AllocateReceiptNumber(tx *gorm.DB, schoolID uuid.UUID, year int16) (string, error) {
	var seq int64
	err := tx.Raw(`
		INSERT INTO receipt_counters (receipt_counter_school_id, receipt_counter_year, receipt_counter_last_seq)
		VALUES (?, ?, 1)
		ON CONFLICT (receipt_counter_school_id, receipt_counter_year)
		DO UPDATE SET receipt_counter_last_seq = receipt_counters.receipt_counter_last_seq + 1
		RETURNING receipt_counter_last_seq`,
		schoolID, year,
	).Scan(&seq).Error
	if err != nil {
		return "", fmt.Errorf("allocating receipt number: %w", err)
	}
	return fmt.Sprintf("REC-%d-%d", year, seq), nil
}
