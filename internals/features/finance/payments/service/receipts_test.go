package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolbill_backend/internals/testutil"
)

func TestAllocateReceiptNumber(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()

	for _, want := range []string{"REC-2025-1", "REC-2025-2", "REC-2025-3"} {
		got, err := AllocateReceiptNumber(db, schoolID, 2025)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Counters are per (school, year).
	got, err := AllocateReceiptNumber(db, schoolID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "REC-2026-1", got)

	got, err = AllocateReceiptNumber(db, uuid.New(), 2025)
	require.NoError(t, err)
	assert.Equal(t, "REC-2025-1", got)
}
