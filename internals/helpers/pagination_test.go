package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMeta(t *testing.T) {
	m := BuildMeta(101, Params{Page: 2, PerPage: 25})
	assert.Equal(t, 2, m.Page)
	assert.Equal(t, 25, m.PerPage)
	assert.EqualValues(t, 101, m.Total)
	assert.Equal(t, 5, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)

	empty := BuildMeta(0, Params{Page: 1, PerPage: 25})
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestSafeOrderClause(t *testing.T) {
	allowed := map[string]string{
		"created_at": "invoice_created_at",
		"balance":    "invoice_balance",
	}

	clause, err := Params{SortBy: "balance", SortOrder: "asc"}.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "invoice_balance ASC", clause)

	// Unknown keys fall back to the default instead of reaching the SQL.
	clause, err = Params{SortBy: "invoice_balance; DROP TABLE invoices", SortOrder: "desc"}.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "invoice_created_at DESC", clause)
}

func TestLimitOffset(t *testing.T) {
	p := Params{Page: 3, PerPage: 20}
	assert.Equal(t, 20, p.Limit())
	assert.Equal(t, 40, p.Offset())
}
