package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatus(t *testing.T) {
	cases := []struct {
		name  string
		total int
		paid  int
		want  InvoiceStatus
	}{
		{"nothing paid", 500000, 0, InvoiceStatusUnpaid},
		{"negative paid clamps to unpaid", 500000, -100, InvoiceStatusUnpaid},
		{"partially paid", 500000, 200000, InvoiceStatusPartial},
		{"exactly paid", 500000, 500000, InvoiceStatusPaid},
		{"overpaid still paid", 500000, 600000, InvoiceStatusPaid},
		{"zero total zero paid stays unpaid", 0, 0, InvoiceStatusUnpaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeStatus(tc.total, tc.paid))
		})
	}
}

func TestComputeBalance(t *testing.T) {
	assert.Equal(t, 300000, ComputeBalance(500000, 200000))
	assert.Equal(t, 0, ComputeBalance(500000, 500000))
	assert.Equal(t, 0, ComputeBalance(500000, 600000), "balance never goes negative")
}
