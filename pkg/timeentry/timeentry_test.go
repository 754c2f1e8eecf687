package timeentry

import (
	"testing"

	"github.com/klokku/ledger/pkg/finance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeBillingType(t *testing.T) {
	tests := []struct {
		raw  string
		want finance.BillingType
	}{
		{"regular", finance.BillingRegular},
		{"extra", finance.BillingExtra},
		{"tm", finance.BillingExtra},
		{" TM ", finance.BillingExtra},
		{"Extra", finance.BillingExtra},
		{"", finance.BillingRegular},
		{"overtime", finance.BillingRegular},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBillingType(tt.raw))
		})
	}
}

func TestValidHours(t *testing.T) {
	tests := []struct {
		hours string
		valid bool
	}{
		{"0", true},
		{"1.5", true},
		{"0.333", true},
		{"2.5000", true},
		{"0.0005", false},
		{"-1", false},
	}
	for _, tt := range tests {
		t.Run(tt.hours, func(t *testing.T) {
			assert.Equal(t, tt.valid, validHours(decimal.RequireFromString(tt.hours)))
		})
	}
}
