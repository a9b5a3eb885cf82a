package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	type testCase struct {
		name     string
		amount   string
		currency string
		want     string
	}

	tests := []testCase{
		{name: "USD", amount: "26.5", currency: "USD", want: "26.50 USD"},
		{name: "JPY", amount: "152", currency: "JPY", want: "152 JPY"},
		{name: "KWD", amount: "1.5", currency: "KWD", want: "1.500 KWD"},
		{name: "Negative", amount: "-3.9", currency: "EUR", want: "-3.90 EUR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}
