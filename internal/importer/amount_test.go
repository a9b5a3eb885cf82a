package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{name: "European", input: "1.234,56", want: "1234.56"},
		{name: "EuropeanNoThousands", input: "10,00", want: "10"},
		{name: "English", input: "1,234.56", want: "1234.56"},
		{name: "Plain", input: "42", want: "42"},
		{name: "DotDecimal", input: "0.333", want: "0.333"},
		{name: "EuropeanThousandsOnly", input: "1.234.567", want: "1234567"},
		{name: "EnglishThousandsOnly", input: "1,234,567", want: "1234567"},
		{name: "CurrencyAndSpaces", input: "$ 1 200.50", want: "1200.5"},
		{name: "NonBreakingSpace", input: "1\u00a0200,50 €", want: "1200.5"},
		{name: "Negative", input: "-588,74", want: "-588.74"},
		{name: "Garbage", input: "abc", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseNumber(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Truef(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}
