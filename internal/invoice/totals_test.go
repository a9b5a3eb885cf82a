package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func recordWith(currency string, items ...[2]string) *invoice.Record {
	r := &invoice.Record{Currency: currency, Status: invoice.StatusUnpaid}
	for _, it := range items {
		r.LineItems = append(r.LineItems, invoice.LineItem{
			ID:       it[0] + "x" + it[1],
			Quantity: dec(it[0]),
			Rate:     dec(it[1]),
		})
	}

	return r
}

func TestCompute(t *testing.T) {
	type args struct {
		record *invoice.Record
	}

	type testCase struct {
		name         string
		args         args
		wantSubtotal string
		wantTax      string
		wantTotal    string
	}

	withTax := func(r *invoice.Record, tax, discount string) *invoice.Record {
		r.TaxRate = dec(tax)
		r.DiscountAmount = dec(discount)

		return r
	}

	tests := []testCase{
		{
			name:         "TaxAndDiscount",
			args:         args{record: withTax(recordWith("USD", [2]string{"2", "10"}, [2]string{"1", "5"}), "10", "1")},
			wantSubtotal: "25",
			wantTax:      "2.5",
			wantTotal:    "26.5",
		},
		{
			name:         "NoTaxNoDiscount",
			args:         args{record: withTax(recordWith("EUR", [2]string{"3", "1.10"}), "0", "0")},
			wantSubtotal: "3.3",
			wantTax:      "0",
			wantTotal:    "3.3",
		},
		{
			name:         "ZeroQuantity",
			args:         args{record: withTax(recordWith("USD", [2]string{"0", "99"}), "20", "0")},
			wantSubtotal: "0",
			wantTax:      "0",
			wantTotal:    "0",
		},
		{
			name:         "DiscountExceedsTotalIsNotClamped",
			args:         args{record: withTax(recordWith("USD", [2]string{"1", "10"}), "0", "15")},
			wantSubtotal: "10",
			wantTax:      "0",
			wantTotal:    "-5",
		},
		{
			name:         "AmountRoundedToCurrencyPrecision",
			args:         args{record: withTax(recordWith("USD", [2]string{"1.5", "0.333"}), "0", "0")},
			wantSubtotal: "0.5",
			wantTax:      "0",
			wantTotal:    "0.5",
		},
		{
			name:         "ZeroDecimalCurrency",
			args:         args{record: withTax(recordWith("JPY", [2]string{"1.5", "101"}), "0", "0")},
			wantSubtotal: "152",
			wantTax:      "0",
			wantTotal:    "152",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := invoice.Compute(tt.args.record)

			assertDecimal(t, tt.wantSubtotal, got.Subtotal)
			assertDecimal(t, tt.wantTax, got.Tax)
			assertDecimal(t, tt.wantTotal, got.Total)

			assertDecimal(t, tt.wantSubtotal, invoice.Subtotal(tt.args.record))
			assertDecimal(t, tt.wantTax, invoice.Tax(tt.args.record))
			assertDecimal(t, tt.wantTotal, invoice.Total(tt.args.record))
		})
	}
}

func TestCompute_DoesNotMutate(t *testing.T) {
	r := recordWith("USD", [2]string{"2", "10"})
	r.TaxRate = dec("10")
	before := r.Clone()

	_ = invoice.Compute(r)

	assert.Equal(t, before, r)
}

func TestPrecision(t *testing.T) {
	assert.Equal(t, int32(2), invoice.Precision("USD"))
	assert.Equal(t, int32(0), invoice.Precision("JPY"))
	assert.Equal(t, int32(3), invoice.Precision("KWD"))
	assert.Equal(t, int32(2), invoice.Precision(""))
	assert.Equal(t, int32(2), invoice.Precision("not-a-code"))
}

func TestDiscountPolicy_Apply(t *testing.T) {
	type testCase struct {
		name    string
		policy  invoice.DiscountPolicy
		total   string
		want    string
		wantErr error
	}

	tests := []testCase{
		{name: "AllowPositive", policy: invoice.DiscountAllow, total: "10", want: "10"},
		{name: "AllowNegative", policy: invoice.DiscountAllow, total: "-3", want: "-3"},
		{name: "ClampNegative", policy: invoice.DiscountClamp, total: "-3", want: "0"},
		{name: "ClampPositive", policy: invoice.DiscountClamp, total: "4.2", want: "4.2"},
		{name: "RejectNegative", policy: invoice.DiscountReject, total: "-0.01", want: "-0.01", wantErr: invoice.ErrNegativeTotal},
		{name: "RejectZero", policy: invoice.DiscountReject, total: "0", want: "0"},
		{name: "EmptyBehavesAsAllow", policy: "", total: "-1", want: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.policy.Apply(dec(tt.total))
			assert.ErrorIs(t, err, tt.wantErr)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestParseDiscountPolicy(t *testing.T) {
	p, err := invoice.ParseDiscountPolicy(" Clamp ")
	assert.NoError(t, err)
	assert.Equal(t, invoice.DiscountClamp, p)

	p, err = invoice.ParseDiscountPolicy("")
	assert.NoError(t, err)
	assert.Equal(t, invoice.DiscountAllow, p)

	_, err = invoice.ParseDiscountPolicy("sometimes")
	assert.Error(t, err)
}
