package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRates() Rates {
	return Rates{"EUR": dec("1"), "GBP": dec("0.85"), "USD": dec("1.08")}
}

func TestResolveCurrency(t *testing.T) {
	r := NewResolver(DefaultCompanyCurrencies())

	assert.Equal(t, "EUR", r.ResolveCurrency("1000"))
	assert.Equal(t, "GBP", r.ResolveCurrency("2000"))
	assert.Equal(t, "USD", r.ResolveCurrency("3000"))
	assert.Equal(t, Base, r.ResolveCurrency("9999"))
	assert.Equal(t, Base, r.ResolveCurrency(""))
}

func TestResolveWithFallback_CompanyCodeWins(t *testing.T) {
	r := NewResolver(DefaultCompanyCurrencies())

	for _, item := range []string{"EUR", "USD", "CHF", ""} {
		assert.Equal(t, "GBP", r.ResolveWithFallback("2000", item, "USD"))
	}
}

func TestResolveWithFallback_Chain(t *testing.T) {
	r := NewResolver(StaticCompanyCurrencies{})

	assert.Equal(t, "CHF", r.ResolveWithFallback("", "chf", "USD"))
	assert.Equal(t, "USD", r.ResolveWithFallback("", "", "usd"))
	assert.Equal(t, Base, r.ResolveWithFallback("", "", ""))
	assert.Equal(t, Base, r.ResolveWithFallback("4711", "USD", ""))
}

func TestConvert_SameCurrencyIsIdentity(t *testing.T) {
	for _, code := range []string{"EUR", "GBP", "USD", "XXX"} {
		amount := dec("123.456789")
		got := Convert(amount, code, code, testRates())
		assert.True(t, got.Equal(amount), "%s: got %s", code, got)
	}
}

func TestConvert_EURToGBP(t *testing.T) {
	got := Convert(dec("100"), "EUR", "GBP", testRates())

	assert.True(t, got.Equal(dec("85.00")))
}

func TestConvert_CrossRateRounded(t *testing.T) {
	got := Convert(dec("50"), "GBP", "USD", testRates())

	assert.True(t, got.Equal(dec("63.53")), "got %s", got)
}

func TestConvert_UnknownCurrencyIsBaseEquivalent(t *testing.T) {
	assert.True(t, Convert(dec("10"), "XYZ", "GBP", testRates()).Equal(dec("8.5")))
	assert.True(t, Convert(dec("10"), "GBP", "XYZ", testRates()).Equal(dec("11.76")))
}

func TestConvert_RoundTripWithinTolerance(t *testing.T) {
	rates := testRates()
	tests := []struct {
		amount string
		x, y   string
	}{
		{"100", "EUR", "GBP"},
		{"19.99", "EUR", "GBP"},
		{"1234.56", "EUR", "GBP"},
		{"0.01", "EUR", "GBP"},
		{"100", "EUR", "USD"},
		{"50", "GBP", "USD"},
	}
	for _, tt := range tests {
		t.Run(tt.amount+tt.x+tt.y, func(t *testing.T) {
			a := dec(tt.amount)
			back := Convert(Convert(a, tt.x, tt.y, rates), tt.y, tt.x, rates)
			assert.True(t, back.Sub(a).Abs().LessThanOrEqual(dec("0.01")), "got %s", back)
		})
	}
}
