// Package currency resolves document currencies and converts amounts
// between them using rates relative to a single base currency.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Base is the currency every rate is expressed against.
const Base = "EUR"

// ExchangeRate is one row of the rate table: units of CurrencyCode per one Base.
type ExchangeRate struct {
	CurrencyCode string          `db:"currency_code" json:"currencyCode"`
	RateToBase   decimal.Decimal `db:"rate" json:"rateToBase"`
}

// Rates maps currency code to rate relative to Base.
type Rates map[string]decimal.Decimal

// Rate returns the rate for code. Unknown codes and non-positive rates
// count as 1, i.e. base-equivalent.
func (r Rates) Rate(code string) decimal.Decimal {
	rate, ok := r[Normalize(code)]
	if !ok || !rate.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return rate
}

// Clone returns an independent copy.
func (r Rates) Clone() Rates {
	out := make(Rates, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FallbackRates are used whenever the rate table cannot be read.
func FallbackRates() Rates {
	return Rates{
		Base:  decimal.NewFromInt(1),
		"GBP": decimal.RequireFromString("0.85"),
		"USD": decimal.RequireFromString("1.08"),
		"CHF": decimal.RequireFromString("0.96"),
	}
}

// Normalize upper-cases and trims a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
