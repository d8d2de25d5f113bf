package currency

import (
	"github.com/shopspring/decimal"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/types"
)

// CompanyCurrencies maps a company code to its default currency.
type CompanyCurrencies interface {
	CurrencyFor(companyCode string) (string, bool)
}

// StaticCompanyCurrencies is a fixed CompanyCurrencies table.
type StaticCompanyCurrencies map[string]string

// CurrencyFor implements CompanyCurrencies.
func (m StaticCompanyCurrencies) CurrencyFor(companyCode string) (string, bool) {
	c, ok := m[companyCode]
	return c, ok
}

// DefaultCompanyCurrencies is the production company table.
func DefaultCompanyCurrencies() StaticCompanyCurrencies {
	return StaticCompanyCurrencies{
		"1000": "EUR",
		"2000": "GBP",
		"3000": "USD",
	}
}

// Resolver picks the output currency of a document.
type Resolver struct {
	companies CompanyCurrencies
}

// NewResolver creates a resolver over the given company table.
func NewResolver(companies CompanyCurrencies) *Resolver {
	return &Resolver{companies: companies}
}

// ResolveCurrency returns the company's currency. Unknown and empty
// company codes resolve to Base.
func (r *Resolver) ResolveCurrency(companyCode string) string {
	if companyCode == "" {
		return Base
	}
	if c, ok := r.companies.CurrencyFor(companyCode); ok && c != "" {
		return Normalize(c)
	}
	return Base
}

// ResolveWithFallback applies the full priority chain:
// company code, then the item-declared currency, then the caller's
// preference, then Base.
func (r *Resolver) ResolveWithFallback(companyCode, itemCurrency, preferred string) string {
	if companyCode != "" {
		return r.ResolveCurrency(companyCode)
	}
	if c := Normalize(itemCurrency); c != "" {
		return c
	}
	if c := Normalize(preferred); c != "" {
		return c
	}
	return Base
}

// Convert converts amount from one currency to another through Base.
// Equal currencies return amount untouched; otherwise the result is
// rounded to two places.
func Convert(amount decimal.Decimal, from, to string, rates Rates) decimal.Decimal {
	from, to = Normalize(from), Normalize(to)
	if from == to {
		return amount
	}
	inBase := amount.Div(rates.Rate(from))
	return types.RoundMoney(inBase.Mul(rates.Rate(to)))
}
