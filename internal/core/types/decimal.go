// Package types provides the monetary value helpers shared by documents
// and currency conversion.
package types

import (
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits kept for stored amounts.
const MoneyPlaces int32 = 2

// Money represents a monetary value with full precision.
type Money = decimal.Decimal

// RoundMoney rounds half away from zero to two decimal places.
func RoundMoney(m Money) Money {
	return m.Round(MoneyPlaces)
}
