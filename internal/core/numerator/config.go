// Package numerator provides domain contracts for document numbering.
package numerator

import (
	"fmt"
	"time"
)

// Stored number column widths.
const (
	MaxExternalNumberLength = 20
	MaxInternalNumberLength = 60

	// InternalSuffixWidth is "-" plus a 13 digit epoch millisecond stamp.
	InternalSuffixWidth = 14

	// MaxSubmittedInternalNumberLength leaves room for the collision suffix.
	MaxSubmittedInternalNumberLength = MaxInternalNumberLength - InternalSuffixWidth
)

// Config holds numbering configuration.
type Config struct {
	// OrderPadWidth is the zero-padded width of generated purchase order numbers.
	OrderPadWidth int

	// OrderAttempts bounds the collision probe for purchase order numbers.
	OrderAttempts int

	// DeliveryPrefix is prepended to delivery note external numbers (e.g. "LS-").
	DeliveryPrefix string

	// DeliveryPadWidth is the zero-padded width of the delivery counter.
	DeliveryPadWidth int
}

// DefaultConfig returns the production numbering scheme.
func DefaultConfig() Config {
	return Config{
		OrderPadWidth:    10,
		OrderAttempts:    10,
		DeliveryPrefix:   "LS-",
		DeliveryPadWidth: 4,
	}
}

// FormatOrderNumber zero-pads n to width digits.
func FormatOrderNumber(n int64, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// FormatDeliveryNumber renders prefix followed by the zero-padded counter.
func FormatDeliveryNumber(prefix string, n int64, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// SuffixInternalNumber appends the collision suffix for a taken internal
// delivery number.
func SuffixInternalNumber(submitted string, at time.Time) string {
	return fmt.Sprintf("%s-%013d", submitted, at.UnixMilli())
}
