package numerator

import (
	"context"
)

// Generator allocates external document numbers.
// Implementations live in the infrastructure layer and must run their probes
// on the querier of the transaction carried by ctx.
type Generator interface {
	// NextOrderNumber returns a purchase order number that is free within
	// companyCode. A non-empty requested number is tried first.
	NextOrderNumber(ctx context.Context, companyCode, requested string) (string, error)

	// DeliveryInternalNumber returns submitted unless it is already taken,
	// in which case a millisecond timestamp suffix is appended.
	DeliveryInternalNumber(ctx context.Context, submitted string) (string, error)

	// NextDeliveryExternalNumber returns the next prefixed delivery counter.
	NextDeliveryExternalNumber(ctx context.Context) (string, error)
}
