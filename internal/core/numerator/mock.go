package numerator

import (
	"context"
)

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type MockGenerator struct {
	NextOrderNumberFunc            func(ctx context.Context, companyCode, requested string) (string, error)
	DeliveryInternalNumberFunc     func(ctx context.Context, submitted string) (string, error)
	NextDeliveryExternalNumberFunc func(ctx context.Context) (string, error)
}

// NextOrderNumber implements Generator.
func (m *MockGenerator) NextOrderNumber(ctx context.Context, companyCode, requested string) (string, error) {
	if m.NextOrderNumberFunc != nil {
		return m.NextOrderNumberFunc(ctx, companyCode, requested)
	}
	if requested != "" {
		return requested, nil
	}
	return "0000000001", nil
}

// DeliveryInternalNumber implements Generator.
func (m *MockGenerator) DeliveryInternalNumber(ctx context.Context, submitted string) (string, error) {
	if m.DeliveryInternalNumberFunc != nil {
		return m.DeliveryInternalNumberFunc(ctx, submitted)
	}
	return submitted, nil
}

// NextDeliveryExternalNumber implements Generator.
func (m *MockGenerator) NextDeliveryExternalNumber(ctx context.Context) (string, error) {
	if m.NextDeliveryExternalNumberFunc != nil {
		return m.NextDeliveryExternalNumberFunc(ctx)
	}
	return "LS-0001", nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
