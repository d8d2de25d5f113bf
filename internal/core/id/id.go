// Package id generates the UUIDs used for audit records and idempotency keys.
// Document headers and items use database-assigned sequential ids instead.
package id

import (
	"github.com/google/uuid"
)

// ID is the UUID type used for audit rows.
type ID = uuid.UUID

// New returns a time-ordered UUIDv7, falling back to v4 if the
// generator fails.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse converts s to an ID.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// IsNil reports whether v is the zero UUID.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
