// Package tx defines the unit-of-work contract used by document services.
// Services depend on Manager; the Postgres implementation lives in
// infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs a closure as one atomic unit of work.
//
// fn receives a context carrying the open transaction. Returning an error
// (or panicking) rolls everything back; returning nil commits.
// Nested calls reuse the transaction already present in ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only units of work, used by document lookups
// that load a header and its items together.
type ReadOnlyManager interface {
	Manager

	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
