package delivery_note

import (
	"context"
)

// Repository persists delivery notes. Implementations run on the
// transaction carried by ctx.
type Repository interface {
	// Create inserts the header and stores the assigned id on note.
	Create(ctx context.Context, note *DeliveryNote) error
	GetByID(ctx context.Context, id int64) (*DeliveryNote, error)

	// SaveItems inserts items in order and stores their assigned ids.
	SaveItems(ctx context.Context, noteID int64, items []Item) error
	GetItems(ctx context.Context, noteID int64) ([]Item, error)
}

// Auditor records a snapshot of a created document.
type Auditor interface {
	Record(ctx context.Context, entityType string, entityID int64, snapshot any) error
}
