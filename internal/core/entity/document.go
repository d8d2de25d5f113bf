// Package entity holds the fields shared by every persisted document.
package entity

import (
	"context"
	"fmt"
	"time"
)

// Validatable is implemented by documents that check their own invariants
// before touching the database.
type Validatable interface {
	Validate(ctx context.Context) error
}

// Document carries the database-assigned identity of a header row.
type Document struct {
	// ID is assigned by the database sequence on insert
	ID int64 `db:"id" json:"id"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// IsNew reports whether the document has not been inserted yet.
func (d *Document) IsNew() bool {
	return d.ID == 0
}

// SetIdentity stores the values returned by INSERT ... RETURNING.
func (d *Document) SetIdentity(id int64, createdAt time.Time) {
	d.ID = id
	d.CreatedAt = createdAt
}

// LineNumber formats the 1-based position of a line item as two digits.
func LineNumber(position int) string {
	return fmt.Sprintf("%02d", position)
}

// InsertSkip lists the Document columns filled in by the database.
var InsertSkip = []string{"id", "created_at"}
