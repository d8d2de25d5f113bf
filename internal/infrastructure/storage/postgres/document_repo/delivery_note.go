package document_repo

import (
	"context"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/delivery_note"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
)

const (
	deliveryNotesTable     = "delivery_notes"
	deliveryNoteItemsTable = "delivery_note_items"
)

// DeliveryNoteRepo implements delivery_note.Repository.
type DeliveryNoteRepo struct {
	*BaseDocumentRepo[*delivery_note.DeliveryNote]
}

var _ delivery_note.Repository = (*DeliveryNoteRepo)(nil)

// NewDeliveryNoteRepo creates a new delivery note repository.
func NewDeliveryNoteRepo(txManager *postgres.TxManager) *DeliveryNoteRepo {
	base := NewBaseDocumentRepo(
		txManager,
		deliveryNotesTable,
		"delivery note",
		postgres.ExtractDBColumns[delivery_note.DeliveryNote](),
		func() *delivery_note.DeliveryNote { return &delivery_note.DeliveryNote{} },
	)
	base.uniqueField["delivery_notes_external_number_key"] = "externalNumber"
	return &DeliveryNoteRepo{BaseDocumentRepo: base}
}

// SaveItems inserts items in order and stores their assigned ids.
func (r *DeliveryNoteRepo) SaveItems(ctx context.Context, noteID int64, items []delivery_note.Item) error {
	if len(items) == 0 {
		return nil
	}
	q := itemsInsertQuery(r.Builder(), deliveryNoteItemsTable, "delivery_note_id", noteID, items)
	return insertItems(ctx, r.querier(ctx), q, deliveryNoteItemsTable, len(items), func(i int, id int64) {
		items[i].ID = id
		items[i].DeliveryNoteID = noteID
	})
}

// GetItems retrieves the items of a note in line order.
func (r *DeliveryNoteRepo) GetItems(ctx context.Context, noteID int64) ([]delivery_note.Item, error) {
	return selectItems[delivery_note.Item](ctx, r.querier(ctx), r.Builder(), deliveryNoteItemsTable, "delivery_note_id", noteID)
}
