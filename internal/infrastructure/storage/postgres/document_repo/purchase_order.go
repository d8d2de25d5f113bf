package document_repo

import (
	"context"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/purchase_order"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
)

const (
	purchaseOrdersTable     = "purchase_orders"
	purchaseOrderItemsTable = "purchase_order_items"
)

// PurchaseOrderRepo implements purchase_order.Repository.
type PurchaseOrderRepo struct {
	*BaseDocumentRepo[*purchase_order.PurchaseOrder]
}

var _ purchase_order.Repository = (*PurchaseOrderRepo)(nil)

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(txManager *postgres.TxManager) *PurchaseOrderRepo {
	base := NewBaseDocumentRepo(
		txManager,
		purchaseOrdersTable,
		"purchase order",
		postgres.ExtractDBColumns[purchase_order.PurchaseOrder](),
		func() *purchase_order.PurchaseOrder { return &purchase_order.PurchaseOrder{} },
	)
	base.uniqueField["purchase_orders_external_number_company_code_key"] = "externalNumber"
	return &PurchaseOrderRepo{BaseDocumentRepo: base}
}

// SaveItems inserts items in order and stores their assigned ids.
func (r *PurchaseOrderRepo) SaveItems(ctx context.Context, orderID int64, items []purchase_order.Item) error {
	if len(items) == 0 {
		return nil
	}
	q := itemsInsertQuery(r.Builder(), purchaseOrderItemsTable, "order_id", orderID, items)
	return insertItems(ctx, r.querier(ctx), q, purchaseOrderItemsTable, len(items), func(i int, id int64) {
		items[i].ID = id
		items[i].OrderID = orderID
	})
}

// GetItems retrieves the items of an order in line order.
func (r *PurchaseOrderRepo) GetItems(ctx context.Context, orderID int64) ([]purchase_order.Item, error) {
	return selectItems[purchase_order.Item](ctx, r.querier(ctx), r.Builder(), purchaseOrderItemsTable, "order_id", orderID)
}
