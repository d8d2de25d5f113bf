package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/delivery_note"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
)

const (
	materialsTable          = "materials"
	purchaseOrderItemsTable = "purchase_order_items"
)

// OrderItemRepo implements delivery_note.OrderItemSource.
type OrderItemRepo struct {
	baseRepo
}

var _ delivery_note.OrderItemSource = (*OrderItemRepo)(nil)

// NewOrderItemRepo creates a new order item / material reader.
func NewOrderItemRepo(txManager *postgres.TxManager) *OrderItemRepo {
	return &OrderItemRepo{baseRepo{txManager: txManager}}
}

func (r *OrderItemRepo) orderItemsQuery(orderID int64) (string, []any, error) {
	return r.Builder().
		Select(
			"id",
			"COALESCE(customer_article_number, '') AS customer_article_number",
			"COALESCE(vendor_article_number, '') AS vendor_article_number",
		).
		From(purchaseOrderItemsTable).
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("id").
		ToSql()
}

// ListOrderItems implements delivery_note.OrderItemSource.
func (r *OrderItemRepo) ListOrderItems(ctx context.Context, orderID int64) ([]delivery_note.OrderItemRef, error) {
	sql, args, err := r.orderItemsQuery(orderID)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []delivery_note.OrderItemRef
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}

// MaterialNumber implements delivery_note.OrderItemSource.
func (r *OrderItemRepo) MaterialNumber(ctx context.Context, materialID int64) (string, bool, error) {
	sql, args, err := r.Builder().
		Select("COALESCE(material_number, '')").
		From(materialsTable).
		Where(squirrel.Eq{"id": materialID}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build query: %w", err)
	}

	var number string
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&number); err != nil {
		if postgres.IsNoRows(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get material number: %w", err)
	}
	return number, number != "", nil
}
