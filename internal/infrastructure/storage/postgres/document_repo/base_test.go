package document_repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/delivery_note"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/purchase_order"
)

func TestPurchaseOrderInsertSQL(t *testing.T) {
	r := NewPurchaseOrderRepo(nil)
	doc := &purchase_order.PurchaseOrder{
		ExternalNumber: "0000000001",
		OrderDate:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		CompanyCode:    "1000",
		RecipientID:    1,
		VendorID:       2,
		Currency:       "EUR",
	}

	sql, args, err := r.insertQuery(doc).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO purchase_orders")
	assert.Contains(t, sql, "RETURNING id, created_at")
	assert.NotContains(t, sql, "created_at,", "database-assigned columns are not inserted")
	assert.Contains(t, sql, "$7")
	assert.Len(t, args, 7)
}

func TestItemsInsertSQL(t *testing.T) {
	r := NewDeliveryNoteRepo(nil)
	items := []delivery_note.Item{
		{LineNumber: "01", PurchaseOrderID: 10, PurchaseOrderItemID: 101, MaterialID: 7, Quantity: decimal.NewFromInt(1), Unit: "ST", LinkStrategy: delivery_note.LinkArticleNumber},
		{LineNumber: "02", PurchaseOrderID: 10, PurchaseOrderItemID: 102, MaterialID: 8, Quantity: decimal.NewFromInt(2), Unit: "KG", LinkStrategy: delivery_note.LinkFirstItem},
	}

	sql, args, err := itemsInsertQuery(r.Builder(), deliveryNoteItemsTable, "delivery_note_id", 5, items).ToSql()
	require.NoError(t, err)

	cols := itemColumns[delivery_note.Item]()
	assert.NotContains(t, cols, "id")
	assert.NotContains(t, cols, "article_number")
	assert.Contains(t, sql, "INSERT INTO delivery_note_items")
	assert.Contains(t, sql, "RETURNING id")
	require.Len(t, args, 2*len(cols))

	fk := 0
	for i, c := range cols {
		if c == "delivery_note_id" {
			fk = i
		}
	}
	assert.Equal(t, int64(5), args[fk])
	assert.Equal(t, int64(5), args[len(cols)+fk])
}

func TestItemColumns_PurchaseOrder(t *testing.T) {
	cols := itemColumns[purchase_order.Item]()
	assert.Equal(t, "order_id", cols[0])
	assert.Contains(t, cols, "upper_limit_amount")
	assert.NotContains(t, cols, "id")
}

func TestMapError(t *testing.T) {
	r := NewPurchaseOrderRepo(nil)

	err := r.mapError(&pgconn.PgError{Code: "23505", ConstraintName: "purchase_orders_external_number_company_code_key"}, "insert")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	assert.Equal(t, "externalNumber", appErr.Details["field"])

	boom := errors.New("boom")
	err = r.mapError(boom, "insert purchase_orders")
	assert.ErrorIs(t, err, boom)
	assert.False(t, apperror.IsAppError(err))
}

// idRows returns a fixed list of ids as RETURNING rows.
type idRows struct {
	ids    []int64
	pos    int
	closed bool
}

func (r *idRows) Close()                                       { r.closed = true }
func (r *idRows) Err() error                                   { return nil }
func (r *idRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *idRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *idRows) Values() ([]any, error)                       { return []any{r.ids[r.pos-1]}, nil }
func (r *idRows) RawValues() [][]byte                          { return nil }
func (r *idRows) Conn() *pgx.Conn                              { return nil }

func (r *idRows) Next() bool {
	if r.pos >= len(r.ids) {
		return false
	}
	r.pos++
	return true
}

func (r *idRows) Scan(dest ...any) error {
	*dest[0].(*int64) = r.ids[r.pos-1]
	return nil
}

type rowsQuerier struct {
	rows *idRows
}

func (q *rowsQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (q *rowsQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return q.rows, nil
}

func (q *rowsQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestInsertItems_ReturnedIDCount(t *testing.T) {
	b := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	items := []purchase_order.Item{
		{Unit: "ST", Quantity: decimal.NewFromInt(1)},
		{Unit: "ST", Quantity: decimal.NewFromInt(2)},
	}
	ib := itemsInsertQuery(b, "purchase_order_items", "order_id", 9, items)

	tests := []struct {
		name    string
		ids     []int64
		wantErr bool
	}{
		{"one id per item", []int64{11, 12}, false},
		{"fewer ids than items", []int64{11}, true},
		{"more ids than items", []int64{11, 12, 13}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := &idRows{ids: tt.ids}
			assigned := map[int]int64{}

			err := insertItems(context.Background(), &rowsQuerier{rows: rows}, ib, "purchase_order_items", len(items), func(i int, id int64) {
				assigned[i] = id
			})

			assert.True(t, rows.closed)
			if tt.wantErr {
				assert.Error(t, err)
				assert.LessOrEqual(t, len(assigned), len(items))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, map[int]int64{0: 11, 1: 12}, assigned)
		})
	}
}
