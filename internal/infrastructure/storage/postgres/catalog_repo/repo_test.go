package catalog_repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingQuerier stands in for the pool and fails every query.
type recordingQuerier struct {
	queries []string
	err     error
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.queries = append(q.queries, sql)
	return pgconn.CommandTag{}, q.err
}

func (q *recordingQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, sql)
	return nil, q.err
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.queries = append(q.queries, sql)
	return nil
}

func TestUnitExistsSQL(t *testing.T) {
	r := NewReferenceRepo(nil)

	sql, args, err := r.existsQuery(r.unitQuery("ST", "EN"))
	require.NoError(t, err)

	assert.Equal(t, "SELECT EXISTS( SELECT 1 FROM units WHERE code = $1 AND language = $2 )", sql)
	assert.Equal(t, []any{"ST", "EN"}, args)
}

func TestTaxCodeValidSQL(t *testing.T) {
	r := NewReferenceRepo(nil)
	day := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	sql, args, err := r.existsQuery(r.taxCodeQuery("V1", "1000", "default", day))
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT EXISTS( SELECT 1 FROM tax_codes"+
			" WHERE code = $1 AND company_code = $2 AND scenario = $3"+
			" AND (valid_from IS NULL OR valid_from <= $4)"+
			" AND (valid_to IS NULL OR valid_to >= $5) )",
		sql)
	assert.Equal(t, []any{"V1", "1000", "default", day, day}, args)
}

func TestListRatesSQL(t *testing.T) {
	sql, args, err := NewExchangeRateRepo(nil).listQuery()
	require.NoError(t, err)

	assert.Equal(t, "SELECT currency_code, rate FROM exchange_rates ORDER BY currency_code", sql)
	assert.Empty(t, args)
}

func TestListRates_UsesGivenQuerier(t *testing.T) {
	boom := errors.New("relation \"exchange_rates\" does not exist")
	db := &recordingQuerier{err: boom}

	_, err := NewExchangeRateRepo(db).ListRates(context.Background())

	assert.ErrorIs(t, err, boom)
	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], "FROM exchange_rates")
}

func TestOrderItemsSQL(t *testing.T) {
	sql, args, err := NewOrderItemRepo(nil).orderItemsQuery(42)
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM purchase_order_items WHERE order_id = $1 ORDER BY id")
	assert.Equal(t, []any{int64(42)}, args)
}
