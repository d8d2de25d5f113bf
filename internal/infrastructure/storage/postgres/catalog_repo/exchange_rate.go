package catalog_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/currency"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
)

const exchangeRatesTable = "exchange_rates"

// ExchangeRateRepo implements currency.RateSource.
// It reads from the pool directly and never joins the transaction in ctx:
// a rate lookup made while a document is being written must not be able
// to abort that document's transaction.
type ExchangeRateRepo struct {
	baseRepo
	db postgres.Querier
}

var _ currency.RateSource = (*ExchangeRateRepo)(nil)

// NewExchangeRateRepo creates a new exchange rate repository on db,
// normally the connection pool.
func NewExchangeRateRepo(db postgres.Querier) *ExchangeRateRepo {
	return &ExchangeRateRepo{db: db}
}

func (r *ExchangeRateRepo) listQuery() (string, []any, error) {
	return r.Builder().
		Select(postgres.ExtractDBColumns[currency.ExchangeRate]()...).
		From(exchangeRatesTable).
		OrderBy("currency_code").
		ToSql()
}

// ListRates returns every stored rate.
func (r *ExchangeRateRepo) ListRates(ctx context.Context) ([]currency.ExchangeRate, error) {
	sql, args, err := r.listQuery()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rates []currency.ExchangeRate
	if err := pgxscan.Select(ctx, r.db, &rates, sql, args...); err != nil {
		return nil, fmt.Errorf("list exchange rates: %w", err)
	}
	return rates, nil
}
