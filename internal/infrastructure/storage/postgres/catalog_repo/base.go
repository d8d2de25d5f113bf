// Package catalog_repo provides read access to the externally owned master
// and reference tables (rates, parties, materials, units, tax codes).
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
)

// baseRepo holds what every catalog reader needs.
type baseRepo struct {
	txManager *postgres.TxManager
}

// Builder returns a new squirrel builder.
func (r baseRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r baseRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// existsQuery wraps q into SELECT EXISTS(...).
func (r baseRepo) existsQuery(q squirrel.SelectBuilder) (string, []any, error) {
	return q.Prefix("SELECT EXISTS(").Suffix(")").ToSql()
}

func (r baseRepo) exists(ctx context.Context, q squirrel.SelectBuilder) (bool, error) {
	sql, args, err := r.existsQuery(q)
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}

	var found bool
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}
