package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/purchase_order"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
)

const (
	recipientsTable = "recipients"
	vendorsTable    = "vendors"
)

// PartyRepo implements purchase_order.PartyRepository.
type PartyRepo struct {
	baseRepo
}

var _ purchase_order.PartyRepository = (*PartyRepo)(nil)

// NewPartyRepo creates a new recipient/vendor repository.
func NewPartyRepo(txManager *postgres.TxManager) *PartyRepo {
	return &PartyRepo{baseRepo{txManager: txManager}}
}

// GetRecipient loads a recipient by id.
func (r *PartyRepo) GetRecipient(ctx context.Context, id int64) (*purchase_order.Recipient, error) {
	sql, args, err := r.Builder().
		Select(postgres.ExtractDBColumns[purchase_order.Recipient]()...).
		From(recipientsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec purchase_order.Recipient
	if err := pgxscan.Get(ctx, r.querier(ctx), &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("recipient", id)
		}
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	return &rec, nil
}

// VendorExists reports whether a vendor with id exists.
func (r *PartyRepo) VendorExists(ctx context.Context, id int64) (bool, error) {
	q := r.Builder().Select("1").From(vendorsTable).Where(squirrel.Eq{"id": id})
	ok, err := r.exists(ctx, q)
	if err != nil {
		return false, fmt.Errorf("check vendor: %w", err)
	}
	return ok, nil
}
