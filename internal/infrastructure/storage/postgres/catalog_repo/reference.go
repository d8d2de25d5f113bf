package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/reference"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
)

const (
	unitsTable    = "units"
	taxCodesTable = "tax_codes"
)

// ReferenceRepo implements reference.Repository.
type ReferenceRepo struct {
	baseRepo
}

var _ reference.Repository = (*ReferenceRepo)(nil)

// NewReferenceRepo creates a new reference data repository.
func NewReferenceRepo(txManager *postgres.TxManager) *ReferenceRepo {
	return &ReferenceRepo{baseRepo{txManager: txManager}}
}

func (r *ReferenceRepo) unitQuery(code, language string) squirrel.SelectBuilder {
	return r.Builder().
		Select("1").
		From(unitsTable).
		Where(squirrel.Eq{"code": code, "language": language})
}

// UnitExists implements reference.Repository.
func (r *ReferenceRepo) UnitExists(ctx context.Context, code, language string) (bool, error) {
	ok, err := r.exists(ctx, r.unitQuery(code, language))
	if err != nil {
		return false, fmt.Errorf("check unit %s/%s: %w", code, language, err)
	}
	return ok, nil
}

// taxCodeQuery matches codes whose validity window contains day.
// NULL bounds are open.
func (r *ReferenceRepo) taxCodeQuery(code, companyCode, scenario string, day time.Time) squirrel.SelectBuilder {
	return r.Builder().
		Select("1").
		From(taxCodesTable).
		Where(squirrel.Eq{"code": code, "company_code": companyCode, "scenario": scenario}).
		Where(squirrel.Or{squirrel.Eq{"valid_from": nil}, squirrel.LtOrEq{"valid_from": day}}).
		Where(squirrel.Or{squirrel.Eq{"valid_to": nil}, squirrel.GtOrEq{"valid_to": day}})
}

// TaxCodeValid implements reference.Repository.
func (r *ReferenceRepo) TaxCodeValid(ctx context.Context, code, companyCode, scenario string, day time.Time) (bool, error) {
	ok, err := r.exists(ctx, r.taxCodeQuery(code, companyCode, scenario, day))
	if err != nil {
		return false, fmt.Errorf("check tax code %s/%s: %w", code, companyCode, err)
	}
	return ok, nil
}
