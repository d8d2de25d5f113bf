// Package reference checks line item codes against the externally owned
// unit and tax code tables.
package reference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/clock"
)

// DefaultScenario is the only tax scenario accepted on purchase documents.
const DefaultScenario = "default"

// Repository reads the reference tables.
type Repository interface {
	// UnitExists reports whether (code, language) is a known unit.
	UnitExists(ctx context.Context, code, language string) (bool, error)

	// TaxCodeValid reports whether code exists for companyCode with the
	// given scenario and a validity window containing day.
	TaxCodeValid(ctx context.Context, code, companyCode, scenario string, day time.Time) (bool, error)
}

// Validator wraps Repository with input normalisation and the current date.
// Results are not cached and errors are returned as-is.
type Validator struct {
	repo  Repository
	clock clock.Clock
}

// NewValidator creates a Validator.
func NewValidator(repo Repository, clk clock.Clock) *Validator {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Validator{repo: repo, clock: clk}
}

// UnitExists reports whether the unit code exists in language.
func (v *Validator) UnitExists(ctx context.Context, code, language string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}
	ok, err := v.repo.UnitExists(ctx, code, strings.ToUpper(strings.TrimSpace(language)))
	if err != nil {
		return false, fmt.Errorf("check unit %q: %w", code, err)
	}
	return ok, nil
}

// TaxCodeValid reports whether the tax code is usable by companyCode today.
func (v *Validator) TaxCodeValid(ctx context.Context, code, companyCode string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}
	today := clock.Today(v.clock.Now())
	ok, err := v.repo.TaxCodeValid(ctx, code, companyCode, DefaultScenario, today)
	if err != nil {
		return false, fmt.Errorf("check tax code %q: %w", code, err)
	}
	return ok, nil
}
