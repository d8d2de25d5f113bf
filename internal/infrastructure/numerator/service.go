// Package numerator provides the PostgreSQL implementation of document numbering.
// This is the infrastructure layer - it implements core/numerator.Generator.
package numerator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/clock"
	corenumerator "github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/numerator"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/pkg/logger"
)

var tracer = otel.Tracer("invoicegen/numerator")

var digits = regexp.MustCompile(`^[0-9]+$`)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service allocates document numbers by probing the document tables.
// All lookups run on the querier of the current transaction.
type Service struct {
	querier func(ctx context.Context) Querier
	cfg     corenumerator.Config
	clock   clock.Clock
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator with a static querier.
// Use for testing scenarios.
func New(q Querier, cfg corenumerator.Config, clk clock.Clock) *Service {
	return newService(func(context.Context) Querier { return q }, cfg, clk)
}

// NewWithTxManager creates a numerator that runs on the transaction carried by ctx.
func NewWithTxManager(txm *postgres.TxManager, cfg corenumerator.Config, clk clock.Clock) *Service {
	return newService(func(ctx context.Context) Querier { return txm.GetQuerier(ctx) }, cfg, clk)
}

func newService(q func(context.Context) Querier, cfg corenumerator.Config, clk clock.Clock) *Service {
	def := corenumerator.DefaultConfig()
	if cfg.OrderPadWidth <= 0 {
		cfg.OrderPadWidth = def.OrderPadWidth
	}
	if cfg.OrderAttempts <= 0 {
		cfg.OrderAttempts = def.OrderAttempts
	}
	if cfg.DeliveryPrefix == "" {
		cfg.DeliveryPrefix = def.DeliveryPrefix
	}
	if cfg.DeliveryPadWidth <= 0 {
		cfg.DeliveryPadWidth = def.DeliveryPadWidth
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{querier: q, cfg: cfg, clock: clk}
}

// NextOrderNumber implements Generator.
//
// Without a requested number the probe starts at the highest numeric order
// number of the company plus one. A numeric request starts the probe at the
// requested value. A non-numeric request is used verbatim when free.
func (s *Service) NextOrderNumber(ctx context.Context, companyCode, requested string) (string, error) {
	ctx, span := tracer.Start(ctx, "numerator.NextOrderNumber")
	defer span.End()
	span.SetAttributes(attribute.String("company_code", companyCode))

	q := s.querier(ctx)

	if requested != "" && !digits.MatchString(requested) {
		taken, err := s.orderExists(ctx, q, requested, companyCode)
		if err != nil {
			return "", err
		}
		if taken {
			return "", apperror.NewDuplicate("purchase order", "externalNumber", requested)
		}
		return requested, nil
	}

	width := s.cfg.OrderPadWidth
	var start int64
	if requested != "" {
		n, err := strconv.ParseInt(requested, 10, 64)
		if err != nil {
			return "", apperror.NewValidation("order number out of range").
				WithDetail("externalNumber", requested)
		}
		start = n
		width = max(width, len(requested))
	} else {
		var last int64
		err := q.QueryRow(ctx, `
			SELECT COALESCE(MAX(external_number::bigint), 0)
			FROM purchase_orders
			WHERE company_code = $1 AND external_number ~ '^[0-9]+$'
		`, companyCode).Scan(&last)
		if err != nil {
			return "", fmt.Errorf("max order number: %w", err)
		}
		start = last + 1
	}

	n, err := corenumerator.Probe(ctx, start, s.cfg.OrderAttempts, func(ctx context.Context, candidate int64) (bool, error) {
		return s.orderExists(ctx, q, corenumerator.FormatOrderNumber(candidate, width), companyCode)
	})
	if err != nil {
		return "", err
	}
	if n != start {
		logger.Debug(ctx, "order number collision skipped",
			"company_code", companyCode,
			"start", start,
			"assigned", n)
	}
	return corenumerator.FormatOrderNumber(n, width), nil
}

func (s *Service) orderExists(ctx context.Context, q Querier, number, companyCode string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM purchase_orders
			WHERE external_number = $1 AND company_code = $2
		)
	`, number, companyCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check order number: %w", err)
	}
	return exists, nil
}

// DeliveryInternalNumber implements Generator.
func (s *Service) DeliveryInternalNumber(ctx context.Context, submitted string) (string, error) {
	ctx, span := tracer.Start(ctx, "numerator.DeliveryInternalNumber")
	defer span.End()

	var exists bool
	err := s.querier(ctx).QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM delivery_notes WHERE internal_number = $1)
	`, submitted).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("check internal number: %w", err)
	}
	if !exists {
		return submitted, nil
	}

	suffixed := corenumerator.SuffixInternalNumber(submitted, s.clock.Now())
	logger.Info(ctx, "internal delivery number taken, suffix appended",
		"submitted", submitted,
		"assigned", suffixed)
	return suffixed, nil
}

// NextDeliveryExternalNumber implements Generator.
func (s *Service) NextDeliveryExternalNumber(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "numerator.NextDeliveryExternalNumber")
	defer span.End()

	prefix := s.cfg.DeliveryPrefix
	pattern := "^" + regexp.QuoteMeta(prefix) + "[0-9]+$"

	var last string
	err := s.querier(ctx).QueryRow(ctx, `
		SELECT external_number FROM delivery_notes
		WHERE external_number ~ $1
		ORDER BY substring(external_number FROM $2)::numeric DESC
		LIMIT 1
	`, pattern, utf8.RuneCountInString(prefix)+1).Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("last delivery number: %w", err)
	}

	next := ParseCounter(last, prefix) + 1
	return corenumerator.FormatDeliveryNumber(prefix, next, s.cfg.DeliveryPadWidth), nil
}

// ParseCounter extracts the counter from a prefixed number.
// Returns 0 if the number does not carry the prefix or is not numeric.
func ParseCounter(number, prefix string) int64 {
	rest, ok := strings.CutPrefix(number, prefix)
	if !ok || !digits.MatchString(rest) {
		return 0
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
