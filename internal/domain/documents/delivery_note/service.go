package delivery_note

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/clock"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/entity"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/numerator"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/tx"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/pkg/logger"
)

// Service provides business operations for delivery notes.
type Service struct {
	repo      Repository
	linker    *Linker
	numerator numerator.Generator
	txManager tx.ReadOnlyManager
	auditor   Auditor
	clock     clock.Clock
}

// Deps groups the collaborators of Service.
type Deps struct {
	Repo      Repository
	Linker    *Linker
	Numerator numerator.Generator
	TxManager tx.ReadOnlyManager
	// Auditor is optional
	Auditor Auditor
	// Clock defaults to clock.Real
	Clock clock.Clock
}

// NewService creates a new delivery note service.
func NewService(d Deps) *Service {
	clk := d.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{
		repo:      d.Repo,
		linker:    d.Linker,
		numerator: d.Numerator,
		txManager: d.TxManager,
		auditor:   d.Auditor,
		clock:     clk,
	}
}

// Create validates and persists note with all its items in one transaction.
// The delivery date window is checked before the transaction starts.
func (s *Service) Create(ctx context.Context, note *DeliveryNote) error {
	if err := note.Validate(ctx); err != nil {
		return err
	}
	if err := CheckDeliveryDate(note.DeliveryDate, s.clock.Now()); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		internal, err := s.numerator.DeliveryInternalNumber(ctx, strings.TrimSpace(note.InternalNumber))
		if err != nil {
			return fmt.Errorf("internal number: %w", err)
		}
		external, err := s.numerator.NextDeliveryExternalNumber(ctx)
		if err != nil {
			return fmt.Errorf("external number: %w", err)
		}
		note.InternalNumber = internal
		note.ExternalNumber = external

		if err := s.repo.Create(ctx, note); err != nil {
			return fmt.Errorf("create delivery note: %w", err)
		}

		if err := s.linkItems(ctx, note); err != nil {
			return err
		}

		if err := s.repo.SaveItems(ctx, note.ID, note.Items); err != nil {
			return fmt.Errorf("save delivery note items: %w", err)
		}

		if s.auditor != nil {
			if err := s.auditor.Record(ctx, EntityType, note.ID, note); err != nil {
				return fmt.Errorf("audit delivery note: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "delivery note created",
		"id", note.ID,
		"internal_number", note.InternalNumber,
		"external_number", note.ExternalNumber,
		"items", len(note.Items))

	return nil
}

func (s *Service) linkItems(ctx context.Context, note *DeliveryNote) error {
	sess := s.linker.newSession()

	for i := range note.Items {
		item := &note.Items[i]
		item.LineNumber = entity.LineNumber(i + 1)

		orderItemID, strategy, err := sess.resolve(ctx, item)
		if errors.Is(err, ErrUnresolved) {
			return apperror.NewUnresolvedLink(item.PurchaseOrderID, item.MaterialID, item.LineNumber).
				WithDetail("strict", s.linker.Strict()).
				WithCause(err)
		}
		if err != nil {
			return err
		}

		item.PurchaseOrderItemID = orderItemID
		item.LinkStrategy = strategy

		if strategy == LinkFirstItem {
			logger.Warn(ctx, "delivery item linked to first order item",
				"line", item.LineNumber,
				"purchase_order_id", item.PurchaseOrderID,
				"material_id", item.MaterialID,
				"purchase_order_item_id", orderItemID)
		} else {
			logger.Debug(ctx, "delivery item linked",
				"line", item.LineNumber,
				"strategy", strategy,
				"purchase_order_item_id", orderItemID)
		}
	}
	return nil
}

// GetByID retrieves a delivery note with its items.
func (s *Service) GetByID(ctx context.Context, id int64) (*DeliveryNote, error) {
	var note *DeliveryNote
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		note, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		items, err := s.repo.GetItems(ctx, id)
		if err != nil {
			return fmt.Errorf("get items: %w", err)
		}
		note.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}
