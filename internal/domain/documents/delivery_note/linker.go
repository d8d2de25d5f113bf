package delivery_note

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LinkStrategy names the rule that resolved a delivery item.
type LinkStrategy string

const (
	LinkArticleNumber  LinkStrategy = "article_number"
	LinkMaterialNumber LinkStrategy = "material_number"
	LinkFirstItem      LinkStrategy = "first_item"
)

// ErrUnresolved is returned when no order item can be linked.
var ErrUnresolved = errors.New("purchase order item not resolvable")

// OrderItemRef is the part of a purchase order item used for matching.
type OrderItemRef struct {
	ID                    int64  `db:"id"`
	CustomerArticleNumber string `db:"customer_article_number"`
	VendorArticleNumber   string `db:"vendor_article_number"`
}

func (r OrderItemRef) matches(number string) bool {
	return number != "" &&
		(strings.TrimSpace(r.CustomerArticleNumber) == number ||
			strings.TrimSpace(r.VendorArticleNumber) == number)
}

// OrderItemSource reads order items and material numbers.
type OrderItemSource interface {
	// ListOrderItems returns the items of an order in insertion order.
	ListOrderItems(ctx context.Context, orderID int64) ([]OrderItemRef, error)

	// MaterialNumber returns the canonical article number of a material.
	MaterialNumber(ctx context.Context, materialID int64) (string, bool, error)
}

// Linker resolves delivery items to purchase order items:
// article number match, then canonical material number match, then the
// first item of the order unless strict.
type Linker struct {
	source OrderItemSource
	strict bool
}

// NewLinker creates a Linker. strict disables the first-item fallback.
func NewLinker(source OrderItemSource, strict bool) *Linker {
	return &Linker{source: source, strict: strict}
}

// Strict reports whether the first-item fallback is disabled.
func (l *Linker) Strict() bool {
	return l.strict
}

// session caches order items for the duration of one delivery note.
type session struct {
	*Linker
	items map[int64][]OrderItemRef
}

func (l *Linker) newSession() *session {
	return &session{Linker: l, items: make(map[int64][]OrderItemRef)}
}

func (s *session) orderItems(ctx context.Context, orderID int64) ([]OrderItemRef, error) {
	if items, ok := s.items[orderID]; ok {
		return items, nil
	}
	items, err := s.source.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list items of order %d: %w", orderID, err)
	}
	s.items[orderID] = items
	return items, nil
}

// resolve returns the linked order item id and the rule that found it.
func (s *session) resolve(ctx context.Context, item *Item) (int64, LinkStrategy, error) {
	items, err := s.orderItems(ctx, item.PurchaseOrderID)
	if err != nil {
		return 0, "", err
	}
	if len(items) == 0 {
		return 0, "", ErrUnresolved
	}

	candidates := []string{strings.TrimSpace(item.ArticleNumber), strconv.FormatInt(item.MaterialID, 10)}
	if id, ok := match(items, candidates...); ok {
		return id, LinkArticleNumber, nil
	}

	number, found, err := s.source.MaterialNumber(ctx, item.MaterialID)
	if err != nil {
		return 0, "", fmt.Errorf("load material %d: %w", item.MaterialID, err)
	}
	if found {
		if id, ok := match(items, strings.TrimSpace(number)); ok {
			return id, LinkMaterialNumber, nil
		}
	}

	if s.strict {
		return 0, "", ErrUnresolved
	}
	return items[0].ID, LinkFirstItem, nil
}

func match(items []OrderItemRef, numbers ...string) (int64, bool) {
	for _, n := range numbers {
		if n == "" {
			continue
		}
		for _, it := range items {
			if it.matches(n) {
				return it.ID, true
			}
		}
	}
	return 0, false
}
