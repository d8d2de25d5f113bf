// Package delivery_note provides the delivery note document.
package delivery_note

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/clock"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/entity"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/numerator"
)

// EntityType names delivery notes in audit records.
const EntityType = "delivery_note"

// Delivery date window relative to today, in calendar days (inclusive).
const (
	MaxDaysAhead  = 7
	MaxDaysBehind = 30
)

// DeliveryNote is the note header.
type DeliveryNote struct {
	entity.Document

	// InternalNumber is the caller's number, suffixed when it was taken
	InternalNumber string `db:"internal_number" json:"internalNumber"`

	// ExternalNumber is the generated prefix + counter
	ExternalNumber string    `db:"external_number" json:"externalNumber"`
	Type           string    `db:"note_type" json:"type"`
	DeliveryDate   time.Time `db:"delivery_date" json:"deliveryDate"`

	Items []Item `db:"-" json:"items"`
}

// Item is one delivered line, linked to a purchase order item.
type Item struct {
	ID                  int64           `db:"id" json:"id"`
	DeliveryNoteID      int64           `db:"delivery_note_id" json:"deliveryNoteId"`
	LineNumber          string          `db:"line_number" json:"lineNumber"`
	PurchaseOrderID     int64           `db:"purchase_order_id" json:"purchaseOrderId"`
	PurchaseOrderItemID int64           `db:"purchase_order_item_id" json:"purchaseOrderItemId"`
	MaterialID          int64           `db:"material_id" json:"materialId"`
	NetAmount           decimal.Decimal `db:"net_amount" json:"netAmount"`
	Quantity            decimal.Decimal `db:"quantity" json:"quantity"`
	Unit                string          `db:"unit" json:"unit"`
	TotalAmount         decimal.Decimal `db:"total_amount" json:"totalAmount"`
	Currency            string          `db:"currency" json:"currency"`

	// LinkStrategy records how PurchaseOrderItemID was found
	LinkStrategy LinkStrategy `db:"link_strategy" json:"linkStrategy"`

	// ArticleNumber is an optional matching hint and is not stored
	ArticleNumber string `db:"-" json:"articleNumber,omitempty"`
}

// Validate implements entity.Validatable.
func (n *DeliveryNote) Validate(ctx context.Context) error {
	if strings.TrimSpace(n.InternalNumber) == "" {
		return apperror.NewValidation("internal number is required").
			WithDetail("field", "internalNumber")
	}
	if utf8.RuneCountInString(strings.TrimSpace(n.InternalNumber)) > numerator.MaxSubmittedInternalNumberLength {
		return apperror.NewValidation("internal number is too long").
			WithDetail("field", "internalNumber").
			WithDetail("maxLength", numerator.MaxSubmittedInternalNumberLength)
	}
	if n.DeliveryDate.IsZero() {
		return apperror.NewValidation("delivery date is required").
			WithDetail("field", "deliveryDate")
	}
	if len(n.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range n.Items {
		line := entity.LineNumber(i + 1)
		if item.PurchaseOrderID <= 0 {
			return apperror.NewValidation("purchase order is required").
				WithDetail("field", "purchaseOrderId").
				WithDetail("lineNumber", line)
		}
		if item.MaterialID <= 0 {
			return apperror.NewValidation("material is required").
				WithDetail("field", "materialId").
				WithDetail("lineNumber", line)
		}
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "quantity").
				WithDetail("lineNumber", line)
		}
		if strings.TrimSpace(item.Unit) == "" {
			return apperror.NewValidation("unit is required").
				WithDetail("field", "unit").
				WithDetail("lineNumber", line)
		}
	}
	return nil
}

// CheckDeliveryDate rejects dates more than MaxDaysAhead days after or
// MaxDaysBehind days before the day of now. Both bounds are inclusive.
func CheckDeliveryDate(date, now time.Time) error {
	days := int(clock.Today(date).Sub(clock.Today(now)).Hours() / 24)
	if days > MaxDaysAhead || days < -MaxDaysBehind {
		return apperror.NewValidation("delivery date outside the allowed window").
			WithDetail("field", "deliveryDate").
			WithDetail("deliveryDate", clock.Today(date).Format(time.DateOnly)).
			WithDetail("earliest", clock.Today(now).AddDate(0, 0, -MaxDaysBehind).Format(time.DateOnly)).
			WithDetail("latest", clock.Today(now).AddDate(0, 0, MaxDaysAhead).Format(time.DateOnly))
	}
	return nil
}

var _ entity.Validatable = (*DeliveryNote)(nil)
