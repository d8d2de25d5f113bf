package purchase_order

import (
	"context"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/currency"
)

// Repository persists purchase orders. Implementations run on the
// transaction carried by ctx.
type Repository interface {
	// Create inserts the header and stores the assigned id on doc.
	Create(ctx context.Context, doc *PurchaseOrder) error
	GetByID(ctx context.Context, id int64) (*PurchaseOrder, error)

	// SaveItems inserts items in order and stores their assigned ids.
	SaveItems(ctx context.Context, orderID int64, items []Item) error
	GetItems(ctx context.Context, orderID int64) ([]Item, error)
}

// PartyRepository reads the vendor and recipient master data.
type PartyRepository interface {
	// GetRecipient returns a NOT_FOUND AppError for unknown ids.
	GetRecipient(ctx context.Context, id int64) (*Recipient, error)
	VendorExists(ctx context.Context, id int64) (bool, error)
}

// ReferenceChecker validates unit and tax codes.
type ReferenceChecker interface {
	UnitExists(ctx context.Context, code, language string) (bool, error)
	TaxCodeValid(ctx context.Context, code, companyCode string) (bool, error)
}

// RateProvider returns the current exchange rates.
type RateProvider interface {
	Get(ctx context.Context) currency.Rates
}

// CurrencyResolver picks the document currency.
type CurrencyResolver interface {
	ResolveWithFallback(companyCode, itemCurrency, preferred string) string
}

// Auditor records a snapshot of a created document.
type Auditor interface {
	Record(ctx context.Context, entityType string, entityID int64, snapshot any) error
}
