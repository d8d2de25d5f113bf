// Package purchase_order provides the purchase order document.
package purchase_order

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/entity"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/numerator"
)

// EntityType names purchase orders in audit records.
const EntityType = "purchase_order"

// PurchaseOrder is the order header. ExternalNumber is unique per CompanyCode
// and never changes after insert.
type PurchaseOrder struct {
	entity.Document

	ExternalNumber   string    `db:"external_number" json:"externalNumber"`
	OrderDate        time.Time `db:"order_date" json:"orderDate"`
	CompanyCode      string    `db:"company_code" json:"companyCode"`
	RecipientID      int64     `db:"recipient_id" json:"recipientId"`
	VendorID         int64     `db:"vendor_id" json:"vendorId"`
	TermsOfPaymentID *int64    `db:"terms_of_payment_id" json:"termsOfPaymentId,omitempty"`

	// Currency is the resolved document currency every item was converted to
	Currency string `db:"currency" json:"currency"`

	Items []Item `db:"-" json:"items"`
}

// Item is one order line. NetAmount, UpperLimitAmount and Currency hold
// post-conversion values.
type Item struct {
	ID                    int64            `db:"id" json:"id"`
	OrderID               int64            `db:"order_id" json:"orderId"`
	LineNumber            string           `db:"line_number" json:"lineNumber"`
	Type                  string           `db:"item_type" json:"type"`
	CustomerArticleNumber string           `db:"customer_article_number" json:"customerArticleNumber"`
	VendorArticleNumber   string           `db:"vendor_article_number" json:"vendorArticleNumber"`
	Description           string           `db:"description" json:"description"`
	TaxRate               *decimal.Decimal `db:"tax_rate" json:"taxRate,omitempty"`
	TaxCode               *string          `db:"tax_code" json:"taxCode,omitempty"`
	NetAmount             decimal.Decimal  `db:"net_amount" json:"netAmount"`
	Quantity              decimal.Decimal  `db:"quantity" json:"quantity"`
	Unit                  string           `db:"unit" json:"unit"`
	Currency              string           `db:"currency" json:"currency"`
	UpperLimitAmount      *decimal.Decimal `db:"upper_limit_amount" json:"upperLimitAmount,omitempty"`
	GoodsReceiptExpected  bool             `db:"goods_receipt_expected" json:"goodsReceiptExpected"`
	GoodsReceiptPosted    bool             `db:"goods_receipt_posted" json:"goodsReceiptPosted"`
}

// HasTaxCode reports whether the item declares a tax code.
func (i *Item) HasTaxCode() bool {
	return i.TaxCode != nil && strings.TrimSpace(*i.TaxCode) != ""
}

// Recipient is the ordering party. Its company code decides the order's
// company and currency.
type Recipient struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	CompanyCode string `db:"company_code" json:"companyCode"`
}

// Validate implements entity.Validatable. It checks the request shape only;
// reference data is checked inside the transaction.
func (p *PurchaseOrder) Validate(ctx context.Context) error {
	if p.RecipientID <= 0 {
		return apperror.NewValidation("recipient is required").
			WithDetail("field", "recipientId")
	}
	if p.VendorID <= 0 {
		return apperror.NewValidation("vendor is required").
			WithDetail("field", "vendorId")
	}
	if p.OrderDate.IsZero() {
		return apperror.NewValidation("order date is required").
			WithDetail("field", "orderDate")
	}
	if utf8.RuneCountInString(strings.TrimSpace(p.ExternalNumber)) > numerator.MaxExternalNumberLength {
		return apperror.NewValidation("order number is too long").
			WithDetail("field", "externalNumber").
			WithDetail("maxLength", numerator.MaxExternalNumberLength)
	}
	if len(p.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range p.Items {
		line := entity.LineNumber(i + 1)
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
		if item.NetAmount.IsNegative() {
			return apperror.NewValidation("net amount must not be negative").
				WithDetail("field", "netAmount").
				WithDetail("lineNumber", line)
		}
	}

	return nil
}

var _ entity.Validatable = (*PurchaseOrder)(nil)
