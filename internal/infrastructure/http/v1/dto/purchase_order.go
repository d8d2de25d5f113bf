package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/purchase_order"
)

// --- Request DTOs ---

// CreatePurchaseOrderRequest represents a request to create a purchase order.
type CreatePurchaseOrderRequest struct {
	Order PurchaseOrderHeaderRequest `json:"order" binding:"required"`
	Items []PurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PurchaseOrderHeaderRequest is the header part of the create request.
type PurchaseOrderHeaderRequest struct {
	RecipientID      int64  `json:"recipientId" binding:"required"`
	VendorID         int64  `json:"vendorId" binding:"required"`
	CompanyCode      string `json:"companyCode,omitempty"`
	OrderDate        string `json:"orderDate" binding:"required"`
	ExternalNumber   string `json:"externalNumber,omitempty"`
	TermsOfPaymentID *int64 `json:"termsOfPaymentId,omitempty"`
	Language         string `json:"language,omitempty"`
}

// PurchaseOrderItemRequest represents one line in the create request.
type PurchaseOrderItemRequest struct {
	Type                  string           `json:"type,omitempty"`
	CustomerArticleNumber string           `json:"customerArticleNumber,omitempty"`
	VendorArticleNumber   string           `json:"vendorArticleNumber,omitempty"`
	Description           string           `json:"description,omitempty"`
	TaxRate               *decimal.Decimal `json:"taxRate,omitempty"`
	TaxCode               *string          `json:"taxCode,omitempty"`
	NetAmount             decimal.Decimal  `json:"netAmount"`
	Quantity              decimal.Decimal  `json:"quantity"`
	Unit                  string           `json:"unit" binding:"required"`
	Currency              string           `json:"currency,omitempty"`
	UpperLimitAmount      *decimal.Decimal `json:"upperLimitAmount,omitempty"`
	GoodsReceiptExpected  bool             `json:"goodsReceiptExpected,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreatePurchaseOrderRequest) ToEntity() (*purchase_order.PurchaseOrder, error) {
	orderDate, err := ParseDate("orderDate", r.Order.OrderDate)
	if err != nil {
		return nil, err
	}

	doc := &purchase_order.PurchaseOrder{
		ExternalNumber:   r.Order.ExternalNumber,
		OrderDate:        orderDate,
		CompanyCode:      r.Order.CompanyCode,
		RecipientID:      r.Order.RecipientID,
		VendorID:         r.Order.VendorID,
		TermsOfPaymentID: r.Order.TermsOfPaymentID,
		Items:            make([]purchase_order.Item, 0, len(r.Items)),
	}

	for _, it := range r.Items {
		doc.Items = append(doc.Items, purchase_order.Item{
			Type:                  it.Type,
			CustomerArticleNumber: it.CustomerArticleNumber,
			VendorArticleNumber:   it.VendorArticleNumber,
			Description:           it.Description,
			TaxRate:               it.TaxRate,
			TaxCode:               it.TaxCode,
			NetAmount:             it.NetAmount,
			Quantity:              it.Quantity,
			Unit:                  it.Unit,
			Currency:              it.Currency,
			UpperLimitAmount:      it.UpperLimitAmount,
			GoodsReceiptExpected:  it.GoodsReceiptExpected,
		})
	}

	return doc, nil
}

// --- Response DTOs ---

// PurchaseOrderResponse represents a purchase order with its items.
type PurchaseOrderResponse struct {
	ID               int64                       `json:"id"`
	ExternalNumber   string                      `json:"externalNumber"`
	OrderDate        string                      `json:"orderDate"`
	CompanyCode      string                      `json:"companyCode"`
	Currency         string                      `json:"currency"`
	RecipientID      int64                       `json:"recipientId"`
	VendorID         int64                       `json:"vendorId"`
	TermsOfPaymentID *int64                      `json:"termsOfPaymentId,omitempty"`
	CreatedAt        time.Time                   `json:"createdAt"`
	Items            []PurchaseOrderItemResponse `json:"items"`
}

// PurchaseOrderItemResponse represents one stored order line.
type PurchaseOrderItemResponse struct {
	ID                    int64   `json:"id"`
	LineNumber            string  `json:"lineNumber"`
	Type                  string  `json:"type,omitempty"`
	CustomerArticleNumber string  `json:"customerArticleNumber,omitempty"`
	VendorArticleNumber   string  `json:"vendorArticleNumber,omitempty"`
	Description           string  `json:"description,omitempty"`
	TaxRate               *string `json:"taxRate,omitempty"`
	TaxCode               *string `json:"taxCode,omitempty"`
	NetAmount             string  `json:"netAmount"`
	Quantity              string  `json:"quantity"`
	Unit                  string  `json:"unit"`
	Currency              string  `json:"currency"`
	UpperLimitAmount      *string `json:"upperLimitAmount,omitempty"`
	GoodsReceiptExpected  bool    `json:"goodsReceiptExpected"`
	GoodsReceiptPosted    bool    `json:"goodsReceiptPosted"`
}

// FromPurchaseOrder creates response DTO from domain entity.
func FromPurchaseOrder(doc *purchase_order.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:               doc.ID,
		ExternalNumber:   doc.ExternalNumber,
		OrderDate:        doc.OrderDate.Format(time.DateOnly),
		CompanyCode:      doc.CompanyCode,
		Currency:         doc.Currency,
		RecipientID:      doc.RecipientID,
		VendorID:         doc.VendorID,
		TermsOfPaymentID: doc.TermsOfPaymentID,
		CreatedAt:        doc.CreatedAt,
		Items:            make([]PurchaseOrderItemResponse, 0, len(doc.Items)),
	}

	for _, it := range doc.Items {
		resp.Items = append(resp.Items, PurchaseOrderItemResponse{
			ID:                    it.ID,
			LineNumber:            it.LineNumber,
			Type:                  it.Type,
			CustomerArticleNumber: it.CustomerArticleNumber,
			VendorArticleNumber:   it.VendorArticleNumber,
			Description:           it.Description,
			TaxRate:               fixedOrNil(it.TaxRate),
			TaxCode:               it.TaxCode,
			NetAmount:             it.NetAmount.StringFixed(2),
			Quantity:              it.Quantity.String(),
			Unit:                  it.Unit,
			Currency:              it.Currency,
			UpperLimitAmount:      fixedOrNil(it.UpperLimitAmount),
			GoodsReceiptExpected:  it.GoodsReceiptExpected,
			GoodsReceiptPosted:    it.GoodsReceiptPosted,
		})
	}

	return resp
}

func fixedOrNil(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
