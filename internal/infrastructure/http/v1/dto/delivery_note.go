package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/delivery_note"
)

// --- Request DTOs ---

// CreateDeliveryNoteRequest represents a request to create a delivery note.
type CreateDeliveryNoteRequest struct {
	Note  DeliveryNoteHeaderRequest `json:"note" binding:"required"`
	Items []DeliveryNoteItemRequest `json:"items" binding:"required,min=1,dive"`
}

// DeliveryNoteHeaderRequest is the header part of the create request.
type DeliveryNoteHeaderRequest struct {
	InternalNumber string `json:"internalNumber" binding:"required"`
	Type           string `json:"type,omitempty"`
	DeliveryDate   string `json:"deliveryDate" binding:"required"`
}

// DeliveryNoteItemRequest represents one delivered line.
type DeliveryNoteItemRequest struct {
	PurchaseOrderID int64           `json:"purchaseOrderId" binding:"required"`
	MaterialID      int64           `json:"materialId" binding:"required"`
	ArticleNumber   string          `json:"articleNumber,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit" binding:"required"`
	NetAmount       decimal.Decimal `json:"netAmount"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Currency        string          `json:"currency,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateDeliveryNoteRequest) ToEntity() (*delivery_note.DeliveryNote, error) {
	deliveryDate, err := ParseDate("deliveryDate", r.Note.DeliveryDate)
	if err != nil {
		return nil, err
	}

	note := &delivery_note.DeliveryNote{
		InternalNumber: r.Note.InternalNumber,
		Type:           r.Note.Type,
		DeliveryDate:   deliveryDate,
		Items:          make([]delivery_note.Item, 0, len(r.Items)),
	}

	for _, it := range r.Items {
		note.Items = append(note.Items, delivery_note.Item{
			PurchaseOrderID: it.PurchaseOrderID,
			MaterialID:      it.MaterialID,
			ArticleNumber:   it.ArticleNumber,
			Quantity:        it.Quantity,
			Unit:            it.Unit,
			NetAmount:       it.NetAmount,
			TotalAmount:     it.TotalAmount,
			Currency:        it.Currency,
		})
	}

	return note, nil
}

// --- Response DTOs ---

// DeliveryNoteResponse represents a delivery note with its items.
type DeliveryNoteResponse struct {
	ID             int64                      `json:"id"`
	InternalNumber string                     `json:"internalNumber"`
	ExternalNumber string                     `json:"externalNumber"`
	Type           string                     `json:"type,omitempty"`
	DeliveryDate   string                     `json:"deliveryDate"`
	CreatedAt      time.Time                  `json:"createdAt"`
	Items          []DeliveryNoteItemResponse `json:"items"`
}

// DeliveryNoteItemResponse represents one stored delivery line.
type DeliveryNoteItemResponse struct {
	ID                  int64  `json:"id"`
	LineNumber          string `json:"lineNumber"`
	PurchaseOrderID     int64  `json:"purchaseOrderId"`
	PurchaseOrderItemID int64  `json:"purchaseOrderItemId"`
	MaterialID          int64  `json:"materialId"`
	Quantity            string `json:"quantity"`
	Unit                string `json:"unit"`
	NetAmount           string `json:"netAmount"`
	TotalAmount         string `json:"totalAmount"`
	Currency            string `json:"currency,omitempty"`
	LinkStrategy        string `json:"linkStrategy,omitempty"`
}

// FromDeliveryNote creates response DTO from domain entity.
func FromDeliveryNote(note *delivery_note.DeliveryNote) DeliveryNoteResponse {
	resp := DeliveryNoteResponse{
		ID:             note.ID,
		InternalNumber: note.InternalNumber,
		ExternalNumber: note.ExternalNumber,
		Type:           note.Type,
		DeliveryDate:   note.DeliveryDate.Format(time.DateOnly),
		CreatedAt:      note.CreatedAt,
		Items:          make([]DeliveryNoteItemResponse, 0, len(note.Items)),
	}

	for _, it := range note.Items {
		resp.Items = append(resp.Items, DeliveryNoteItemResponse{
			ID:                  it.ID,
			LineNumber:          it.LineNumber,
			PurchaseOrderID:     it.PurchaseOrderID,
			PurchaseOrderItemID: it.PurchaseOrderItemID,
			MaterialID:          it.MaterialID,
			Quantity:            it.Quantity.String(),
			Unit:                it.Unit,
			NetAmount:           it.NetAmount.StringFixed(2),
			TotalAmount:         it.TotalAmount.StringFixed(2),
			Currency:            it.Currency,
			LinkStrategy:        string(it.LinkStrategy),
		})
	}

	return resp
}
