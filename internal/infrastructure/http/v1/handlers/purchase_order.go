package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/purchase_order"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/http/v1/dto"
)

// PurchaseOrderService is the part of purchase_order.Service the handler uses.
type PurchaseOrderService interface {
	Create(ctx context.Context, doc *purchase_order.PurchaseOrder, language string) error
	GetByID(ctx context.Context, id int64) (*purchase_order.PurchaseOrder, error)
}

// PurchaseOrderHandler handles HTTP requests for purchase orders.
type PurchaseOrderHandler struct {
	*BaseHandler
	service PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new purchase order handler.
func NewPurchaseOrderHandler(base *BaseHandler, service PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{BaseHandler: base, service: service}
}

// Create handles POST /purchase-orders.
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), doc, req.Order.Language); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromPurchaseOrder(doc))
}

// Get handles GET /purchase-orders/:id.
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseOrder(doc))
}
