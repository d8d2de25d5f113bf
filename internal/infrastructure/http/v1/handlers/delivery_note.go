package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/delivery_note"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/http/v1/dto"
)

// DeliveryNoteService is the part of delivery_note.Service the handler uses.
type DeliveryNoteService interface {
	Create(ctx context.Context, note *delivery_note.DeliveryNote) error
	GetByID(ctx context.Context, id int64) (*delivery_note.DeliveryNote, error)
}

// DeliveryNoteHandler handles HTTP requests for delivery notes.
type DeliveryNoteHandler struct {
	*BaseHandler
	service DeliveryNoteService
}

// NewDeliveryNoteHandler creates a new delivery note handler.
func NewDeliveryNoteHandler(base *BaseHandler, service DeliveryNoteService) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{BaseHandler: base, service: service}
}

// Create handles POST /delivery-notes.
func (h *DeliveryNoteHandler) Create(c *gin.Context) {
	var req dto.CreateDeliveryNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	note, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), note); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromDeliveryNote(note))
}

// Get handles GET /delivery-notes/:id.
func (h *DeliveryNoteHandler) Get(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	note, err := h.service.GetByID(c.Request.Context(), noteID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromDeliveryNote(note))
}
