package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/http/v1/dto"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
)

// AuditHistory reads the audit trail of one document.
type AuditHistory interface {
	History(ctx context.Context, entityType string, entityID int64, limit int) ([]postgres.AuditEntry, error)
}

// HistoryHandler serves the audit trail of stored documents.
type HistoryHandler struct {
	*BaseHandler
	history AuditHistory
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(base *BaseHandler, history AuditHistory) *HistoryHandler {
	return &HistoryHandler{BaseHandler: base, history: history}
}

// For returns the GET /:id/history handler of one document type.
func (h *HistoryHandler) For(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		docID, ok := h.ParseID(c, "id")
		if !ok {
			return
		}

		var q dto.HistoryQuery
		if !h.BindQuery(c, &q) {
			return
		}

		entries, err := h.history.History(c.Request.Context(), entityType, docID, q.LimitOrDefault())
		if err != nil {
			h.Error(c, err)
			return
		}

		h.OK(c, dto.FromAuditEntries(entityType, docID, entries))
	}
}
