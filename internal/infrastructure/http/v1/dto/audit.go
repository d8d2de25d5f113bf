package dto

import (
	"encoding/json"
	"time"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
)

// DefaultHistoryLimit is used when the query omits limit.
const DefaultHistoryLimit = 20

// HistoryQuery is the query of GET /<documents>/:id/history.
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// LimitOrDefault returns Limit, or DefaultHistoryLimit when unset.
func (q HistoryQuery) LimitOrDefault() int {
	if q.Limit <= 0 {
		return DefaultHistoryLimit
	}
	return q.Limit
}

// AuditEntryResponse is one stored document snapshot.
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	RequestID string          `json:"requestId,omitempty"`
	Changes   json.RawMessage `json:"changes"`
	CreatedAt time.Time       `json:"createdAt"`
}

// HistoryResponse lists the audit entries of one document, newest first.
type HistoryResponse struct {
	EntityType string               `json:"entityType"`
	EntityID   int64                `json:"entityId"`
	Entries    []AuditEntryResponse `json:"entries"`
}

// FromAuditEntries converts decompressed audit rows to the response.
func FromAuditEntries(entityType string, entityID int64, entries []postgres.AuditEntry) HistoryResponse {
	out := HistoryResponse{
		EntityType: entityType,
		EntityID:   entityID,
		Entries:    make([]AuditEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, AuditEntryResponse{
			ID:        e.ID.String(),
			Action:    string(e.Action),
			RequestID: e.RequestID,
			Changes:   e.Changes,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
