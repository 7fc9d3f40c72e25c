package dto

import (
	"encoding/json"
	"time"

	"stocklink/internal/infrastructure/storage/postgres"
)

// AuditEntryResponse represents one audit log entry in responses.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// FromAuditEntry maps an audit entry to its response DTO.
func FromAuditEntry(e postgres.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         e.ID.String(),
		EntityType: e.EntityType,
		EntityID:   e.EntityID.String(),
		Action:     string(e.Action),
		Changes:    e.Changes,
		CreatedAt:  e.CreatedAt,
	}
}

// AuditHistoryResponse wraps a list of audit entries.
type AuditHistoryResponse struct {
	Items []AuditEntryResponse `json:"items"`
}
