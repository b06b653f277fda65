package dto

import (
	"time"

	"github.com/noah-isme/examgate-go-api/internal/models"
)

// AuditEntryResponse is the API view of a release lifecycle audit entry.
type AuditEntryResponse struct {
	ID        uint                   `json:"id"`
	ActorID   uint                   `json:"actor_id"`
	ActorRole string                 `json:"actor_role"`
	Action    string                 `json:"action"`
	ReleaseID *uint                  `json:"release_id"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewAuditEntryResponseSlice converts audit entry models into API responses.
func NewAuditEntryResponseSlice(entries []models.AuditEntry) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, AuditEntryResponse{
			ID:        entry.ID,
			ActorID:   entry.ActorID,
			ActorRole: entry.ActorRole,
			Action:    entry.Action,
			ReleaseID: entry.ReleaseID,
			Metadata:  entry.Metadata,
			CreatedAt: entry.CreatedAt,
		})
	}

	return responses
}
