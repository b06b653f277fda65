package models

import (
	"time"

	"gorm.io/datatypes"
)

// Release lifecycle actions recorded in the audit trail.
const (
	AuditActionReleaseCreated     = "release.created"
	AuditActionReleaseBulkCreated = "release.bulk_created"
	AuditActionReleaseDeleted     = "release.deleted"
	AuditActionReleaseRestored    = "release.restored"
	AuditActionSiteAdded          = "release.site_added"
	AuditActionSiteRemoved        = "release.site_removed"
)

// AuditEntry captures an auditable release lifecycle event together with the
// acting principal.
type AuditEntry struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ActorID   uint              `gorm:"not null" json:"actor_id"`
	ActorRole string            `gorm:"size:32;not null" json:"actor_role"`
	Action    string            `gorm:"size:64;not null;index" json:"action"`
	ReleaseID *uint             `gorm:"index" json:"release_id"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}
