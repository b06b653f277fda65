package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ReleaseStatus is the derived lifecycle state shown for a test release.
type ReleaseStatus string

const (
	// ReleaseStatusScheduled means the release window has not opened yet.
	ReleaseStatusScheduled ReleaseStatus = "scheduled"
	// ReleaseStatusActive means the release window is currently open.
	ReleaseStatusActive ReleaseStatus = "active"
	// ReleaseStatusClosed means the release window has passed without a result.
	ReleaseStatusClosed ReleaseStatus = "closed"
	// ReleaseStatusCompleted means a graded result exists for the release.
	ReleaseStatusCompleted ReleaseStatus = "completed"
	// ReleaseStatusDeleted marks a soft-deleted release. Assigned by callers,
	// never by StatusAt.
	ReleaseStatusDeleted ReleaseStatus = "deleted"
)

// TestRelease binds one test to one student within a scheduled time window.
type TestRelease struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	TestID            uint              `gorm:"not null;index" json:"test_id"`
	StudentID         uint              `gorm:"not null;index" json:"student_id"`
	ProfessorID       uint              `gorm:"not null;index" json:"professor_id"`
	InstitutionID     uint              `gorm:"not null;index" json:"institution_id"`
	StartTime         time.Time         `gorm:"not null" json:"start_time"`
	EndTime           time.Time         `gorm:"not null" json:"end_time"`
	MaxAttempts       int               `gorm:"not null;default:1" json:"max_attempts"`
	AllowConsultation bool              `gorm:"not null;default:false" json:"allow_consultation"`
	AllowAIAgent      bool              `gorm:"not null;default:false" json:"allow_ai_agent"`
	LocationPolygon   datatypes.JSON    `gorm:"type:json" json:"-"`
	Deleted           bool              `gorm:"not null;default:false;index" json:"deleted"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	AllowedSites      []TestReleaseSite `gorm:"foreignKey:ReleaseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"allowed_sites"`
	Test              Test              `gorm:"foreignKey:TestID" json:"test"`
	Student           Student           `gorm:"foreignKey:StudentID" json:"student"`
}

// SetPolygon serializes the vertex list into the JSON storage column.
func (r *TestRelease) SetPolygon(polygon GeoPolygon) {
	data, err := json.Marshal(polygon)
	if err != nil {
		r.LocationPolygon = datatypes.JSON([]byte("[]"))
		return
	}
	r.LocationPolygon = datatypes.JSON(data)
}

// Polygon deserializes the stored vertex list.
func (r TestRelease) Polygon() GeoPolygon {
	if len(r.LocationPolygon) == 0 {
		return nil
	}

	var polygon GeoPolygon
	if err := json.Unmarshal(r.LocationPolygon, &polygon); err != nil {
		return nil
	}

	return polygon
}

// StatusAt derives the display status for a non-deleted release. A matching
// result always wins, even when the window has already closed. Callers must
// short-circuit deleted releases to ReleaseStatusDeleted before calling.
func (r TestRelease) StatusAt(now time.Time, hasResult bool) ReleaseStatus {
	switch {
	case hasResult:
		return ReleaseStatusCompleted
	case now.Before(r.StartTime):
		return ReleaseStatusScheduled
	case now.After(r.EndTime):
		return ReleaseStatusClosed
	default:
		return ReleaseStatusActive
	}
}

// TestReleaseSite is a URL an examinee may consult during a release when
// consultation is enabled. Sites are owned by exactly one release and are
// copied, never shared, across bulk-created releases.
type TestReleaseSite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReleaseID uint      `gorm:"not null;index" json:"release_id"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	Title     string    `gorm:"size:255" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
