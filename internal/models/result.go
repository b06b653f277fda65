package models

import "time"

// TestResult is a completed, graded attempt produced by the external grading
// collaborator. Read-only here; its existence reclassifies the owning
// release's derived status to completed.
type TestResult struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TestReleaseID uint      `gorm:"not null;index" json:"test_release_id"`
	StudentID     uint      `gorm:"not null;index" json:"student_id"`
	Score         float64   `gorm:"not null" json:"score"`
	CompletedAt   time.Time `gorm:"not null" json:"completed_at"`
	CreatedAt     time.Time `json:"created_at"`
}
