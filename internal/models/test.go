package models

import "time"

// Test is an examination definition authored by a professor within an
// institution. Question content lives with an external authoring service;
// this core only needs the identity and scoping columns.
type Test struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	ProfessorID   uint      `gorm:"not null;index" json:"professor_id"`
	InstitutionID uint      `gorm:"not null;index" json:"institution_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
