package models

import "time"

// Institution is a school or university hosting professors and students.
// ManagerID links the application user acting as institution manager.
type Institution struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	ManagerID uint      `gorm:"index" json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Professor is a teacher linked to an application user and an institution.
type Professor struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	InstitutionID uint      `gorm:"not null;index" json:"institution_id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
