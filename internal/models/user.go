package models

import "time"

// Application roles as stored on the user record.
const (
	RoleAdministrator = "Administrator"
	RoleInstitution   = "Institution"
	RoleTeacher       = "Teacher"
	RoleStudent       = "Student"
)

// AppUser is the application-level account behind an authenticated principal.
type AppUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthID    string    `gorm:"size:64;uniqueIndex;not null" json:"auth_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
