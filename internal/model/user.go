package model

import "time"

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// StatusActive is the only status currently assigned.
const StatusActive = "active"

// User is a person who logs activities.
type User struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Role           string    `gorm:"default:user" json:"role"`
	Status         string    `gorm:"default:active" json:"status"`
	AdminRequested bool      `gorm:"default:false" json:"admin_requested"`
	PhotoPath      string    `json:"photo,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsAdmin reports whether u may see and manage other users' data.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
