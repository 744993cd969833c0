package models

import "gorm.io/gorm"

// Possible values for User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, never serialized
	Bio        string `json:"bio" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Role       string `json:"role" gorm:"type:varchar(10);default:user"`
	gorm.Model `json:"-"` // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
