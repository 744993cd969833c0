package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a short text update published by a user.
// AuthorName is a snapshot of the author's name at creation time so the
// feed can render without a join; it does not follow later renames.
type Post struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Text       string    `json:"text" gorm:"type:text" validate:"required"`
	UserID     string    `json:"user_id" gorm:"index;type:varchar(36)"`
	AuthorName string    `json:"author_name" gorm:"type:varchar(100)"`
	Date       time.Time `json:"date" gorm:"index"`
	gorm.Model `json:"-"`
}
