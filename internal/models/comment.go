// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Comment represents a comment on a post. Comments are only ever
// appended or edited by their author; they are never deleted on their
// own.
type Comment struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Text   string `gorm:"not null" json:"texto"`
	UserID uint   `gorm:"not null;index" json:"usuarioId"`
	PostID uint   `gorm:"not null;index" json:"postId"`
	User   User   `gorm:"foreignKey:UserID" json:"autor"`
	// Modified flips to true the first time the author edits the text.
	Modified  bool      `gorm:"not null;default:false" json:"modificado"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
