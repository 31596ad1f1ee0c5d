// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a publication in the Pulso application.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"titulo"`
	Content  string `gorm:"type:text;not null" json:"contenido"`
	ImageURL string `json:"imagenUrl,omitempty"`
	UserID   uint   `gorm:"not null;index" json:"usuarioId"`
	User     User   `gorm:"foreignKey:UserID" json:"autor"`
	// LikesCount is not persisted; computed at query time
	LikesCount int            `gorm:"->" json:"likeCount"`
	Comments   []Comment      `gorm:"foreignKey:PostID" json:"comentarios,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
