package models

import (
	"time"
)

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique; the repository
// relies on that index for atomic set semantics.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"usuarioId"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"postId"`
	CreatedAt time.Time `json:"created_at"`
}
