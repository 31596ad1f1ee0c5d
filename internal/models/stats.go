package models

// Read models for the admin statistics endpoints. These are filled by
// raw GROUP BY queries and never persisted.

// PostsPorAutor is the per-author post count, joined to the author's
// profile fields.
type PostsPorAutor struct {
	AutorID  uint   `json:"autorId"`
	Username string `json:"username"`
	Name     string `json:"nombre"`
	Surname  string `json:"apellido"`
	Total    int64  `json:"total"`
}

// ComentariosPorDia is the comment volume bucketed by calendar day.
type ComentariosPorDia struct {
	Year  int   `gorm:"column:anio" json:"anio"`
	Month int   `gorm:"column:mes" json:"mes"`
	Day   int   `gorm:"column:dia" json:"dia"`
	Total int64 `json:"total"`
}

// TopPostPorComentarios is one row of the top-posts-by-comment-count
// report: a short excerpt of the body plus the author's username.
type TopPostPorComentarios struct {
	PostID   uint   `json:"postId"`
	Excerpt  string `gorm:"column:extracto" json:"extracto"`
	Username string `json:"username"`
	Total    int64  `gorm:"column:total_comentarios" json:"totalComentarios"`
}
