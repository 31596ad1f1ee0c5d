// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"pulso/internal/models"
	"pulso/internal/observability"

	"gorm.io/gorm"
)

// TopPostsLimit caps the top-posts-by-comments report.
const TopPostsLimit = 20

// StatsRepository exposes the aggregate read views behind the admin
// statistics endpoints.
type StatsRepository interface {
	PostsPerAuthor(ctx context.Context) ([]models.PostsPorAutor, error)
	CommentsPerDay(ctx context.Context) ([]models.ComentariosPorDia, error)
	TopPostsByComments(ctx context.Context) ([]models.TopPostPorComentarios, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) PostsPerAuthor(ctx context.Context) ([]models.PostsPorAutor, error) {
	defer observability.TrackQuery("report", "posts")()

	var rows []models.PostsPorAutor
	err := r.db.WithContext(ctx).Raw(`
		SELECT users.id AS autor_id,
		       users.username,
		       users.name,
		       users.surname,
		       COUNT(posts.id) AS total
		FROM posts
		JOIN users ON users.id = posts.user_id
		WHERE posts.deleted_at IS NULL
		GROUP BY users.id, users.username, users.name, users.surname
		ORDER BY total DESC, users.username ASC`).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

func (r *statsRepository) CommentsPerDay(ctx context.Context) ([]models.ComentariosPorDia, error) {
	defer observability.TrackQuery("report", "comments")()

	var rows []models.ComentariosPorDia
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXTRACT(YEAR FROM created_at)::int  AS anio,
		       EXTRACT(MONTH FROM created_at)::int AS mes,
		       EXTRACT(DAY FROM created_at)::int   AS dia,
		       COUNT(*) AS total
		FROM comments
		GROUP BY anio, mes, dia
		ORDER BY anio ASC, mes ASC, dia ASC`).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

func (r *statsRepository) TopPostsByComments(ctx context.Context) ([]models.TopPostPorComentarios, error) {
	defer observability.TrackQuery("report", "posts")()

	var rows []models.TopPostPorComentarios
	err := r.db.WithContext(ctx).Raw(`
		SELECT posts.id AS post_id,
		       LEFT(posts.content, 50) AS extracto,
		       users.username,
		       COUNT(comments.id) AS total_comentarios
		FROM posts
		JOIN users ON users.id = posts.user_id
		LEFT JOIN comments ON comments.post_id = posts.id
		WHERE posts.deleted_at IS NULL
		GROUP BY posts.id, posts.content, users.username
		ORDER BY total_comentarios DESC, posts.id ASC
		LIMIT ?`, TopPostsLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}
