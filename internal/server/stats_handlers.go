package server

import (
	"pulso/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPostsPerAuthor handles GET /api/estadisticas/publicaciones-por-autor (admin)
func (s *Server) GetPostsPerAuthor(c *fiber.Ctx) error {
	rows, err := s.statsService.PostsPerAuthor(c.Context())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(rows)
}

// GetCommentsPerDay handles GET /api/estadisticas/comentarios-por-dia (admin)
func (s *Server) GetCommentsPerDay(c *fiber.Ctx) error {
	rows, err := s.statsService.CommentsPerDay(c.Context())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(rows)
}

// GetTopPosts handles GET /api/estadisticas/top-publicaciones (admin)
func (s *Server) GetTopPosts(c *fiber.Ctx) error {
	rows, err := s.statsService.TopPostsByComments(c.Context())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(rows)
}
