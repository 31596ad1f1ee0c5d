package server

import (
	"pulso/internal/models"
	"pulso/internal/repository"
	"pulso/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/publicaciones. The body is multipart so
// the client can attach an optional image.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	imageURL, err := s.uploadFormImage(c, "imagen")
	if err != nil {
		return models.RespondError(c, err)
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:   currentUserID(c),
		Title:    c.FormValue("titulo"),
		Content:  c.FormValue("contenido"),
		ImageURL: imageURL,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/publicaciones with ordenarPor, usuarioId
// and pagination query parameters.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	sort := c.Query("ordenarPor", repository.SortRecent)
	if sort != repository.SortRecent && sort != repository.SortLikes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("ordenarPor debe ser 'recientes' o 'likes'"))
	}

	authorID := c.QueryInt("usuarioId", 0)
	if authorID < 0 {
		authorID = 0
	}

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:    p.Limit,
		Offset:   p.Offset,
		AuthorID: uint(authorID),
		Sort:     sort,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/publicaciones/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PATCH /api/publicaciones/:id (owner only)
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title    string `json:"titulo"`
		Content  string `json:"contenido"`
		ImageURL string `json:"imagenUrl"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cuerpo de la petición inválido"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:   currentUserID(c),
		PostID:   id,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/publicaciones/:id (owner or admin)
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"mensaje": "Publicación eliminada"})
}

// LikePost handles POST /api/publicaciones/:id/like. A repeated like is
// rejected with 403.
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.LikePost(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// UnlikePost handles DELETE /api/publicaciones/:id/like. Removing a
// like that was never given is rejected with 403.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.UnlikePost(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}
