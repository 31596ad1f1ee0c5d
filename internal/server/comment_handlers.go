package server

import (
	"pulso/internal/models"
	"pulso/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/publicaciones/:id/comentarios and
// returns the whole post with the new comment in place.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"texto" validate:"required"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return nil
	}

	post, err := s.commentService.AddComment(c.Context(), service.AddCommentInput{
		UserID: currentUserID(c),
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetComments handles GET /api/publicaciones/:id/comentarios
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	comments, err := s.commentService.ListComments(c.Context(), service.ListCommentsInput{
		PostID: postID,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(comments)
}

// UpdateComment handles PUT /api/publicaciones/:id/comentarios/:commentId
// (author only; the comment is flagged as modified).
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"texto" validate:"required"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.EditComment(c.Context(), service.EditCommentInput{
		UserID:    currentUserID(c),
		PostID:    postID,
		CommentID: commentID,
		Text:      req.Text,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(comment)
}
