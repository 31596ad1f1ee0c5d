package service

import (
	"context"

	"pulso/internal/models"
	"pulso/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type AddCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

type EditCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
	Text      string
}

type ListCommentsInput struct {
	PostID uint
	Limit  int
	Offset int
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

const maxCommentLen = 10000

// AddComment appends a comment and returns the updated post so the
// client sees the new comment in place.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Post, error) {
	if in.Text == "" {
		return nil, models.NewValidationError("El texto del comentario es obligatorio")
	}
	if len(in.Text) > maxCommentLen {
		return nil, models.NewValidationError("El comentario es demasiado largo (máximo 10000 caracteres)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:   in.Text,
		UserID: in.UserID,
		PostID: in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, in.PostID)
}

func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, in.PostID, in.Limit, in.Offset)
}

// EditComment rewrites a comment's text. Only the original author may
// edit, and the comment is flagged as modified from then on.
func (s *CommentService) EditComment(ctx context.Context, in EditCommentInput) (*models.Comment, error) {
	if in.Text == "" {
		return nil, models.NewValidationError("El texto del comentario es obligatorio")
	}
	if len(in.Text) > maxCommentLen {
		return nil, models.NewValidationError("El comentario es demasiado largo (máximo 10000 caracteres)")
	}

	// A comment under a missing or soft-deleted post is not editable.
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != in.PostID {
		return nil, models.NewNotFoundError("Comentario", in.CommentID)
	}
	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("Solo puedes editar tus propios comentarios")
	}

	comment.Text = in.Text
	comment.Modified = true
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}
