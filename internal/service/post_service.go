package service

import (
	"context"

	"pulso/internal/cache"
	"pulso/internal/models"
	"pulso/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	ImageURL string
}

type ListPostsInput struct {
	Limit    int
	Offset   int
	AuthorID uint
	Sort     string
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	ImageURL string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{postRepo: postRepo, isAdmin: isAdmin}
}

const (
	maxTitleLen   = 300
	maxContentLen = 50000

	// frontPageLimit is the page size stored under the shared list key.
	// The key does not encode the limit, so only requests for exactly
	// this page size may read or write it.
	frontPageLimit = 20
)

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("El título es obligatorio")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("El título es demasiado largo (máximo 300 caracteres)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("El contenido es obligatorio")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("El contenido es demasiado largo (máximo 50000 caracteres)")
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		UserID:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	var posts []*models.Post

	// The default front page is the only listing hot enough to cache.
	if in.AuthorID == 0 && in.Offset == 0 && in.Sort == repository.SortRecent && in.Limit == frontPageLimit {
		err := cache.Aside(ctx, cache.PostsListKey, &posts, cache.ListTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, in.Limit, in.Offset, 0, in.Sort)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}
		return posts, nil
	}

	return s.postRepo.List(ctx, in.Limit, in.Offset, in.AuthorID, in.Sort)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("Solo puedes editar tus propias publicaciones")
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("El título es demasiado largo (máximo 300 caracteres)")
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("El contenido es demasiado largo (máximo 50000 caracteres)")
		}
		post.Content = in.Content
	}
	if in.ImageURL != "" {
		post.ImageURL = in.ImageURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost soft deletes a post. The author may always delete their
// own post; anyone else must hold the admin role.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewForbiddenError("Solo puedes eliminar tus propias publicaciones")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("Solo puedes eliminar tus propias publicaciones")
		}
	}

	return s.postRepo.SoftDelete(ctx, in.PostID)
}

// LikePost adds the user's like. Liking a post twice is rejected rather
// than silently ignored.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	created, err := s.postRepo.Like(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, models.NewForbiddenError("Ya diste like a esta publicación")
	}

	return s.postRepo.GetByID(ctx, postID)
}

// UnlikePost removes the user's like. Removing a like that was never
// given is rejected.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	removed, err := s.postRepo.Unlike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, models.NewForbiddenError("No has dado like a esta publicación")
	}

	return s.postRepo.GetByID(ctx, postID)
}
