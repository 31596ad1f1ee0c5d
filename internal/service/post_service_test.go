package service

import (
	"context"
	"strings"
	"testing"

	"pulso/internal/cache"
	"pulso/internal/models"
	"pulso/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminChecker(adminIDs ...uint) func(ctx context.Context, userID uint) (bool, error) {
	return func(_ context.Context, userID uint) (bool, error) {
		for _, id := range adminIDs {
			if id == userID {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestPostService_CreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc := NewPostService(noopPostRepo(), nil)
		post, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:  1,
			Title:   "Mi primer post",
			Content: "Hola a todos",
		})
		require.NoError(t, err)
		assert.NotZero(t, post.ID)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := NewPostService(noopPostRepo(), nil)

		cases := []struct {
			name string
			in   CreatePostInput
		}{
			{"Missing title", CreatePostInput{UserID: 1, Content: "Hola"}},
			{"Missing content", CreatePostInput{UserID: 1, Title: "Título"}},
			{"Title too long", CreatePostInput{UserID: 1, Title: strings.Repeat("a", 301), Content: "Hola"}},
			{"Content too long", CreatePostInput{UserID: 1, Title: "Título", Content: strings.Repeat("a", 50001)}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.CreatePost(ctx, tc.in)
				assertAppErrorCode(t, err, models.CodeValidation)
			})
		}
	})
}

func TestPostService_ListPosts_DefaultPageUsesListSort(t *testing.T) {
	repo := noopPostRepo()
	var gotSort string
	var gotAuthor uint
	repo.listFn = func(_ context.Context, _, _ int, authorID uint, sort string) ([]*models.Post, error) {
		gotSort = sort
		gotAuthor = authorID
		return []*models.Post{{ID: 1}}, nil
	}
	svc := NewPostService(repo, nil)

	posts, err := svc.ListPosts(context.Background(), ListPostsInput{
		Limit: 20, Sort: repository.SortLikes, AuthorID: 9,
	})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, repository.SortLikes, gotSort)
	assert.Equal(t, uint(9), gotAuthor)
}

func TestPostService_ListPosts_CacheOnlyServesFrontPageLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
	})

	repo := noopPostRepo()
	repo.listFn = func(_ context.Context, limit, _ int, _ uint, _ string) ([]*models.Post, error) {
		posts := make([]*models.Post, limit)
		for i := range posts {
			posts[i] = &models.Post{ID: uint(i + 1)}
		}
		return posts, nil
	}
	svc := NewPostService(repo, nil)
	ctx := context.Background()

	// Warm the shared front-page entry with a full page.
	full, err := svc.ListPosts(ctx, ListPostsInput{Limit: 20, Sort: repository.SortRecent})
	require.NoError(t, err)
	require.Len(t, full, 20)

	// A smaller page must not be answered from that entry.
	small, err := svc.ListPosts(ctx, ListPostsInput{Limit: 2, Sort: repository.SortRecent})
	require.NoError(t, err)
	assert.Len(t, small, 2)
}

func TestPostService_UpdatePost(t *testing.T) {
	ctx := context.Background()

	ownedBy := func(ownerID uint) *postRepoStub {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: ownerID, Title: "Viejo", Content: "Viejo"}, nil
		}
		return repo
	}

	t.Run("Owner can update", func(t *testing.T) {
		svc := NewPostService(ownedBy(1), nil)
		post, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 5, Title: "Nuevo"})
		require.NoError(t, err)
		assert.Equal(t, "Nuevo", post.Title)
		assert.Equal(t, "Viejo", post.Content)
	})

	t.Run("Non-owner is forbidden", func(t *testing.T) {
		svc := NewPostService(ownedBy(1), nil)
		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 2, PostID: 5, Title: "Nuevo"})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	ctx := context.Background()

	ownedBy := func(ownerID uint) *postRepoStub {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: ownerID}, nil
		}
		return repo
	}

	t.Run("Owner deletes", func(t *testing.T) {
		svc := NewPostService(ownedBy(1), adminChecker())
		assert.NoError(t, svc.DeletePost(ctx, DeletePostInput{UserID: 1, PostID: 5}))
	})

	t.Run("Admin deletes someone else's post", func(t *testing.T) {
		svc := NewPostService(ownedBy(1), adminChecker(42))
		assert.NoError(t, svc.DeletePost(ctx, DeletePostInput{UserID: 42, PostID: 5}))
	})

	t.Run("Stranger is forbidden", func(t *testing.T) {
		svc := NewPostService(ownedBy(1), adminChecker(42))
		err := svc.DeletePost(ctx, DeletePostInput{UserID: 2, PostID: 5})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})
}

func TestPostService_LikePost(t *testing.T) {
	ctx := context.Background()

	t.Run("First like succeeds", func(t *testing.T) {
		svc := NewPostService(noopPostRepo(), nil)
		post, err := svc.LikePost(ctx, 2, 5)
		require.NoError(t, err)
		assert.Equal(t, uint(5), post.ID)
	})

	t.Run("Second like is rejected", func(t *testing.T) {
		repo := noopPostRepo()
		repo.likeFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
		svc := NewPostService(repo, nil)

		_, err := svc.LikePost(ctx, 2, 5)
		assertAppErrorCode(t, err, models.CodeForbidden)
		assert.Contains(t, err.Error(), "Ya diste like")
	})

	t.Run("Unknown post", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Publicación", id)
		}
		svc := NewPostService(repo, nil)

		_, err := svc.LikePost(ctx, 2, 99)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestPostService_UnlikePost(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing like removed", func(t *testing.T) {
		svc := NewPostService(noopPostRepo(), nil)
		post, err := svc.UnlikePost(ctx, 2, 5)
		require.NoError(t, err)
		assert.Equal(t, uint(5), post.ID)
	})

	t.Run("Unlike without a like is rejected", func(t *testing.T) {
		repo := noopPostRepo()
		repo.unlikeFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
		svc := NewPostService(repo, nil)

		_, err := svc.UnlikePost(ctx, 2, 5)
		assertAppErrorCode(t, err, models.CodeForbidden)
		assert.Contains(t, err.Error(), "No has dado like")
	})
}
