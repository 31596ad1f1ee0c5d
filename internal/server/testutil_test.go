package server

import (
	"context"
	"testing"

	"pulso/internal/config"
	"pulso/internal/models"
	"pulso/internal/repository"
	"pulso/internal/service"
	"pulso/internal/token"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockUserRepository is a mock of the repository.UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	user.ID = 1
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uint, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockPostRepository is a mock of the repository.PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	post.ID = 1
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int, authorID uint, sort string) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset, authorID, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) SoftDelete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCommentRepository is a mock of the repository.CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	comment.ID = 1
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	args := m.Called(ctx, postID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

// MockStatsRepository is a mock of the repository.StatsRepository interface
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) PostsPerAuthor(ctx context.Context) ([]models.PostsPorAutor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostsPorAutor), args.Error(1)
}

func (m *MockStatsRepository) CommentsPerDay(ctx context.Context) ([]models.ComentariosPorDia, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ComentariosPorDia), args.Error(1)
}

func (m *MockStatsRepository) TopPostsByComments(ctx context.Context) ([]models.TopPostPorComentarios, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TopPostPorComentarios), args.Error(1)
}

// testServerDeps bundles the mocks behind a Server built for handler tests.
type testServerDeps struct {
	userRepo    *MockUserRepository
	postRepo    *MockPostRepository
	commentRepo *MockCommentRepository
	statsRepo   *MockStatsRepository
}

const testJWTSecret = "clave-secreta-de-pruebas-suficientemente-larga"

// newTestServer builds a Server on mocked repositories and a sqlmock
// database behind GORM (never queried by these tests).
func newTestServer(t *testing.T) (*Server, *testServerDeps) {
	t.Helper()

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	tokens, err := token.NewService(testJWTSecret)
	require.NoError(t, err)

	deps := &testServerDeps{
		userRepo:    new(MockUserRepository),
		postRepo:    new(MockPostRepository),
		commentRepo: new(MockCommentRepository),
		statsRepo:   new(MockStatsRepository),
	}

	s := &Server{
		config:      &config.Config{JWTSecret: testJWTSecret, Env: "test"},
		db:          gormDB,
		tokens:      tokens,
		userRepo:    deps.userRepo,
		postRepo:    deps.postRepo,
		commentRepo: deps.commentRepo,
		statsRepo:   deps.statsRepo,
	}
	s.authService = service.NewAuthService(deps.userRepo, tokens)
	s.userService = service.NewUserService(deps.userRepo, s.authService)
	s.postService = service.NewPostService(deps.postRepo, s.isAdminByUserID)
	s.commentService = service.NewCommentService(deps.commentRepo, deps.postRepo)
	s.statsService = service.NewStatsService(deps.statsRepo)

	return s, deps
}

// bearerFor issues a token for the given user against the test secret.
func bearerFor(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	tok, err := s.tokens.Generate(user)
	require.NoError(t, err)
	return "Bearer " + tok
}

// grantRole primes the user repository mock behind the live admin role
// check with an active account holding the given role.
func grantRole(deps *testServerDeps, userID uint, role string) {
	deps.userRepo.On("GetByID", mock.Anything, userID).
		Return(&models.User{ID: userID, Role: role, Active: true}, nil)
}

var _ repository.UserRepository = (*MockUserRepository)(nil)
var _ repository.PostRepository = (*MockPostRepository)(nil)
var _ repository.CommentRepository = (*MockCommentRepository)(nil)
var _ repository.StatsRepository = (*MockStatsRepository)(nil)
