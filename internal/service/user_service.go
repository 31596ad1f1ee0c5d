package service

import (
	"context"

	"pulso/internal/models"
	"pulso/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	auth     *AuthService
}

type UpdateProfileInput struct {
	UserID   uint
	Name     string
	Surname  string
	Bio      string
	ImageURL string
}

func NewUserService(userRepo repository.UserRepository, auth *AuthService) *UserService {
	return &UserService{userRepo: userRepo, auth: auth}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxNameLen = 100

	if in.Name != "" {
		if len(in.Name) > maxNameLen {
			return nil, models.NewValidationError("El nombre es demasiado largo (máximo 100 caracteres)")
		}
		user.Name = in.Name
	}
	if in.Surname != "" {
		if len(in.Surname) > maxNameLen {
			return nil, models.NewValidationError("El apellido es demasiado largo (máximo 100 caracteres)")
		}
		user.Surname = in.Surname
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("La bio es demasiado larga (máximo 500 caracteres)")
		}
		user.Bio = in.Bio
	}
	if in.ImageURL != "" {
		user.ImageURL = in.ImageURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// CreateUser is the admin path for creating accounts. It runs the same
// validation pipeline as public registration, so an admin cannot create
// an underage or weak-password account either.
func (s *UserService) CreateUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Role != "" && in.Role != models.RoleUser && in.Role != models.RoleAdmin {
		return nil, models.NewValidationError("Perfil inválido")
	}
	result, err := s.auth.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return result.User, nil
}

func (s *UserService) DeactivateUser(ctx context.Context, id uint) error {
	return s.userRepo.SetActive(ctx, id, false)
}

func (s *UserService) ActivateUser(ctx context.Context, id uint) error {
	return s.userRepo.SetActive(ctx, id, true)
}
