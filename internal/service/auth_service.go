// Package service contains the application's business logic.
package service

import (
	"context"
	"time"

	"pulso/internal/models"
	"pulso/internal/repository"
	"pulso/internal/token"
	"pulso/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService implements registration, login and token lifecycle.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Service
}

type RegisterInput struct {
	Name      string
	Surname   string
	Email     string
	Username  string
	Password  string
	Birthdate time.Time
	Bio       string
	ImageURL  string
	// Role is only honored when the caller is an admin; public
	// registration always gets the default role.
	Role string
}

// AuthResult pairs the persisted user with a freshly issued token.
type AuthResult struct {
	User  *models.User `json:"usuario"`
	Token string       `json:"token"`
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Service) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

// Register validates the input, persists the user and issues a token.
// The stored password hash never leaves this method: the returned user
// carries an empty password field.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Name == "" || in.Surname == "" {
		return nil, models.NewValidationError("Nombre y apellido son obligatorios")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateBirthdate(in.Birthdate); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("El correo ya está registrado")
	}
	existing, err = s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("El username ya está registrado")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:      in.Name,
		Surname:   in.Surname,
		Email:     in.Email,
		Username:  in.Username,
		Password:  string(hashed),
		Birthdate: in.Birthdate,
		Bio:       in.Bio,
		ImageURL:  in.ImageURL,
		Role:      role,
		Active:    true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tok, err := s.tokens.Generate(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user.Password = ""
	return &AuthResult{User: user, Token: tok}, nil
}

// Login authenticates by email or username. An unknown identifier and a
// wrong password produce the same generic message so the endpoint does
// not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	if identifier == "" || password == "" {
		return nil, models.NewValidationError("Identificador y contraseña son obligatorios")
	}

	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Credenciales inválidas")
	}
	if !user.Active {
		return nil, models.NewUnauthorizedError("Cuenta desactivada")
	}

	tok, err := s.tokens.Generate(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user.Password = ""
	return &AuthResult{User: user, Token: tok}, nil
}

// Authorize resolves the user behind a set of verified claims. Token
// signature and expiry checks happen in the middleware before this is
// called; this re-checks the live record so stale tokens of deactivated
// accounts stop working immediately.
func (s *AuthService) Authorize(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, models.NewUnauthorizedError("Cuenta desactivada")
	}
	return user, nil
}

// RefreshToken issues a new token for an authenticated user, reading
// role and email from the live record rather than the old claims.
func (s *AuthService) RefreshToken(ctx context.Context, userID uint) (string, error) {
	user, err := s.Authorize(ctx, userID)
	if err != nil {
		return "", err
	}
	tok, err := s.tokens.Generate(user)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return tok, nil
}
