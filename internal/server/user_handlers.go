package server

import (
	"time"

	"pulso/internal/models"
	"pulso/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PATCH /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"nombre"`
		Surname  string `json:"apellido"`
		Bio      string `json:"bio"`
		ImageURL string `json:"imagenUrl"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cuerpo de la petición inválido"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:   currentUserID(c),
		Name:     req.Name,
		Surname:  req.Surname,
		Bio:      req.Bio,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// GetAllUsers handles GET /api/users (admin)
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	users, err := s.userService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(users)
}

// CreateUser handles POST /api/users (admin). It runs the same
// validation as public registration but may also set the role.
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Name      string `json:"nombre" validate:"required"`
		Surname   string `json:"apellido" validate:"required"`
		Email     string `json:"correo" validate:"required,email"`
		Username  string `json:"username" validate:"required"`
		Password  string `json:"password" validate:"required"`
		Birthdate string `json:"fechaNacimiento" validate:"required"`
		Bio       string `json:"bio"`
		Role      string `json:"perfil"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return nil
	}

	birthdate, err := time.Parse(birthdateLayout, req.Birthdate)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("La fecha de nacimiento debe tener formato AAAA-MM-DD"))
	}

	user, err := s.userService.CreateUser(c.Context(), service.RegisterInput{
		Name:      req.Name,
		Surname:   req.Surname,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		Birthdate: birthdate,
		Bio:       req.Bio,
		Role:      req.Role,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// DeactivateUser handles DELETE /api/users/:id (admin). Accounts are
// deactivated, never hard deleted.
func (s *Server) DeactivateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.DeactivateUser(c.Context(), id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"mensaje": "Cuenta desactivada"})
}

// ActivateUser handles POST /api/users/:id/activar (admin)
func (s *Server) ActivateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.ActivateUser(c.Context(), id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"mensaje": "Cuenta activada"})
}
