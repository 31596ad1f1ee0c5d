package server

import (
	"time"

	"pulso/internal/models"
	"pulso/internal/service"

	"github.com/gofiber/fiber/v2"
)

const birthdateLayout = "2006-01-02"

// Registro handles POST /api/auth/registro. The body is multipart so
// the client can attach an optional profile image that gets pushed to
// the CDN before the account is created.
func (s *Server) Registro(c *fiber.Ctx) error {
	in := service.RegisterInput{
		Name:     c.FormValue("nombre"),
		Surname:  c.FormValue("apellido"),
		Email:    c.FormValue("correo"),
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
		Bio:      c.FormValue("bio"),
	}

	rawBirthdate := c.FormValue("fechaNacimiento")
	if rawBirthdate == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("La fecha de nacimiento es obligatoria"))
	}
	birthdate, err := time.Parse(birthdateLayout, rawBirthdate)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("La fecha de nacimiento debe tener formato AAAA-MM-DD"))
	}
	in.Birthdate = birthdate

	imageURL, err := s.uploadFormImage(c, "imagen")
	if err != nil {
		return models.RespondError(c, err)
	}
	in.ImageURL = imageURL

	result, err := s.authService.Register(c.Context(), in)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"usuario":      result.User,
		"access_token": result.Token,
	})
}

// Login handles POST /api/auth/login. The identifier may be an email
// address or a username.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Identifier string `json:"identificador" validate:"required"`
		Password   string `json:"password" validate:"required"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return nil
	}

	result, err := s.authService.Login(c.Context(), req.Identifier, req.Password)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"usuario":      result.User,
		"access_token": result.Token,
	})
}

// Autorizar handles POST /api/auth/autorizar: it re-validates the
// bearer against the live user record and returns the current profile.
func (s *Server) Autorizar(c *fiber.Ctx) error {
	user, err := s.authService.Authorize(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	user.Password = ""
	return c.JSON(fiber.Map{"usuario": user})
}

// Refrescar handles POST /api/auth/refrescar: a fresh token for a
// still-active account.
func (s *Server) Refrescar(c *fiber.Ctx) error {
	tok, err := s.authService.RefreshToken(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"access_token": tok})
}
