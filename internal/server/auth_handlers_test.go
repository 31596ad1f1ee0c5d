package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pulso/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func registroForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func validRegistroFields() map[string]string {
	return map[string]string{
		"nombre":          "Ana",
		"apellido":        "Torres",
		"correo":          "ana@example.com",
		"username":        "anatorres",
		"password":        "Password1",
		"fechaNacimiento": "1995-06-15",
	}
}

func TestRegistro(t *testing.T) {
	tests := []struct {
		name           string
		fields         map[string]string
		mockSetup      func(deps *testServerDeps)
		expectedStatus int
	}{
		{
			name:   "Success",
			fields: validRegistroFields(),
			mockSetup: func(deps *testServerDeps) {
				deps.userRepo.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, nil)
				deps.userRepo.On("GetByUsername", mock.Anything, "anatorres").Return(nil, nil)
				deps.userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate email",
			fields: func() map[string]string {
				f := validRegistroFields()
				f["correo"] = "existe@example.com"
				return f
			}(),
			mockSetup: func(deps *testServerDeps) {
				deps.userRepo.On("GetByEmail", mock.Anything, "existe@example.com").
					Return(&models.User{ID: 2}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Underage",
			fields: func() map[string]string {
				f := validRegistroFields()
				f["fechaNacimiento"] = time.Now().AddDate(-12, 0, 0).Format("2006-01-02")
				return f
			}(),
			mockSetup:      func(deps *testServerDeps) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Bad birthdate format",
			fields: func() map[string]string {
				f := validRegistroFields()
				f["fechaNacimiento"] = "15/06/1995"
				return f
			}(),
			mockSetup:      func(deps *testServerDeps) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, deps := newTestServer(t)
			tt.mockSetup(deps)

			app := fiber.New()
			app.Post("/registro", s.Registro)

			body, contentType := registroForm(t, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/registro", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				var payload struct {
					User  models.User `json:"usuario"`
					Token string      `json:"access_token"`
				}
				raw, _ := io.ReadAll(resp.Body)
				require.NoError(t, json.Unmarshal(raw, &payload))
				assert.NotEmpty(t, payload.Token)
				assert.Equal(t, "anatorres", payload.User.Username)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{
		ID:       4,
		Email:    "luis@example.com",
		Username: "luisg",
		Password: string(hashed),
		Role:     models.RoleUser,
		Active:   true,
	}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(deps *testServerDeps)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"identificador": "luisg", "password": "Password1"},
			mockSetup: func(deps *testServerDeps) {
				deps.userRepo.On("GetByIdentifier", mock.Anything, "luisg").Return(account, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Unknown identifier",
			body: map[string]string{"identificador": "nadie", "password": "Password1"},
			mockSetup: func(deps *testServerDeps) {
				deps.userRepo.On("GetByIdentifier", mock.Anything, "nadie").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Wrong password",
			body: map[string]string{"identificador": "luisg", "password": "Incorrecta1"},
			mockSetup: func(deps *testServerDeps) {
				deps.userRepo.On("GetByIdentifier", mock.Anything, "luisg").Return(account, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Deactivated account",
			body: map[string]string{"identificador": "luisg", "password": "Password1"},
			mockSetup: func(deps *testServerDeps) {
				inactive := *account
				inactive.Active = false
				deps.userRepo.On("GetByIdentifier", mock.Anything, "luisg").Return(&inactive, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing fields",
			body:           map[string]string{"identificador": "luisg"},
			mockSetup:      func(deps *testServerDeps) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, deps := newTestServer(t)
			tt.mockSetup(deps)

			app := fiber.New()
			app.Post("/login", s.Login)

			raw, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(raw))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestAutorizar(t *testing.T) {
	s, deps := newTestServer(t)
	app := fiber.New()
	app.Post("/autorizar", s.AuthRequired(), s.Autorizar)

	user := &models.User{ID: 4, Email: "luis@example.com", Role: models.RoleUser, Active: true}
	deps.userRepo.On("GetByID", mock.Anything, uint(4)).Return(user, nil)

	req := httptest.NewRequest(http.MethodPost, "/autorizar", nil)
	req.Header.Set("Authorization", bearerFor(t, s, user))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAutorizar_NoToken(t *testing.T) {
	s, _ := newTestServer(t)
	app := fiber.New()
	app.Post("/autorizar", s.AuthRequired(), s.Autorizar)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/autorizar", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefrescar(t *testing.T) {
	s, deps := newTestServer(t)
	app := fiber.New()
	app.Post("/refrescar", s.AuthRequired(), s.Refrescar)

	user := &models.User{ID: 4, Email: "luis@example.com", Role: models.RoleUser, Active: true}
	deps.userRepo.On("GetByID", mock.Anything, uint(4)).Return(user, nil)

	req := httptest.NewRequest(http.MethodPost, "/refrescar", nil)
	req.Header.Set("Authorization", bearerFor(t, s, user))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Token string `json:"access_token"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.NotEmpty(t, payload.Token)

	claims, err := s.tokens.Parse(payload.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(4), id)
}
