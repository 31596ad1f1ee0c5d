// Package token issues and verifies the signed claims tokens that back
// every authenticated request.
package token

import (
	"fmt"
	"strconv"
	"time"

	"pulso/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TTL is the fixed token lifetime. Tokens are stateless: validity is
// determined solely by signature and expiry at verification time.
const TTL = 15 * time.Minute

const (
	issuer   = "pulso-api"
	audience = "pulso-client"
)

// Claims is the payload carried by every access token.
type Claims struct {
	Email string `json:"correo"`
	Role  string `json:"perfil"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into the user's numeric ID.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim %q: %w", c.Subject, err)
	}
	return uint(id), nil
}

// Service signs and parses HS256 tokens with a shared secret.
type Service struct {
	secret []byte
}

// NewService returns a token Service using the given signing secret.
func NewService(secret string) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret not configured")
	}
	return &Service{secret: []byte(secret)}, nil
}

// Generate signs a fresh token for the user with a 15-minute expiry.
func (s *Service) Generate(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
			ID:        uuid.New().String(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Parse verifies the signature, expiry, issuer and audience of a token
// string and returns its claims.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
