// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Roles a user can hold. The role travels inside the token claims and
// gates the admin-only surface.
const (
	RoleUser  = "usuario"
	RoleAdmin = "admin"
)

// User represents a registered Pulso account. Accounts are never hard
// deleted; an admin flips Active off instead.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"nombre"`
	Surname   string    `gorm:"not null" json:"apellido"`
	Email     string    `gorm:"unique;not null" json:"correo"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Birthdate time.Time `gorm:"not null" json:"fechaNacimiento"`
	Bio       string    `json:"bio"`
	ImageURL  string    `json:"imagenUrl"`
	Role      string    `gorm:"not null;default:usuario" json:"perfil"`
	Active    bool      `gorm:"not null;default:true" json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
