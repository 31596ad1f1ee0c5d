// Package validation provides input validation rules for user data.
package validation

import (
	"fmt"
	"regexp"
	"time"
	"unicode"
)

// MinimumAge is the youngest age (in whole years) allowed to register.
const MinimumAge = 13

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitRegex    = regexp.MustCompile(`[0-9]`)
)

// ValidatePassword enforces the account password policy: at least 8
// characters, one uppercase letter and one digit. Each failure carries
// its own message.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("la contraseña debe tener al menos 8 caracteres")
	}

	if len(password) > 128 {
		return fmt.Errorf("la contraseña no puede exceder 128 caracteres")
	}

	hasUpper := false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return fmt.Errorf("la contraseña debe contener al menos una letra mayúscula")
	}

	if !digitRegex.MatchString(password) {
		return fmt.Errorf("la contraseña debe contener al menos un número")
	}

	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("el username debe tener al menos 3 caracteres")
	}

	if len(username) > 30 {
		return fmt.Errorf("el username no puede exceder 30 caracteres")
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("el username solo puede contener letras, números, guiones y guiones bajos")
	}

	if username[0] == '_' || username[0] == '-' || username[len(username)-1] == '_' || username[len(username)-1] == '-' {
		return fmt.Errorf("el username no puede empezar ni terminar con guión o guión bajo")
	}

	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("formato de correo inválido")
	}

	if len(email) > 254 {
		return fmt.Errorf("el correo no puede exceder 254 caracteres")
	}

	return nil
}

// Age computes whole years between birthdate and now, decrementing by
// one when the anniversary has not yet occurred this year.
func Age(birthdate, now time.Time) int {
	years := now.Year() - birthdate.Year()
	anniversary := time.Date(now.Year(), birthdate.Month(), birthdate.Day(), 0, 0, 0, 0, now.Location())
	if now.Before(anniversary) {
		years--
	}
	return years
}

// ValidateBirthdate rejects users younger than MinimumAge.
func ValidateBirthdate(birthdate time.Time) error {
	if birthdate.IsZero() {
		return fmt.Errorf("la fecha de nacimiento es obligatoria")
	}
	now := time.Now()
	if birthdate.After(now) {
		return fmt.Errorf("la fecha de nacimiento no puede ser futura")
	}
	if Age(birthdate, now) < MinimumAge {
		return fmt.Errorf("debes tener al menos %d años para registrarte", MinimumAge)
	}
	return nil
}
