package core

import (
	"errors"
	"net/mail"
	"strings"
)

const minPasswordLength = 8

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// User owns every record. PasswordHash is a bcrypt hash and never leaves the
// storage and auth layers.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

func (u User) Validate() error {
	if err := validateName(u.Username); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(u.Email); err != nil || strings.ContainsAny(u.Email, "<> ") {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks a plaintext password before it is hashed.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
