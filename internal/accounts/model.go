// Package accounts registers patient accounts and answers account lookups.
package accounts

import (
	"errors"
	"strings"
	"time"

	"github.com/wolfman30/synapse-clinic-hub/internal/session"
)

var (
	ErrMissingFields      = errors.New("accounts: name, email and password are required")
	ErrPasswordMismatch   = errors.New("accounts: passwords do not match")
	ErrDuplicateAccount   = errors.New("accounts: an account with this email already exists")
	ErrRegistrationFailed = errors.New("accounts: registration failed")
	ErrUserNotFound       = errors.New("accounts: user not found")
)

// User is a stored account. The password field holds a bcrypt hash.
type User struct {
	ID           string       `bson:"id" json:"id"`
	Name         string       `bson:"name" json:"name"`
	Email        string       `bson:"email" json:"email"`
	PasswordHash string       `bson:"password" json:"-"`
	Role         session.Role `bson:"role" json:"role"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate checks required fields and that both passwords match.
func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return ErrMissingFields
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// normalizeEmail is the form emails are stored and looked up in.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
