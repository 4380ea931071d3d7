// Package session tracks who is signed in: the persisted user session, the
// signed token that points at it and the route gating built on top.
package session

import "errors"

// Role decides which dashboard and navigation a user sees.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

const (
	AdminHomePath  = "/dashboard"
	ClientHomePath = "/client-dashboard"
	LoginPath      = "/login"
)

var (
	// ErrNoSession is returned when nobody is signed in for a session id.
	ErrNoSession = errors.New("session: no active session")
	// ErrInvalidCredentials is returned for an unknown email/password pair.
	ErrInvalidCredentials = errors.New("session: invalid email or password")
	// ErrInvalidToken is returned when a session token fails verification.
	ErrInvalidToken = errors.New("session: invalid token")
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// HomePath is the landing page for the role.
func (r Role) HomePath() string {
	if r == RoleAdmin {
		return AdminHomePath
	}
	return ClientHomePath
}

// UserSession is the identity persisted while a user is signed in.
type UserSession struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (s UserSession) valid() bool {
	return s.Email != "" && s.Role.Valid()
}
