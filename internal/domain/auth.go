package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailNotFound      = errors.New("email not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrUnauthorized       = errors.New("unauthorized")
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenKind separates login bearer tokens from password-reset tokens.
// Both are signed with the same secret, so the kind is carried in the claims
// and checked on every verification.
type TokenKind string

const (
	TokenKindLogin TokenKind = "login"
	TokenKindReset TokenKind = "reset"
)

// TokenClaims is the decoded payload of a verified token.
// UserID is only set for reset tokens.
type TokenClaims struct {
	Kind      TokenKind
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
