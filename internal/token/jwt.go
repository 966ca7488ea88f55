// Package token signs and verifies the HS256 bearer tokens handed out by the
// auth usecase.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ErlanBelekov/passauth/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Kind  domain.TokenKind `json:"typ"`
	Email string           `json:"email"`
	jwt.RegisteredClaims
}

type Service struct {
	key []byte
	now func() time.Time
}

func NewService(key []byte) *Service {
	return &Service{key: key, now: time.Now}
}

// Sign issues a token of the given kind. userID may be empty (login tokens
// carry only the email).
func (s *Service) Sign(kind domain.TokenKind, userID, email string, ttl time.Duration) (string, error) {
	if len(s.key) == 0 {
		return "", errors.New("sign token: empty signing key")
	}
	now := s.now()
	c := claims{
		Kind:  kind,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and kind. Every failure is reported as
// domain.ErrTokenInvalid.
func (s *Service) Verify(raw string, want domain.TokenKind) (*domain.TokenClaims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, domain.ErrTokenInvalid
	}

	var c claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	tok, err := parser.ParseWithClaims(raw, &c, func(_ *jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil || !tok.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if c.Kind != want || c.Email == "" {
		return nil, domain.ErrTokenInvalid
	}
	if want == domain.TokenKindReset && c.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	out := &domain.TokenClaims{
		Kind:   c.Kind,
		UserID: c.Subject,
		Email:  c.Email,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out, nil
}
