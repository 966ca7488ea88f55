package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ErlanBelekov/passauth/internal/domain"
	"github.com/ErlanBelekov/passauth/internal/password"
	"github.com/ErlanBelekov/passauth/internal/repository"
)

const (
	DefaultLoginTokenTTL = 10 * 24 * time.Hour
	DefaultResetTokenTTL = 10 * 24 * time.Hour
	DefaultResetLinkBase = "http://localhost:3000"
)

// TokenService is implemented by *token.Service.
type TokenService interface {
	Sign(kind domain.TokenKind, userID, email string, ttl time.Duration) (string, error)
	Verify(raw string, want domain.TokenKind) (*domain.TokenClaims, error)
}

type AuthOptions struct {
	LoginTokenTTL time.Duration
	ResetTokenTTL time.Duration
	// ResetLinkBase is the origin of the frontend page that accepts reset tokens.
	ResetLinkBase string
}

type AuthUsecase struct {
	users         repository.UserRepository
	hasher        password.Hasher
	tokens        TokenService
	loginTTL      time.Duration
	resetTTL      time.Duration
	resetLinkBase string
}

func NewAuthUsecase(users repository.UserRepository, hasher password.Hasher, tokens TokenService, opts AuthOptions) *AuthUsecase {
	if opts.LoginTokenTTL <= 0 {
		opts.LoginTokenTTL = DefaultLoginTokenTTL
	}
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = DefaultResetTokenTTL
	}
	if opts.ResetLinkBase == "" {
		opts.ResetLinkBase = DefaultResetLinkBase
	}
	return &AuthUsecase{
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		loginTTL:      opts.LoginTokenTTL,
		resetTTL:      opts.ResetTokenTTL,
		resetLinkBase: strings.TrimRight(opts.ResetLinkBase, "/"),
	}
}

type Result struct {
	StatusCode int
	Message    string
}

type LoginResult struct {
	Result
	User        *domain.User
	AccessToken string
}

type ForgotPasswordResult struct {
	Result
	Link string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type ResetPasswordInput struct {
	Token    string
	Password string
}

// Register hashes the password and stores a new user. Email uniqueness is
// left to the store, which reports domain.ErrEmailTaken.
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	_, err = u.users.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &Result{StatusCode: http.StatusCreated, Message: "User created successfully"}, nil
}

// Login checks the password and issues a login token carrying the email.
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := u.findByEmail(ctx, in.Email, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	ok, err := u.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := u.tokens.Sign(domain.TokenKindLogin, "", user.Email, u.loginTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Result:      Result{StatusCode: http.StatusOK, Message: "User logged in successfully"},
		User:        user,
		AccessToken: accessToken,
	}, nil
}

// ForgotPassword issues a reset token for the user and returns the reset
// link. Delivering the link is up to the caller.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error) {
	user, err := u.findByEmail(ctx, email, domain.ErrEmailNotFound)
	if err != nil {
		return nil, err
	}

	resetToken, err := u.tokens.Sign(domain.TokenKindReset, user.ID, user.Email, u.resetTTL)
	if err != nil {
		return nil, err
	}

	return &ForgotPasswordResult{
		Result: Result{StatusCode: http.StatusOK, Message: "Reset password link sent to email"},
		Link:   u.resetLinkBase + "/password-reset/" + resetToken,
	}, nil
}

// ResetPassword verifies a reset token and overwrites the user's password
// hash. Tokens issued earlier are not revoked.
func (u *AuthUsecase) ResetPassword(ctx context.Context, in ResetPasswordInput) (*Result, error) {
	claims, err := u.tokens.Verify(in.Token, domain.TokenKindReset)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	user, err := u.findByEmail(ctx, claims.Email, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	if err := u.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update password: %w", err)
	}

	return &Result{StatusCode: http.StatusOK, Message: "Password reset successfully"}, nil
}

// Authenticate resolves a login bearer token to its user.
func (u *AuthUsecase) Authenticate(ctx context.Context, rawToken string) (*domain.User, error) {
	claims, err := u.tokens.Verify(rawToken, domain.TokenKindLogin)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return u.findByEmail(ctx, claims.Email, domain.ErrUserNotFound)
}

// findByEmail maps the store's not-found to the error the caller reports.
func (u *AuthUsecase) findByEmail(ctx context.Context, email string, notFound error) (*domain.User, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
