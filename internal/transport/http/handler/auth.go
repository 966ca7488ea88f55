package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/passauth/internal/domain"
	"github.com/ErlanBelekov/passauth/internal/email"
	"github.com/ErlanBelekov/passauth/internal/metrics"
	"github.com/ErlanBelekov/passauth/internal/transport/http/middleware"
	"github.com/ErlanBelekov/passauth/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.Result, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error)
	ForgotPassword(ctx context.Context, email string) (*usecase.ForgotPasswordResult, error)
	ResetPassword(ctx context.Context, in usecase.ResetPasswordInput) (*usecase.Result, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	mailer      email.Sender
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, mailer email.Sender, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		mailer:      mailer,
		logger:      logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"    binding:"required"`
	Password string `json:"password" binding:"required,max=72"`
}

type messageResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// userResponse never includes the password hash.
type userResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	AccessToken string    `json:"accessToken,omitempty"`
}

type loginResponse struct {
	StatusCode int          `json:"statusCode"`
	Message    string       `json:"message"`
	Data       userResponse `json:"data"`
}

type forgotPasswordResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Link       string `json:"link"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !h.bind(c, "register", &req) {
		return
	}

	res, err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, "register", err)
		return
	}

	observe("register", "success")
	c.JSON(res.StatusCode, messageResponse{StatusCode: res.StatusCode, Message: res.Message})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, "login", &req) {
		return
	}

	res, err := h.authUsecase.Login(c.Request.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, "login", err)
		return
	}

	data := toUserResponse(res.User)
	data.AccessToken = res.AccessToken

	observe("login", "success")
	c.JSON(res.StatusCode, loginResponse{StatusCode: res.StatusCode, Message: res.Message, Data: data})
}

// POST /auth/forgot-password
// The link is returned in the body and also handed to the mailer. A mail
// failure is logged; the request still succeeds.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !h.bind(c, "forgot_password", &req) {
		return
	}

	ctx := c.Request.Context()
	res, err := h.authUsecase.ForgotPassword(ctx, req.Email)
	if err != nil {
		h.fail(c, "forgot_password", err)
		return
	}

	subject, body := email.PasswordReset(res.Link)
	if err := h.mailer.Send(ctx, req.Email, subject, body); err != nil {
		h.logger.ErrorContext(ctx, "send reset email", "error", err)
		metrics.ResetEmailsTotal.WithLabelValues("failed").Inc()
	} else {
		metrics.ResetEmailsTotal.WithLabelValues("sent").Inc()
	}

	observe("forgot_password", "success")
	c.JSON(res.StatusCode, forgotPasswordResponse{StatusCode: res.StatusCode, Message: res.Message, Link: res.Link})
}

// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !h.bind(c, "reset_password", &req) {
		return
	}

	res, err := h.authUsecase.ResetPassword(c.Request.Context(), usecase.ResetPasswordInput{
		Token:    req.Token,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, "reset_password", err)
		return
	}

	observe("reset_password", "success")
	c.JSON(res.StatusCode, messageResponse{StatusCode: res.StatusCode, Message: res.Message})
}

// GET /auth/me (behind middleware.Auth)
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{StatusCode: http.StatusUnauthorized, Message: errUnauthorized})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"statusCode": http.StatusOK,
		"message":    "User fetched successfully",
		"data":       toUserResponse(user),
	})
}

func (h *AuthHandler) bind(c *gin.Context, op string, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		observe(op, "invalid_request")
		c.JSON(http.StatusBadRequest, errorResponse{StatusCode: http.StatusBadRequest, Message: err.Error()})
		return false
	}
	return true
}

// fail reports every usecase error as 400. Domain errors keep their own
// message; anything else is logged and replaced with a generic one.
func (h *AuthHandler) fail(c *gin.Context, op string, err error) {
	var msg, outcome string
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		msg, outcome = errUserNotFound, "not_found"
	case errors.Is(err, domain.ErrEmailNotFound):
		msg, outcome = errEmailNotFound, "not_found"
	case errors.Is(err, domain.ErrEmailTaken):
		msg, outcome = errEmailTaken, "conflict"
	case errors.Is(err, domain.ErrInvalidCredentials):
		msg, outcome = errInvalidCredentials, "invalid_credentials"
	case errors.Is(err, domain.ErrTokenInvalid):
		msg, outcome = errTokenInvalid, "invalid_token"
	default:
		h.logger.ErrorContext(c.Request.Context(), op, "error", err)
		msg, outcome = errBadRequest, "error"
	}

	observe(op, outcome)
	c.JSON(http.StatusBadRequest, errorResponse{StatusCode: http.StatusBadRequest, Message: msg})
}

func observe(op, outcome string) {
	metrics.AuthOperationsTotal.WithLabelValues(op, outcome).Inc()
}
