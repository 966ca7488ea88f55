package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/passauth/internal/domain"
	ctxlog "github.com/ErlanBelekov/passauth/internal/log"
	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized   = "Unauthorized"
	errNotFound       = "Not Found"
	errInternalServer = "Internal server error"

	userKey = "user"
)

// Authenticator resolves a login bearer token to its user.
// Implemented by *usecase.AuthUsecase.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*domain.User, error)
}

// Auth validates a Bearer login token and stores the resolved user in the
// gin context. A valid token whose user no longer exists gets 404.
func Auth(auth Authenticator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abort(c, http.StatusUnauthorized, errUnauthorized)
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		user, err := auth.Authenticate(c.Request.Context(), rawToken)
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			abort(c, http.StatusUnauthorized, errUnauthorized)
			return
		case errors.Is(err, domain.ErrUserNotFound):
			abort(c, http.StatusNotFound, errNotFound)
			return
		case err != nil:
			logger.ErrorContext(c.Request.Context(), "authenticate bearer token", "error", err)
			abort(c, http.StatusInternalServerError, errInternalServer)
			return
		}

		c.Request = c.Request.WithContext(ctxlog.WithUserID(c.Request.Context(), user.ID))
		c.Set(userKey, user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

// UserFrom returns the user stored by Auth.
func UserFrom(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok && u != nil
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"statusCode": status, "message": msg})
}
