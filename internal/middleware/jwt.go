package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-backend/internal/logging"
	"github.com/iliyamo/movie-review-backend/internal/repository"
	"github.com/iliyamo/movie-review-backend/internal/response"
	"github.com/iliyamo/movie-review-backend/internal/utils"
)

// Context keys set by Session.
const (
	KeyEmail = "email"
	KeyRole  = "role"
	KeyToken = "token"

	// KeyIdentity holds the email of a well-signed bearer token before the
	// session check has run.  It is only used to key rate limits.
	KeyIdentity = "identity"
)

// Session validates the Bearer access token and requires a live token row
// for (email, hash) so that logout and password reset revoke it.  On success
// the session email, role and raw token are stored on the echo context.
func Session(secret string, tokens repository.Tokens) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return response.Fail(c, http.StatusUnauthorized, "Access denied")
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return response.Fail(c, http.StatusUnauthorized, "Invalid token")
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			active, err := tokens.IsActive(ctx, claims.Email, utils.HashToken(raw))
			if err != nil {
				logging.Ctx(ctx).Error().Err(err).Msg("token lookup failed")
				return response.Fail(c, http.StatusUnauthorized, "Invalid token")
			}
			if !active {
				return response.Fail(c, http.StatusUnauthorized, "Invalid token")
			}

			c.Set(KeyEmail, claims.Email)
			c.Set(KeyRole, claims.Role)
			c.Set(KeyToken, raw)
			return next(c)
		}
	}
}

// SessionEmail returns the email stored by Session, or "".
func SessionEmail(c echo.Context) string {
	s, _ := c.Get(KeyEmail).(string)
	return s
}

// Identify records the email of a validly signed bearer token under
// KeyIdentity without consulting the token store.  Requests without one pass
// through untouched; authorization stays with Session.
func Identify(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if raw, ok := strings.CutPrefix(auth, "Bearer "); ok {
				if claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(raw)); err == nil {
					c.Set(KeyIdentity, claims.Email)
				}
			}
			return next(c)
		}
	}
}
