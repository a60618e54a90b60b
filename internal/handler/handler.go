// Package handler holds the HTTP handlers.  Each handler struct receives its
// repositories and clients through its constructor; every response goes
// through the response envelope and domain faults never reach echo's error
// handler.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-backend/internal/response"
	"github.com/iliyamo/movie-review-backend/internal/validation"
)

// dbTimeout bounds every store call made by a handler.
const dbTimeout = 5 * time.Second

const invalidRequest = "Invalid request data"

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// bindValid decodes the body into dst and validates it.  On failure it writes
// a 400 envelope and returns false; the caller returns the write error.
func bindValid(c echo.Context, dst any) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, response.Fail(c, http.StatusBadRequest, invalidRequest)
	}
	if err := validation.Struct(dst); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return false, response.Fail(c, http.StatusBadRequest, verr.Error())
		}
		return false, response.Fail(c, http.StatusBadRequest, invalidRequest)
	}
	return true, nil
}
