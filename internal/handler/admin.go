package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-backend/internal/logging"
	"github.com/iliyamo/movie-review-backend/internal/repository"
	"github.com/iliyamo/movie-review-backend/internal/response"
)

// AdminHandler exposes read-only views for administrators.
type AdminHandler struct {
	Messages    repository.Messages
	Subscribers repository.Subscribers
}

func NewAdminHandler(m repository.Messages, s repository.Subscribers) *AdminHandler {
	return &AdminHandler{Messages: m, Subscribers: s}
}

func (h *AdminHandler) ListMessages(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	msgs, err := h.Messages.List(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("list messages failed")
		return response.Fail(c, http.StatusInternalServerError, "Error retrieving messages")
	}
	return response.OK(c, "Messages retrieved successfully", msgs)
}

func (h *AdminHandler) ListSubscribers(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	subs, err := h.Subscribers.List(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("list subscribers failed")
		return response.Fail(c, http.StatusInternalServerError, "Error retrieving subscribers")
	}
	return response.OK(c, "Subscribers retrieved successfully", subs)
}
