package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-backend/internal/logging"
	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
	"github.com/iliyamo/movie-review-backend/internal/response"
)

// ReviewHandler serves /reviews.
type ReviewHandler struct {
	Reviews repository.Reviews
	Users   repository.Users
}

func NewReviewHandler(r repository.Reviews, u repository.Users) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Users: u}
}

type createReviewReq struct {
	MovieID string `json:"movieId" validate:"required,max=64"`
	Content string `json:"content" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	UserID  string `json:"userId" validate:"required"`
}

// updateReviewReq carries only the fields the client sent.
type updateReviewReq struct {
	Content *string `json:"content" validate:"omitempty,min=1"`
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	UserID  *string `json:"userId"`
}

// Create godoc
// @Summary  Post a review
// @Tags     reviews
// @Param    body body createReviewReq true "Review"
// @Success  200 {object} response.Envelope
// @Router   /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	var req createReviewReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.Fail(c, http.StatusNotFound, "User not found")
		}
		logging.Ctx(ctx).Error().Err(err).Msg("load user failed")
		return response.Fail(c, http.StatusInternalServerError, "Error creating review")
	}

	rv := model.Review{
		UserID:  req.UserID,
		MovieID: strings.TrimSpace(req.MovieID),
		Rating:  req.Rating,
		Content: req.Content,
	}
	if err := h.Reviews.Create(ctx, &rv); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("create review failed")
		return response.Fail(c, http.StatusInternalServerError, "Error creating review")
	}
	return response.Created(c, "Review created successfully", rv)
}

// ListByMovie returns the live reviews of a movie, newest first.  No reviews
// is a successful empty list.
//
// @Summary  Reviews of a movie
// @Tags     reviews
// @Param    movieId path string true "Catalog movie id"
// @Success  200 {object} response.Envelope
// @Router   /reviews/{movieId} [get]
func (h *ReviewHandler) ListByMovie(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	reviews, err := h.Reviews.ListByMovie(ctx, c.Param("movieId"))
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("list reviews failed")
		return response.Fail(c, http.StatusInternalServerError, "Error retrieving reviews")
	}
	if len(reviews) == 0 {
		return response.OK(c, "No reviews found for this movie", reviews)
	}
	return response.OK(c, "Reviews retrieved successfully", reviews)
}

// Update applies the fields present in the body.  A userId that does not
// own the review is rejected.
//
// @Summary  Edit a review
// @Tags     reviews
// @Param    id   path string          true "Review id"
// @Param    body body updateReviewReq true "Changed fields"
// @Success  200 {object} response.Envelope
// @Router   /reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	var req updateReviewReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	rv, err := h.Reviews.GetByID(ctx, c.Param("id"))
	if err != nil {
		return h.loadFailed(c, err, "Error updating review")
	}
	if req.UserID != nil && *req.UserID != "" && *req.UserID != rv.UserID {
		return response.Fail(c, http.StatusForbidden, "Invalid user credential")
	}
	if req.Content != nil {
		rv.Content = *req.Content
	}
	if req.Rating != nil {
		rv.Rating = *req.Rating
	}
	if err := h.Reviews.Save(ctx, &rv); err != nil {
		return h.loadFailed(c, err, "Error updating review")
	}
	return response.OK(c, "Review updated successfully", rv)
}

// Delete soft-deletes a review.
//
// @Summary  Delete a review
// @Tags     reviews
// @Param    id path string true "Review id"
// @Success  200 {object} response.Envelope
// @Router   /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	rv, err := h.Reviews.GetByID(ctx, c.Param("id"))
	if err != nil {
		return h.loadFailed(c, err, "Error deleting review")
	}
	rv.Deleted = true
	if err := h.Reviews.Save(ctx, &rv); err != nil {
		return h.loadFailed(c, err, "Error deleting review")
	}
	return response.OK(c, "Review deleted successfully", nil)
}

func (h *ReviewHandler) loadFailed(c echo.Context, err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return response.Fail(c, http.StatusNotFound, "Review not found")
	}
	logging.Ctx(c.Request().Context()).Error().Err(err).Msg(msg)
	return response.Fail(c, http.StatusInternalServerError, msg)
}
