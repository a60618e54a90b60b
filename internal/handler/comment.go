package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-backend/internal/logging"
	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
	"github.com/iliyamo/movie-review-backend/internal/response"
)

// CommentHandler serves /comments.
type CommentHandler struct {
	Comments repository.Comments
	Reviews  repository.Reviews
	Users    repository.Users
}

func NewCommentHandler(cm repository.Comments, r repository.Reviews, u repository.Users) *CommentHandler {
	return &CommentHandler{Comments: cm, Reviews: r, Users: u}
}

type createCommentReq struct {
	ReviewID string `json:"reviewId" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

// Create godoc
// @Summary  Comment on a review
// @Tags     comments
// @Param    body body createCommentReq true "Comment"
// @Success  200 {object} response.Envelope
// @Router   /comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	var req createCommentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Reviews.GetByID(ctx, req.ReviewID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.Fail(c, http.StatusNotFound, "Review not found")
		}
		logging.Ctx(ctx).Error().Err(err).Msg("load review failed")
		return response.Fail(c, http.StatusInternalServerError, "Error creating comment")
	}
	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.Fail(c, http.StatusNotFound, "User not found")
		}
		logging.Ctx(ctx).Error().Err(err).Msg("load user failed")
		return response.Fail(c, http.StatusInternalServerError, "Error creating comment")
	}

	cm := model.Comment{ReviewID: req.ReviewID, UserID: req.UserID, Content: req.Content}
	if err := h.Comments.Create(ctx, &cm); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("create comment failed")
		return response.Fail(c, http.StatusInternalServerError, "Error creating comment")
	}
	return response.Created(c, "Review comment created successfully", cm)
}

// ListByReview godoc
// @Summary  Comments of a review
// @Tags     comments
// @Param    reviewId path string true "Review id"
// @Success  200 {object} response.Envelope
// @Router   /comments/{reviewId} [get]
func (h *CommentHandler) ListByReview(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	comments, err := h.Comments.ListByReview(ctx, c.Param("reviewId"))
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("list comments failed")
		return response.Fail(c, http.StatusInternalServerError, "Error retrieving comments")
	}
	if len(comments) == 0 {
		return response.OK(c, "No comments found for this review", comments)
	}
	return response.OK(c, "Reviews comments retrieved successfully", comments)
}
