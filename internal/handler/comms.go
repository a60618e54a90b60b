package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-backend/internal/logging"
	"github.com/iliyamo/movie-review-backend/internal/mailer"
	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
	"github.com/iliyamo/movie-review-backend/internal/response"
	"github.com/iliyamo/movie-review-backend/internal/service"
)

const msgUnsubscribed = "You have been removed from the mailing list"

// CommsHandler serves the contact form and the newsletter list.
type CommsHandler struct {
	Messages    repository.Messages
	Subscribers repository.Subscribers
	Mail        service.Notifier
	AdminEmail  string
}

func NewCommsHandler(m repository.Messages, s repository.Subscribers, mail service.Notifier, adminEmail string) *CommsHandler {
	return &CommsHandler{Messages: m, Subscribers: s, Mail: mail, AdminEmail: adminEmail}
}

type contactReq struct {
	Email       string  `json:"email" validate:"required,email"`
	Content     string  `json:"content" validate:"required"`
	PhoneNumber *string `json:"phoneNumber"`
	Subject     *string `json:"subject"`
}

type subscribeReq struct {
	Email string `json:"email" validate:"required,email"`
}

// Contact stores the message, then acknowledges the sender and notifies
// the administrator.  Mail failures do not change the response.
func (h *CommsHandler) Contact(c echo.Context) error {
	var req contactReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	msg := model.Message{
		Email:       repository.NormalizeEmail(req.Email),
		Content:     req.Content,
		PhoneNumber: req.PhoneNumber,
		Subject:     req.Subject,
	}
	if err := h.Messages.Create(ctx, &msg); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("store message failed")
		return response.Fail(c, http.StatusInternalServerError, "Error sending message")
	}

	h.Mail.Notify(ctx, msg.Email, mailer.TemplateContactAck, nil)
	h.Mail.Notify(ctx, h.AdminEmail, mailer.TemplateContactAdmin, map[string]string{
		"Email":       msg.Email,
		"Content":     msg.Content,
		"PhoneNumber": deref(msg.PhoneNumber),
		"Subject":     deref(msg.Subject),
	})
	return response.OK(c, "Message sent successfully", msg)
}

// Subscribe adds an email to the mailing list, reactivating an entry that
// unsubscribed earlier.  Subscribing twice never creates a second row.
func (h *CommsHandler) Subscribe(c echo.Context) error {
	var req subscribeReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	existing, err := h.Subscribers.GetByEmail(ctx, req.Email)
	switch {
	case err == nil && existing.IsActive:
		return response.OK(c, "User already in mailing list", existing)
	case err == nil:
		if err := h.Subscribers.SetActive(ctx, existing.ID, true); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("reactivate subscriber failed")
			return response.Fail(c, http.StatusInternalServerError, "Error adding user to mailing list")
		}
		existing.IsActive = true
		h.Mail.Notify(ctx, existing.Email, mailer.TemplateSubscribed, nil)
		return response.OK(c, "Subscription reactivated", existing)
	case !errors.Is(err, repository.ErrNotFound):
		logging.Ctx(ctx).Error().Err(err).Msg("load subscriber failed")
		return response.Fail(c, http.StatusInternalServerError, "Error adding user to mailing list")
	}

	sub := model.Subscriber{Email: req.Email, IsActive: true}
	if err := h.Subscribers.Create(ctx, &sub); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return response.OK(c, "User already in mailing list", nil)
		}
		logging.Ctx(ctx).Error().Err(err).Msg("create subscriber failed")
		return response.Fail(c, http.StatusInternalServerError, "Error adding user to mailing list")
	}
	h.Mail.Notify(ctx, sub.Email, mailer.TemplateSubscribed, nil)
	return response.Created(c, "User added to mailing list", sub)
}

// Unsubscribe clears the active flag.  The answer is the same whether or not
// the email was on the list.
func (h *CommsHandler) Unsubscribe(c echo.Context) error {
	var req subscribeReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	sub, err := h.Subscribers.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logging.Ctx(ctx).Error().Err(err).Msg("load subscriber failed")
		}
		return response.OK(c, msgUnsubscribed, nil)
	}
	if sub.IsActive {
		if err := h.Subscribers.SetActive(ctx, sub.ID, false); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("deactivate subscriber failed")
		}
	}
	return response.OK(c, msgUnsubscribed, nil)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
