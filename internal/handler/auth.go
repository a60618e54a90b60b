package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-backend/internal/config"
	"github.com/iliyamo/movie-review-backend/internal/logging"
	"github.com/iliyamo/movie-review-backend/internal/mailer"
	"github.com/iliyamo/movie-review-backend/internal/middleware"
	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
	"github.com/iliyamo/movie-review-backend/internal/response"
	"github.com/iliyamo/movie-review-backend/internal/service"
	"github.com/iliyamo/movie-review-backend/internal/utils"
)

const (
	msgAuthFailed   = "Authentication Failed / Invalid user information"
	msgEmailInUse   = "Error creating your account: Email already in use"
	msgResetGeneric = "A temporary password will be sent to your email if it exists in our records"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  repository.Users
	Tokens repository.Tokens
	Mail   service.Notifier
}

func NewAuthHandler(cfg config.Config, u repository.Users, t repository.Tokens, mail service.Notifier) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Mail: mail}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
	FullName string `json:"fullName" validate:"required"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type logoutReq struct {
	Email string `json:"email" validate:"omitempty,email"`
}

type resetReq struct {
	Email string `json:"email" validate:"required"`
}

type authData struct {
	User        model.UserView `json:"user"`
	AccessToken string         `json:"accessToken"`
}

// Register godoc
// @Summary  Create an account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body registerReq true "New account"
// @Success  200 {object} response.Envelope
// @Router   /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	taken, err := h.Users.EmailTaken(ctx, req.Email)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("email lookup failed")
		return response.Fail(c, http.StatusInternalServerError, "User registered failed")
	}
	if taken {
		return response.Fail(c, http.StatusBadRequest, msgEmailInUse)
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("hash password failed")
		return response.Fail(c, http.StatusInternalServerError, "User registered failed")
	}
	u := model.User{
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := h.Users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return response.Fail(c, http.StatusBadRequest, msgEmailInUse)
		}
		logging.Ctx(ctx).Error().Err(err).Msg("create user failed")
		return response.Fail(c, http.StatusInternalServerError, "User registered failed")
	}

	token, err := h.issue(c, u)
	if err != nil {
		return response.Fail(c, http.StatusInternalServerError, "User registered failed")
	}

	h.Mail.Notify(ctx, u.Email, mailer.TemplateWelcome, map[string]string{"FullName": u.FullName})
	return response.Created(c, "User registered successfully", authData{User: u.View(), AccessToken: token})
}

// Login godoc
// @Summary  Log in with email and password
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body loginReq true "Credentials"
// @Success  200 {object} response.Envelope
// @Router   /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.Fail(c, http.StatusUnauthorized, msgAuthFailed)
		}
		logging.Ctx(ctx).Error().Err(err).Msg("load user failed")
		return response.Fail(c, http.StatusInternalServerError, msgAuthFailed)
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return response.Fail(c, http.StatusUnauthorized, msgAuthFailed)
	}

	token, err := h.issue(c, u)
	if err != nil {
		return response.Fail(c, http.StatusInternalServerError, msgAuthFailed)
	}
	return response.OK(c, "Login successful", authData{User: u.View(), AccessToken: token})
}

// issue signs a token for u and persists its hash.
func (h *AuthHandler) issue(c echo.Context, u model.User) (string, error) {
	ctx, cancel := dbCtx(c)
	defer cancel()

	tok, err := utils.IssueAccessToken(h.Cfg.JWTSecret, u.Email, u.Role, h.Cfg.AccessTTL())
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("sign token failed")
		return "", err
	}
	row := model.AccessToken{Email: u.Email, TokenHash: tok.Hash, ExpiresAt: tok.Exp}
	if err := h.Tokens.Store(ctx, &row); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("store token failed")
		return "", err
	}
	return tok.Token, nil
}

// Logout revokes every token of the requested email.  A body email that
// differs from the session email is logged and the revocation proceeds.
//
// @Summary  Log out
// @Tags     auth
// @Security BearerAuth
// @Param    body body logoutReq false "Email to log out"
// @Success  200 {object} response.Envelope
// @Router   /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	session := middleware.SessionEmail(c)
	email := repository.NormalizeEmail(req.Email)
	switch {
	case email == "":
		email = session
	case email != session:
		logging.Ctx(ctx).Warn().Str("session_email", session).Str("body_email", email).Msg("logout email does not match session")
	}

	n, err := h.Tokens.RevokeAllForEmail(ctx, email)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("revoke tokens failed")
		return response.Fail(c, http.StatusInternalServerError, "Logout Failed / Invalid user information")
	}
	logging.Ctx(ctx).Debug().Int64("revoked", n).Msg("logout")
	return response.OK(c, "User logged out successfully", nil)
}

// ResetPassword always answers with the same message.  Only an existing
// account gets its tokens revoked and a temporary password mailed.
//
// @Summary  Reset a forgotten password
// @Tags     auth
// @Param    body body resetReq true "Account email"
// @Success  200 {object} response.Envelope
// @Router   /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logging.Ctx(ctx).Error().Err(err).Msg("load user failed")
		}
		return response.OK(c, msgResetGeneric, nil)
	}

	if _, err := h.Tokens.RevokeAllForEmail(ctx, u.Email); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("revoke tokens failed")
		return response.OK(c, msgResetGeneric, nil)
	}
	password, err := utils.RandomString(utils.TempPasswordLength)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("generate password failed")
		return response.OK(c, msgResetGeneric, nil)
	}
	hash, err := utils.HashPassword(password, h.Cfg.BcryptCost)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("hash password failed")
		return response.OK(c, msgResetGeneric, nil)
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("update password failed")
		return response.OK(c, msgResetGeneric, nil)
	}

	h.Mail.Notify(ctx, u.Email, mailer.TemplatePasswordReset, map[string]string{
		"FullName": u.FullName,
		"Password": password,
	})
	return response.OK(c, msgResetGeneric, nil)
}

// Me godoc
// @Summary  Current user profile
// @Tags     auth
// @Security BearerAuth
// @Success  200 {object} response.Envelope
// @Router   /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, middleware.SessionEmail(c))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logging.Ctx(ctx).Error().Err(err).Msg("load user failed")
			return response.Fail(c, http.StatusInternalServerError, msgAuthFailed)
		}
		return response.Fail(c, http.StatusUnauthorized, msgAuthFailed)
	}
	return response.OK(c, "User profile fetched successfully", u.View())
}
