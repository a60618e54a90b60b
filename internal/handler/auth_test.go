package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/movie-review-backend/internal/config"
	"github.com/iliyamo/movie-review-backend/internal/mailer"
	"github.com/iliyamo/movie-review-backend/internal/middleware"
	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/utils"
)

func newAuth() (*AuthHandler, *memStore, *recordingNotifier) {
	mem := newMemStore()
	st := mem.store()
	mail := &recordingNotifier{}
	cfg := config.Config{JWTSecret: "secret", AccessTTLMin: 60, BcryptCost: bcrypt.MinCost}
	return NewAuthHandler(cfg, st.Users, st.Tokens, mail), mem, mail
}

func asUser(email string) func(echo.Context) {
	return func(c echo.Context) { c.Set(middleware.KeyEmail, email) }
}

func TestRegister(t *testing.T) {
	h, mem, mail := newAuth()

	res := call(t, h.Register, http.MethodPost, "/auth/register",
		`{"email":"Ada@Example.com","password":"pw","fullName":"Ada Lovelace"}`, nil)
	if res.StatusCode != "201" || !res.Successful {
		t.Fatalf("register = %+v", res)
	}
	data := decode[authData](t, res.Data)
	if data.User.Password != model.MaskedPassword {
		t.Errorf("password not masked: %q", data.User.Password)
	}
	if data.User.Email != "ada@example.com" || data.User.Role != model.RoleUser {
		t.Errorf("user = %+v", data.User)
	}
	claims, err := utils.ParseAccessToken("secret", data.AccessToken)
	if err != nil || claims.Email != "ada@example.com" {
		t.Fatalf("token claims = %+v, err %v", claims, err)
	}
	active, _ := mem.store().Tokens.IsActive(context.Background(), "ada@example.com", utils.HashToken(data.AccessToken))
	if !active {
		t.Error("issued token not stored")
	}
	if got := mail.to("ada@example.com"); len(got) != 1 || got[0].Template != mailer.TemplateWelcome {
		t.Errorf("welcome mail = %+v", got)
	}

	res = call(t, h.Register, http.MethodPost, "/auth/register",
		`{"email":"ada@example.com","password":"other","fullName":"Ada"}`, nil)
	if res.StatusCode != "400" || res.StatusMessage != msgEmailInUse {
		t.Errorf("duplicate register = %+v", res)
	}
}

func TestRegisterValidation(t *testing.T) {
	h, _, _ := newAuth()
	tests := []struct {
		name, body string
	}{
		{"missing name", `{"email":"a@b.co","password":"pw"}`},
		{"bad email", `{"email":"nope","password":"pw","fullName":"A"}`},
		{"malformed json", `{"email":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, h.Register, http.MethodPost, "/auth/register", tt.body, nil)
			if res.StatusCode != "400" || res.Successful || string(res.Data) != "null" {
				t.Errorf("got %+v", res)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	h, _, _ := newAuth()
	call(t, h.Register, http.MethodPost, "/auth/register",
		`{"email":"ada@example.com","password":"pw","fullName":"Ada"}`, nil)

	tests := []struct {
		name, body, want string
	}{
		{"ok", `{"email":"ADA@example.com","password":"pw"}`, "200"},
		{"wrong password", `{"email":"ada@example.com","password":"nope"}`, "401"},
		{"unknown email", `{"email":"bob@example.com","password":"pw"}`, "401"},
		{"missing password", `{"email":"ada@example.com"}`, "400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, h.Login, http.MethodPost, "/auth/login", tt.body, nil)
			if res.StatusCode != tt.want {
				t.Fatalf("status = %s, want %s (%s)", res.StatusCode, tt.want, res.StatusMessage)
			}
			if tt.want == "401" && res.StatusMessage != msgAuthFailed {
				t.Errorf("message = %q", res.StatusMessage)
			}
		})
	}
}

func TestLogoutRevokesTokens(t *testing.T) {
	h, mem, _ := newAuth()
	res := call(t, h.Register, http.MethodPost, "/auth/register",
		`{"email":"ada@example.com","password":"pw","fullName":"Ada"}`, nil)
	token := decode[authData](t, res.Data).AccessToken

	res = call(t, h.Logout, http.MethodPost, "/auth/logout", "", asUser("ada@example.com"))
	if res.StatusCode != "200" {
		t.Fatalf("logout = %+v", res)
	}
	active, _ := mem.store().Tokens.IsActive(context.Background(), "ada@example.com", utils.HashToken(token))
	if active {
		t.Error("token still active after logout")
	}
}

func TestResetPassword(t *testing.T) {
	h, mem, mail := newAuth()
	call(t, h.Register, http.MethodPost, "/auth/register",
		`{"email":"ada@example.com","password":"pw","fullName":"Ada"}`, nil)

	unknown := call(t, h.ResetPassword, http.MethodPost, "/auth/reset-password", `{"email":"bob@example.com"}`, nil)
	known := call(t, h.ResetPassword, http.MethodPost, "/auth/reset-password", `{"email":"ada@example.com"}`, nil)
	if unknown.StatusCode != "200" || known.StatusCode != "200" || unknown.StatusMessage != known.StatusMessage {
		t.Fatalf("responses differ: %+v vs %+v", unknown, known)
	}
	if len(mail.to("bob@example.com")) != 0 {
		t.Error("mail sent for unknown account")
	}

	var reset sentMail
	for _, m := range mail.to("ada@example.com") {
		if m.Template == mailer.TemplatePasswordReset {
			reset = m
		}
	}
	pw := reset.Data["Password"]
	if len(pw) != utils.TempPasswordLength {
		t.Fatalf("temporary password = %q", pw)
	}
	u, _ := mem.store().Users.GetByEmail(context.Background(), "ada@example.com")
	if !utils.VerifyPassword(u.PasswordHash, pw) {
		t.Error("stored hash does not match mailed password")
	}
	if res := call(t, h.Login, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"pw"}`, nil); res.StatusCode != "401" {
		t.Errorf("old password still works: %+v", res)
	}
	for _, tok := range mem.tokens {
		if !tok.Deleted {
			t.Error("token survived password reset")
		}
	}
}

func TestMe(t *testing.T) {
	h, _, _ := newAuth()
	call(t, h.Register, http.MethodPost, "/auth/register",
		`{"email":"ada@example.com","password":"pw","fullName":"Ada"}`, nil)

	res := call(t, h.Me, http.MethodGet, "/auth/me", "", asUser("ada@example.com"))
	if res.StatusCode != "200" {
		t.Fatalf("me = %+v", res)
	}
	if v := decode[model.UserView](t, res.Data); v.FullName != "Ada" || v.Password != model.MaskedPassword {
		t.Errorf("profile = %+v", v)
	}
}
