package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-backend/internal/config"
	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/response"
	"github.com/iliyamo/movie-review-backend/internal/utils"
)

type fakeTokens struct{ active map[string]bool }

func (f *fakeTokens) Store(_ context.Context, t *model.AccessToken) error {
	f.active[t.Email+"|"+t.TokenHash] = true
	return nil
}

func (f *fakeTokens) IsActive(_ context.Context, email, hash string) (bool, error) {
	return f.active[email+"|"+hash], nil
}

func (f *fakeTokens) RevokeAllForEmail(_ context.Context, email string) (int64, error) {
	var n int64
	for k := range f.active {
		if strings.HasPrefix(k, email+"|") {
			delete(f.active, k)
			n++
		}
	}
	return n, nil
}

func serve(t *testing.T, mw []echo.MiddlewareFunc, auth string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	var seen echo.Context
	h := func(c echo.Context) error {
		seen = c
		return response.OK(c, "ok", nil)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec, seen
}

func TestSession(t *testing.T) {
	tokens := &fakeTokens{active: map[string]bool{}}
	tok, err := utils.IssueAccessToken("secret", "ada@example.com", model.RoleUser, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	_ = tokens.Store(context.Background(), &model.AccessToken{Email: "ada@example.com", TokenHash: tok.Hash})
	revoked, _ := utils.IssueAccessToken("secret", "ada@example.com", model.RoleUser, time.Hour)

	tests := []struct {
		name, auth, wantStatus string
	}{
		{"no header", "", "401"},
		{"not bearer", "Basic abc", "401"},
		{"bad signature", "Bearer " + tok.Token + "x", "401"},
		{"revoked", "Bearer " + revoked.Token, "401"},
		{"valid", "Bearer " + tok.Token, "200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, seen := serve(t, []echo.MiddlewareFunc{Session("secret", tokens)}, tt.auth)
			if got := rec.Header().Get(response.HeaderStatusCode); got != tt.wantStatus {
				t.Fatalf("status = %s, want %s (body %s)", got, tt.wantStatus, rec.Body)
			}
			if tt.wantStatus == "200" {
				if SessionEmail(seen) != "ada@example.com" || seen.Get(KeyRole) != model.RoleUser {
					t.Errorf("context not populated: email=%v role=%v", seen.Get(KeyEmail), seen.Get(KeyRole))
				}
			} else if seen != nil {
				t.Error("handler ran for a rejected request")
			}
		})
	}
}

func TestSessionRejectsRevokedToken(t *testing.T) {
	tokens := &fakeTokens{active: map[string]bool{}}
	tok, err := utils.IssueAccessToken("secret", "ada@example.com", model.RoleUser, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	_ = tokens.Store(context.Background(), &model.AccessToken{Email: "ada@example.com", TokenHash: tok.Hash})
	chain := []echo.MiddlewareFunc{Session("secret", tokens)}

	rec, _ := serve(t, chain, "Bearer "+tok.Token)
	if got := rec.Header().Get(response.HeaderStatusCode); got != "200" {
		t.Fatalf("before logout status = %s, want 200", got)
	}

	if n, _ := tokens.RevokeAllForEmail(context.Background(), "ada@example.com"); n != 1 {
		t.Fatalf("revoked %d tokens, want 1", n)
	}

	rec, seen := serve(t, chain, "Bearer "+tok.Token)
	if got := rec.Header().Get(response.HeaderStatusCode); got != "401" {
		t.Errorf("after logout status = %s, want 401", got)
	}
	if seen != nil {
		t.Error("handler ran for a revoked token")
	}
}

func TestRequireRole(t *testing.T) {
	tokens := &fakeTokens{active: map[string]bool{}}
	user, _ := utils.IssueAccessToken("secret", "ada@example.com", model.RoleUser, time.Hour)
	admin, _ := utils.IssueAccessToken("secret", "root@example.com", model.RoleAdmin, time.Hour)
	_ = tokens.Store(context.Background(), &model.AccessToken{Email: "ada@example.com", TokenHash: user.Hash})
	_ = tokens.Store(context.Background(), &model.AccessToken{Email: "root@example.com", TokenHash: admin.Hash})

	chain := []echo.MiddlewareFunc{Session("secret", tokens), RequireRole(model.RoleAdmin)}

	rec, _ := serve(t, chain, "Bearer "+user.Token)
	if got := rec.Header().Get(response.HeaderStatusCode); got != "403" {
		t.Errorf("user status = %s, want 403", got)
	}
	rec, _ = serve(t, chain, "Bearer "+admin.Token)
	if got := rec.Header().Get(response.HeaderStatusCode); got != "200" {
		t.Errorf("admin status = %s, want 200", got)
	}
}

func TestCacheKeyFrom(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "mrw:cache", KeyStrategy: "route_query"}
	e := echo.New()
	key := func(target string) string {
		return cacheKeyFrom(cfg, e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder()))
	}

	if key("/movies/550") == key("/movies/551") {
		t.Error("different movie ids share a cache key")
	}
	if key("/movies/search?query=alien&page=2") != key("/movies/search?page=2&query=alien") {
		t.Error("parameter order changed the cache key")
	}
	if !strings.HasPrefix(key("/movies"), "mrw:cache:") {
		t.Errorf("key %q lacks prefix", key("/movies"))
	}
}

func TestRateKeyUsesBearerIdentity(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "mrw:rl", KeyStrategy: "user"}
	tok, err := utils.IssueAccessToken("secret", "ada@example.com", model.RoleUser, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name, auth, want string
	}{
		{"signed token", "Bearer " + tok.Token, "mrw:rl:user:ada@example.com"},
		{"forged token", "Bearer " + tok.Token + "x", "mrw:rl:user:anon"},
		{"no token", "", "mrw:rl:user:anon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/reviews/550", nil)
			if tt.auth != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.auth)
			}
			var key string
			h := Identify("secret")(func(c echo.Context) error {
				key = buildRateKey(cfg, c)
				return nil
			})
			if err := h(e.NewContext(req, httptest.NewRecorder())); err != nil {
				t.Fatal(err)
			}
			if key != tt.want {
				t.Errorf("key = %q, want %q", key, tt.want)
			}
		})
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, response.HeaderStatusCode: {"200"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	if err != nil {
		t.Fatal(err)
	}
	status, got, body, ok := decodePayload(payload)
	if !ok || status != http.StatusOK || string(body) != `{"ok":true}` {
		t.Fatalf("decode = %d %q %v", status, body, ok)
	}
	if got.Get(response.HeaderStatusCode) != "200" {
		t.Errorf("headers = %v", got)
	}
	if _, _, _, ok := decodePayload([]byte{0, 0}); ok {
		t.Error("short payload decoded")
	}
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	rec, seen := serve(t, []echo.MiddlewareFunc{
		NewTokenBucket("api", config.RateLimitConfig{Enabled: true}, nil),
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
	}, "")
	if seen == nil || rec.Header().Get(response.HeaderStatusCode) != "200" {
		t.Fatalf("request not passed through: %s", rec.Body)
	}
}
