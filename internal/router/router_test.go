package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-backend/internal/catalog"
	"github.com/iliyamo/movie-review-backend/internal/config"
	_ "github.com/iliyamo/movie-review-backend/internal/docs"
	"github.com/iliyamo/movie-review-backend/internal/repository"
	"github.com/iliyamo/movie-review-backend/internal/response"
)

type stubCatalog struct{}

func (stubCatalog) ListMovies(context.Context, catalog.ListType) (json.RawMessage, error) {
	return json.RawMessage(`{"results":[]}`), nil
}

func (stubCatalog) SearchMovies(context.Context, catalog.SearchParams) (json.RawMessage, error) {
	return json.RawMessage(`{"results":[]}`), nil
}

func (stubCatalog) MovieDetails(context.Context, string) (catalog.Details, error) {
	return catalog.Details{}, catalog.ErrNotFound
}

func (stubCatalog) Trailer(context.Context, string) (catalog.Video, error) {
	return catalog.Video{}, catalog.ErrNotFound
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	Register(e, Deps{
		Config:    config.Config{JWTSecret: "secret"},
		RateLimit: config.RateLimitConfig{Enabled: true},
		Cache:     config.CacheConfig{Enabled: true},
		Store:     repository.Store{},
		Catalog:   stubCatalog{},
	})
	return e
}

func TestRoutes(t *testing.T) {
	e := newTestEcho()
	tests := []struct {
		method, target, wantEnvelope string
	}{
		{http.MethodGet, "/auth/me", "401"},
		{http.MethodPost, "/auth/logout", "401"},
		{http.MethodGet, "/admin/messages", "401"},
		{http.MethodGet, "/admin/subscribers", "401"},
		{http.MethodGet, "/movies", "200"},
		{http.MethodGet, "/movies?type=bogus", "400"},
		{http.MethodGet, "/movies/search?query=alien", "200"},
		{http.MethodGet, "/movies/550", "404"},
		{http.MethodGet, "/movies/550/trailer", "404"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("transport status = %d", rec.Code)
			}
			if got := rec.Header().Get(response.HeaderStatusCode); got != tt.wantEnvelope {
				t.Errorf("envelope status = %s, want %s (%s)", got, tt.wantEnvelope, rec.Body)
			}
		})
	}
}

func TestOperationalRoutes(t *testing.T) {
	e := newTestEcho()
	for _, target := range []string{"/healthz", "/metrics", "/docs/doc.json"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s = %d", target, rec.Code)
		}
	}
}
