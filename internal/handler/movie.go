package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-backend/internal/catalog"
	"github.com/iliyamo/movie-review-backend/internal/logging"
	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
	"github.com/iliyamo/movie-review-backend/internal/response"
)

const msgCatalogDown = "Movie catalog unavailable"

// Catalog is the subset of the catalog client the movie routes use.
type Catalog interface {
	ListMovies(ctx context.Context, list catalog.ListType) (json.RawMessage, error)
	SearchMovies(ctx context.Context, p catalog.SearchParams) (json.RawMessage, error)
	MovieDetails(ctx context.Context, id string) (catalog.Details, error)
	Trailer(ctx context.Context, id string) (catalog.Video, error)
}

// MovieHandler proxies the catalog and keeps local snapshots of looked-up
// movies.
type MovieHandler struct {
	Catalog Catalog
	Movies  repository.Movies
}

func NewMovieHandler(cat Catalog, movies repository.Movies) *MovieHandler {
	return &MovieHandler{Catalog: cat, Movies: movies}
}

// List godoc
// @Summary  Curated movie list
// @Tags     movies
// @Param    type query string false "now_playing, popular, upcoming or top_rated" default(now_playing)
// @Success  200 {object} response.Envelope
// @Router   /movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	list, ok := catalog.ParseListType(strings.TrimSpace(c.QueryParam("type")))
	if !ok {
		return response.Fail(c, http.StatusBadRequest, "type must be one of: now_playing, popular, upcoming, top_rated")
	}
	data, err := h.Catalog.ListMovies(c.Request().Context(), list)
	if err != nil {
		return catalogFailed(c, err)
	}
	return response.OK(c, "Movies search successfully", data)
}

// Search godoc
// @Summary  Search movies by title
// @Tags     movies
// @Param    query                query string true  "Search text"
// @Param    page                 query int    false "Page" default(1)
// @Param    include_adult        query bool   false "Include adult titles" default(false)
// @Param    language             query string false "Language" default(en-US)
// @Param    primary_release_year query string false "Primary release year"
// @Param    region               query string false "Region"
// @Param    year                 query string false "Year"
// @Success  200 {object} response.Envelope
// @Router   /movies/search [get]
func (h *MovieHandler) Search(c echo.Context) error {
	p := catalog.SearchParams{
		Query:              strings.TrimSpace(c.QueryParam("query")),
		Page:               c.QueryParam("page"),
		IncludeAdult:       c.QueryParam("include_adult"),
		Language:           c.QueryParam("language"),
		PrimaryReleaseYear: c.QueryParam("primary_release_year"),
		Region:             c.QueryParam("region"),
		Year:               c.QueryParam("year"),
	}
	if p.Query == "" {
		return response.Fail(c, http.StatusBadRequest, "query is required")
	}
	if p.Page != "" {
		if n, err := strconv.Atoi(p.Page); err != nil || n < 1 {
			return response.Fail(c, http.StatusBadRequest, "page must be a positive number")
		}
	}
	if p.IncludeAdult != "" {
		if _, err := strconv.ParseBool(p.IncludeAdult); err != nil {
			return response.Fail(c, http.StatusBadRequest, "include_adult must be true or false")
		}
	}

	data, err := h.Catalog.SearchMovies(c.Request().Context(), p)
	if err != nil {
		return catalogFailed(c, err)
	}
	return response.OK(c, "Movies search successfully", data)
}

// Details returns the upstream document and refreshes the local snapshot.
// When the catalog is unavailable a stored snapshot is served instead.
//
// @Summary  Movie details
// @Tags     movies
// @Param    id path string true "Catalog movie id"
// @Success  200 {object} response.Envelope
// @Router   /movies/{id} [get]
func (h *MovieHandler) Details(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	d, err := h.Catalog.MovieDetails(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrUnavailable) {
			if m, ok := h.snapshot(c, id); ok {
				c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
				return response.OK(c, "Movie details served from local cache", m)
			}
		}
		return catalogFailed(c, err)
	}

	h.store(c, id, d)
	return response.OK(c, "Movie details fetched successfully", d.Raw)
}

// Trailer godoc
// @Summary  Official trailer of a movie
// @Tags     movies
// @Param    id path string true "Catalog movie id"
// @Success  200 {object} response.Envelope
// @Router   /movies/{id}/trailer [get]
func (h *MovieHandler) Trailer(c echo.Context) error {
	v, err := h.Catalog.Trailer(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return response.Fail(c, http.StatusNotFound, "No trailer found")
		}
		return catalogFailed(c, err)
	}
	return response.OK(c, "Trailer fetched successfully", v)
}

func (h *MovieHandler) store(c echo.Context, id string, d catalog.Details) {
	ctx, cancel := dbCtx(c)
	defer cancel()

	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}
	m := model.Movie{
		CatalogID:   id,
		Title:       d.Title,
		Genres:      genres,
		ReleaseDate: d.ReleaseDate,
		Overview:    d.Overview,
	}
	if d.PosterPath != "" {
		m.PosterURL = catalog.PosterBaseURL + d.PosterPath
	}
	if err := h.Movies.Upsert(ctx, &m); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("movie_id", id).Msg("store movie snapshot failed")
	}
}

func (h *MovieHandler) snapshot(c echo.Context, id string) (model.Movie, bool) {
	ctx, cancel := dbCtx(c)
	defer cancel()

	m, err := h.Movies.GetByCatalogID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Str("movie_id", id).Msg("load movie snapshot failed")
		}
		return model.Movie{}, false
	}
	return m, true
}

func catalogFailed(c echo.Context, err error) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return response.Fail(c, http.StatusNotFound, "Movie not found")
	}
	return response.Fail(c, http.StatusInternalServerError, msgCatalogDown)
}
