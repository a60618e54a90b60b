// Package catalog is the client of the upstream movie catalog (TMDB v3).
//
// Every call is rate limited, runs through a circuit breaker and is bounded
// by the HTTP client timeout.  Failures surface as ErrUnavailable and are
// never reported as empty results; an upstream 404 is ErrNotFound.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/iliyamo/movie-review-backend/internal/config"
	"github.com/iliyamo/movie-review-backend/internal/logging"
	"github.com/iliyamo/movie-review-backend/internal/metrics"
)

var (
	ErrNotFound    = errors.New("catalog: not found")
	ErrUnavailable = errors.New("catalog: unavailable")

	// errCallerGone marks a call abandoned by its own context.  The breaker
	// does not count it against the upstream.
	errCallerGone = errors.New("catalog: caller gone")
)

// maxBody caps how much of an upstream response is read.
const maxBody = 4 << 20

// Client talks to the catalog API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// New builds a client from cfg.  A zero RPS disables outbound limiting.
func New(cfg config.TMDBConfig) *Client {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
		breaker: newBreaker("tmdb"),
	}
}

// ListMovies returns one page of a curated list as received.
func (c *Client) ListMovies(ctx context.Context, list ListType) (json.RawMessage, error) {
	q := url.Values{"language": {"en-US"}, "page": {"1"}}
	return c.get(ctx, "list", "/movie/"+string(list), q)
}

// SearchMovies runs a title search.  Page, IncludeAdult and Language default
// to 1, false and en-US.
func (c *Client) SearchMovies(ctx context.Context, p SearchParams) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("query", p.Query)
	q.Set("page", orDefault(p.Page, "1"))
	q.Set("include_adult", orDefault(p.IncludeAdult, "false"))
	q.Set("language", orDefault(p.Language, "en-US"))
	for k, v := range map[string]string{
		"primary_release_year": p.PrimaryReleaseYear,
		"region":               p.Region,
		"year":                 p.Year,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	return c.get(ctx, "search", "/search/movie", q)
}

// MovieDetails returns the full upstream document of one movie.
func (c *Client) MovieDetails(ctx context.Context, id string) (Details, error) {
	raw, err := c.get(ctx, "details", "/movie/"+url.PathEscape(id), url.Values{"language": {"en-US"}})
	if err != nil {
		return Details{}, err
	}
	var d Details
	if err := json.Unmarshal(raw, &d); err != nil {
		return Details{}, fmt.Errorf("%w: decode details: %v", ErrUnavailable, err)
	}
	d.Raw = raw
	return d, nil
}

// Trailer returns the official YouTube trailer of a movie.  A movie without
// one yields ErrNotFound.
func (c *Client) Trailer(ctx context.Context, id string) (Video, error) {
	raw, err := c.get(ctx, "videos", "/movie/"+url.PathEscape(id)+"/videos", nil)
	if err != nil {
		return Video{}, err
	}
	var list videoList
	if err := json.Unmarshal(raw, &list); err != nil {
		return Video{}, fmt.Errorf("%w: decode videos: %v", ErrUnavailable, err)
	}
	v, ok := officialTrailer(list.Results)
	if !ok {
		return Video{}, ErrNotFound
	}
	return v, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values) (json.RawMessage, error) {
	start := time.Now()
	defer func() {
		metrics.CatalogDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.CatalogRequests.WithLabelValues(endpoint, "rejected").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		b, err := c.do(ctx, u)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errCallerGone, ctx.Err())
		}
		return b, err
	})
	switch {
	case err == nil:
		metrics.CatalogRequests.WithLabelValues(endpoint, "ok").Inc()
		return body, nil
	case errors.Is(err, errCallerGone):
		metrics.CatalogRequests.WithLabelValues(endpoint, "canceled").Inc()
		logging.Ctx(ctx).Debug().Err(err).Str("endpoint", endpoint).Msg("catalog request abandoned by caller")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	case errors.Is(err, ErrNotFound):
		metrics.CatalogRequests.WithLabelValues(endpoint, "not_found").Inc()
		return nil, err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CatalogRequests.WithLabelValues(endpoint, "rejected").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("endpoint", endpoint).Msg("catalog request rejected by breaker")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		metrics.CatalogRequests.WithLabelValues(endpoint, "error").Inc()
		logging.Ctx(ctx).Error().Err(err).Str("endpoint", endpoint).Msg("catalog request failed")
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func (c *Client) do(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, err
	}
	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case res.StatusCode < 200 || res.StatusCode > 299:
		return nil, fmt.Errorf("%w: upstream status %d", ErrUnavailable, res.StatusCode)
	case !json.Valid(body):
		return nil, fmt.Errorf("%w: upstream returned invalid JSON", ErrUnavailable)
	}
	return body, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
