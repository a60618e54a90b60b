package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goccy/go-json"

	"github.com/iliyamo/movie-review-backend/internal/model"
)

// MovieRepo is the MySQL Movies implementation.  Genres are stored in a
// JSON column.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

// Upsert inserts or refreshes the snapshot keyed by CatalogID and reloads
// the stored row into m.  On refresh the original id and createdAt are kept.
func (r *MovieRepo) Upsert(ctx context.Context, m *model.Movie) error {
	now := Now()
	Stamp(&m.ID, &m.CreatedAt, &m.UpdatedAt, now)
	m.CachedAt = now
	genres, err := json.Marshal(m.Genres)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO movies (id,catalog_id,title,genres,release_date,poster_url,overview,cached_at,deleted,created_at,updated_at)
		VALUES (?,?,?,?,?,?,?,?,FALSE,?,?)
		ON DUPLICATE KEY UPDATE
			title=VALUES(title), genres=VALUES(genres), release_date=VALUES(release_date),
			poster_url=VALUES(poster_url), overview=VALUES(overview), cached_at=VALUES(cached_at),
			deleted=FALSE, updated_at=VALUES(updated_at)`,
		m.ID, m.CatalogID, m.Title, genres, m.ReleaseDate, m.PosterURL, m.Overview, m.CachedAt, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return err
	}
	stored, err := r.GetByCatalogID(ctx, m.CatalogID)
	if err != nil {
		return err
	}
	*m = stored
	return nil
}

// GetByCatalogID returns the live snapshot of a catalog movie.
func (r *MovieRepo) GetByCatalogID(ctx context.Context, catalogID string) (model.Movie, error) {
	var (
		m        model.Movie
		genres   []byte
		overview sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id,catalog_id,title,genres,release_date,poster_url,overview,cached_at,deleted,created_at,updated_at
		FROM movies WHERE catalog_id=? AND `+live("")+` LIMIT 1`, catalogID).Scan(
		&m.ID, &m.CatalogID, &m.Title, &genres, &m.ReleaseDate, &m.PosterURL, &overview,
		&m.CachedAt, &m.Deleted, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrNotFound
	}
	if err != nil {
		return model.Movie{}, err
	}
	m.Overview = overview.String
	if len(genres) > 0 {
		if err := json.Unmarshal(genres, &m.Genres); err != nil {
			return model.Movie{}, err
		}
	}
	return m, nil
}
