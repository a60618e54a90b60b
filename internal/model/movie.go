package model

import "time"

// Movie is a local snapshot of catalog details, written on every successful
// detail lookup and served when the catalog is unavailable.
type Movie struct {
	ID          string    `json:"id" bson:"_id"`
	CatalogID   string    `json:"catalogId" bson:"catalogId"`
	Title       string    `json:"title" bson:"title"`
	Genres      []string  `json:"genres" bson:"genres"`
	ReleaseDate string    `json:"releaseDate" bson:"releaseDate"`
	PosterURL   string    `json:"posterUrl" bson:"posterUrl"`
	Overview    string    `json:"overview" bson:"overview"`
	CachedAt    time.Time `json:"cachedAt" bson:"cachedAt"`
	Deleted     bool      `json:"deleted" bson:"deleted"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
