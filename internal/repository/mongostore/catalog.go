package mongostore

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
)

// MovieRepo stores catalog snapshots.
type MovieRepo struct{ coll *mongo.Collection }

// Upsert refreshes the snapshot for m.CatalogID, keeping id and createdAt of
// an existing document, and copies the stored document back into m.
func (r *MovieRepo) Upsert(ctx context.Context, m *model.Movie) error {
	now := repository.Now()
	id := m.ID
	if id == "" {
		id = uuid.NewString()
	}
	update := bson.M{
		"$set": bson.M{
			"title":       m.Title,
			"genres":      m.Genres,
			"releaseDate": m.ReleaseDate,
			"posterUrl":   m.PosterURL,
			"overview":    m.Overview,
			"cachedAt":    now,
			"deleted":     false,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{"_id": id, "createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	return r.coll.FindOneAndUpdate(ctx, bson.M{"catalogId": m.CatalogID}, update, opts).Decode(m)
}

func (r *MovieRepo) GetByCatalogID(ctx context.Context, catalogID string) (model.Movie, error) {
	var m model.Movie
	err := findOne(ctx, r.coll, live(bson.M{"catalogId": catalogID}), &m)
	return m, err
}
