//go:build integration

package mongostore_test

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/movie-review-backend/internal/repository/mongostore"
	"github.com/iliyamo/movie-review-backend/internal/repository/storetest"
	"github.com/iliyamo/movie-review-backend/internal/testinfra"
)

func TestMongoStore(t *testing.T) {
	db := testinfra.Mongo(t)
	if err := mongostore.EnsureIndexes(context.Background(), db); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	storetest.Run(t, mongostore.New(db), func(ctx context.Context, id string) (bool, error) {
		var doc struct {
			Deleted bool `bson:"deleted"`
		}
		err := db.Collection("reviews").FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
		return doc.Deleted, err
	})
}
