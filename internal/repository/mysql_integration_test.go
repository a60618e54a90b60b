//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/iliyamo/movie-review-backend/internal/repository"
	"github.com/iliyamo/movie-review-backend/internal/repository/storetest"
	"github.com/iliyamo/movie-review-backend/internal/testinfra"
)

func TestMySQLStore(t *testing.T) {
	db := testinfra.MySQL(t)
	storetest.Run(t, repository.NewMySQLStore(db), func(ctx context.Context, id string) (bool, error) {
		var deleted bool
		err := db.QueryRowContext(ctx, "SELECT deleted FROM reviews WHERE id=?", id).Scan(&deleted)
		return deleted, err
	})
}
