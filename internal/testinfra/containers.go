//go:build integration

// Package testinfra starts throwaway database containers for the store
// integration tests.
package testinfra

import (
	"context"
	"database/sql"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/movie-review-backend/internal/database"
)

// SkipIfNoDocker skips the test when no Docker daemon is reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	if err := exec.Command("docker", "info").Run(); err != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// cleanup terminates c when the test ends.
func cleanup(t *testing.T, c testcontainers.Container) {
	t.Helper()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})
}

func endpoint(ctx context.Context, c testcontainers.Container, port string) (string, string, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return "", "", err
	}
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return "", "", err
	}
	return host, mapped.Port(), nil
}

// MySQL starts MySQL 8, applies the schema and returns the pool.
func MySQL(t *testing.T) *sql.DB {
	t.Helper()
	SkipIfNoDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mysql:8.0",
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "secret",
				"MYSQL_DATABASE":      "mrw",
			},
			WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start mysql: %v", err)
	}
	cleanup(t, c)

	host, port, err := endpoint(ctx, c, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql endpoint: %v", err)
	}

	// The entrypoint restarts mysqld after initialisation; retry until the
	// final server accepts connections.
	var db *sql.DB
	for {
		db, err = database.Open(ctx, "root", "secret", host, port, "mrw")
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			t.Fatalf("connect mysql: %v", err)
		case <-time.After(time.Second):
		}
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Mongo starts MongoDB 7 and returns a fresh database handle.
func Mongo(t *testing.T) *mongo.Database {
	t.Helper()
	SkipIfNoDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	cleanup(t, c)

	host, port, err := endpoint(ctx, c, "27017/tcp")
	if err != nil {
		t.Fatalf("mongo endpoint: %v", err)
	}
	client, err := database.OpenMongo(ctx, fmt.Sprintf("mongodb://%s:%s", host, port))
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("mrw")
}
