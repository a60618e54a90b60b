package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates every table the repositories use.  Statements are
// idempotent so Migrate runs on each startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		full_name     VARCHAR(255) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		role          ENUM('USER','ADMIN') NOT NULL DEFAULT 'USER',
		is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
		deleted       BOOLEAN      NOT NULL DEFAULT FALSE,
		created_at    DATETIME(6)  NOT NULL,
		updated_at    DATETIME(6)  NOT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS access_tokens (
		id         CHAR(36)    NOT NULL PRIMARY KEY,
		email      VARCHAR(255) NOT NULL,
		token_hash CHAR(64)    NOT NULL,
		expires_at DATETIME(6) NOT NULL,
		deleted    BOOLEAN     NOT NULL DEFAULT FALSE,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		KEY idx_access_tokens_email (email),
		UNIQUE KEY uq_access_tokens_hash (token_hash)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id         CHAR(36)     NOT NULL PRIMARY KEY,
		user_id    CHAR(36)     NOT NULL,
		movie_id   VARCHAR(64)  NOT NULL,
		rating     TINYINT      NOT NULL,
		content    TEXT         NOT NULL,
		deleted    BOOLEAN      NOT NULL DEFAULT FALSE,
		created_at DATETIME(6)  NOT NULL,
		updated_at DATETIME(6)  NOT NULL,
		KEY idx_reviews_movie (movie_id, deleted),
		CONSTRAINT fk_reviews_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         CHAR(36)    NOT NULL PRIMARY KEY,
		review_id  CHAR(36)    NOT NULL,
		user_id    CHAR(36)    NOT NULL,
		content    TEXT        NOT NULL,
		has_parent BOOLEAN     NOT NULL DEFAULT FALSE,
		deleted    BOOLEAN     NOT NULL DEFAULT FALSE,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		KEY idx_comments_review (review_id, deleted),
		CONSTRAINT fk_comments_review FOREIGN KEY (review_id) REFERENCES reviews (id),
		CONSTRAINT fk_comments_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS movies (
		id           CHAR(36)     NOT NULL PRIMARY KEY,
		catalog_id   VARCHAR(64)  NOT NULL,
		title        VARCHAR(512) NOT NULL DEFAULT '',
		genres       JSON         NULL,
		release_date VARCHAR(32)  NOT NULL DEFAULT '',
		poster_url   VARCHAR(512) NOT NULL DEFAULT '',
		overview     TEXT         NULL,
		cached_at    DATETIME(6)  NOT NULL,
		deleted      BOOLEAN      NOT NULL DEFAULT FALSE,
		created_at   DATETIME(6)  NOT NULL,
		updated_at   DATETIME(6)  NOT NULL,
		UNIQUE KEY uq_movies_catalog (catalog_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS messages (
		id           CHAR(36)     NOT NULL PRIMARY KEY,
		email        VARCHAR(255) NOT NULL,
		content      TEXT         NOT NULL,
		phone_number VARCHAR(64)  NULL,
		subject      VARCHAR(255) NULL,
		deleted      BOOLEAN      NOT NULL DEFAULT FALSE,
		created_at   DATETIME(6)  NOT NULL,
		updated_at   DATETIME(6)  NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS subscribers (
		id         CHAR(36)     NOT NULL PRIMARY KEY,
		email      VARCHAR(255) NOT NULL,
		is_active  BOOLEAN      NOT NULL DEFAULT TRUE,
		deleted    BOOLEAN      NOT NULL DEFAULT FALSE,
		created_at DATETIME(6)  NOT NULL,
		updated_at DATETIME(6)  NOT NULL,
		UNIQUE KEY uq_subscribers_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
