package migrations

// Items hold both shapes (to-do and short link) in one table. The link
// columns are nullable so to-do rows do not collide on the unique url and
// short_code indexes. Auto-increment DDL differs per driver, hence a Go
// migration instead of a shared SQL file.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateItems, downCreateItems)
}

func upCreateItems(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS items (
    id          BIGSERIAL PRIMARY KEY,
    user_id     TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    title       TEXT NOT NULL DEFAULT '',
    is_complete BOOLEAN NOT NULL DEFAULT FALSE,
    url         TEXT UNIQUE,
    short_code  TEXT UNIQUE,
    body        TEXT NOT NULL DEFAULT '',
    visits      BIGINT NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS items (
    id          BIGINT AUTO_INCREMENT PRIMARY KEY,
    user_id     VARCHAR(36) NOT NULL,
    title       TEXT NOT NULL,
    is_complete BOOLEAN NOT NULL DEFAULT FALSE,
    url         VARCHAR(2048) UNIQUE,
    short_code  VARCHAR(16) UNIQUE,
    body        TEXT NOT NULL,
    visits      BIGINT NOT NULL DEFAULT 0,
    created_at  TIMESTAMP(6) NOT NULL,
    updated_at  TIMESTAMP(6) NOT NULL,
    CONSTRAINT fk_items_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    title       TEXT NOT NULL DEFAULT '',
    is_complete BOOLEAN NOT NULL DEFAULT FALSE,
    url         TEXT UNIQUE,
    short_code  TEXT UNIQUE,
    body        TEXT NOT NULL DEFAULT '',
    visits      INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS items_user_id_idx ON items (user_id)`)
	return err
}

func downCreateItems(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS items`)
	return err
}
