package migrations

// date is stored as YYYY-MM-DD text on every driver so monthly grouping can be
// done the same way everywhere (first seven characters).

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateExpenses, downCreateExpenses)
}

func upCreateExpenses(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS expenses (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title      TEXT NOT NULL,
    amount     DOUBLE PRECISION NOT NULL,
    category   TEXT NOT NULL,
    date       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS expenses (
    id         VARCHAR(36) PRIMARY KEY,
    user_id    VARCHAR(36) NOT NULL,
    title      VARCHAR(255) NOT NULL,
    amount     DOUBLE NOT NULL,
    category   VARCHAR(255) NOT NULL,
    date       VARCHAR(10) NOT NULL,
    created_at TIMESTAMP(6) NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS expenses (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title      TEXT NOT NULL,
    amount     REAL NOT NULL,
    category   TEXT NOT NULL,
    date       TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create expenses table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX expenses_user_date_idx ON expenses (user_id, date)`)
	return err
}

func downCreateExpenses(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS expenses`)
	return err
}
