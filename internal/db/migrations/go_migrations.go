// Package migrations contains the dialect-aware goose migrations for users,
// sessions, expenses, and budgets. Every migration is written in Go because
// column types differ between SQLite, PostgreSQL, and MySQL.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}
