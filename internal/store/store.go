// Package store holds the sqlx-backed persistence for users, expenses, and
// budgets. No handler queries the database directly.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when a username is already registered.
	ErrUsernameTaken = errors.New("Username already exists")

	// ErrEmailTaken is returned when an email is already registered.
	ErrEmailTaken = errors.New("Email already registered")
)

// UserStoreIface exposes account operations.
type UserStoreIface interface {
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*User, error)
	Delete(ctx context.Context, id string) error
}

// ExpenseStoreIface exposes expense operations scoped to one user.
type ExpenseStoreIface interface {
	Create(ctx context.Context, userID string, in NewExpense) (*Expense, error)
	ListByUser(ctx context.Context, userID string) ([]*Expense, error)
	ListRecent(ctx context.Context, userID string, n int) ([]*Expense, error)
	Delete(ctx context.Context, id, userID string) error
}

// BudgetStoreIface exposes the per-user monthly budget.
type BudgetStoreIface interface {
	Get(ctx context.Context, userID string) (decimal.Decimal, error)
	Set(ctx context.Context, userID string, amount decimal.Decimal) error
}

// isUniqueConstraintError checks whether err indicates a unique constraint violation.
// Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
