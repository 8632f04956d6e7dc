package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// BudgetStore keeps one budget amount per user.
type BudgetStore struct {
	db *sqlx.DB
}

func NewBudgetStore(db *sqlx.DB) *BudgetStore {
	return &BudgetStore{db: db}
}

func (s *BudgetStore) q(query string) string { return s.db.Rebind(query) }

// Get returns the user's budget, or zero when none has been set.
func (s *BudgetStore) Get(ctx context.Context, userID string) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := s.db.GetContext(ctx, &amount, s.q(`SELECT amount FROM budgets WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// Set inserts or replaces the user's budget. UPDATE-then-INSERT keeps the
// statement portable across SQLite, PostgreSQL, and MySQL.
func (s *BudgetStore) Set(ctx context.Context, userID string, amount decimal.Decimal) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var exists int
	err = tx.GetContext(ctx, &exists, s.q(`SELECT COUNT(*) FROM budgets WHERE user_id = ?`), userID)
	if err != nil {
		return err
	}
	if exists > 0 {
		_, err = tx.ExecContext(ctx, s.q(`UPDATE budgets SET amount = ?, updated_at = ? WHERE user_id = ?`),
			amount.InexactFloat64(), now, userID)
	} else {
		_, err = tx.ExecContext(ctx, s.q(`INSERT INTO budgets (user_id, amount, updated_at) VALUES (?, ?, ?)`),
			userID, amount.InexactFloat64(), now)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}
