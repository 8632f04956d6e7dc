package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Expense represents a row in the expenses table.
type Expense struct {
	ID        string          `db:"id"`
	UserID    string          `db:"user_id"`
	Title     string          `db:"title"`
	Amount    decimal.Decimal `db:"amount"`
	Category  string          `db:"category"`
	Date      string          `db:"date"` // YYYY-MM-DD
	CreatedAt time.Time       `db:"created_at"`
}

// NewExpense is the validated input for ExpenseStore.Create.
type NewExpense struct {
	Title    string
	Amount   decimal.Decimal
	Category string
	Date     string
}

// ExpenseStore is the sqlx-backed implementation of ExpenseStoreIface.
type ExpenseStore struct {
	db *sqlx.DB
}

func NewExpenseStore(db *sqlx.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

func (s *ExpenseStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts an expense owned by userID.
func (s *ExpenseStore) Create(ctx context.Context, userID string, in NewExpense) (*Expense, error) {
	e := &Expense{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     in.Title,
		Amount:    in.Amount,
		Category:  in.Category,
		Date:      in.Date,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO expenses (id, user_id, title, amount, category, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), e.ID, e.UserID, e.Title, e.Amount.InexactFloat64(), e.Category, e.Date, e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListByUser returns the user's expenses, newest date first. Expenses on the
// same day are ordered by insertion, newest first.
func (s *ExpenseStore) ListByUser(ctx context.Context, userID string) ([]*Expense, error) {
	var out []*Expense
	err := s.db.SelectContext(ctx, &out, s.q(`
		SELECT id, user_id, title, amount, category, date, created_at
		FROM expenses
		WHERE user_id = ?
		ORDER BY date DESC, created_at DESC
	`), userID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecent is ListByUser limited to the n newest expenses.
func (s *ExpenseStore) ListRecent(ctx context.Context, userID string, n int) ([]*Expense, error) {
	var out []*Expense
	err := s.db.SelectContext(ctx, &out, s.q(`
		SELECT id, user_id, title, amount, category, date, created_at
		FROM expenses
		WHERE user_id = ?
		ORDER BY date DESC, created_at DESC
		LIMIT ?
	`), userID, n)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an expense if it belongs to userID. Returns ErrNotFound
// otherwise, so one user can never delete another user's rows.
func (s *ExpenseStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM expenses WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
