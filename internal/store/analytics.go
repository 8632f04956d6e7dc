package store

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// MonthTotal is the amount spent in one calendar month (YYYY-MM).
type MonthTotal struct {
	Month  string
	Amount decimal.Decimal
}

// Summary aggregates a user's spending for the analytics endpoint.
type Summary struct {
	TotalSpent decimal.Decimal
	Budget     decimal.Decimal
	Categories []CategoryTotal // sorted by category name
	Months     []MonthTotal    // sorted ascending
}

// AnalyticsStore computes spending summaries.
type AnalyticsStore struct {
	db      *sqlx.DB
	budgets *BudgetStore
}

func NewAnalyticsStore(db *sqlx.DB, budgets *BudgetStore) *AnalyticsStore {
	return &AnalyticsStore{db: db, budgets: budgets}
}

// Summarize totals the user's expenses by category and by month. Sums are
// computed in decimal rather than with SQL SUM so repeated REAL additions do
// not drift, and so month bucketing works without driver-specific date
// functions.
func (s *AnalyticsStore) Summarize(ctx context.Context, userID string) (*Summary, error) {
	var rows []struct {
		Amount   decimal.Decimal `db:"amount"`
		Category string          `db:"category"`
		Date     string          `db:"date"`
	}
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT amount, category, date FROM expenses WHERE user_id = ?
	`), userID)
	if err != nil {
		return nil, err
	}

	byCategory := map[string]decimal.Decimal{}
	byMonth := map[string]decimal.Decimal{}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
		byCategory[r.Category] = byCategory[r.Category].Add(r.Amount)
		byMonth[monthOf(r.Date)] = byMonth[monthOf(r.Date)].Add(r.Amount)
	}

	budget, err := s.budgets.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		TotalSpent: total,
		Budget:     budget,
		Categories: make([]CategoryTotal, 0, len(byCategory)),
		Months:     make([]MonthTotal, 0, len(byMonth)),
	}
	for c, a := range byCategory {
		sum.Categories = append(sum.Categories, CategoryTotal{Category: c, Amount: a})
	}
	sort.Slice(sum.Categories, func(i, j int) bool { return sum.Categories[i].Category < sum.Categories[j].Category })
	for m, a := range byMonth {
		sum.Months = append(sum.Months, MonthTotal{Month: m, Amount: a})
	}
	sort.Slice(sum.Months, func(i, j int) bool { return sum.Months[i].Month < sum.Months[j].Month })
	return sum, nil
}

func monthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
