package store

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when an amount does not parse as a number.
	ErrInvalidAmount = errors.New("Invalid amount")

	// ErrAmountNotPositive is returned for zero or negative expense amounts.
	ErrAmountNotPositive = errors.New("Amount must be positive")

	// ErrInvalidBudget is returned when a budget does not parse as a number.
	ErrInvalidBudget = errors.New("Invalid budget amount")

	// ErrBudgetNegative is returned for budgets below zero.
	ErrBudgetNegative = errors.New("Budget cannot be negative")

	// ErrTitleRequired is returned when an expense has a blank title.
	ErrTitleRequired = errors.New("Title is required")

	// ErrInvalidDate is returned when an expense date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("Date must be YYYY-MM-DD")
)

// ParseExpenseAmount parses a user-supplied expense amount. It must be a
// number greater than zero.
func ParseExpenseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrAmountNotPositive
	}
	return d, nil
}

// ParseBudgetAmount parses a user-supplied budget. Zero is allowed and clears
// the budget; negative values are rejected. A blank value counts as zero.
func ParseBudgetAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidBudget
	}
	if d.IsNegative() {
		return decimal.Zero, ErrBudgetNegative
	}
	return d, nil
}

// ValidateNewExpense trims and checks the text fields of an expense.
// Category defaults to "Other" when blank.
func ValidateNewExpense(in NewExpense) (NewExpense, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Date = strings.TrimSpace(in.Date)
	if in.Title == "" {
		return in, ErrTitleRequired
	}
	if in.Category == "" {
		in.Category = "Other"
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return in, ErrInvalidDate
	}
	return in, nil
}
