package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Validator is implemented by every response type. Clients call Validate
// after decoding so a malformed payload becomes an error at the boundary
// instead of zero values further down.
type Validator interface {
	Validate() error
}

// Amount is a decimal amount on the wire. It accepts a JSON number or a JSON
// string and always encodes as a string, so "5000" typed into a form reaches
// the server unchanged.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		*a = Amount(n.String())
	}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

// --- Requests ---

// LoginRequest is the body for POST /api/login. Username may also be an email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest is the body for POST /api/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateExpenseRequest is the body for POST /api/expenses.
type CreateExpenseRequest struct {
	Title    string `json:"title"`
	Amount   Amount `json:"amount" swaggertype:"string" example:"12.50"`
	Category string `json:"category"`
	Date     string `json:"date" example:"2024-01-31"`
}

// BudgetRequest is the body for PUT /api/budget.
type BudgetRequest struct {
	Amount Amount `json:"amount" swaggertype:"string" example:"5000"`
}

// ProfileRequest is the body for PUT /api/profile. An empty password keeps
// the current one.
type ProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// --- Responses ---

// MessageResponse is the success envelope used by mutating endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

func (r MessageResponse) Validate() error {
	if r.Message == "" {
		return errors.New("missing message")
	}
	return nil
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ExpenseResponse is one expense row.
type ExpenseResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

func (r ExpenseResponse) Validate() error {
	if r.ID == "" {
		return errors.New("expense without id")
	}
	return nil
}

// ExpenseList is the body of GET /api/expenses, newest date first.
type ExpenseList []ExpenseResponse

func (l ExpenseList) Validate() error {
	for i, e := range l {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}
	}
	return nil
}

// AnalyticsResponse is the body of GET /api/analytics. Categories and
// CategoryAmounts are parallel slices, as are Months and MonthlyAmounts.
// Totals are pointers so a missing field is distinguishable from zero.
type AnalyticsResponse struct {
	TotalSpent      *float64  `json:"total_spent"`
	Budget          *float64  `json:"budget"`
	Categories      []string  `json:"categories"`
	CategoryAmounts []float64 `json:"category_amounts"`
	Months          []string  `json:"months"`
	MonthlyAmounts  []float64 `json:"monthly_amounts"`
}

func (r AnalyticsResponse) Validate() error {
	if len(r.Categories) != len(r.CategoryAmounts) {
		return fmt.Errorf("categories/category_amounts length mismatch: %d != %d", len(r.Categories), len(r.CategoryAmounts))
	}
	if len(r.Months) != len(r.MonthlyAmounts) {
		return fmt.Errorf("months/monthly_amounts length mismatch: %d != %d", len(r.Months), len(r.MonthlyAmounts))
	}
	for _, m := range r.Months {
		if len(m) != 7 || m[4] != '-' {
			return fmt.Errorf("month %q is not YYYY-MM", m)
		}
	}
	return nil
}

// BudgetResponse is the body of GET /api/budget.
type BudgetResponse struct {
	Amount *float64 `json:"amount"`
}

func (r BudgetResponse) Validate() error { return nil }

// UserResponse is the body of GET /api/profile.
type UserResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	JoinedDate string `json:"joined_date"`
}

func (r UserResponse) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("profile without username")
	}
	return nil
}
