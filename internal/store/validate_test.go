package store_test

import (
	"errors"
	"testing"

	"github.com/joestump/joe-expenses/internal/store"
)

func TestParseExpenseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"150", "150", nil},
		{" 12.34 ", "12.34", nil},
		{"0", "", store.ErrAmountNotPositive},
		{"-5", "", store.ErrAmountNotPositive},
		{"abc", "", store.ErrInvalidAmount},
		{"", "", store.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := store.ParseExpenseAmount(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseBudgetAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"5000", "5000", nil},
		{"0", "0", nil},
		{"", "0", nil},
		{"-1", "", store.ErrBudgetNegative},
		{"lots", "", store.ErrInvalidBudget},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := store.ParseBudgetAmount(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidateNewExpense(t *testing.T) {
	in, err := store.ValidateNewExpense(store.NewExpense{Title: "  Coffee ", Category: " ", Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if in.Title != "Coffee" || in.Category != "Other" {
		t.Errorf("normalized = %+v", in)
	}

	if _, err := store.ValidateNewExpense(store.NewExpense{Title: " ", Date: "2024-01-01"}); !errors.Is(err, store.ErrTitleRequired) {
		t.Errorf("blank title err = %v", err)
	}
	if _, err := store.ValidateNewExpense(store.NewExpense{Title: "x", Date: "01/02/2024"}); !errors.Is(err, store.ErrInvalidDate) {
		t.Errorf("bad date err = %v", err)
	}
}
