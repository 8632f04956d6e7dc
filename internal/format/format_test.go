package format

import (
	"math"
	"strings"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestCurrency_USD(t *testing.T) {
	f := Default()
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{0.5, "$0.50"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{-42, "-$42.00"},
		{math.NaN(), "$0.00"},
	}
	for _, tt := range tests {
		if got := f.Currency(tt.in); got != tt.want {
			t.Errorf("Currency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCurrencyOf_NilIsZero(t *testing.T) {
	f := Default()
	if got := f.CurrencyOf(nil); got != "$0.00" {
		t.Errorf("CurrencyOf(nil) = %q, want $0.00", got)
	}
	if got := f.CurrencyOf(ptr(150)); got != "$150.00" {
		t.Errorf("CurrencyOf(150) = %q", got)
	}
}

func TestCurrency_AlwaysTwoDecimals(t *testing.T) {
	f := Default()
	for _, v := range []float64{1, 1.1, 1.10, 99.999, 1e6} {
		got := f.Currency(v)
		dot := -1
		for i := len(got) - 1; i >= 0; i-- {
			if got[i] == '.' {
				dot = i
				break
			}
		}
		if dot < 0 || len(got)-dot-1 != 2 {
			t.Errorf("Currency(%v) = %q, want two fraction digits", v, got)
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New("not a locale!", "USD"); err == nil {
		t.Error("expected locale error")
	}
	if _, err := New("en-US", "XXXX"); err == nil {
		t.Error("expected currency error")
	}
}

func TestNew_OtherLocale(t *testing.T) {
	f, err := New("en-GB", "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Currency(1000); !strings.HasSuffix(got, "1,000.00") || !strings.Contains(got, "€") {
		t.Errorf("Currency(1000) = %q, want euro amount 1,000.00", got)
	}
}

func TestPercentAndLabel(t *testing.T) {
	f := Default()
	if got := f.Percent(0.25); got != "25.0%" {
		t.Errorf("Percent = %q", got)
	}
	if got := f.Label("  groceries "); got != "Groceries" {
		t.Errorf("Label = %q", got)
	}
	if got := f.Label(""); got != "Other" {
		t.Errorf("Label(empty) = %q", got)
	}
}
