// Package format renders amounts and labels for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders currency amounts for one locale and currency unit.
// The zero value is not usable; call New or Default.
type Formatter struct {
	printer *message.Printer
	symbol  string
	caser   cases.Caser
}

// New builds a Formatter for a BCP 47 locale (e.g. "en-US") and an ISO 4217
// currency code (e.g. "USD").
func New(locale, unit string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("format: locale %q: %w", locale, err)
	}
	cur, err := currency.ParseISO(unit)
	if err != nil {
		return nil, fmt.Errorf("format: currency %q: %w", unit, err)
	}
	p := message.NewPrinter(tag)
	return &Formatter{
		printer: p,
		symbol:  p.Sprint(currency.Symbol(cur)),
		caser:   cases.Title(tag),
	}, nil
}

// Default returns the en-US / USD formatter.
func Default() *Formatter {
	f, err := New("en-US", "USD")
	if err != nil {
		panic(err)
	}
	return f
}

// Currency renders v with the currency symbol, locale grouping and exactly
// two fraction digits. NaN and infinities render as zero.
func (f *Formatter) Currency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	sign := ""
	if v < 0 && math.Round(v*100) != 0 {
		sign = "-"
	}
	return sign + f.symbol + f.printer.Sprint(number.Decimal(math.Abs(v), number.Scale(2)))
}

// CurrencyOf is Currency for an optional value; nil renders as zero.
func (f *Formatter) CurrencyOf(v *float64) string {
	if v == nil {
		return f.Currency(0)
	}
	return f.Currency(*v)
}

// Percent renders a ratio (0.5 = 50%) with one fraction digit.
func (f *Formatter) Percent(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 0
	}
	return f.printer.Sprint(number.Decimal(ratio*100, number.Scale(1))) + "%"
}

// Label title-cases a free-form category for display.
func (f *Formatter) Label(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Other"
	}
	return f.caser.String(s)
}
