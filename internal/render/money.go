package render

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TakaSymbol prefixes every rendered amount.
const TakaSymbol = "৳"

// Money formats amounts with locale digits and grouping.
type Money struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewMoney creates a formatter for tag. The ledger is kept in taka whatever
// the locale.
func NewMoney(tag language.Tag) *Money {
	return &Money{printer: message.NewPrinter(tag), unit: currency.MustParseISO("BDT")}
}

// Currency returns the ISO code of the ledger currency.
func (m *Money) Currency() string {
	return m.unit.String()
}

// Format renders v as "৳1,234" or "৳1,234.50". Negative values keep their sign
// ahead of the symbol.
func (m *Money) Format(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + TakaSymbol + m.Number(v)
}

// Number renders v with locale grouping, without a symbol. Whole amounts
// carry no fraction digits.
func (m *Money) Number(v float64) string {
	if v == math.Trunc(v) {
		return m.printer.Sprintf("%.0f", v)
	}
	return m.printer.Sprintf("%.2f", v)
}

// Percent renders v with one fraction digit and a percent sign.
func (m *Money) Percent(v float64) string {
	return m.printer.Sprintf("%.1f%%", v)
}
