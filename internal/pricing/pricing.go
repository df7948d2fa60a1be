// Package pricing derives quote totals and formats amounts for display.
//
// Compute is the single source of truth for the numbers shown by every
// document layout; templates must not re-derive them. The stored values are
// raw float64 with no rounding — rounding happens only in FormatAmount.
package pricing

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/elitepro/quotation/internal/models"
)

// Totals holds the three derived amounts of a quote.
type Totals struct {
	Subtotal   float64
	VATAmount  float64
	GrandTotal float64
}

// Compute maps line items and a VAT percentage to totals.
//
//	subtotal   = Σ quantity_i × unitPrice_i (in stated order)
//	vatAmount  = subtotal × vatRate/100
//	grandTotal = subtotal + vatAmount
//
// Negative quantities and prices are accepted and flow through the
// arithmetic; credit lines are representable that way.
func Compute(items []models.LineItem, vatRate float64) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Quantity * it.UnitPrice
	}
	vat := subtotal * (vatRate / 100)
	return Totals{Subtotal: subtotal, VATAmount: vat, GrandTotal: subtotal + vat}
}

// ParseAmount coerces free-form numeric input to a float64. Unparsable input
// (including the empty string) becomes 0 rather than an error; invalid
// quantity/price fields never block form submission.
func ParseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

type currencyStyle struct {
	symbol   string
	decimals int
}

var currencyStyles = map[string]currencyStyle{
	"USD": {"$", 2},
	"EUR": {"€", 2},
	"GBP": {"£", 2},
	"JPY": {"¥", 0},
	"CAD": {"CA$", 2},
	"AUD": {"A$", 2},
	"SAR": {"SAR ", 2},
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with the symbol, decimal places, and digit
// grouping of the given currency code. Unknown codes fall back to the code
// itself as a prefix. Formatting never alters the underlying value.
func FormatAmount(v float64, currency string) string {
	style, ok := currencyStyles[currency]
	if !ok {
		style = currencyStyle{symbol: currency + " ", decimals: 2}
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	if style.decimals == 0 {
		return sign + style.symbol + printer.Sprintf("%.0f", v)
	}
	return sign + style.symbol + printer.Sprintf("%.2f", v)
}
