package models

import (
	"fmt"
	"math/rand"
	"time"
)

// Currencies is the fixed set of currency codes a quote may use.
var Currencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "SAR"}

// ValidCurrency reports whether code belongs to the fixed currency set.
func ValidCurrency(code string) bool {
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}

// LineItem is one priced row within a quote. Quantity and UnitPrice are
// already coerced numerics (unparsable input becomes 0 at the form boundary),
// so Quantity*UnitPrice is always well-defined.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Quote is the one document under edit. It lives only for the duration of the
// editing session plus export; it is never persisted. Totals are never stored
// on it — they are always derived by the pricing package.
type Quote struct {
	ID               string     `json:"id"`
	QuoteNumber      string     `json:"quoteNumber"`
	Date             string     `json:"date"`
	Validity         string     `json:"validity"`
	CustomerName     string     `json:"customerName"`
	Subject          string     `json:"subject"`
	CompanyProfileID string     `json:"companyProfileId"`
	LineItems        []LineItem `json:"lineItems"`
	VATRate          float64    `json:"vatRate"`
	Currency         string     `json:"currency"`
	Template         Template   `json:"template"`
}

// NewQuote returns the default quote state for a fresh editing session:
// generated quote number, today's date, 30-day validity, 15% VAT, USD,
// standard layout, and a single empty line item.
func NewQuote(now time.Time) Quote {
	return Quote{
		QuoteNumber: DefaultQuoteNumber(now),
		Date:        now.Format("2006-01-02"),
		Validity:    "30 Days",
		LineItems:   []LineItem{NewLineItem(now)},
		VATRate:     15,
		Currency:    "USD",
		Template:    TemplateStandard,
	}
}

// DefaultQuoteNumber builds the human-facing default number
// (Q-<year>-<random 4 digits>); users may overwrite it freely.
func DefaultQuoteNumber(now time.Time) string {
	return fmt.Sprintf("Q-%d-%04d", now.Year(), rand.Intn(10000))
}

// NewLineItem returns an empty row with the default quantity of 1. The id is
// timestamp-shaped; it only needs to be unique within one quote.
func NewLineItem(now time.Time) LineItem {
	return LineItem{ID: now.Format(time.RFC3339Nano), Quantity: 1}
}
