// Package render turns a (quote, profile) pair into one of the three fixed
// document layouts. Rendering is pure: the same inputs always produce the
// same document, and every layout takes its numbers from a single pricing
// call so the variants cannot diverge arithmetically.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/elitepro/quotation/internal/models"
	"github.com/elitepro/quotation/internal/pricing"
)

//go:embed templates/*.html
var templateFS embed.FS

// defaultAccent is used when a profile has no brand color set.
const defaultAccent = "#4f46e5"

// Document is a rendered quotation surface plus the totals it displays.
type Document struct {
	// HTML is a complete standalone document, ready for preview or capture.
	HTML string
	// Totals are the raw computed values shown by the document.
	Totals pricing.Totals
}

// Renderer holds the parsed layout templates.
type Renderer struct {
	layouts map[models.Template]*template.Template
}

var layoutFiles = map[models.Template]string{
	models.TemplateStandard:  "templates/standard.html",
	models.TemplateCorporate: "templates/corporate.html",
	models.TemplateCreative:  "templates/creative.html",
}

// NewRenderer parses the embedded layouts.
func NewRenderer() (*Renderer, error) {
	layouts := make(map[models.Template]*template.Template, len(layoutFiles))
	for name, file := range layoutFiles {
		t, err := template.ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", name, err)
		}
		layouts[name] = t
	}
	return &Renderer{layouts: layouts}, nil
}

type lineView struct {
	Description string
	Quantity    string
	UnitPrice   string
	Total       string
}

type documentData struct {
	Quote      models.Quote
	Company    models.CompanyProfile
	Accent     template.CSS
	AccentSoft template.CSS
	Lines      []lineView
	Subtotal   string
	VATRate    string
	VATAmount  string
	GrandTotal string
	Logo       template.URL
	Barcode    template.URL
	BarcodeID  string
}

// Render builds the document for the quote's selected layout. Unrecognized
// template values fall back to the standard layout. Missing optional profile
// fields render as empty strings; the logo block appears only when a logo is
// present.
func (r *Renderer) Render(q models.Quote, company models.CompanyProfile) (Document, error) {
	totals := pricing.Compute(q.LineItems, q.VATRate)
	data := newDocumentData(q, company, totals)

	layout := q.Template
	switch layout {
	case models.TemplateStandard, models.TemplateCorporate, models.TemplateCreative:
	default:
		layout = models.TemplateStandard
	}
	if layout == models.TemplateStandard {
		uri, err := barcodeDataURL(data.BarcodeID)
		if err != nil {
			return Document{}, fmt.Errorf("render footer code: %w", err)
		}
		data.Barcode = uri
	}

	var buf bytes.Buffer
	if err := r.layouts[layout].Execute(&buf, data); err != nil {
		return Document{}, fmt.Errorf("execute layout %s: %w", layout, err)
	}
	return Document{HTML: buf.String(), Totals: totals}, nil
}

func newDocumentData(q models.Quote, company models.CompanyProfile, totals pricing.Totals) documentData {
	accent := company.PrimaryColor
	if accent == "" {
		accent = defaultAccent
	}
	lines := make([]lineView, 0, len(q.LineItems))
	for _, it := range q.LineItems {
		lines = append(lines, lineView{
			Description: it.Description,
			Quantity:    formatQuantity(it.Quantity),
			UnitPrice:   pricing.FormatAmount(it.UnitPrice, q.Currency),
			Total:       pricing.FormatAmount(it.Quantity*it.UnitPrice, q.Currency),
		})
	}
	barcodeID := q.ID
	if barcodeID == "" {
		barcodeID = "N/A"
	}
	return documentData{
		Quote:      q,
		Company:    company,
		Accent:     template.CSS(accent),
		AccentSoft: template.CSS(accent + "20"),
		Lines:      lines,
		Subtotal:   pricing.FormatAmount(totals.Subtotal, q.Currency),
		VATRate:    formatQuantity(q.VATRate),
		VATAmount:  pricing.FormatAmount(totals.VATAmount, q.Currency),
		GrandTotal: pricing.FormatAmount(totals.GrandTotal, q.Currency),
		Logo:       template.URL(company.LogoBase64),
		BarcodeID:  barcodeID,
	}
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
