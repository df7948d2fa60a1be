package render

import (
	"math"
	"strings"
	"testing"

	"github.com/elitepro/quotation/internal/models"
)

func testQuote() models.Quote {
	return models.Quote{
		ID:           "q-123",
		QuoteNumber:  "Q-2026-0042",
		Date:         "2026-08-31",
		Validity:     "30 Days",
		CustomerName: "Globex LLC",
		Subject:      "Office fit-out",
		VATRate:      15,
		Currency:     "USD",
		Template:     models.TemplateStandard,
		LineItems: []models.LineItem{
			{ID: "a", Description: "Desks", Quantity: 2, UnitPrice: 50},
			{ID: "b", Description: "Chairs", Quantity: 1, UnitPrice: 25},
		},
	}
}

func testCompany() models.CompanyProfile {
	return models.CompanyProfile{
		ID:            "p-1",
		Name:          "Acme Trading",
		Tagline:       "Everything, delivered",
		Address:       "1 Canal St",
		VATNumber:     "VAT-42",
		CRNumber:      "CR-7",
		ContactPerson: "J. Doe",
		BankDetails:   "IBAN AE07 0331 2345",
		PrimaryColor:  "#16a34a",
	}
}

func mustRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderAllLayoutsShareTotals(t *testing.T) {
	r := mustRenderer(t)
	q := testQuote()
	company := testCompany()

	for _, layout := range models.Templates {
		q.Template = layout
		doc, err := r.Render(q, company)
		if err != nil {
			t.Fatalf("%s: %v", layout, err)
		}
		if math.Abs(doc.Totals.Subtotal-125) > 1e-9 ||
			math.Abs(doc.Totals.VATAmount-18.75) > 1e-9 ||
			math.Abs(doc.Totals.GrandTotal-143.75) > 1e-9 {
			t.Fatalf("%s totals = %+v", layout, doc.Totals)
		}
		for _, want := range []string{"Acme Trading", "Globex LLC", "Q-2026-0042", "$143.75", "Desks"} {
			if !strings.Contains(doc.HTML, want) {
				t.Fatalf("%s output missing %q", layout, want)
			}
		}
	}
}

func TestRenderUnknownLayoutFallsBack(t *testing.T) {
	r := mustRenderer(t)
	q := testQuote()
	q.Template = models.Template("Vintage")
	doc, err := r.Render(q, testCompany())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// The standard layout is the only one carrying the footer barcode.
	if !strings.Contains(doc.HTML, "data:image/png;base64,") {
		t.Fatal("fallback did not produce the standard layout")
	}
}

func TestRenderLogoConditional(t *testing.T) {
	r := mustRenderer(t)
	q := testQuote()

	company := testCompany()
	doc, err := r.Render(q, company)
	if err != nil {
		t.Fatalf("render without logo: %v", err)
	}
	if strings.Contains(doc.HTML, "<img class=\"logo\"") {
		t.Fatal("logo block rendered without a logo")
	}

	company.LogoBase64 = "data:image/png;base64,aGVsbG8="
	doc, err = r.Render(q, company)
	if err != nil {
		t.Fatalf("render with logo: %v", err)
	}
	if !strings.Contains(doc.HTML, company.LogoBase64) {
		t.Fatal("logo data URL missing from output")
	}
}

func TestRenderAccentColors(t *testing.T) {
	r := mustRenderer(t)
	q := testQuote()

	doc, err := r.Render(q, testCompany())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(doc.HTML, "#16a34a") {
		t.Fatal("profile accent color missing")
	}

	plain := testCompany()
	plain.PrimaryColor = ""
	doc, err = r.Render(q, plain)
	if err != nil {
		t.Fatalf("render default accent: %v", err)
	}
	if !strings.Contains(doc.HTML, defaultAccent) {
		t.Fatal("default accent missing when profile has no color")
	}
}

func TestRenderMinimalInputs(t *testing.T) {
	r := mustRenderer(t)
	// Every field empty; rendering must still succeed with empty strings.
	doc, err := r.Render(models.Quote{Currency: "USD"}, models.CompanyProfile{})
	if err != nil {
		t.Fatalf("render minimal: %v", err)
	}
	if doc.HTML == "" {
		t.Fatal("empty output")
	}
}

func TestRenderBarcodePlaceholderID(t *testing.T) {
	r := mustRenderer(t)
	q := testQuote()
	q.ID = ""
	doc, err := r.Render(q, testCompany())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(doc.HTML, "N/A") {
		t.Fatal("placeholder id missing for unsaved quote")
	}
}

func TestBarcodeDataURL(t *testing.T) {
	uri, err := barcodeDataURL("q-123")
	if err != nil {
		t.Fatalf("barcode: %v", err)
	}
	if !strings.HasPrefix(string(uri), "data:image/png;base64,") {
		t.Fatalf("unexpected prefix: %.40s", uri)
	}
}
