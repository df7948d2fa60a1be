package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/elitepro/quotation/internal/ai"
	"github.com/elitepro/quotation/internal/auth"
	"github.com/elitepro/quotation/internal/export"
	"github.com/elitepro/quotation/internal/httpx"
	"github.com/elitepro/quotation/internal/models"
	"github.com/elitepro/quotation/internal/pricing"
	"github.com/elitepro/quotation/internal/render"
	"github.com/elitepro/quotation/internal/store"
)

// User-facing messages for the failure modes of the two external calls and
// the missing-profile referential gap.
const (
	msgPDFFailed     = "Sorry, there was an error generating the PDF."
	msgAIFailed      = "Failed to generate content from Gemini API."
	msgAINotSet      = "API key is not configured."
	msgNoProfile     = "Please create a Company Profile in the Profile Manager to begin."
	msgPickProfile   = "Complete the form to see a preview."
	msgExportBlocked = "Select a company profile before exporting."
)

// QuoteHandler drives the quote-creator screen. The quote itself is never
// persisted; every POST carries the full form state and is processed to
// completion before the page re-renders.
type QuoteHandler struct {
	Store    *store.ProfileStore
	Renderer *render.Renderer
	Exporter *export.Exporter
	AI       *ai.Client
	Log      *zap.Logger
}

func NewQuoteHandler(s *store.ProfileStore, r *render.Renderer, e *export.Exporter, aiClient *ai.Client, log *zap.Logger) *QuoteHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuoteHandler{Store: s, Renderer: r, Exporter: e, AI: aiClient, Log: log}
}

// Creator: GET/POST /quote
func (h *QuoteHandler) Creator(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.show(w, r)
	case http.MethodPost:
		h.edit(w, r)
	default:
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *QuoteHandler) show(w http.ResponseWriter, r *http.Request) {
	q := models.NewQuote(time.Now())
	h.renderCreator(w, r, q, "")
}

func (h *QuoteHandler) edit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	q := quoteFromForm(r)
	alert := h.applyAction(r, &q)
	h.renderCreator(w, r, q, alert)
}

// applyAction mutates the quote per the submitted action and returns an
// alert message when an external call failed.
func (h *QuoteHandler) applyAction(r *http.Request, q *models.Quote) string {
	action := r.FormValue("action")
	switch {
	case action == "add_item":
		q.LineItems = append(q.LineItems, models.NewLineItem(time.Now()))
	case strings.HasPrefix(action, "remove:"):
		if idx, err := strconv.Atoi(strings.TrimPrefix(action, "remove:")); err == nil {
			q.LineItems = removeItem(q.LineItems, idx)
		}
	case strings.HasPrefix(action, "template:"):
		q.Template = models.ParseTemplate(strings.TrimPrefix(action, "template:"))
	case action == "next_design":
		q.Template = q.Template.Next()
	case strings.HasPrefix(action, "describe:"):
		idx, err := strconv.Atoi(strings.TrimPrefix(action, "describe:"))
		if err != nil || idx < 0 || idx >= len(q.LineItems) {
			return ""
		}
		desc, aerr := h.AI.GenerateDescription(r.Context(), q.LineItems[idx].Description)
		if aerr != nil {
			// The prior description stays untouched.
			h.Log.Warn("description assist failed", zap.Error(aerr))
			if aerr == ai.ErrNotConfigured {
				return msgAINotSet
			}
			return msgAIFailed
		}
		q.LineItems[idx].Description = desc
	}
	return ""
}

// Export: POST /quote/export — renders the selected layout, captures it, and
// streams the assembled PDF as a download.
func (h *QuoteHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	q := quoteFromForm(r)

	company, ok, err := h.Store.Get(q.CompanyProfileID)
	if err != nil {
		h.Log.Error("resolve profile", zap.Error(err))
		h.renderCreator(w, r, q, msgPDFFailed)
		return
	}
	if !ok {
		// Referential gap: no file is produced, the user gets guidance.
		h.renderCreator(w, r, q, msgExportBlocked)
		return
	}

	doc, err := h.Renderer.Render(q, company)
	if err != nil {
		h.Log.Error("render document", zap.Error(err))
		h.renderCreator(w, r, q, msgPDFFailed)
		return
	}
	pdf, err := h.Exporter.Export(r.Context(), doc.HTML)
	if err != nil {
		h.renderCreator(w, r, q, msgPDFFailed)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(q.QuoteNumber)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *QuoteHandler) renderCreator(w http.ResponseWriter, r *http.Request, q models.Quote, alert string) {
	profiles, err := h.Store.List()
	if err != nil {
		h.Log.Error("list profiles", zap.Error(err))
		profiles = []models.CompanyProfile{}
	}
	if q.CompanyProfileID == "" && len(profiles) > 0 {
		q.CompanyProfileID = profiles[0].ID
	}

	totals := pricing.Compute(q.LineItems, q.VATRate)
	user, _ := auth.UsernameFromContext(r.Context())
	data := map[string]any{
		"User":       user,
		"Active":     "quote",
		"Quote":      q,
		"Profiles":   profiles,
		"Templates":  models.Templates,
		"Currencies": models.Currencies,
		"Subtotal":   pricing.FormatAmount(totals.Subtotal, q.Currency),
		"VATAmount":  pricing.FormatAmount(totals.VATAmount, q.Currency),
		"GrandTotal": pricing.FormatAmount(totals.GrandTotal, q.Currency),
		"Alert":      alert,
	}

	company, ok, err := h.Store.Get(q.CompanyProfileID)
	if err == nil && ok {
		doc, rerr := h.Renderer.Render(q, company)
		if rerr != nil {
			h.Log.Error("render preview", zap.Error(rerr))
			data["PreviewMessage"] = msgPickProfile
		} else {
			data["PreviewHTML"] = doc.HTML
		}
	} else if len(profiles) > 0 {
		data["PreviewMessage"] = msgPickProfile
	} else {
		data["PreviewMessage"] = msgNoProfile
	}
	renderPageOr500(w, "quote.html", data)
}

// quoteFromForm rebuilds the in-memory quote from the posted form state.
// Numeric fields are coerced (unparsable input becomes 0) and never block
// submission; negative values pass through.
func quoteFromForm(r *http.Request) models.Quote {
	q := models.Quote{
		ID:               r.FormValue("quote_id"),
		QuoteNumber:      strings.TrimSpace(r.FormValue("quote_number")),
		Date:             r.FormValue("date"),
		Validity:         r.FormValue("validity"),
		CustomerName:     r.FormValue("customer_name"),
		Subject:          r.FormValue("subject"),
		CompanyProfileID: r.FormValue("company_profile_id"),
		VATRate:          pricing.ParseAmount(r.FormValue("vat_rate")),
		Currency:         r.FormValue("currency"),
		Template:         models.ParseTemplate(r.FormValue("template")),
	}
	if !models.ValidCurrency(q.Currency) {
		q.Currency = "USD"
	}
	if q.QuoteNumber == "" {
		q.QuoteNumber = models.DefaultQuoteNumber(time.Now())
	}

	ids := r.Form["item_id"]
	descs := r.Form["item_desc"]
	qtys := r.Form["item_qty"]
	prices := r.Form["item_price"]
	items := make([]models.LineItem, 0, len(descs))
	for i := range descs {
		it := models.LineItem{Description: descs[i]}
		if i < len(ids) {
			it.ID = ids[i]
		}
		if it.ID == "" {
			it.ID = time.Now().Format(time.RFC3339Nano)
		}
		if i < len(qtys) {
			it.Quantity = pricing.ParseAmount(qtys[i])
		}
		if i < len(prices) {
			it.UnitPrice = pricing.ParseAmount(prices[i])
		}
		items = append(items, it)
	}
	q.LineItems = items
	return q
}

func removeItem(items []models.LineItem, idx int) []models.LineItem {
	if idx < 0 || idx >= len(items) {
		return items
	}
	out := make([]models.LineItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}
