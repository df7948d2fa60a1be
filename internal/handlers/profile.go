package handlers

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/elitepro/quotation/internal/auth"
	"github.com/elitepro/quotation/internal/httpx"
	"github.com/elitepro/quotation/internal/models"
	"github.com/elitepro/quotation/internal/store"
)

// maxLogoBytes caps uploaded logo size; logos are embedded inline in the
// stored profile.
const maxLogoBytes = 2 << 20

// ProfileHandler mirrors the dual-format pattern used elsewhere: HTML for
// the profile-manager screen, JSON when asked for.
type ProfileHandler struct {
	Store *store.ProfileStore
	Log   *zap.Logger
}

func NewProfileHandler(s *store.ProfileStore, log *zap.Logger) *ProfileHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileHandler{Store: s, Log: log}
}

// List: GET /profiles — HTML or JSON
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Store.List()
	if err != nil {
		h.Log.Error("list profiles", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_profiles", nil)
		return
	}
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": profiles, "total": len(profiles)})
		return
	}

	user, _ := auth.UsernameFromContext(r.Context())
	data := map[string]any{
		"User":     user,
		"Active":   "profiles",
		"Profiles": profiles,
		"ShowForm": false,
		"Editing":  models.CompanyProfile{},
	}
	if r.URL.Query().Get("new") == "1" {
		data["ShowForm"] = true
	}
	if editID := r.URL.Query().Get("edit"); editID != "" {
		if p, ok, gerr := h.Store.Get(editID); gerr == nil && ok {
			data["ShowForm"] = true
			data["Editing"] = p
		}
	}
	renderPageOr500(w, "profiles.html", data)
}

// Save: POST /profiles — upsert by id (multipart form for the logo upload)
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := parseAnyForm(r); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	p := models.CompanyProfile{
		ID:            strings.TrimSpace(r.FormValue("id")),
		Name:          strings.TrimSpace(r.FormValue("name")),
		Tagline:       strings.TrimSpace(r.FormValue("tagline")),
		Address:       r.FormValue("address"),
		VATNumber:     strings.TrimSpace(r.FormValue("vat_number")),
		CRNumber:      strings.TrimSpace(r.FormValue("cr_number")),
		ContactPerson: strings.TrimSpace(r.FormValue("contact_person")),
		BankDetails:   r.FormValue("bank_details"),
		PrimaryColor:  strings.TrimSpace(r.FormValue("primary_color")),
	}
	if p.Name == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required"})
		return
	}

	p.LogoBase64 = h.logoFromForm(r)
	if p.LogoBase64 == "" && p.ID != "" {
		// Edit without a new upload keeps the stored logo.
		if prev, ok, err := h.Store.Get(p.ID); err == nil && ok {
			p.LogoBase64 = prev.LogoBase64
		}
	}

	saved, err := h.Store.Save(p)
	if err != nil {
		h.Log.Error("save profile", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_profile", nil)
		return
	}

	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		httpx.JSON(w, http.StatusOK, saved)
		return
	}
	http.Redirect(w, r, "/profiles", statusSeeOther)
}

// Delete: POST /profiles/delete — irreversible, requires the confirm field
// the manager screen sets after the user acknowledges the prompt.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	if r.FormValue("confirm") != "yes" {
		httpx.JSONError(w, http.StatusBadRequest, "confirmation_required", nil)
		return
	}
	id := r.FormValue("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Store.Delete(id); err != nil {
		h.Log.Error("delete profile", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_profile", nil)
		return
	}
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		return
	}
	http.Redirect(w, r, "/profiles", statusSeeOther)
}

// logoFromForm reads an uploaded logo and returns it as a data URL, or ""
// when no file was sent or it could not be read.
func (h *ProfileHandler) logoFromForm(r *http.Request) string {
	file, header, err := r.FormFile("logo")
	if err != nil || header == nil || header.Size == 0 {
		return ""
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes))
	if err != nil || len(data) == 0 {
		return ""
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return ""
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func parseAnyForm(r *http.Request) error {
	if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxLogoBytes + (1 << 20))
	}
	return r.ParseForm()
}
