package handlers

import (
	"net/http"
	"strings"

	"github.com/elitepro/quotation/internal/auth"
	"github.com/elitepro/quotation/internal/httpx"
	"github.com/elitepro/quotation/internal/view"
)

// Explicit constant for 303 See Other (Post/Redirect/Get)
const statusSeeOther = 303

// AuthHandler serves the login screen over the fixed credential set.
type AuthHandler struct {
	Creds *auth.Credentials
}

func NewAuthHandler(creds *auth.Credentials) *AuthHandler { return &AuthHandler{Creds: creds} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)
}

func renderPageOr500(w http.ResponseWriter, name string, data map[string]any) {
	if err := view.Render(w, name, data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := w.Write([]byte("template error")); werr != nil {
			_ = werr
		}
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if _, ok := auth.UsernameFromContext(r.Context()); ok {
			http.Redirect(w, r, "/quote", statusSeeOther)
			return
		}
		if name, ok := auth.ParseSession(r); ok && name != "" {
			http.Redirect(w, r, "/quote", statusSeeOther)
			return
		}
		renderPageOr500(w, "login.html", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if !h.Creds.Check(username, password) {
		renderPageOr500(w, "login.html", map[string]any{"Error": "Invalid credentials. Please try again."})
		return
	}
	auth.CreateSession(w, username)
	// PRG redirect (303); the quote creator is the default screen.
	http.Redirect(w, r, "/quote", statusSeeOther)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", statusSeeOther)
}
