package server

import (
	"embed"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/elitepro/quotation/internal/ai"
	"github.com/elitepro/quotation/internal/auth"
	"github.com/elitepro/quotation/internal/export"
	"github.com/elitepro/quotation/internal/handlers"
	"github.com/elitepro/quotation/internal/httpx"
	"github.com/elitepro/quotation/internal/render"
	"github.com/elitepro/quotation/internal/store"
)

//go:embed static/*
var staticFS embed.FS

// Deps carries the constructed application services into the router.
type Deps struct {
	DB       *gorm.DB
	Store    *store.ProfileStore
	Renderer *render.Renderer
	Exporter *export.Exporter
	AI       *ai.Client
	Creds    *auth.Credentials
	Log      *zap.Logger
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check; detail stays out of the body.
		if err := d.DB.Exec("SELECT 1").Error; err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, werr := w.Write([]byte(`{"status":"degraded"}`)); werr != nil {
				_ = werr
			}
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	//revive:enable:unused-parameter

	mux.Handle("/static/", http.FileServer(http.FS(staticFS)))

	// Auth endpoints carry the middleware so the login screen can bounce
	// already-authenticated users.
	authHandler := handlers.NewAuthHandler(d.Creds)
	authHandler.Register(mux)

	// Profile manager
	ph := handlers.NewProfileHandler(d.Store, log)
	mux.Handle("/profiles", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ph.List(w, r)
		case http.MethodPost:
			ph.Save(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})))
	mux.Handle("/profiles/delete", protect(http.HandlerFunc(ph.Delete)))

	// Quote creator and export
	qh := handlers.NewQuoteHandler(d.Store, d.Renderer, d.Exporter, d.AI, log)
	mux.Handle("/quote", protect(http.HandlerFunc(qh.Creator)))
	mux.Handle("/quote/export", protect(http.HandlerFunc(qh.Export)))
	mux.Handle("/ai/describe", protect(http.HandlerFunc(qh.Describe)))

	mux.Handle("/", auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if _, ok := auth.UsernameFromContext(r.Context()); ok {
			http.Redirect(w, r, "/quote", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})))

	return withRecover(withLogging(log, mux))
}

func protect(next http.Handler) http.Handler {
	return auth.Middleware(auth.RequireAuth(next))
}

func withLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
