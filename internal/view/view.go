// Package view renders the application pages. Pages share one layout and are
// parsed once from the embedded template set.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"
)

//go:embed templates/*.html
var pageFS embed.FS

var pageNames = []string{"login.html", "quote.html", "profiles.html"}

var (
	once  sync.Once
	pages map[string]*template.Template
	pgErr error
)

func funcs() template.FuncMap {
	return template.FuncMap{
		"year": func() int { return time.Now().Year() },
	}
}

func parsePages() {
	pages = make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs()).ParseFS(pageFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			pgErr = fmt.Errorf("parse page %s: %w", name, err)
			return
		}
		pages[name] = t
	}
}

// Render executes a page template with the shared layout. name is the page
// filename (e.g. "quote.html").
func Render(w http.ResponseWriter, name string, data map[string]any) error {
	once.Do(parsePages)
	if pgErr != nil {
		return pgErr
	}
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Active"]; !exists {
		data["Active"] = ""
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.Execute(w, data)
}
