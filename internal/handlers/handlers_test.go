package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/elitepro/quotation/internal/ai"
	"github.com/elitepro/quotation/internal/export"
	"github.com/elitepro/quotation/internal/models"
	"github.com/elitepro/quotation/internal/render"
	"github.com/elitepro/quotation/internal/store"
)

func testStore(t *testing.T) *store.ProfileStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.StorageSlot{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	n := 0
	return store.NewProfileStore(db, func() string { n++; return fmt.Sprintf("p-%d", n) }, nil)
}

func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

// stubRasterizer returns a fixed white PNG for every capture.
type stubRasterizer struct{ fail bool }

func (s *stubRasterizer) Capture(context.Context, string) ([]byte, error) {
	if s.fail {
		return nil, fmt.Errorf("browser gone")
	}
	img := image.NewRGBA(image.Rect(0, 0, 80, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 80; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *stubRasterizer) Close() error { return nil }

func testExporter(fail bool) *export.Exporter {
	return export.NewExporter(&stubRasterizer{fail: fail}, nil)
}

// fakeAIServer mimics the generative endpoint with a fixed reply.
func fakeAIServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": reply}}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newQuoteHandler(t *testing.T, s *store.ProfileStore, aiClient *ai.Client) *QuoteHandler {
	t.Helper()
	if aiClient == nil {
		aiClient = ai.NewClient("")
	}
	return NewQuoteHandler(s, testRenderer(t), testExporter(false), aiClient, nil)
}

func seedProfile(t *testing.T, s *store.ProfileStore, name string) models.CompanyProfile {
	t.Helper()
	p, err := s.Save(models.CompanyProfile{Name: name, PrimaryColor: "#4f46e5"})
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return p
}
