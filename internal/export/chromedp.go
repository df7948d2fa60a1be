package export

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	// defaultCaptureScale doubles the device pixel ratio for a sharper raster.
	defaultCaptureScale = 2.0

	// A4 surface at 96 CSS pixels per inch.
	viewportWidth  = 794
	viewportHeight = 1123
)

// ChromeConfig configures the Chrome-backed rasterizer.
type ChromeConfig struct {
	// DefaultTimeout bounds a single capture.
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome instance (optional). If empty,
	// a new headless browser is launched.
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root).
	NoSandbox bool
	// Scale is the device scale factor of the capture.
	Scale float64
	// Logger for debug output.
	Logger *zap.Logger
}

// ChromeRasterizer captures HTML surfaces as PNG via the DevTools protocol.
type ChromeRasterizer struct {
	config      *ChromeConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeRasterizer creates the rasterizer and its browser allocator.
func NewChromeRasterizer(config *ChromeConfig) *ChromeRasterizer {
	if config == nil {
		config = &ChromeConfig{}
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}
	if config.Scale == 0 {
		config.Scale = defaultCaptureScale
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromeRasterizer{config: config, logger: logger}
	r.initAllocator()
	return r
}

func (r *ChromeRasterizer) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
}

// Capture renders html in a fresh browser context and returns a full-page
// PNG screenshot at the configured device scale.
func (r *ChromeRasterizer) Capture(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, newExportError(ErrCodeEmptySurface, "document surface is empty", nil)
	}

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()

	// The timeout must descend from the browser context for chromedp.Run to
	// observe it; caller cancellation is forwarded onto the same cancel.
	runCtx, cancel := context.WithTimeout(browserCtx, r.config.DefaultTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var shot []byte
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight, chromedp.EmulateScale(r.config.Scale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.FullScreenshot(&shot, 100),
	)
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, newExportError(ErrCodeCaptureTimeout, "surface capture timed out", err)
		}
		r.logger.Error("chromedp capture failed", zap.Error(err))
		return nil, newExportError(ErrCodeCaptureFailed, "chromedp execution failed", err)
	}
	return shot, nil
}

// Close releases the browser allocator.
func (r *ChromeRasterizer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

var _ Rasterizer = (*ChromeRasterizer)(nil)
