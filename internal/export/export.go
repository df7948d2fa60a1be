// Package export produces the downloadable PDF for a rendered quotation.
//
// The pipeline has two collaborators: a Rasterizer captures the rendered
// document surface as a fixed-DPI PNG, and the assembly step embeds that
// raster into a single A4 page, scaled to fit and centered horizontally.
package export

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Rasterizer captures a standalone HTML document as a PNG image.
type Rasterizer interface {
	Capture(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// ExportError carries a stable code alongside the underlying cause.
type ExportError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ExportError) Unwrap() error { return e.Cause }

const (
	ErrCodeCaptureTimeout = "CAPTURE_TIMEOUT"
	ErrCodeCaptureFailed  = "CAPTURE_FAILED"
	ErrCodeEmptySurface   = "EMPTY_SURFACE"
	ErrCodeAssembleFailed = "ASSEMBLE_FAILED"
)

func newExportError(code, message string, cause error) *ExportError {
	return &ExportError{Code: code, Message: message, Cause: cause}
}

// Exporter runs the capture-then-assemble pipeline.
type Exporter struct {
	ras Rasterizer
	log *zap.Logger
}

// NewExporter builds an exporter over the given rasterizer. A nil logger is
// replaced by a no-op one.
func NewExporter(ras Rasterizer, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{ras: ras, log: log}
}

// Export captures the document surface and returns the assembled A4 PDF.
func (e *Exporter) Export(ctx context.Context, html string) ([]byte, error) {
	start := time.Now()
	img, err := e.ras.Capture(ctx, html)
	if err != nil {
		e.log.Error("surface capture failed", zap.Error(err))
		return nil, err
	}
	if len(img) == 0 {
		return nil, newExportError(ErrCodeEmptySurface, "captured surface is empty", nil)
	}
	pdf, err := assembleA4(img)
	if err != nil {
		e.log.Error("pdf assembly failed", zap.Error(err))
		return nil, newExportError(ErrCodeAssembleFailed, "pdf assembly failed", err)
	}
	e.log.Info("quotation exported",
		zap.Int("image_bytes", len(img)),
		zap.Int("pdf_bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)))
	return pdf, nil
}

// Close releases the rasterizer's resources.
func (e *Exporter) Close() error { return e.ras.Close() }

// FileName is the download name for a quote's exported document.
func FileName(quoteNumber string) string {
	return "Quotation_" + quoteNumber + ".pdf"
}
