package export

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/phpdave11/gofpdf"
)

// A4 dimensions in points.
const (
	a4WidthPt  = 595.28
	a4HeightPt = 841.89
)

// fitToPage scales an image of the given pixel dimensions onto an A4 page:
// fit to page width first, re-scale proportionally when the resulting height
// would overflow, then center horizontally. The image always starts at the
// top of the page.
func fitToPage(imgW, imgH float64) (w, h, x, y float64) {
	ratio := imgW / imgH
	w = a4WidthPt
	h = w / ratio
	if h > a4HeightPt {
		h = a4HeightPt
		w = h * ratio
	}
	x = (a4WidthPt - w) / 2
	return w, h, x, 0
}

// assembleA4 embeds one PNG raster into a single-page A4 PDF.
func assembleA4(pngData []byte) ([]byte, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("raster has zero dimensions")
	}
	w, h, x, y := fitToPage(float64(cfg.Width), float64(cfg.Height))

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("surface", opts, bytes.NewReader(pngData))
	pdf.ImageOptions("surface", x, y, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
