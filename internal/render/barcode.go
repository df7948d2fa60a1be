package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// barcodeDataURL encodes value as a Code 128 barcode and returns it as a PNG
// data URL for inline embedding in the standard layout footer.
func barcodeDataURL(value string) (template.URL, error) {
	bc, err := code128.Encode(value)
	if err != nil {
		return "", fmt.Errorf("encode barcode: %w", err)
	}
	// Scale may not shrink below the barcode's native module count, so the
	// target width tracks it for long id values.
	width := bc.Bounds().Dx() * 2
	if width < 260 {
		width = 260
	}
	scaled, err := barcode.Scale(bc, width, 40)
	if err != nil {
		return "", fmt.Errorf("scale barcode: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return "", fmt.Errorf("encode barcode png: %w", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}
