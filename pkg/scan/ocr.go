package scan

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine is the OCR boundary. The production implementation wraps Tesseract;
// tests substitute scripted fakes.
type Engine interface {
	// NamesText OCRs a full names-column image and returns multi-line text,
	// one line per roster row.
	NamesText(path string) (string, error)
	// CellText OCRs a single stat cell (PNG bytes) and returns a short token.
	CellText(png []byte) (string, error)
}

// Tesseract is the gosseract-backed Engine.
type Tesseract struct{}

func (Tesseract) NamesText(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage("eng")
	_ = client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK)
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("set names image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("names ocr: %w", err)
	}
	return text, nil
}

func (Tesseract) CellText(png []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage("eng")
	// Single line, no whitelist: the correction table relies on seeing the
	// raw misreadings (L, o, N, ...) so they can be mapped back to digits.
	_ = client.SetPageSegMode(gosseract.PSM_SINGLE_LINE)
	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("set cell image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("cell ocr: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return noTextFound, nil
	}
	return text, nil
}

// noTextFound is the sentinel token for an empty OCR response. The correction
// table maps it to "0": an empty stat cell on the board really is a zero.
const noTextFound = "No text found"
