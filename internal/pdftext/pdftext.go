// Package pdftext extracts per-page plain text from the input PDF.
package pdftext

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Extractor reads page texts from a PDF file. It tries the Go library
// first, then falls back to pdftotext if available.
type Extractor struct {
	FallbackPdftotext bool
	Log               *slog.Logger
}

// Extract returns one text string per input page, in page order. Pages
// whose text cannot be decoded yield an empty string; only a file that
// cannot be opened at all is an error.
func (e *Extractor) Extract(path string) ([]string, error) {
	texts, err := extractPages(path)
	if err == nil && !allBlank(texts) {
		return texts, nil
	}

	if e.FallbackPdftotext {
		if e.Log != nil {
			e.Log.Warn("pdf library extraction yielded no text, trying pdftotext", "path", path, "error", err)
		}
		if texts2, err2 := extractPdftotext(path); err2 == nil {
			return texts2, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return texts, nil
}

func extractPages(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	texts := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, text)
	}
	return texts, nil
}

func extractPdftotext(path string) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	return strings.Split(string(out), "\f"), nil
}

func allBlank(texts []string) bool {
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			return false
		}
	}
	return true
}
