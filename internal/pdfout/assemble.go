// Package pdfout serializes rendered pages into the output PDF and
// overlays internal navigation links.
package pdfout

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Assembler writes a page-image sequence as one Letter-size PDF.
type Assembler struct {
	Log *slog.Logger
}

// Write encodes the pages as PNGs and imports them full-bleed onto
// Letter pages, one image per page, in order.
func (a *Assembler) Write(pages []image.Image, outPath string) error {
	if len(pages) == 0 {
		return fmt.Errorf("write pdf: no pages to write")
	}

	tmpDir, err := os.MkdirTemp("", "routestack-pages-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	files := make([]string, 0, len(pages))
	for i, p := range pages {
		name := filepath.Join(tmpDir, fmt.Sprintf("page-%04d.png", i+1))
		if err := writePNG(name, p); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}
		files = append(files, name)
	}

	imp, err := pdfcpu.ParseImportDetails("form:Letter, pos:full", types.POINTS)
	if err != nil {
		return fmt.Errorf("import details: %w", err)
	}
	if err := api.ImportImagesFile(files, outPath, imp, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("import images: %w", err)
	}
	if a.Log != nil {
		a.Log.Info("wrote pdf", "path", outPath, "pages", len(pages))
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
