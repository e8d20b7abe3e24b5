package pdfout

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/dgallion1/routestack/internal/render"
)

// Letter in PDF points.
const (
	letterWidthPt  = 612.0
	letterHeightPt = 792.0
)

// LinkWriter adds internal go-to-page links to a written PDF. The
// pipeline treats it as a best-effort capability: a failing writer is
// logged and the unlinked PDF is kept.
type LinkWriter interface {
	WriteLinks(path string, links []render.LinkSpec) error
}

// NopLinkWriter satisfies LinkWriter without touching the file.
type NopLinkWriter struct{}

func (NopLinkWriter) WriteLinks(string, []render.LinkSpec) error { return nil }

// PdfcpuLinkWriter overlays link annotations with pdfcpu.
type PdfcpuLinkWriter struct {
	Log *slog.Logger
}

// WriteLinks converts each raster-pixel rect to PDF point space and
// adds a link annotation on its source page. Specs with out-of-range
// pages are skipped rather than failing the pass.
func (w *PdfcpuLinkWriter) WriteLinks(path string, links []render.LinkSpec) error {
	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return fmt.Errorf("page count: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	added := 0
	for i, l := range links {
		if l.SourcePage < 1 || l.SourcePage > pageCount ||
			l.TargetPage < 1 || l.TargetPage > pageCount {
			if w.Log != nil {
				w.Log.Warn("skipping link with out-of-range page",
					"source", l.SourcePage, "target", l.TargetPage, "pages", pageCount)
			}
			continue
		}

		rect := pixelRectToPoints(l.Rect.Min.X, l.Rect.Min.Y, l.Rect.Max.X, l.Rect.Max.Y, render.DPI)
		dest := &model.Destination{Typ: model.DestFit, PageNr: l.TargetPage}
		ann := model.NewLinkAnnotation(
			*rect,
			0,                             // apObjNr
			"",                            // contents
			"lnk"+strconv.Itoa(i+1),       // id
			"",                            // modDate
			0,                             // flags
			nil,                           // background color
			dest,                          // internal destination
			"",                            // uri
			nil,                           // quad points
			false, 0, model.BSSolid,       // no border
		)
		pages := []string{strconv.Itoa(l.SourcePage)}
		if err := api.AddAnnotationsFile(path, "", pages, ann, conf, false); err != nil {
			return fmt.Errorf("add link %d: %w", i+1, err)
		}
		added++
	}

	if w.Log != nil {
		w.Log.Info("added internal links", "count", added)
	}
	return nil
}

// pixelRectToPoints maps a top-left-origin pixel rect at the given DPI
// onto the bottom-left-origin PDF point space of a Letter page.
func pixelRectToPoints(x0, y0, x1, y1, dpi int) *types.Rectangle {
	s := 72.0 / float64(dpi)
	llx := float64(x0) * s
	urx := float64(x1) * s
	lly := letterHeightPt - float64(y1)*s
	ury := letterHeightPt - float64(y0)*s
	return types.NewRectangle(llx, lly, urx, ury)
}
