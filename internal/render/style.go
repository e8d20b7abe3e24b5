// Package render draws the output pages as raster images: the per-route
// summary table, the tote board, the cover TOC, and the trailing
// summary pages. Everything is laid out in pixels on a Letter-size
// canvas at a fixed DPI.
package render

import (
	"fmt"
	"image/color"
	"log/slog"
)

// Fixed output geometry: Letter at 200 DPI.
const (
	DPI = 200

	PageWidth    = 1700 // 8.5 in
	PageHeight   = 2200 // 11 in
	PageMargin   = 100  // 0.5 in
	ContentWidth = PageWidth - 2*PageMargin

	stackGap = 14 // 0.07 in between table and tote board
	toteRows = 3
)

// Table metrics.
const (
	bannerHeight   = 54
	tableCellH     = 64
	tableMargin    = 22
	rowDividerH    = 2
	tableMinSide   = 240
	tableMinMid    = 520
	tableTargetMid = 120
)

// Font sizes.
const (
	sizeBanner      = 40
	sizeTable       = 32
	sizeSummaryRow  = 32
	sizeToteNum     = 40
	sizeToteTagBase = 22
	sizeToteTagMin  = 14
	sizeTotePkgs    = 22
	sizeStyleTag    = 22
	sizeDate        = 22
	sizeZone        = 16
)

var (
	colWhite       = color.RGBA{255, 255, 255, 255}
	colBlack       = color.RGBA{0, 0, 0, 255}
	colBannerBG    = color.RGBA{211, 211, 211, 255}
	colMetaGrey    = color.RGBA{85, 85, 85, 255}
	colRoyalBlue   = color.RGBA{0, 32, 194, 255}
	colPurple      = color.RGBA{75, 0, 130, 255}
	colLavender    = color.RGBA{236, 232, 255, 255}
	colBrightRed   = color.RGBA{210, 40, 40, 255}
	colRowTeal     = color.RGBA{238, 247, 247, 255}
	colDividerTeal = color.RGBA{0, 140, 140, 255}
	colDividerGrey = color.RGBA{170, 170, 170, 255}
	colChipGrey    = color.RGBA{245, 245, 245, 255}
	colLinkBlue    = color.RGBA{0, 0, 238, 255}
	colZoneGrey    = color.RGBA{70, 70, 70, 255}
	colMismatchRed = color.RGBA{220, 0, 0, 255}
	colOKGreen     = color.RGBA{0, 140, 0, 255}
	colSubtleGrey  = color.RGBA{60, 60, 60, 255}
	colLabelGrey   = color.RGBA{90, 90, 90, 255}
	colNeutralTile = color.RGBA{200, 200, 200, 255}
)

// bagFill is the tile fill palette keyed by lowercased bag color name.
var bagFill = map[string]color.RGBA{
	"yellow": {246, 217, 74, 255},
	"green":  {83, 182, 53, 255},
	"orange": {234, 99, 43, 255},
	"black":  {12, 10, 11, 255},
	"navy":   {57, 128, 240, 255},
}

// Style owns the rendering state for one pipeline invocation: the font
// cache and the logger. Concurrent invocations each build their own
// Style so nothing is shared process-wide.
type Style struct {
	fonts *FontCache
	log   *slog.Logger
}

// NewStyle builds a Style with a fresh font cache.
func NewStyle(log *slog.Logger) (*Style, error) {
	if log == nil {
		log = slog.Default()
	}
	fonts, err := NewFontCache()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	return &Style{fonts: fonts, log: log}, nil
}
