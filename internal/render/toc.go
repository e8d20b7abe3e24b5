package render

import (
	"image"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/dgallion1/routestack/internal/route"
)

const (
	tocCols = 3
	tocGapX = 36
	tocGapY = 22
)

var reClock = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// waveClock parses "H:MM" out of a wave time label. Missing or
// unparseable labels sort after every real time.
func waveClock(label string) (hh, mm int, ok bool) {
	m := reClock.FindStringSubmatch(label)
	if m == nil {
		return 999, 99, false
	}
	hh, _ = strconv.Atoi(m[1])
	mm, _ = strconv.Atoi(m[2])
	return hh, mm, true
}

func waveLabel(timeLabel string) string {
	hh, mm, ok := waveClock(timeLabel)
	if !ok {
		return "Wave: ??:??"
	}
	return "Wave: " + pad2(hh) + ":" + pad2(mm)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// compareNatural orders strings with embedded numbers numerically, so
// "A.9" sorts before "A.10". Digit runs sort after letter runs.
func compareNatural(a, b string) int {
	ra, rb := splitRuns(a), splitRuns(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		da, db := allDigitRun(ra[i]), allDigitRun(rb[i])
		switch {
		case da && db:
			na, _ := strconv.Atoi(ra[i])
			nb, _ := strconv.Atoi(rb[i])
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
		case da != db:
			// Text runs order before digit runs.
			if db {
				return -1
			}
			return 1
		default:
			la, lb := strings.ToLower(ra[i]), strings.ToLower(rb[i])
			if la != lb {
				if la < lb {
					return -1
				}
				return 1
			}
		}
	}
	return len(ra) - len(rb)
}

func splitRuns(s string) []string {
	var runs []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigitByte(s[i]) != isDigitByte(s[start]) {
			runs = append(runs, s[start:i])
			start = i
		}
	}
	return runs
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func allDigitRun(s string) bool { return s != "" && isDigitByte(s[0]) }

// lessTocTitle sorts route titles within a wave: titles starting with a
// letter first, then natural order.
func lessTocTitle(a, b string) bool {
	aAlpha, bAlpha := startsAlpha(a), startsAlpha(b)
	if aAlpha != bAlpha {
		return aAlpha
	}
	return compareNatural(a, b) < 0
}

func startsAlpha(s string) bool {
	for _, r := range s {
		return unicode.IsLetter(r)
	}
	return false
}

type waveBlock struct {
	label   string
	entries []route.TocEntry
}

// groupWaves sorts entries chronologically and buckets them per wave,
// waves in chronological order, titles naturally sorted within each.
func groupWaves(entries []route.TocEntry) []waveBlock {
	sorted := make([]route.TocEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		hi, mi, _ := waveClock(sorted[i].WaveTime)
		hj, mj, _ := waveClock(sorted[j].WaveTime)
		if hi != hj {
			return hi < hj
		}
		if mi != mj {
			return mi < mj
		}
		return sorted[i].Title < sorted[j].Title
	})

	var blocks []waveBlock
	byLabel := make(map[string]int)
	for _, e := range sorted {
		label := waveLabel(e.WaveTime)
		idx, ok := byLabel[label]
		if !ok {
			idx = len(blocks)
			byLabel[label] = idx
			blocks = append(blocks, waveBlock{label: label})
		}
		blocks[idx].entries = append(blocks[idx].entries, e)
	}
	for i := range blocks {
		es := blocks[i].entries
		sort.SliceStable(es, func(a, b int) bool { return lessTocTitle(es[a].Title, es[b].Title) })
	}
	return blocks
}

// tocFit is the layout chosen by the font-size search.
type tocFit struct {
	rowSize, waveSize      int
	lineH, headerH, padTop int
	rowHeights             []int
	totalGridH             int
}

// fitTocGrid searches downward from the maximum row font size until the
// whole grid fits the available height and every label fits its column.
func (s *Style) fitTocGrid(blocks []waveBlock, availableH, colW int) tocFit {
	for rowSize := 34; rowSize >= 17; rowSize-- {
		waveSize := int(float64(rowSize)*1.22 + 0.5)
		if waveSize < 24 {
			waveSize = 24
		}
		rowFace := s.fonts.Face(rowSize)
		waveFace := s.fonts.Face(waveSize)

		lineH := textHeight(rowFace) + 6
		headerH := textHeight(waveFace) + 8
		const padTop, padBottom = 6, 4

		heights := make([]int, len(blocks))
		for i, b := range blocks {
			n := len(b.entries)
			if n < 1 {
				n = 1
			}
			heights[i] = padTop + headerH + n*lineH + padBottom
		}
		rows := (len(blocks) + tocCols - 1) / tocCols
		rowHeights := make([]int, rows)
		for r := 0; r < rows; r++ {
			for c := 0; c < tocCols; c++ {
				if i := r*tocCols + c; i < len(heights) && heights[i] > rowHeights[r] {
					rowHeights[r] = heights[i]
				}
			}
		}
		totalGridH := tocGapY * max(0, rows-1)
		for _, h := range rowHeights {
			totalGridH += h
		}
		if totalGridH > availableH {
			continue
		}

		fits := true
		for _, b := range blocks {
			if textWidth(waveFace, b.label) > colW {
				fits = false
				break
			}
			for _, e := range b.entries {
				if textWidth(rowFace, e.Title) > colW {
					fits = false
					break
				}
			}
			if !fits {
				break
			}
		}
		if !fits {
			continue
		}

		return tocFit{
			rowSize: rowSize, waveSize: waveSize,
			lineH: lineH, headerH: headerH, padTop: padTop,
			rowHeights: rowHeights, totalGridH: totalGridH,
		}
	}

	// Nothing fit; use the floor sizes and let the draw loop clip whole
	// grid rows at the bottom limit.
	rowFace := s.fonts.Face(22)
	waveFace := s.fonts.Face(28)
	rows := (len(blocks) + tocCols - 1) / tocCols
	return tocFit{
		rowSize: 22, waveSize: 28,
		lineH: textHeight(rowFace) + 6, headerH: textHeight(waveFace) + 8, padTop: 6,
		rowHeights: make([]int, rows), totalGridH: availableH,
	}
}

// RenderTOC draws the cover page: title block, route count, and the
// 3-column wave grid. Every route row is returned as a LinkSpec from
// page 1 to the route's output page.
func (s *Style) RenderTOC(dateLabel string, entries []route.TocEntry) (*image.RGBA, []LinkSpec) {
	page := newPage()

	titleFace := s.fonts.Face(72)
	dateFace := s.fonts.Face(34)
	subFace := s.fonts.Face(28)

	xc := PageWidth / 2
	y := 120
	drawText(page, titleFace, colBlack, xc, y, "Route Sheets", anchorCenterTop)
	y += 82
	drawText(page, dateFace, colBlack, xc, y, dateLabel, anchorCenterTop)
	y += 46
	drawText(page, subFace, colSubtleGrey, xc, y,
		"("+strconv.Itoa(len(entries))+" Routes)", anchorCenterTop)
	y += 40
	fillRect(page, PageMargin, y, PageWidth-PageMargin, y+3, colBlack)
	y += 22

	blocks := groupWaves(entries)
	if len(blocks) == 0 {
		return page, nil
	}

	colW := (ContentWidth - tocGapX*(tocCols-1)) / tocCols
	colMid := make([]int, tocCols)
	for c := 0; c < tocCols; c++ {
		colMid[c] = PageMargin + c*(colW+tocGapX) + colW/2
	}

	bottomLimit := PageHeight - 110
	availableH := bottomLimit - y
	if availableH < 10 {
		availableH = 10
	}

	fit := s.fitTocGrid(blocks, availableH, colW)
	rowFace := s.fonts.Face(fit.rowSize)
	waveFace := s.fonts.Face(fit.waveSize)

	extra := availableH - fit.totalGridH
	if extra < 0 {
		extra = 0
	}
	curY := y + extra/2

	var links []LinkSpec
	idx := 0
	for r := 0; r < len(fit.rowHeights); r++ {
		if curY+fit.rowHeights[r] > bottomLimit {
			break
		}
		for c := 0; c < tocCols && idx < len(blocks); c++ {
			b := blocks[idx]
			idx++

			xm := colMid[c]
			yy := curY + fit.padTop
			drawText(page, waveFace, colBlack, xm, yy, b.label, anchorCenterTop)
			yy += fit.headerH

			for _, e := range b.entries {
				drawText(page, rowFace, colLinkBlue, xm, yy, e.Title, anchorCenterTop)
				w := textWidth(rowFace, e.Title)
				h := textHeight(rowFace)
				x0, x1 := xm-w/2, xm+w/2
				uy := yy + h + 1
				fillRect(page, x0, uy, x1, uy+2, colLinkBlue)
				links = append(links, LinkSpec{
					Rect:       image.Rect(x0-3, yy-2, x1+3, yy+h+2),
					SourcePage: 1,
					TargetPage: e.OutputPage,
				})
				yy += fit.lineH
			}
		}
		curY += fit.rowHeights[r] + tocGapY
	}

	return page, links
}
