package render

import (
	"image"
	"strconv"
	"strings"

	"github.com/dgallion1/routestack/internal/route"
)

// TableData carries everything the per-route table needs.
type TableData struct {
	Title      string
	StyleLabel string
	DateLabel  string
	WaveTime   string

	BagCount         int
	DeclaredOverflow int
	CommercialPkgs   *int
	TotalPkgs        *int

	Bags       []route.Bag
	Assignment route.Assignment
}

// overflowCell is the middle-column text for bag i, or "" without overflow.
func (d *TableData) overflowCell(i int) string {
	if i >= len(d.Assignment.Texts) {
		return ""
	}
	return strings.Join(d.Assignment.Texts[i], "; ")
}

// totalCell is the right-column text for bag i; blank when the bag has
// no overflow at all.
func (d *TableData) totalCell(i int) string {
	if d.overflowCell(i) == "" || i >= len(d.Assignment.Totals) || d.Assignment.Totals[i] == 0 {
		return ""
	}
	return strconv.Itoa(d.Assignment.Totals[i])
}

// inheritedZone is the display zone for bag i: its own zone stripped of
// the letter prefix, or the nearest preceding bag's.
func inheritedZone(bags []route.Bag, i int) string {
	for j := i; j >= 0; j-- {
		if bags[j].SortZone != "" {
			label := bags[j].SortZone
			if _, after, ok := strings.Cut(label, "-"); ok {
				return after
			}
			return label
		}
	}
	return ""
}

// RenderTable draws the route summary table: banner, bags/overflow
// summary row, one banded row per bag, and the package totals row.
// Absent numeric fields render as blank cells; this never fails.
func (s *Style) RenderTable(d TableData) *image.RGBA {
	fontBanner := s.fonts.Face(sizeBanner)
	fontTable := s.fonts.Face(sizeTable)
	fontSummary := s.fonts.Face(sizeSummaryRow)
	fontStyle := s.fonts.Face(sizeStyleTag)
	fontDate := s.fonts.Face(sizeDate)
	fontZone := s.fonts.Face(sizeZone)
	fontPkgs := s.fonts.Face(sizeTotePkgs)

	totalRows := len(d.Bags) + 2 // summary row + bag rows + totals row
	width := ContentWidth
	height := bannerHeight + totalRows*tableCellH + tableMargin*2

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillRect(img, 0, 0, width, height, colWhite)

	// Banner: date+wave left, title centered, style tag right.
	fillRect(img, 0, 0, width, bannerHeight, colBannerBG)
	left := ""
	if d.DateLabel != "" && d.WaveTime != "" {
		left = d.DateLabel + " [" + d.WaveTime + "]"
	} else if d.DateLabel != "" {
		left = d.DateLabel
	}
	if left != "" {
		drawText(img, fontDate, colMetaGrey, 12, bannerHeight/2, left, anchorLeftMiddle)
	}
	drawText(img, fontBanner, colBlack, width/2, bannerHeight/2, d.Title, anchorCenterMiddle)
	if d.StyleLabel != "" {
		drawText(img, fontStyle, colMetaGrey, width-12, bannerHeight/2,
			strings.ToUpper(d.StyleLabel), anchorRightMiddle)
	}

	x := tableMargin
	y0 := bannerHeight + tableMargin
	right := width - tableMargin

	// Size the side columns to the longest rendered bag cell. The
	// middle column gets whatever is left, but never less than the
	// target width.
	const (
		padLR   = 10
		zoneGap = 6
		pkgGap  = 6
	)
	maxSide := ((right - x) - tableMinMid) / 2
	if maxSide < 0 {
		maxSide = 0
	}

	maxW := 0
	for i := range d.Bags {
		bagW := textWidth(fontTable, d.Bags[i].Label)
		zone := inheritedZone(d.Bags, i)
		zoneW := 0
		if zone != "" {
			zoneW = textWidth(fontZone, zone) + zoneGap
		}
		pkgW := 0
		if d.Bags[i].SortZone != "" {
			pkgW = textWidth(fontPkgs, pkgAnnotation(d.Bags[i].Pkgs)) + pkgGap
		}
		if w := zoneW + bagW + pkgW + padLR*2; w > maxW {
			maxW = w
		}
		if maxW >= maxSide {
			maxW = maxSide
			break
		}
	}

	side := maxW
	if side > maxSide {
		side = maxSide
	}
	if (right-x)-2*tableMinSide >= tableTargetMid && side < tableMinSide {
		side = tableMinSide
	}
	mid := (right - x) - 2*side

	// Safety net: recompute backward from the target middle width when
	// the naive sizing squeezes it out.
	if mid < tableTargetMid {
		maxSideForTarget := ((right - x) - tableTargetMid) / 2
		if maxSideForTarget < 0 {
			maxSideForTarget = 0
		}
		if side > maxSideForTarget {
			side = maxSideForTarget
		}
		if (right-x)-2*tableMinSide >= tableTargetMid && side < tableMinSide {
			side = tableMinSide
		}
		mid = (right - x) - 2*side
	}
	colW := [3]int{side, mid, side}

	// Summary row.
	top, bot := y0, y0+tableCellH
	strokeRect(img, x, top, right, bot, 2, colBlack)
	drawText(img, fontSummary, colRoyalBlue, x+10, (top+bot)/2,
		strconv.Itoa(d.BagCount)+" bags", anchorLeftMiddle)
	drawText(img, fontSummary, colRoyalBlue, right-10, (top+bot)/2,
		strconv.Itoa(d.DeclaredOverflow)+" overflow", anchorRightMiddle)
	fillRect(img, x, bot-2, right, bot+3, colRoyalBlue)

	// Bag rows, banded teal/white in blocks of three to match how the
	// tote board groups its rows.
	for r := 1; r <= len(d.Bags); r++ {
		top = y0 + r*tableCellH
		bot = top + tableCellH
		tealBlock := ((r-1)/3)%2 == 0

		if tealBlock {
			fillRect(img, x, top, right, bot, colRowTeal)
		} else {
			fillRect(img, x, top, right, bot, colWhite)
		}
		strokeRect(img, x, top, right, bot, 2, colBlack)

		if r%3 == 0 {
			div := colDividerGrey
			if tealBlock {
				div = colDividerTeal
			}
			fillRect(img, x+2, bot-rowDividerH, right-2, bot, div)
		}

		i := r - 1
		ym := (top + bot) / 2
		cx := x

		// Bag column: inherited zone, label, package annotation.
		startX := cx + padLR
		if zone := inheritedZone(d.Bags, i); zone != "" {
			drawText(img, fontZone, colMetaGrey, startX, ym, zone, anchorLeftMiddle)
			startX += textWidth(fontZone, zone) + zoneGap
		}
		drawText(img, fontTable, colBlack, startX, ym, d.Bags[i].Label, anchorLeftMiddle)
		if d.Bags[i].SortZone != "" {
			pkgTxt := pkgAnnotation(d.Bags[i].Pkgs)
			drawText(img, fontPkgs, colBrightRed,
				startX+textWidth(fontTable, d.Bags[i].Label)+pkgGap, ym, pkgTxt, anchorLeftMiddle)
		}
		cx += colW[0]

		// Overflow zones column, centered, special tags tinted.
		if d.overflowCell(i) != "" {
			type seg struct {
				text string
				is99 bool
			}
			var segs []seg
			totalW := 0
			for k, tok := range d.Assignment.Texts[i] {
				t := tok
				if k > 0 {
					t = "; " + t
				}
				segs = append(segs, seg{t, route.Is99Tag(tok)})
				totalW += textWidth(fontTable, t)
			}
			sx := cx + 4
			if pad := (colW[1] - totalW) / 2; pad > 4 {
				sx = cx + pad
			}
			for _, sg := range segs {
				col := colBlack
				if sg.is99 {
					col = colPurple
				}
				drawText(img, fontTable, col, sx, ym, sg.text, anchorLeftMiddle)
				sx += textWidth(fontTable, sg.text)
			}
		}
		cx += colW[1]

		// Overflow total column, right-aligned.
		if tot := d.totalCell(i); tot != "" {
			drawText(img, fontTable, colBlack, cx+colW[2]-padLR, ym, tot, anchorRightMiddle)
		}
	}

	// Package totals row.
	brTop := y0 + (len(d.Bags)+1)*tableCellH
	brBot := brTop + tableCellH
	strokeRect(img, x, brTop, right, brBot, 4, colBlack)
	if d.CommercialPkgs != nil {
		drawText(img, fontTable, colBrightRed, x+10, (brTop+brBot)/2,
			strconv.Itoa(*d.CommercialPkgs)+" Commercial", anchorLeftMiddle)
	}
	if d.TotalPkgs != nil {
		drawText(img, fontTable, colBrightRed, right-10, (brTop+brBot)/2,
			strconv.Itoa(*d.TotalPkgs)+" Total", anchorRightMiddle)
	}

	strokeRect(img, x, y0, right, y0+totalRows*tableCellH, 2, colBlack)
	return img
}

func pkgAnnotation(pkgs int) string {
	return " (" + strconv.Itoa(pkgs) + ")"
}
