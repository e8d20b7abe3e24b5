package render

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/font"

	"github.com/dgallion1/routestack/internal/route"
)

const (
	totePadX    = 6
	totePadY    = 8
	chipMargin  = 6 // tile edge to chip edge
	chipGap     = 4 // between stacked chips
	chipTextPad = 12
)

// chip is one measured overflow annotation ready to draw inside a tile.
type chip struct {
	text string
	face font.Face
	h    int
	is99 bool
}

// measureChip finds the largest font size that fits the tile width,
// shrinking from the base size to the floor. Text is never wrapped.
func (s *Style) measureChip(text string, tileW int) chip {
	maxW := tileW - 2*chipMargin
	clean := strings.TrimSpace(text)
	for size := sizeToteTagBase; size >= sizeToteTagMin; size-- {
		face := s.fonts.Face(size)
		if textWidth(face, clean)+chipTextPad <= maxW {
			return chip{text: clean, face: face, h: textHeight(face) + 8, is99: route.Is99Tag(clean)}
		}
	}
	face := s.fonts.Face(sizeToteTagMin)
	return chip{text: clean, face: face, h: textHeight(face) + 8, is99: route.Is99Tag(clean)}
}

// tileLayout measures every tile's chip stack and resulting height.
func (s *Style) tileLayout(asg route.Assignment, n, tileW int) (chips [][]chip, heights []int) {
	baseH := tileW * 55 / 100
	chips = make([][]chip, n)
	heights = make([]int, n)
	for i := 0; i < n; i++ {
		var stack []chip
		stackH := 0
		if i < len(asg.Texts) {
			for _, t := range asg.Texts[i] {
				c := s.measureChip(t, tileW)
				stack = append(stack, c)
				stackH += c.h
			}
		}
		if len(stack) > 0 {
			stackH += chipGap * (len(stack) - 1)
		}
		h := baseH + stackH + 10
		if len(stack) > 0 {
			h += chipGap
		}
		chips[i] = stack
		heights[i] = h
	}
	return chips, heights
}

// totePositions maps tile order onto (col, row) cells: the rightmost
// column fills first, top to bottom.
func totePositions(cols int) [][2]int {
	positions := make([][2]int, 0, cols*toteRows)
	for col := cols - 1; col >= 0; col-- {
		for row := 0; row < toteRows; row++ {
			positions = append(positions, [2]int{col, row})
		}
	}
	return positions
}

// toteColumns is how many grid columns n bags need at three rows.
func toteColumns(n int) int {
	cols := (n + toteRows - 1) / toteRows
	if cols < 1 {
		cols = 1
	}
	return cols
}

// RenderTote draws the bag grid. Each bag is a colored tile showing its
// inherited zone top-left, package count top-right (only for bags with
// an explicit zone), the bag number centered with a contrast halo, and
// its overflow chips stacked at the bottom.
func (s *Style) RenderTote(bags []route.Bag, asg route.Assignment) *image.RGBA {
	n := len(bags)
	if n == 0 {
		img := image.NewRGBA(image.Rect(0, 0, ContentWidth, 10))
		fillRect(img, 0, 0, ContentWidth, 10, colWhite)
		return img
	}

	zoneDisplay := make([]string, n)
	for i := range bags {
		zoneDisplay[i] = inheritedZone(bags, i)
	}

	cols := toteColumns(n)
	innerW := ContentWidth - (cols-1)*totePadX
	baseW := innerW / cols
	extra := innerW - baseW*cols
	colWs := make([]int, cols)
	colX0 := make([]int, cols)
	x := 0
	for i := range colWs {
		colWs[i] = baseW
		if i < extra {
			colWs[i]++
		}
		colX0[i] = x
		x += colWs[i] + totePadX
	}
	tileW := 0
	for _, w := range colWs {
		if w > tileW {
			tileW = w
		}
	}

	baseH := tileW * 55 / 100
	chips, heights := s.tileLayout(asg, n, tileW)
	positions := totePositions(cols)

	rowHeights := make([]int, toteRows)
	for i, h := range heights {
		if i >= len(positions) {
			break
		}
		row := positions[i][1]
		if h > rowHeights[row] {
			rowHeights[row] = h
		}
	}

	imgH := rowHeights[0] + rowHeights[1] + rowHeights[2] + totePadY*(toteRows-1)
	img := image.NewRGBA(image.Rect(0, 0, ContentWidth, imgH))
	fillRect(img, 0, 0, ContentWidth, imgH, colWhite)

	rowY := make([]int, toteRows)
	for r := 1; r < toteRows; r++ {
		rowY[r] = rowY[r-1] + rowHeights[r-1] + totePadY
	}

	fontNum := s.fonts.Face(sizeToteNum)
	fontPkgs := s.fonts.Face(sizeTotePkgs)

	for i := 0; i < n && i < len(positions); i++ {
		col, row := positions[i][0], positions[i][1]
		x0 := colX0[col]
		y0 := rowY[row]
		tileH := rowHeights[row]
		x1 := x0 + colWs[col]

		bg := tileFill(bags[i].Label)
		fillRect(img, x0, y0, x1, y0+tileH, bg)
		strokeRect(img, x0, y0, x1, y0+tileH, 2, colBlack)

		// Bag number, colored for contrast against the tile fill.
		fields := strings.Fields(bags[i].Label)
		num := ""
		if len(fields) > 0 {
			num = fields[len(fields)-1]
		}
		numFill, halo := colWhite, colBlack
		if luminance(bg) >= 140 {
			numFill, halo = colBlack, colWhite
		}
		drawTextHalo(img, fontNum, numFill, halo, 3,
			(x0+x1)/2, y0+baseH/2+14, num, anchorCenterMiddle)

		if zoneDisplay[i] != "" {
			drawTextHalo(img, fontPkgs, colZoneGrey, colWhite, 2,
				x0+6, y0+4, zoneDisplay[i], anchorLeftTop)
		}
		if bags[i].SortZone != "" {
			drawTextHalo(img, fontPkgs, colBrightRed, colWhite, 2,
				x1-6, y0+4, strconv.Itoa(bags[i].Pkgs), anchorRightTop)
		}

		// Chip stack sits flush to the tile bottom but never rises into
		// the number zone.
		if len(chips[i]) > 0 {
			stackH := chipGap * (len(chips[i]) - 1)
			for _, c := range chips[i] {
				stackH += c.h
			}
			cy := y0 + tileH - 10 - stackH
			if minCy := y0 + baseH + 8; cy < minCy {
				cy = minCy
			}
			for _, c := range chips[i] {
				s.drawChip(img, c, x0+chipMargin, cy, tileW-2*chipMargin)
				cy += c.h + chipGap
			}
		}
	}
	return img
}

func (s *Style) drawChip(img *image.RGBA, c chip, x, y, w int) {
	bg, txt := colChipGrey, colBlack
	if c.is99 {
		bg, txt = colLavender, colPurple
	}
	fillRect(img, x, y, x+w, y+c.h, bg)
	drawText(img, c.face, txt, x+w/2, y+c.h/2, c.text, anchorCenterMiddle)
}

func tileFill(label string) color.RGBA {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return colNeutralTile
	}
	if c, ok := bagFill[strings.ToLower(fields[0])]; ok {
		return c
	}
	return colNeutralTile
}
