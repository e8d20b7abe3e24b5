package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Text anchoring, horizontal then vertical.
type anchor int

const (
	anchorLeftTop anchor = iota
	anchorCenterTop
	anchorRightTop
	anchorLeftMiddle
	anchorCenterMiddle
	anchorRightMiddle
)

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// textHeight is the face's ascent+descent, used as the line box height.
func textHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// dotFor converts an anchored (x, y) into a baseline dot.
func dotFor(face font.Face, s string, x, y int, a anchor) fixed.Point26_6 {
	w := textWidth(face, s)
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	h := textHeight(face)

	switch a {
	case anchorCenterTop, anchorCenterMiddle:
		x -= w / 2
	case anchorRightTop, anchorRightMiddle:
		x -= w
	}
	switch a {
	case anchorLeftMiddle, anchorCenterMiddle, anchorRightMiddle:
		y = y - h/2 + ascent
	default:
		y += ascent
	}
	return fixed.P(x, y)
}

func drawText(dst *image.RGBA, face font.Face, col color.Color, x, y int, s string, a anchor) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  dotFor(face, s, x, y, a),
	}
	d.DrawString(s)
}

// drawTextHalo renders s with a halo outline: the text is stamped at
// every offset within the halo radius in the halo color, then once in
// the fill color on top.
func drawTextHalo(dst *image.RGBA, face font.Face, col, halo color.Color, haloW, x, y int, s string, a anchor) {
	base := dotFor(face, s, x, y, a)
	for dy := -haloW; dy <= haloW; dy++ {
		for dx := -haloW; dx <= haloW; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d := font.Drawer{
				Dst:  dst,
				Src:  image.NewUniform(halo),
				Face: face,
				Dot:  fixed.Point26_6{X: base.X + fixed.I(dx), Y: base.Y + fixed.I(dy)},
			}
			d.DrawString(s)
		}
	}
	d := font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face, Dot: base}
	d.DrawString(s)
}

func fillRect(dst *image.RGBA, x0, y0, x1, y1 int, col color.Color) {
	draw.Draw(dst, image.Rect(x0, y0, x1, y1), image.NewUniform(col), image.Point{}, draw.Src)
}

// strokeRect draws a rectangle outline of width w inside [x0,y0,x1,y1].
func strokeRect(dst *image.RGBA, x0, y0, x1, y1, w int, col color.Color) {
	fillRect(dst, x0, y0, x1, y0+w, col)
	fillRect(dst, x0, y1-w, x1, y1, col)
	fillRect(dst, x0, y0, x0+w, y1, col)
	fillRect(dst, x1-w, y0, x1, y1, col)
}

// BlankPage returns a fresh white page at the working raster size.
func BlankPage() *image.RGBA { return newPage() }

func newPage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, PageWidth, PageHeight))
	fillRect(img, 0, 0, PageWidth, PageHeight, colWhite)
	return img
}

// luminance is the perceived brightness used to pick readable text
// colors against a tile fill.
func luminance(c color.RGBA) float64 {
	return float64(c.R)*0.299 + float64(c.G)*0.587 + float64(c.B)*0.114
}
