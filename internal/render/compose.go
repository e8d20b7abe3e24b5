package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// ComposePage stacks the table above the tote board on a Letter canvas.
// Content taller than the page is uniformly downscaled, never cropped.
func (s *Style) ComposePage(table, tote *image.RGBA, title string) *image.RGBA {
	availableH := PageHeight - 2*PageMargin
	neededH := table.Bounds().Dy() + stackGap + tote.Bounds().Dy()
	if neededH > availableH && neededH > 0 {
		scale := float64(availableH) / float64(neededH)
		s.log.Warn("content too tall for letter page, downscaling",
			"route", title, "scale", scale)
		table = scaleImage(table, scale)
		tote = scaleImage(tote, scale)
	}

	page := newPage()
	xTbl := PageMargin + (ContentWidth-table.Bounds().Dx())/2
	xTote := PageMargin + (ContentWidth-tote.Bounds().Dx())/2
	yTbl := PageMargin

	pasteImage(page, table, xTbl, yTbl)
	pasteImage(page, tote, xTote, yTbl+table.Bounds().Dy()+stackGap)
	return page
}

func scaleImage(src *image.RGBA, scale float64) *image.RGBA {
	w := int(float64(src.Bounds().Dx()) * scale)
	h := int(float64(src.Bounds().Dy()) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func pasteImage(dst *image.RGBA, src *image.RGBA, x, y int) {
	r := image.Rect(x, y, x+src.Bounds().Dx(), y+src.Bounds().Dy())
	xdraw.Draw(dst, r, src, src.Bounds().Min, xdraw.Src)
}
