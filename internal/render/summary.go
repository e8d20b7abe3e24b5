package render

import (
	"image"
	"image/color"
	"strconv"

	"github.com/dgallion1/routestack/internal/route"
)

// SummaryData is everything the trailing summary pages show.
type SummaryData struct {
	Mismatches    []route.Mismatch
	Over30        []route.RankedRoute
	Over50        []route.RankedRoute
	TopTotals     []route.RankedRoute
	TopCommercial []route.RankedRoute
}

// SummaryPage is one rendered summary page plus its link rows. The
// links' SourcePage is zero here; the pipeline fills it in once the
// summary's position in the output is known.
type SummaryPage struct {
	Image *image.RGBA
	Links []LinkSpec
}

const (
	summaryRowH      = 26
	summaryHeaderH   = 44
	summaryBottomPad = 80
)

// summaryWriter tracks the cursor and current section across page
// breaks so an overflowing section repeats its header on the new page.
type summaryWriter struct {
	style *Style

	pages   []SummaryPage
	page    *image.RGBA
	links   []LinkSpec
	y       int
	section string

	xLeft, xMid, xRight int
}

func (w *summaryWriter) startPage() {
	w.page = newPage()
	w.links = nil
	w.y = 70
	label := w.style.fonts.Face(18)
	drawText(w.page, label, colLabelGrey, w.xRight, 46, "Pg", anchorRightTop)
}

func (w *summaryWriter) pushPage() {
	w.pages = append(w.pages, SummaryPage{Image: w.page, Links: w.links})
	w.startPage()
}

// ensureSpace breaks the page when needed rows would overflow it; when
// repeatSection is set the in-progress section header is re-drawn at
// the top of the new page.
func (w *summaryWriter) ensureSpace(needed int, repeatSection bool) {
	if w.y+needed <= PageHeight-summaryBottomPad {
		return
	}
	w.pushPage()
	if repeatSection && w.section != "" {
		w.drawSection(w.section)
	}
}

func (w *summaryWriter) drawSection(title string) {
	w.section = title
	drawText(w.page, w.style.fonts.Face(sizeBanner), colBlack, w.xLeft, w.y, title, anchorLeftTop)
	w.y += summaryHeaderH
}

func (w *summaryWriter) beginSection(title string) {
	w.ensureSpace(summaryHeaderH+12, false)
	w.drawSection(title)
	w.y += 6
}

func (w *summaryWriter) row(title, metric string, pageNo int, col color.RGBA, clickable bool) {
	w.ensureSpace(summaryRowH, true)
	body := w.style.fonts.Face(24)

	linkCol := col
	if clickable {
		linkCol = colLinkBlue
	}
	drawText(w.page, body, linkCol, w.xLeft, w.y, title, anchorLeftTop)
	drawText(w.page, body, col, w.xMid, w.y, metric, anchorLeftTop)
	drawText(w.page, body, col, w.xRight, w.y, strconv.Itoa(pageNo), anchorRightTop)

	if clickable {
		tw := textWidth(body, title)
		th := textHeight(body)
		uy := w.y + th + 1
		fillRect(w.page, w.xLeft, uy, w.xLeft+tw, uy+2, linkCol)
		w.links = append(w.links, LinkSpec{
			Rect:       image.Rect(w.xLeft, w.y-2, w.xLeft+tw+6, w.y+th+2),
			TargetPage: pageNo,
		})
	}
	w.y += summaryRowH
}

// RenderSummary builds the trailing pages: Verification, the 30+ bag
// and 50+ overflow lists, and the two top-10 weight rankings. Rows
// paginate automatically with repeated section headers.
func (s *Style) RenderSummary(d SummaryData) []SummaryPage {
	w := &summaryWriter{
		style:  s,
		xLeft:  PageMargin,
		xMid:   PageMargin + ContentWidth*62/100,
		xRight: PageWidth - PageMargin,
	}
	w.startPage()

	w.beginSection("Verification")
	if len(d.Mismatches) > 0 {
		for _, m := range d.Mismatches {
			metric := mismatchMetric(m)
			w.row(m.Title, metric, m.OutputPage, colMismatchRed, true)
		}
		w.y += 12
	} else {
		w.ensureSpace(summaryHeaderH, false)
		drawText(w.page, s.fonts.Face(24), colOKGreen, w.xLeft, w.y, "OK (NO MISMATCHES)", anchorLeftTop)
		w.y += summaryHeaderH
	}

	w.beginSection("Routes with 30+ Bags")
	for _, r := range d.Over30 {
		w.row(r.Title, strconv.Itoa(r.Metric)+" bags", r.Page, colBlack, true)
	}
	w.y += 12

	w.beginSection("Routes with 50+ Overflow")
	for _, r := range d.Over50 {
		w.row(r.Title, strconv.Itoa(r.Metric)+" overflow", r.Page, colBlack, true)
	}
	w.y += 12

	w.beginSection("Routes with Heaviest Package Counts")
	for _, r := range d.TopTotals {
		w.row(r.Title, strconv.Itoa(r.Metric)+" total", r.Page, colBlack, true)
	}
	w.y += 12

	w.beginSection("Routes with Heaviest Commercial")
	for _, r := range d.TopCommercial {
		w.row(r.Title, strconv.Itoa(r.Metric)+" commercial", r.Page, colBlack, true)
	}

	w.pages = append(w.pages, SummaryPage{Image: w.page, Links: w.links})
	return w.pages
}

func mismatchMetric(m route.Mismatch) string {
	var parts []string
	if m.OverflowMismatch {
		parts = append(parts, "Overflow "+optInt(m.DeclaredOverflow)+" -> "+strconv.Itoa(m.ComputedOverflow))
	}
	if m.TotalMismatch {
		parts = append(parts, "Total "+optInt(m.DeclaredTotal)+" -> "+strconv.Itoa(m.ComputedTotal))
	}
	if len(parts) == 0 {
		return "Mismatch"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " | " + p
	}
	return out
}

func optInt(p *int) string {
	if p == nil {
		return "?"
	}
	return strconv.Itoa(*p)
}
