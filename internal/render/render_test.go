package render

import (
	"log/slog"
	"strconv"
	"testing"

	"github.com/dgallion1/routestack/internal/route"
)

func testStyle(t *testing.T) *Style {
	t.Helper()
	s, err := NewStyle(slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewStyle: %v", err)
	}
	return s
}

func makeBags(n int) []route.Bag {
	bags := make([]route.Bag, n)
	for i := range bags {
		bags[i] = route.Bag{Idx: i + 1, Label: "Yellow " + strconv.Itoa(i+1), Pkgs: 5}
	}
	return bags
}

func emptyAssignment(n int) route.Assignment {
	return route.Assignment{Texts: make([][]string, n), Totals: make([]int, n)}
}

func TestToteColumns(t *testing.T) {
	cases := []struct{ n, want int }{
		{1, 1}, {3, 1}, {4, 2}, {9, 3}, {45, 15},
	}
	for _, c := range cases {
		if got := toteColumns(c.n); got != c.want {
			t.Errorf("toteColumns(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestTotePositions_RightToLeft(t *testing.T) {
	pos := totePositions(3)
	if len(pos) != 9 {
		t.Fatalf("expected 9 positions, got %d", len(pos))
	}
	// The first bag lands in the rightmost column, top row.
	if pos[0] != [2]int{2, 0} {
		t.Errorf("pos[0] = %v, want [2 0]", pos[0])
	}
	// The fourth bag starts the next column to the left.
	if pos[3] != [2]int{1, 0} {
		t.Errorf("pos[3] = %v, want [1 0]", pos[3])
	}
	if pos[8] != [2]int{0, 2} {
		t.Errorf("pos[8] = %v, want [0 2]", pos[8])
	}
}

func TestMeasureChip_ShrinksToFit(t *testing.T) {
	s := testStyle(t)
	short := s.measureChip("1A (2)", 400)
	long := s.measureChip("16.2U (5); 16.2U (5); 16.2U (5); 16.2U (5)", 400)
	if short.face != s.fonts.Face(sizeToteTagBase) {
		t.Error("short chip text should keep the base font size")
	}
	if long.face == s.fonts.Face(sizeToteTagBase) {
		t.Error("long chip text should have shrunk below the base size")
	}
	if long.h > short.h+textHeight(s.fonts.Face(sizeToteTagBase)) {
		t.Errorf("shrunk chip is taller than expected: %d vs %d", long.h, short.h)
	}
}

func TestRenderTote_Dimensions(t *testing.T) {
	s := testStyle(t)
	bags := makeBags(45)
	img := s.RenderTote(bags, emptyAssignment(45))
	if img.Bounds().Dx() != ContentWidth {
		t.Errorf("tote width = %d, want %d", img.Bounds().Dx(), ContentWidth)
	}
	if img.Bounds().Dy() <= 0 {
		t.Error("tote height must be positive")
	}
}

func TestRenderTote_NoBags(t *testing.T) {
	s := testStyle(t)
	img := s.RenderTote(nil, emptyAssignment(0))
	if img.Bounds().Dx() != ContentWidth {
		t.Errorf("empty tote should still span content width")
	}
}

func TestRenderTable_Dimensions(t *testing.T) {
	s := testStyle(t)
	bags := makeBags(5)
	d := TableData{
		Title:      "A.12 (CX101)",
		StyleLabel: "Standard",
		DateLabel:  "Monday, March 2",
		BagCount:   5,
		Bags:       bags,
		Assignment: emptyAssignment(5),
	}
	img := s.RenderTable(d)
	wantH := bannerHeight + (5+2)*tableCellH + 2*tableMargin
	if img.Bounds().Dy() != wantH {
		t.Errorf("table height = %d, want %d", img.Bounds().Dy(), wantH)
	}
	if img.Bounds().Dx() != ContentWidth {
		t.Errorf("table width = %d, want %d", img.Bounds().Dx(), ContentWidth)
	}
}

func TestRenderTable_AbsentTotalsAreBlankNotFatal(t *testing.T) {
	s := testStyle(t)
	d := TableData{
		Title:      "A.1",
		Bags:       makeBags(1),
		Assignment: emptyAssignment(1),
		// CommercialPkgs and TotalPkgs left nil on purpose.
	}
	img := s.RenderTable(d)
	if img == nil {
		t.Fatal("render must not fail on absent numeric fields")
	}
}

func TestComposePage_AlwaysLetterSize(t *testing.T) {
	s := testStyle(t)
	bags := makeBags(60) // tall enough to force the downscale path
	asg := emptyAssignment(60)
	table := s.RenderTable(TableData{Title: "A.1", BagCount: 60, Bags: bags, Assignment: asg})
	tote := s.RenderTote(bags, asg)

	page := s.ComposePage(table, tote, "A.1")
	if page.Bounds().Dx() != PageWidth || page.Bounds().Dy() != PageHeight {
		t.Errorf("composed page = %v, want %dx%d", page.Bounds(), PageWidth, PageHeight)
	}
}

func TestScaleImage_UniformRatio(t *testing.T) {
	s := testStyle(t)
	table := s.RenderTable(TableData{Title: "A.1", Bags: makeBags(2), Assignment: emptyAssignment(2)})
	scaled := scaleImage(table, 0.5)
	if got, want := scaled.Bounds().Dx(), table.Bounds().Dx()/2; got != want {
		t.Errorf("scaled width = %d, want %d", got, want)
	}
}

func TestWaveLabel(t *testing.T) {
	cases := []struct{ in, want string }{
		{"7:45 AM", "Wave: 07:45"},
		{"10:05 PM", "Wave: 10:05"},
		{"", "Wave: ??:??"},
		{"not a time", "Wave: ??:??"},
	}
	for _, c := range cases {
		if got := waveLabel(c.in); got != c.want {
			t.Errorf("waveLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCompareNatural(t *testing.T) {
	if compareNatural("A.9", "A.10") >= 0 {
		t.Error("A.9 must sort before A.10")
	}
	if compareNatural("A.10", "A.10") != 0 {
		t.Error("equal strings must compare equal")
	}
	if !lessTocTitle("B.1", "1B") {
		t.Error("titles starting with a letter sort first")
	}
}

func TestGroupWaves_ChronologicalAndSorted(t *testing.T) {
	entries := []route.TocEntry{
		{Title: "B.2 (CX2)", OutputPage: 3, WaveTime: "8:30 AM"},
		{Title: "A.10 (CX3)", OutputPage: 4, WaveTime: "7:45 AM"},
		{Title: "A.9 (CX1)", OutputPage: 2, WaveTime: "7:45 AM"},
		{Title: "C.1 (CX4)", OutputPage: 5, WaveTime: ""},
	}
	blocks := groupWaves(entries)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 wave blocks, got %d", len(blocks))
	}
	if blocks[0].label != "Wave: 07:45" || blocks[1].label != "Wave: 08:30" {
		t.Errorf("waves out of order: %q, %q", blocks[0].label, blocks[1].label)
	}
	if blocks[2].label != "Wave: ??:??" {
		t.Errorf("timeless wave must sort last, got %q", blocks[2].label)
	}
	if blocks[0].entries[0].Title != "A.9 (CX1)" {
		t.Errorf("natural sort within wave failed: %+v", blocks[0].entries)
	}
}

func TestRenderTOC_LinksOnePerRoute(t *testing.T) {
	s := testStyle(t)
	entries := []route.TocEntry{
		{Title: "A.1 (CX1)", OutputPage: 2, WaveTime: "7:45 AM"},
		{Title: "A.2 (CX2)", OutputPage: 3, WaveTime: "7:45 AM"},
		{Title: "B.1 (CX3)", OutputPage: 4, WaveTime: "9:00 AM"},
	}
	page, links := s.RenderTOC("Monday, March 2", entries)
	if page.Bounds().Dx() != PageWidth || page.Bounds().Dy() != PageHeight {
		t.Fatalf("toc page bounds = %v", page.Bounds())
	}
	if len(links) != len(entries) {
		t.Fatalf("expected %d links, got %d", len(entries), len(links))
	}
	for _, l := range links {
		if l.SourcePage != 1 {
			t.Errorf("toc links originate on page 1, got %d", l.SourcePage)
		}
		if l.TargetPage < 2 {
			t.Errorf("toc link target out of range: %d", l.TargetPage)
		}
		if l.Rect.Empty() {
			t.Error("toc link rect must not be empty")
		}
	}
}

func TestRenderTOC_NoEntries(t *testing.T) {
	s := testStyle(t)
	page, links := s.RenderTOC("Monday", nil)
	if page == nil || len(links) != 0 {
		t.Fatalf("empty toc: page=%v links=%v", page != nil, links)
	}
}

func TestRenderSummary_SinglePageWhenSmall(t *testing.T) {
	s := testStyle(t)
	pages := s.RenderSummary(SummaryData{})
	if len(pages) != 1 {
		t.Fatalf("expected 1 page for empty summary, got %d", len(pages))
	}
	if len(pages[0].Links) != 0 {
		t.Errorf("empty summary has no links, got %d", len(pages[0].Links))
	}
}

func TestRenderSummary_PaginatesAndRepeatsRows(t *testing.T) {
	s := testStyle(t)
	var over30 []route.RankedRoute
	for i := 0; i < 300; i++ {
		over30 = append(over30, route.RankedRoute{Metric: 30 + i%20, Title: "R." + strconv.Itoa(i), Page: 2 + i})
	}
	pages := s.RenderSummary(SummaryData{Over30: over30})
	if len(pages) < 2 {
		t.Fatalf("300 rows must overflow a single page, got %d", len(pages))
	}

	total := 0
	for _, p := range pages {
		total += len(p.Links)
	}
	if total != len(over30) {
		t.Errorf("every row keeps its link across page breaks: got %d, want %d",
			total, len(over30))
	}
	if len(pages[0].Links) == 0 {
		t.Error("first page must already carry rows")
	}
}

func TestMismatchMetric(t *testing.T) {
	d, tot := 8, 50
	m := route.Mismatch{
		DeclaredOverflow: &d, ComputedOverflow: 10, OverflowMismatch: true,
		DeclaredTotal: &tot, ComputedTotal: 48, TotalMismatch: true,
	}
	if got, want := mismatchMetric(m), "Overflow 8 -> 10 | Total 50 -> 48"; got != want {
		t.Errorf("mismatchMetric = %q, want %q", got, want)
	}
	if got := mismatchMetric(route.Mismatch{}); got != "Mismatch" {
		t.Errorf("empty mismatch metric = %q", got)
	}
}
