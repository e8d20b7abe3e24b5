package route

import (
	"log/slog"
	"strings"
	"testing"
)

func testParser() *Parser {
	return NewParser(slog.New(slog.DiscardHandler))
}

const sampleRoute = `Route Sheet STG.A.12 dispatch CX101
Wave departs 7:45 am
14 bags 8 over
Sort Zone Bag Pkgs
1 A-16.2B Yellow 001 10
2 Green 045 7
3 A-16.2U 5
4 A-17.1C Navy 112 12
Commercial Packages 3
Total Packages 34
`

func TestParse_FullRoute(t *testing.T) {
	r := testParser().Parse(sampleRoute)
	if r == nil {
		t.Fatal("expected a parsed route, got nil")
	}

	if r.ShortCode != "A.12" {
		t.Errorf("short code: got %q", r.ShortCode)
	}
	if r.CustomerCode != "CX101" {
		t.Errorf("customer code: got %q", r.CustomerCode)
	}
	if r.Title() != "A.12 (CX101)" {
		t.Errorf("title: got %q", r.Title())
	}
	if r.WaveTime != "7:45 AM" {
		t.Errorf("wave time: got %q", r.WaveTime)
	}
	if r.StyleLabel != "Standard" {
		t.Errorf("style: got %q", r.StyleLabel)
	}

	if r.DeclaredBags == nil || *r.DeclaredBags != 14 {
		t.Errorf("declared bags: got %v", r.DeclaredBags)
	}
	if r.DeclaredOverflow == nil || *r.DeclaredOverflow != 8 {
		t.Errorf("declared overflow: got %v", r.DeclaredOverflow)
	}
	if r.CommercialPkgs == nil || *r.CommercialPkgs != 3 {
		t.Errorf("commercial pkgs: got %v", r.CommercialPkgs)
	}
	if r.TotalPkgs == nil || *r.TotalPkgs != 34 {
		t.Errorf("total pkgs: got %v", r.TotalPkgs)
	}

	if len(r.Bags) != 3 {
		t.Fatalf("expected 3 bags, got %d: %+v", len(r.Bags), r.Bags)
	}
	if b := r.Bags[0]; b.Idx != 1 || b.SortZone != "A-16.2B" || b.Label != "Yellow 001" || b.Pkgs != 10 {
		t.Errorf("bag 0: %+v", b)
	}
	if b := r.Bags[1]; b.Idx != 2 || b.SortZone != "" || b.Label != "Green 045" || b.Pkgs != 7 {
		t.Errorf("bag 1 (inherited zone): %+v", b)
	}
	if b := r.Bags[2]; b.SortZone != "A-17.1C" || b.Label != "Navy 112" {
		t.Errorf("bag 2: %+v", b)
	}

	if len(r.OverflowLines) != 1 {
		t.Fatalf("expected 1 overflow line, got %+v", r.OverflowLines)
	}
	if o := r.OverflowLines[0]; o.Zone != "A-16.2U" || o.Count != 5 {
		t.Errorf("overflow line: %+v", o)
	}
}

func TestParse_LeadingZerosPreserved(t *testing.T) {
	r := testParser().Parse("STG.B.3 CX5\nSort Zone Bag Pkgs\n1 Black 007 4\n")
	if r == nil {
		t.Fatal("expected route")
	}
	if r.Bags[0].Label != "Black 007" {
		t.Errorf("leading zeros lost: %q", r.Bags[0].Label)
	}
}

func TestParse_BagsSortedByIdx(t *testing.T) {
	r := testParser().Parse("STG.B.3 CX5\nSort Zone Bag Pkgs\n3 Black 3 4\n1 Navy 1 2\n2 Green 2 9\n")
	if r == nil {
		t.Fatal("expected route")
	}
	prev := 0
	for _, b := range r.Bags {
		if b.Idx <= prev {
			t.Fatalf("bags not strictly increasing by idx: %+v", r.Bags)
		}
		prev = b.Idx
	}
}

func TestParse_MalformedLineShiftsNotAborts(t *testing.T) {
	// Garbage tokens before a valid row shift the scan pointer but the
	// row behind them is still recognized.
	r := testParser().Parse("STG.B.3 CX5\nSort Zone Bag Pkgs\nxx yy 2 Navy 010 6\n")
	if r == nil {
		t.Fatal("expected route")
	}
	if len(r.Bags) != 1 || r.Bags[0].Label != "Navy 010" {
		t.Errorf("expected recovery to find the Navy row, got %+v", r.Bags)
	}
}

func TestParse_UnknownColorRejected(t *testing.T) {
	r := testParser().Parse("STG.B.3 CX5\nSort Zone Bag Pkgs\n1 Magenta 001 4\n")
	if r != nil {
		t.Fatalf("a row with a color outside the palette is not a bag row, got %+v", r)
	}
}

func TestParse_NoTableHeaderDiscards(t *testing.T) {
	if r := testParser().Parse("STG.A.1 CX2 no table at all"); r != nil {
		t.Fatalf("expected nil, got %+v", r)
	}
}

func TestParse_NoBagRowsDiscards(t *testing.T) {
	if r := testParser().Parse("STG.A.1 CX2\nSort Zone Bag Pkgs\nnothing parseable\n"); r != nil {
		t.Fatalf("expected nil, got %+v", r)
	}
}

func TestParse_DeclaredCountsOnlyBeforeHeader(t *testing.T) {
	r := testParser().Parse("STG.A.1 CX2\nSort Zone Bag Pkgs\n1 Navy 1 2\n9 bags 9 over\n")
	if r == nil {
		t.Fatal("expected route")
	}
	if r.DeclaredBags != nil || r.DeclaredOverflow != nil {
		t.Errorf("declared counts below the header must be ignored: %v %v",
			r.DeclaredBags, r.DeclaredOverflow)
	}
}

func TestParse_WaveTimeOnlyInFirstTenLines(t *testing.T) {
	text := "STG.A.1 CX2\n" + strings.Repeat("filler\n", 10) +
		"9:30 AM\nSort Zone Bag Pkgs\n1 Navy 1 2\n"
	r := testParser().Parse(text)
	if r == nil {
		t.Fatal("expected route")
	}
	if r.WaveTime != "" {
		t.Errorf("time past line 10 must not match, got %q", r.WaveTime)
	}
}

func TestInferStyleLabel(t *testing.T) {
	cases := []struct {
		text, shortCode, want string
	}{
		{"standard sheet", "A.1", "Standard"},
		{"includes On-Road Experience notes", "A.1", "Standard: On-Road Experience (Driver)"},
		{"plain text", "K.71", "Standard: On-Road Experience (Driver)"},
		{"Nursery Route Level 3", "A.1", "Nursery LVL 3"},
		{"nursery lvl 2", "A.1", "Nursery LVL 2"},
		{"NURSERY ROUTE LEVEL 1", "A.1", "Nursery LVL 1"},
		{"a nursery route plain", "A.1", "Nursery"},
	}
	for _, c := range cases {
		if got := inferStyleLabel(c.text, c.shortCode); got != c.want {
			t.Errorf("inferStyleLabel(%q, %q) = %q, want %q", c.text, c.shortCode, got, c.want)
		}
	}
}
