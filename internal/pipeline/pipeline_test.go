package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/routestack/internal/route"
)

func intp(v int) *int { return &v }

func TestPercentRange(t *testing.T) {
	cases := []struct {
		total, done, want int
	}{
		{0, 0, 25},
		{-1, 3, 25},
		{10, 0, 2},
		{200, 1, 2},
		{3, 2, 67},
		{10, 10, 99},
		{10, 99, 99},
	}
	for _, c := range cases {
		if got := percent(c.total, c.done); got != c.want {
			t.Errorf("percent(%d, %d) = %d, want %d", c.total, c.done, got, c.want)
		}
	}
}

func TestDetectMismatch(t *testing.T) {
	r := &route.Route{
		ShortCode:    "A.1",
		CustomerCode: "CX101",
		Bags: []route.Bag{
			{Idx: 1, SortZone: "A-1A", Label: "0001", Pkgs: 10},
			{Idx: 2, SortZone: "A-2A", Label: "0002", Pkgs: 10},
		},
		OverflowLines: []route.OverflowLine{{Zone: "T-1", Count: 5}},
	}
	asg := route.AssignOverflows(r.Bags, r.OverflowLines)

	if m := detectMismatch(r, asg); m != nil {
		t.Fatalf("no declared counts must mean no mismatch, got %+v", m)
	}

	r.DeclaredOverflow = intp(5)
	r.TotalPkgs = intp(25)
	if m := detectMismatch(r, asg); m != nil {
		t.Fatalf("matching counts flagged: %+v", m)
	}

	r.DeclaredOverflow = intp(8)
	m := detectMismatch(r, asg)
	if m == nil || !m.OverflowMismatch || m.TotalMismatch {
		t.Fatalf("want overflow-only mismatch, got %+v", m)
	}
	if m.ComputedOverflow != 5 || m.ComputedTotal != 25 {
		t.Fatalf("computed = %d/%d, want 5/25", m.ComputedOverflow, m.ComputedTotal)
	}

	r.DeclaredOverflow = intp(5)
	r.TotalPkgs = intp(30)
	m = detectMismatch(r, asg)
	if m == nil || m.OverflowMismatch || !m.TotalMismatch {
		t.Fatalf("want total-only mismatch, got %+v", m)
	}
}

func TestDeclaredFallbacks(t *testing.T) {
	r := &route.Route{
		Bags:          []route.Bag{{Idx: 1, Pkgs: 4}, {Idx: 2, Pkgs: 6}},
		OverflowLines: []route.OverflowLine{{Zone: "T-1", Count: 3}, {Zone: "T-2", Count: 2}},
	}
	if got := bagCount(r); got != 2 {
		t.Errorf("bagCount fallback = %d, want 2", got)
	}
	if got := declaredOverflow(r); got != 5 {
		t.Errorf("declaredOverflow fallback = %d, want 5", got)
	}
	if got := totalPkgsValue(r); got != 15 {
		t.Errorf("totalPkgsValue fallback = %d, want 15", got)
	}

	r.DeclaredBags = intp(3)
	r.DeclaredOverflow = intp(9)
	r.TotalPkgs = intp(40)
	if got := bagCount(r); got != 3 {
		t.Errorf("bagCount declared = %d, want 3", got)
	}
	if got := declaredOverflow(r); got != 9 {
		t.Errorf("declaredOverflow declared = %d, want 9", got)
	}
	if got := totalPkgsValue(r); got != 40 {
		t.Errorf("totalPkgsValue declared = %d, want 40", got)
	}
}

func TestSortTallyOrdering(t *testing.T) {
	tally := routeTally{
		totals: []route.RankedRoute{
			{Metric: 10, Title: "STG.B.1 CX2", Page: 3},
			{Metric: 30, Title: "STG.A.1 CX1", Page: 2},
			{Metric: 30, Title: "STG.A.0 CX0", Page: 4},
		},
		combined: []route.CombinedRoute{
			{Title: "later", InputPages: []int{7, 8}},
			{Title: "earlier", InputPages: []int{2, 3}},
		},
	}
	sortTally(&tally)

	if tally.totals[0].Title != "STG.A.0 CX0" || tally.totals[1].Title != "STG.A.1 CX1" {
		t.Fatalf("ties must break by title: %+v", tally.totals)
	}
	if tally.totals[2].Metric != 10 {
		t.Fatalf("want descending metric, got %+v", tally.totals)
	}
	if tally.combined[0].Title != "earlier" {
		t.Fatalf("combined must sort by first input page: %+v", tally.combined)
	}
}

func TestTopN(t *testing.T) {
	rs := make([]route.RankedRoute, 12)
	if got := topN(rs, 10); len(got) != 10 {
		t.Errorf("topN(12, 10) = %d entries", len(got))
	}
	if got := topN(rs[:4], 10); len(got) != 4 {
		t.Errorf("topN(4, 10) = %d entries", len(got))
	}
}

func TestTallyRouteThresholds(t *testing.T) {
	var tally routeTally
	small := &route.Route{
		ShortCode: "A.1", CustomerCode: "CX1",
		Bags: []route.Bag{{Idx: 1, Pkgs: 5}},
	}
	tallyRoute(&tally, small, []int{0}, 2)

	big := &route.Route{
		ShortCode: "B.2", CustomerCode: "CX2",
		DeclaredBags:     intp(31),
		DeclaredOverflow: intp(55),
	}
	tallyRoute(&tally, big, []int{1, 2}, 3)

	if len(tally.over30) != 1 || tally.over30[0].Metric != 31 {
		t.Fatalf("over30 = %+v", tally.over30)
	}
	if len(tally.over50) != 1 || tally.over50[0].Metric != 55 {
		t.Fatalf("over50 = %+v", tally.over50)
	}
	if len(tally.combined) != 1 || tally.combined[0].InputPages[0] != 2 {
		t.Fatalf("combined must use 1-based input pages: %+v", tally.combined)
	}
	if len(tally.tocEntries) != 2 || tally.tocEntries[1].OutputPage != 3 {
		t.Fatalf("tocEntries = %+v", tally.tocEntries)
	}
	if len(tally.totals) != 2 || len(tally.commercial) != 2 {
		t.Fatalf("every route must be ranked: %d totals, %d commercial",
			len(tally.totals), len(tally.commercial))
	}
}

func TestStatusFileObserver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	obs := &StatusFileObserver{Path: path, Throttle: time.Hour}

	ev := ProgressEvent{PagesTotal: 4, PagesDone: 1, Stage: StageProcessing, Percent: 25}
	obs.Progress(ev)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("status file missing: %v", err)
	}
	for _, want := range []string{`"ok":true`, `"stage":"Processing"`, `"percent":25`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("status payload %s missing %s", data, want)
		}
	}

	// A repeat of the same event inside the throttle window is skipped.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	obs.Progress(ev)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("identical event inside throttle window must not rewrite")
	}

	// A changed event writes immediately.
	ev.PagesDone = 2
	obs.Progress(ev)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("changed event must write: %v", err)
	}
}
