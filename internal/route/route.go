// Package route holds the route-sheet domain model: pages are grouped
// into routes, route text is parsed into bags and overflow lines, and
// overflow lines are assigned back to the bags they came from.
package route

import "fmt"

// Bag is one physical container on a route, in printed order.
type Bag struct {
	Idx      int    // Printed sequence number, unique within a route
	SortZone string // Sort zone as printed (empty when the row had none)
	Label    string // "<Color> <number>", leading zeros preserved
	Pkgs     int    // Package count for this bag
}

// OverflowLine is one overflow row as printed, not yet attached to a bag.
type OverflowLine struct {
	Zone  string
	Count int
}

// Route is one parsed route group.
type Route struct {
	ShortCode    string // e.g. "A.12" from "STG.A.12"
	CustomerCode string // e.g. "CX101"
	StyleLabel   string
	WaveTime     string // "H:MM AM/PM", empty when not found

	Bags          []Bag
	OverflowLines []OverflowLine

	// Declared counts from the sheet header; nil when the sheet did not
	// print them (or the token failed to parse).
	DeclaredBags     *int
	DeclaredOverflow *int
	CommercialPkgs   *int
	TotalPkgs        *int
}

// Title is the display name used on rendered pages and in the TOC.
func (r *Route) Title() string {
	switch {
	case r.ShortCode != "" && r.CustomerCode != "":
		return fmt.Sprintf("%s (%s)", r.ShortCode, r.CustomerCode)
	case r.ShortCode != "":
		return r.ShortCode
	case r.CustomerCode != "":
		return r.CustomerCode
	}
	return "Route"
}

// BagPkgsTotal sums the per-bag package counts.
func (r *Route) BagPkgsTotal() int {
	total := 0
	for _, b := range r.Bags {
		total += b.Pkgs
	}
	return total
}

// RawOverflowTotal sums the printed overflow counts before assignment.
func (r *Route) RawOverflowTotal() int {
	total := 0
	for _, o := range r.OverflowLines {
		total += o.Count
	}
	return total
}

// Assignment maps each overflow line onto a bag. Texts and Totals are
// index-aligned with the route's Bags slice.
type Assignment struct {
	Texts  [][]string // "<zone> (<count>)" entries per bag
	Totals []int      // Overflow package sum per bag
}

// TotalOverflow is the computed overflow sum across all bags.
func (a *Assignment) TotalOverflow() int {
	total := 0
	for _, t := range a.Totals {
		total += t
	}
	return total
}

// TocEntry is one cover-page row for a rendered route.
type TocEntry struct {
	Title      string
	OutputPage int // 1-based page in the output PDF
	WaveTime   string
}

// RankedRoute is one row in a summary ranking section.
type RankedRoute struct {
	Metric int // bags, overflow, or package count depending on the list
	Title  string
	Page   int // 1-based output page of the route
}

// Mismatch records a route whose declared counts disagree with what was
// computed from its parsed rows.
type Mismatch struct {
	Title            string
	DeclaredOverflow *int
	ComputedOverflow int
	DeclaredTotal    *int
	ComputedTotal    int
	OverflowMismatch bool
	TotalMismatch    bool
	OutputPage       int
}

// CombinedRoute records a route whose sheet spanned multiple input pages.
type CombinedRoute struct {
	Title      string
	InputPages []int // 1-based pages in the source PDF
	BagCount   int
}
