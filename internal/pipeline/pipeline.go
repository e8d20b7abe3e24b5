// Package pipeline runs the route-sheet conversion end to end: extract
// page texts, group and parse routes, render one page per route, then
// the cover TOC and summary pages, write the PDF, and add links.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sort"
	"strings"

	"github.com/dgallion1/routestack/internal/pdfout"
	"github.com/dgallion1/routestack/internal/pdftext"
	"github.com/dgallion1/routestack/internal/render"
	"github.com/dgallion1/routestack/internal/route"
)

// ErrNoRoutes means the input had no header pages at all; nothing can
// be rendered and no partial output is written.
var ErrNoRoutes = errors.New("no route header pages detected")

// Options configures one build. Observer and Links may be nil; the
// build then runs silently and without link annotations.
type Options struct {
	InputPDF  string
	OutputPDF string
	DateLabel string

	Observer Observer
	Links    pdfout.LinkWriter
	Log      *slog.Logger

	// FallbackPdftotext enables the external pdftotext fallback when
	// the PDF library extracts no text.
	FallbackPdftotext bool
}

// Result summarizes a finished build for the caller.
type Result struct {
	OutputPDF            string
	GroupCount           int
	MismatchCount        int
	Mismatches           []route.Mismatch
	RoutesOver30         []route.RankedRoute
	RoutesOver50Overflow []route.RankedRoute
	Top10HeavyTotals     []route.RankedRoute
	Top10Commercial      []route.RankedRoute
	CombinedRoutes       []route.CombinedRoute
	TocEntries           []route.TocEntry
	DateLabel            string
}

// routeTally accumulates cross-route statistics while pages render.
type routeTally struct {
	tocEntries []route.TocEntry
	mismatches []route.Mismatch
	over30     []route.RankedRoute
	over50     []route.RankedRoute
	totals     []route.RankedRoute
	commercial []route.RankedRoute
	combined   []route.CombinedRoute
}

// Build converts the input route-sheet PDF into the reorganized,
// linked output PDF. Routes are processed strictly in document order,
// one at a time; the only fatal inputs are an unreadable file and a
// document with no route headers.
func Build(ctx context.Context, opts Options) (*Result, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	links := opts.Links
	if links == nil {
		links = pdfout.NopLinkWriter{}
	}
	report := func(total, done, current int, stage, detail string) {
		if opts.Observer == nil {
			return
		}
		opts.Observer.Progress(ProgressEvent{
			PagesTotal:  total,
			PagesDone:   done,
			CurrentPage: current,
			Stage:       stage,
			Detail:      detail,
			Percent:     percent(total, done),
		})
	}

	report(0, 0, 0, StageReading, "Extracting text…")
	extractor := pdftext.Extractor{FallbackPdftotext: opts.FallbackPdftotext, Log: log}
	texts, err := extractor.Extract(opts.InputPDF)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.InputPDF, err)
	}

	groups := route.GroupPages(texts)
	if len(groups) == 0 {
		return nil, ErrNoRoutes
	}

	style, err := render.NewStyle(log)
	if err != nil {
		return nil, err
	}
	parser := route.NewParser(log)

	total := len(groups)
	done := 0
	report(total, 0, 0, StageProcessing, fmt.Sprintf("Found %d routes…", total))

	// Page 1 is a placeholder; the cover is rendered last, once every
	// route knows its output page.
	pages := []image.Image{render.BlankPage()}
	var tally routeTally

	for gi, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := gi + 1
		report(total, done, current, StageProcessing,
			fmt.Sprintf("Route %d/%d…", current, total))

		parts := make([]string, len(g))
		for i, pi := range g {
			parts[i] = texts[pi]
		}
		r := parser.Parse(strings.TrimSpace(strings.Join(parts, "\n\n")))
		if r == nil {
			done++
			report(total, done, current, StageProcessing,
				fmt.Sprintf("Skipped unreadable route %d/%d", current, total))
			continue
		}

		outputPage := len(pages) + 1
		pages = append(pages, renderRoutePage(style, opts.DateLabel, r))
		tallyRoute(&tally, r, g, outputPage)

		done++
		report(total, done, current, StageProcessing, "Done: "+r.Title())
		log.Info("route page rendered",
			"route", r.Title(), "group", current, "of", total, "page", outputPage)
	}

	report(total, done, done, StageSummary, "Building summary & TOC…")
	sortTally(&tally)
	topTotals := topN(tally.totals, 10)
	topCommercial := topN(tally.commercial, 10)

	summaryStart := len(pages) + 1
	summaryPages := style.RenderSummary(render.SummaryData{
		Mismatches:    tally.mismatches,
		Over30:        tally.over30,
		Over50:        tally.over50,
		TopTotals:     topTotals,
		TopCommercial: topCommercial,
	})
	var allLinks []render.LinkSpec
	for i, sp := range summaryPages {
		pages = append(pages, sp.Image)
		for _, l := range sp.Links {
			l.SourcePage = summaryStart + i
			allLinks = append(allLinks, l)
		}
	}

	tocImg, tocLinks := style.RenderTOC(opts.DateLabel, tally.tocEntries)
	pages[0] = tocImg
	allLinks = append(tocLinks, allLinks...)

	report(total, done, done, StageSaving, "Writing PDF…")
	asm := pdfout.Assembler{Log: log}
	if err := asm.Write(pages, opts.OutputPDF); err != nil {
		return nil, fmt.Errorf("write %s: %w", opts.OutputPDF, err)
	}

	report(total, done, done, StageLinking, "Adding TOC + summary links…")
	if err := links.WriteLinks(opts.OutputPDF, allLinks); err != nil {
		// Degrade, never fail: the unlinked PDF is still good output.
		log.Warn("link insertion failed, keeping pdf without links", "error", err)
	}

	report(total, done, done, StageDone, "Complete.")

	return &Result{
		OutputPDF:            opts.OutputPDF,
		GroupCount:           len(groups),
		MismatchCount:        len(tally.mismatches),
		Mismatches:           tally.mismatches,
		RoutesOver30:         tally.over30,
		RoutesOver50Overflow: tally.over50,
		Top10HeavyTotals:     topTotals,
		Top10Commercial:      topCommercial,
		CombinedRoutes:       tally.combined,
		TocEntries:           tally.tocEntries,
		DateLabel:            opts.DateLabel,
	}, nil
}

// renderRoutePage draws the composed table+tote page for one route.
func renderRoutePage(style *render.Style, dateLabel string, r *route.Route) image.Image {
	asg := route.AssignOverflows(r.Bags, r.OverflowLines)
	table := style.RenderTable(render.TableData{
		Title:            r.Title(),
		StyleLabel:       r.StyleLabel,
		DateLabel:        dateLabel,
		WaveTime:         r.WaveTime,
		BagCount:         bagCount(r),
		DeclaredOverflow: declaredOverflow(r),
		CommercialPkgs:   r.CommercialPkgs,
		TotalPkgs:        r.TotalPkgs,
		Bags:             r.Bags,
		Assignment:       asg,
	})
	tote := style.RenderTote(r.Bags, asg)
	return style.ComposePage(table, tote, r.Title())
}

// bagCount prefers the sheet's declared count over the parsed rows.
func bagCount(r *route.Route) int {
	if r.DeclaredBags != nil {
		return *r.DeclaredBags
	}
	return len(r.Bags)
}

// declaredOverflow prefers the declared count, falling back to the raw
// sum of printed overflow lines.
func declaredOverflow(r *route.Route) int {
	if r.DeclaredOverflow != nil {
		return *r.DeclaredOverflow
	}
	return r.RawOverflowTotal()
}

// detectMismatch compares declared counts against computed sums.
func detectMismatch(r *route.Route, asg route.Assignment) *route.Mismatch {
	computedOverflow := asg.TotalOverflow()
	computedTotal := r.BagPkgsTotal() + computedOverflow

	overflowMismatch := r.DeclaredOverflow != nil && *r.DeclaredOverflow != computedOverflow
	totalMismatch := r.TotalPkgs != nil && *r.TotalPkgs != computedTotal
	if !overflowMismatch && !totalMismatch {
		return nil
	}
	return &route.Mismatch{
		Title:            r.Title(),
		DeclaredOverflow: r.DeclaredOverflow,
		ComputedOverflow: computedOverflow,
		DeclaredTotal:    r.TotalPkgs,
		ComputedTotal:    computedTotal,
		OverflowMismatch: overflowMismatch,
		TotalMismatch:    totalMismatch,
	}
}

// totalPkgsValue is the weight used for the heaviest-totals ranking:
// the declared total, or bag packages plus the declared-or-raw
// overflow when the sheet did not print one.
func totalPkgsValue(r *route.Route) int {
	if r.TotalPkgs != nil {
		return *r.TotalPkgs
	}
	return r.BagPkgsTotal() + declaredOverflow(r)
}

func tallyRoute(t *routeTally, r *route.Route, group []int, outputPage int) {
	title := r.Title()
	bags := bagCount(r)
	overflow := declaredOverflow(r)

	t.tocEntries = append(t.tocEntries, route.TocEntry{
		Title: title, OutputPage: outputPage, WaveTime: r.WaveTime,
	})

	if len(group) > 1 {
		inputPages := make([]int, len(group))
		for i, pi := range group {
			inputPages[i] = pi + 1
		}
		t.combined = append(t.combined, route.CombinedRoute{
			Title: title, InputPages: inputPages, BagCount: bags,
		})
	}

	asg := route.AssignOverflows(r.Bags, r.OverflowLines)
	if m := detectMismatch(r, asg); m != nil {
		m.OutputPage = outputPage
		t.mismatches = append(t.mismatches, *m)
	}

	t.totals = append(t.totals, route.RankedRoute{Metric: totalPkgsValue(r), Title: title, Page: outputPage})
	comm := 0
	if r.CommercialPkgs != nil {
		comm = *r.CommercialPkgs
	}
	t.commercial = append(t.commercial, route.RankedRoute{Metric: comm, Title: title, Page: outputPage})

	if bags >= 30 {
		t.over30 = append(t.over30, route.RankedRoute{Metric: bags, Title: title, Page: outputPage})
	}
	if overflow >= 50 {
		t.over50 = append(t.over50, route.RankedRoute{Metric: overflow, Title: title, Page: outputPage})
	}
}

func sortTally(t *routeTally) {
	byMetricDesc(t.over30)
	byMetricDesc(t.over50)
	byMetricDesc(t.totals)
	byMetricDesc(t.commercial)
	sort.SliceStable(t.combined, func(i, j int) bool {
		return t.combined[i].InputPages[0] < t.combined[j].InputPages[0]
	})
}

func byMetricDesc(rs []route.RankedRoute) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Metric != rs[j].Metric {
			return rs[i].Metric > rs[j].Metric
		}
		return rs[i].Title < rs[j].Title
	})
}

func topN(rs []route.RankedRoute, n int) []route.RankedRoute {
	if len(rs) <= n {
		return rs
	}
	return rs[:n]
}
