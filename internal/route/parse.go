package route

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const tableHeader = "Sort Zone Bag Pkgs"

var (
	reStage    = regexp.MustCompile(`STG\.([A-Z]+\.\d+)`)
	reCustomer = regexp.MustCompile(`((?:CX|TX)\d{1,3})`)
	reZone     = regexp.MustCompile(`^(?:[A-Z]-[0-9.]*[A-Z]+|99\.[A-Z0-9]+)$`)
	reTime     = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}\s*(?:AM|PM))\b`)
	reDeclared = regexp.MustCompile(`(\d+)\s+bags?\s+(\d+)\s+over`)
	reNonDigit = regexp.MustCompile(`[^\d]`)
)

// bagColors is the fixed palette of bag color tokens the sheets print.
var bagColors = map[string]bool{
	"Yellow": true, "Green": true, "Orange": true, "Black": true,
	"Navy": true, "Blue": true, "Brown": true, "Grey": true,
	"Gray": true, "Purple": true,
}

// Parser turns one route group's concatenated text into a Route.
type Parser struct {
	log *slog.Logger
}

// NewParser returns a parser that logs per-field parse warnings to log.
func NewParser(log *slog.Logger) *Parser {
	if log == nil {
		log = slog.Default()
	}
	return &Parser{log: log}
}

// Parse extracts a structured route from the group's text. It returns
// nil when the group has no bag table or no recognizable bag rows; such
// groups are skipped by the caller, not treated as errors.
func (p *Parser) Parse(text string) *Route {
	r := &Route{}
	if m := reStage.FindStringSubmatch(text); m != nil {
		r.ShortCode = m[1]
	}
	if m := reCustomer.FindStringSubmatch(text); m != nil {
		r.CustomerCode = m[1]
	}
	title := r.Title()

	lines := strings.Split(text, "\n")
	r.DeclaredBags, r.DeclaredOverflow = p.declaredCounts(lines, title)
	r.CommercialPkgs, r.TotalPkgs = p.pkgSummaries(lines, title)

	hdr := -1
	for i, l := range lines {
		if strings.Contains(l, tableHeader) {
			hdr = i
			break
		}
	}
	if hdr < 0 {
		return nil
	}

	for _, raw := range lines[hdr+1:] {
		ln := strings.TrimSpace(raw)
		if ln == "" ||
			strings.HasPrefix(ln, "Total Packages") ||
			strings.HasPrefix(ln, "Commercial Packages") {
			continue
		}
		p.scanRowLine(r, ln, title)
	}

	if len(r.Bags) == 0 {
		return nil
	}

	// Printed order is expected but not guaranteed well-formed.
	sort.SliceStable(r.Bags, func(i, j int) bool { return r.Bags[i].Idx < r.Bags[j].Idx })

	r.StyleLabel = inferStyleLabel(text, r.ShortCode)
	r.WaveTime = extractWaveTime(text)
	return r
}

// scanRowLine walks a tokenized table line left to right, trying three
// row shapes in priority order. A malformed token shifts the cursor by
// one instead of aborting the route.
func (p *Parser) scanRowLine(r *Route, line, title string) {
	toks := strings.Fields(line)
	ptr := 0
	for ptr < len(toks) {
		// Full bag row: idx zone color bagnum pkgs
		if ptr+4 < len(toks) && allDigits(toks[ptr]) &&
			reZone.MatchString(toks[ptr+1]) && bagColors[toks[ptr+2]] {
			idx := p.parseIntSafe(toks[ptr], "bag index", title)
			num := p.bagNumber(toks[ptr+3], "bag number", title)
			pk := p.parseIntSafe(toks[ptr+4], "bag pkgs", title)
			if idx != nil && num != "" && pk != nil {
				r.Bags = append(r.Bags, Bag{
					Idx:      *idx,
					SortZone: toks[ptr+1],
					Label:    toks[ptr+2] + " " + num,
					Pkgs:     *pk,
				})
			}
			ptr += 5
			continue
		}

		// Bag row without a sort zone: idx color bagnum pkgs
		if ptr+3 < len(toks) && allDigits(toks[ptr]) && bagColors[toks[ptr+1]] {
			idx := p.parseIntSafe(toks[ptr], "bag index (no zone)", title)
			num := p.bagNumber(toks[ptr+2], "bag number (no zone)", title)
			pk := p.parseIntSafe(toks[ptr+3], "bag pkgs (no zone)", title)
			if idx != nil && num != "" && pk != nil {
				r.Bags = append(r.Bags, Bag{
					Idx:   *idx,
					Label: toks[ptr+1] + " " + num,
					Pkgs:  *pk,
				})
			}
			ptr += 4
			continue
		}

		// Overflow row: idx zone pkgs
		if ptr+2 < len(toks) && allDigits(toks[ptr]) && reZone.MatchString(toks[ptr+1]) {
			if pk := p.parseIntSafe(toks[ptr+2], "overflow line", title); pk != nil {
				r.OverflowLines = append(r.OverflowLines, OverflowLine{
					Zone:  toks[ptr+1],
					Count: *pk,
				})
			}
			ptr += 3
			continue
		}

		ptr++
	}
}

// declaredCounts finds the "<N> bags <M> over" phrase, which only
// appears above the table header.
func (p *Parser) declaredCounts(lines []string, title string) (bags, over *int) {
	for _, l := range lines {
		if strings.Contains(l, tableHeader) {
			break
		}
		if m := reDeclared.FindStringSubmatch(strings.ToLower(l)); m != nil {
			bags = p.parseIntSafe(m[1], "declared bags", title)
			over = p.parseIntSafe(m[2], "declared overflow", title)
			break
		}
	}
	return bags, over
}

// pkgSummaries reads the "Commercial Packages" / "Total Packages"
// summary lines, taking the last parseable integer token on each.
func (p *Parser) pkgSummaries(lines []string, title string) (commercial, total *int) {
	for _, l := range lines {
		s := strings.ToLower(strings.TrimSpace(l))
		if strings.HasPrefix(s, "commercial packages") {
			if v := lastIntToken(p, l, "commercial packages", title); v != nil {
				commercial = v
			}
		}
		if strings.HasPrefix(s, "total packages") {
			if v := lastIntToken(p, l, "total packages", title); v != nil {
				total = v
			}
		}
	}
	return commercial, total
}

func lastIntToken(p *Parser, line, context, title string) *int {
	toks := strings.Fields(line)
	for i := len(toks) - 1; i >= 0; i-- {
		if v := p.parseIntSafe(toks[i], context, title); v != nil {
			return v
		}
	}
	return nil
}

// parseIntSafe strips non-digit characters and parses what remains.
// Failure is logged and yields nil, never an error.
func (p *Parser) parseIntSafe(tok, context, title string) *int {
	cleaned := reNonDigit.ReplaceAllString(strings.TrimSpace(tok), "")
	if cleaned == "" {
		p.log.Warn("failed to parse int", "token", tok, "context", context, "route", title)
		return nil
	}
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		p.log.Warn("failed to parse int", "token", tok, "context", context, "route", title)
		return nil
	}
	return &v
}

// bagNumber extracts the digits of a bag number, preserving leading
// zeros. Returns "" when the token has no digits.
func (p *Parser) bagNumber(tok, context, title string) string {
	digits := reNonDigit.ReplaceAllString(strings.TrimSpace(tok), "")
	if digits == "" {
		p.log.Warn("failed to parse bag number", "token", tok, "context", context, "route", title)
	}
	return digits
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// inferStyleLabel maps route-text phrases onto the fixed set of style
// labels printed on the banner.
func inferStyleLabel(text, shortCode string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "on-road experience"), strings.Contains(t, "on road experience"):
		return "Standard: On-Road Experience (Driver)"
	case strings.HasPrefix(strings.ToUpper(shortCode), "K.7"):
		return "Standard: On-Road Experience (Driver)"
	case strings.Contains(t, "nursery route level 3"), strings.Contains(t, "nursery lvl 3"):
		return "Nursery LVL 3"
	case strings.Contains(t, "nursery route level 2"), strings.Contains(t, "nursery lvl 2"):
		return "Nursery LVL 2"
	case strings.Contains(t, "nursery route level 1"), strings.Contains(t, "nursery lvl 1"):
		return "Nursery LVL 1"
	case strings.Contains(t, "nursery route"):
		return "Nursery"
	}
	return "Standard"
}

// extractWaveTime scans only the first 10 lines; the wave time is part
// of the sheet header and anything later is bag data.
func extractWaveTime(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	m := reTime.FindStringSubmatch(strings.Join(lines, "\n"))
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(strings.ToUpper(m[1]), "  ", " ")
}
