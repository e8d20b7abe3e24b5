package route

import (
	"fmt"
	"regexp"
	"strings"
)

// pairMap is the fixed zone-letter pairing: an overflow in one letter
// originates from a bag whose zone uses the partner letter.
var pairMap = map[string]string{
	"A": "T", "B": "U", "C": "W", "D": "X", "E": "Y", "G": "Z",
}

var inversePair = func() map[string]string {
	m := make(map[string]string, len(pairMap))
	for k, v := range pairMap {
		m[v] = k
	}
	return m
}()

var reZoneSplit = regexp.MustCompile(`^([0-9.]*)([A-Z]+)$`)

// pairedLetter resolves the partner of a zone letter in either
// direction of the pairing table.
func pairedLetter(l string) (string, bool) {
	if p, ok := pairMap[l]; ok {
		return p, true
	}
	p, ok := inversePair[l]
	return p, ok
}

// SplitZone decomposes a zone token into its numeric core and trailing
// letter designator, e.g. "A-16.2U" -> ("A-16.2", "U"). Tokens that do
// not match the grammar fall back to (all-but-last, last) so the result
// is always usable as an index key.
func SplitZone(z string) (core, letter string) {
	if !strings.Contains(z, "-") {
		if len(z) == 0 {
			return "", ""
		}
		return z[:len(z)-1], z[len(z)-1:]
	}
	prefix, tail, _ := strings.Cut(z, "-")
	if m := reZoneSplit.FindStringSubmatch(tail); m != nil {
		num, letters := m[1], m[2]
		core = prefix
		if num != "" {
			core = prefix + "-" + num
		}
		return core, letters[len(letters)-1:]
	}
	return z[:len(z)-1], z[len(z)-1:]
}

// Is99Tag reports whether a zone label is a special cross-dock tag.
func Is99Tag(label string) bool {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) == 0 {
		return false
	}
	return strings.HasPrefix(fields[0], "99.")
}

// zoneLabel strips the letter prefix from a zone token for display:
// "A-16.2U" -> "16.2U".
func zoneLabel(zone string) string {
	if _, after, ok := strings.Cut(zone, "-"); ok {
		return after
	}
	return zone
}

// AssignOverflows attaches every overflow line to exactly one bag and
// returns the per-bag annotation texts and totals. It is a total
// function: unmappable lines fall through paired letter, same letter,
// last assigned bag, then the first bag, in that order. Special "99."
// tags keep continuity with the previous line's bag (or start at the
// first bag). The precedence here is a business rule inherited from the
// printed sheets; do not reorder it.
func AssignOverflows(bags []Bag, overs []OverflowLine) Assignment {
	byZone := make(map[[2]string][]int)
	for i, b := range bags {
		if b.SortZone == "" {
			continue
		}
		core, letter := SplitZone(b.SortZone)
		key := [2]string{core, letter}
		byZone[key] = append(byZone[key], i)
	}

	a := Assignment{
		Texts:  make([][]string, len(bags)),
		Totals: make([]int, len(bags)),
	}
	lastAssigned := -1

	for _, o := range overs {
		core, letter := SplitZone(o.Zone)
		label := zoneLabel(o.Zone)

		bi := -1
		if Is99Tag(label) {
			if lastAssigned < 0 {
				if len(bags) > 0 {
					bi = 0
				}
			} else {
				bi = lastAssigned
			}
		} else {
			if need, ok := pairedLetter(letter); ok {
				if idxs := byZone[[2]string{core, need}]; len(idxs) > 0 {
					bi = idxs[0]
				}
			}
			if bi < 0 {
				if idxs := byZone[[2]string{core, letter}]; len(idxs) > 0 {
					bi = idxs[0]
				}
			}
		}

		if bi < 0 {
			if lastAssigned >= 0 {
				bi = lastAssigned
			} else if len(bags) > 0 {
				bi = 0
			}
		}
		if bi < 0 {
			continue
		}

		a.Texts[bi] = append(a.Texts[bi], fmt.Sprintf("%s (%d)", label, o.Count))
		a.Totals[bi] += o.Count
		lastAssigned = bi
	}

	return a
}
