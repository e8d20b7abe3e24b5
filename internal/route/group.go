package route

import (
	"regexp"
	"strings"
)

var (
	reStageToken    = regexp.MustCompile(`(?i)\bSTG\.[A-Z]\.\d+\b`)
	reCustomerToken = regexp.MustCompile(`(?i)\b(?:CX|TX)\d+\b`)
	reBagsPhrase    = regexp.MustCompile(`(?i)\b(\d+)\s+bags\b`)
)

// IsHeaderPage reports whether a page starts a new route: it must carry
// both a stage token (STG.<letter>.<digits>) and a customer code.
func IsHeaderPage(text string) bool {
	return reStageToken.MatchString(text) && reCustomerToken.MatchString(text)
}

// IsTableishPage reports whether a page looks like a continuation of a
// route's bag table.
func IsTableishPage(text string) bool {
	return strings.Contains(text, "Sort Zone Bag") ||
		strings.Contains(text, "Sort Zone Pkgs") ||
		reBagsPhrase.MatchString(text)
}

// GroupPages splits the flat page-text sequence into route groups. Each
// group starts at a header page and absorbs following pages while they
// are non-header and either table-ish or blank. Pages before the first
// header are dropped. Returns zero-based page indices.
func GroupPages(texts []string) [][]int {
	var groups [][]int
	i, n := 0, len(texts)
	for i < n {
		if !IsHeaderPage(texts[i]) {
			i++
			continue
		}
		g := []int{i}
		i++
		for i < n && !IsHeaderPage(texts[i]) &&
			(IsTableishPage(texts[i]) || strings.TrimSpace(texts[i]) == "") {
			g = append(g, i)
			i++
		}
		groups = append(groups, g)
	}
	return groups
}
