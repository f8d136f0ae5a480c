package parsing

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/committee-minutes/internal/types"
)

// minSharedWordRatio is the share of long words two titles must have in
// common to be considered the same topic.
const minSharedWordRatio = 0.5

// minSignificantWordLen excludes short words (articles, prepositions) from
// the shared-word ratio.
const minSignificantWordLen = 4

var titlePunctuation = strings.NewReplacer(";", "", ":", "", ",", "", ".", "")

// MatchPVToAgenda binds parsed minutes items to the existing agenda items
// they describe. Parsed items are taken in order and each binds to the first
// still-unbound existing item whose title matches. The result is keyed by
// existing item id; parsed items that found no partner are absent.
func MatchPVToAgenda(parsed, existing []types.AgendaItem) map[string]types.AgendaItem {
	matches := make(map[string]types.AgendaItem)
	bound := make([]bool, len(existing))

	normalized := make([]string, len(existing))
	for i, item := range existing {
		normalized[i] = NormalizeTitle(item.Title)
	}

	for _, p := range parsed {
		title := NormalizeTitle(p.Title)
		for i, e := range existing {
			if bound[i] || !titlesMatch(title, normalized[i]) {
				continue
			}
			bound[i] = true
			matches[e.ID] = p
			break
		}
	}
	return matches
}

// NormalizeTitle lowercases a title, drops ;:,. and collapses whitespace.
func NormalizeTitle(title string) string {
	return collapseWhitespace(titlePunctuation.Replace(strings.ToLower(title)))
}

// TitlesMatch reports whether two raw titles describe the same topic.
func TitlesMatch(a, b string) bool {
	return titlesMatch(NormalizeTitle(a), NormalizeTitle(b))
}

func titlesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return sharedWordRatio(a, b) >= minSharedWordRatio
}

// sharedWordRatio counts the long words of the shorter title that also
// appear in the other one.
func sharedWordRatio(a, b string) float64 {
	wa, wb := significantWords(a), significantWords(b)
	if len(wa) > len(wb) {
		wa, wb = wb, wa
	}
	if len(wa) == 0 {
		return 0
	}

	other := make(map[string]bool, len(wb))
	for _, w := range wb {
		other[w] = true
	}
	shared := 0
	for _, w := range wa {
		if other[w] {
			shared++
		}
	}
	return float64(shared) / float64(len(wa))
}

func significantWords(title string) []string {
	var words []string
	for _, w := range strings.Fields(title) {
		if utf8.RuneCountInString(w) >= minSignificantWordLen {
			words = append(words, w)
		}
	}
	return words
}
