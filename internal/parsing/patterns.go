package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Markers and heuristics used when walking the blocks of a minutes document.
// Each pattern is wrapped in a small predicate so it can be tested and tuned
// against real documents on its own.
var (
	resolutionMarkerPattern = regexp.MustCompile(`(?i)^\s*RÉSOLUTION\s+(\d{2}-\d+)`)
	commentMarkerPattern    = regexp.MustCompile(`(?i)^\s*COMMENTAIRE\s+(\d{2}-[A-Za-z])\b`)
	formalLanguagePattern   = regexp.MustCompile(`(?i)^\s*(?:CONSIDÉRANT|ATTENDU|RECONNAISSANT|IL\s+EST\s+RÉSOLU)`)
	numberedLinePattern     = regexp.MustCompile(`^\s*\d+\.\s`)
	proposalPattern         = regexp.MustCompile(`(?i)^\s*Sur\s+une\s+proposition`)
	underscoreRulePattern   = regexp.MustCompile(`^\s*_{2,}`)
)

// Length bounds, in characters, for heading heuristics.
const (
	minBoldHeadingLen    = 15 // exclusive
	maxBoldHeadingLen    = 250
	minPotentialTitleLen = 10 // inclusive
	maxPotentialTitleLen = 300
)

// defaultSignatureNames are the officer labels printed under signature lines.
var defaultSignatureNames = []string{"Président", "Présidente", "Secrétaire"}

// ResolutionNumber returns the "NN-NN" number when text opens with a
// resolution marker.
func ResolutionNumber(text string) (string, bool) {
	m := resolutionMarkerPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// CommentNumber returns the "NN-A" number when text opens with a comment
// marker. The letter is upper-cased.
func CommentNumber(text string) (string, bool) {
	m := commentMarkerPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

// IsMarker reports whether text opens a resolution or a comment.
func IsMarker(text string) bool {
	return resolutionMarkerPattern.MatchString(text) || commentMarkerPattern.MatchString(text)
}

// IsFormalLanguage reports whether text starts with one of the legal
// formulas used inside resolutions.
func IsFormalLanguage(text string) bool {
	return formalLanguagePattern.MatchString(text)
}

// IsNumberedLine reports whether text starts like "3. ".
func IsNumberedLine(text string) bool {
	return numberedLinePattern.MatchString(text)
}

// IsProposalLine reports whether text is a "Sur une proposition de ..." line.
func IsProposalLine(text string) bool {
	return proposalPattern.MatchString(text)
}

// IsBoldHeading reports whether an emphasized block reads as a section title.
func IsBoldHeading(text string) bool {
	n := utf8.RuneCountInString(text)
	return n > minBoldHeadingLen && n < maxBoldHeadingLen &&
		!IsFormalLanguage(text) &&
		!IsMarker(text) &&
		!IsNumberedLine(text)
}

// IsPotentialTitle reports whether a plain block could be an unmarked
// section title.
func IsPotentialTitle(text string) bool {
	n := utf8.RuneCountInString(text)
	return n >= minPotentialTitleLen && n <= maxPotentialTitleLen &&
		!IsFormalLanguage(text) &&
		!IsMarker(text) &&
		!IsNumberedLine(text) &&
		!IsProposalLine(text)
}

// isSignatureNoise reports whether text belongs to a signature block.
func isSignatureNoise(text string, names []string) bool {
	if underscoreRulePattern.MatchString(text) {
		return true
	}
	trimmed := strings.TrimSpace(text)
	for _, name := range names {
		if name != "" && strings.HasPrefix(trimmed, name) {
			return true
		}
	}
	return false
}
