package scan

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Trailing parenthesized year, e.g. "3096 Dias (2013)".
	trailingYearRe = regexp.MustCompile(`\s*\((\d{4})\)\s*$`)

	// Bare year anywhere in the name, e.g. "Movie.Name.2020.1080p".
	bareYearRe = regexp.MustCompile(`(?:^|[^\d])((19|20)\d{2})(?:[^\d]|$)`)

	// Release tags stripped from titles. Go's regexp has no lookarounds, so
	// digit adjacency is checked separately in removeReleaseTags.
	releaseTagRe = regexp.MustCompile(`(?i)(720p|1080p|2160p|BluRay|x264|WEB-DL|HEVC|XviD|HDR|DTS)`)
)

const separatorChars = "-_.()[]"

// ExtractTitleAndYear cleans a video filename into a searchable title and an
// optional release year. It is pure and total: the worst case is the trimmed
// stem returned unchanged with an empty year.
func ExtractTitleAndYear(filename string) (string, string) {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if stem == "" {
		return "", ""
	}

	stem, year := splitYear(stem)
	stem = replaceSeparators(stem)
	stem = removeReleaseTags(stem)

	// Collapse runs of whitespace left behind by the removals.
	stem = strings.Join(strings.Fields(stem), " ")
	return strings.TrimSpace(stem), year
}

// splitYear removes the year component from the stem and returns it
// separately. A trailing "(YYYY)" wins; otherwise the first bare year cuts
// the title short the way encoded release names lay it out.
func splitYear(stem string) (string, string) {
	if m := trailingYearRe.FindStringSubmatch(stem); m != nil {
		return strings.TrimSpace(trailingYearRe.ReplaceAllString(stem, "")), m[1]
	}

	if m := bareYearRe.FindStringSubmatch(stem); m != nil {
		year := m[1]
		if idx := strings.Index(stem, year); idx > 0 {
			return strings.TrimRight(stem[:idx], " ([{-_"), year
		}
	}

	return stem, ""
}

// replaceSeparators turns separator characters into spaces unless either
// neighbor is a digit, so numeric title fragments like "3096 Dias" survive.
func replaceSeparators(stem string) string {
	runes := []rune(stem)
	out := make([]rune, len(runes))
	for i, r := range runes {
		if strings.ContainsRune(separatorChars, r) && !digitAdjacent(runes, i) {
			out[i] = ' '
			continue
		}
		out[i] = r
	}
	return string(out)
}

// removeReleaseTags drops known quality/codec/source markers, keeping any
// occurrence glued to a digit on either side.
func removeReleaseTags(stem string) string {
	matches := releaseTagRe.FindAllStringIndex(stem, -1)
	if len(matches) == 0 {
		return stem
	}

	var b strings.Builder
	prev := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if neighborIsDigit(stem, start-1) || neighborIsDigit(stem, end) {
			continue
		}
		b.WriteString(stem[prev:start])
		b.WriteString(" ")
		prev = end
	}
	b.WriteString(stem[prev:])
	return b.String()
}

func digitAdjacent(runes []rune, i int) bool {
	if i > 0 && isDigit(runes[i-1]) {
		return true
	}
	if i+1 < len(runes) && isDigit(runes[i+1]) {
		return true
	}
	return false
}

func neighborIsDigit(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	return isDigit(rune(s[i]))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
