package scan

import (
	"strconv"
	"strings"
)

// mismatchTable maps OCR misreadings seen in stat cells back to digits.
// Replacements are applied in order; longer keys sit before their substrings
// so both stay reachable (e.g. "LL" before "L").
var mismatchTable = []struct {
	wrong string
	right string
}{
	{"No text found", "0"},
	{"N0 text f0und", "0"},
	{"LL", "11"},
	{"O1", "10"},
	{"сл", "5"}, // cyrillic, shows up on thin 5s
	{"L", "1"},
	{"o", "0"},
	{"о", "0"}, // cyrillic o
	{"°", "0"},
	{"י", "1"},
	{"N", "2"},
}

// CorrectMismatches applies the static substitution table to a raw cell token.
func CorrectMismatches(text string) string {
	for _, c := range mismatchTable {
		text = strings.ReplaceAll(text, c.wrong, c.right)
	}
	return strings.TrimSpace(text)
}

// CleanStat strips non-numeric characters from a corrected token and parses
// it as a stat value. Unparsable tokens and negatives collapse to 0; a stat
// triple is always non-negative after cleaning.
func CleanStat(token string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, token)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
