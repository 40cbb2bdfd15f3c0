// Package outcome compares the resolved fact of a run with its golden
// baseline and reconciles the result with the case's "fails" flag.
package outcome

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize renders names as one NFC-normalized name per line, sorted,
// with a trailing newline. A name holding newlines counts as several names.
// Blank entries are dropped and surrounding whitespace trimmed. An empty set
// renders as "".
//
// Normalize is idempotent: NormalizeText(Normalize(x)) == Normalize(x).
func Normalize(names []string) string {
	lines := make([]string, 0, len(names))
	for _, name := range names {
		for _, n := range splitLines(name) {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			lines = append(lines, norm.NFC.String(n))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n") + "\n"
}

// NormalizeText normalizes newline-separated baseline text.
func NormalizeText(text string) string {
	return Normalize(splitLines(text))
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
