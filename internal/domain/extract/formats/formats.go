// Package formats contains one extractor per supported bank statement
// layout. Each format is a self-contained grammar: a recognizer keyed on a
// marker unique to that bank's statements, header field patterns, and
// either a line grammar for the shared assembler or a table-row scan.
//
// The formats are deliberately independent of each other. Banks change
// layouts unilaterally, so correctness here is per-format: a fix to one
// grammar must never be able to alter another format's output.
package formats

import (
	"regexp"
	"strings"

	"github.com/mkallio/statement-converter/internal/domain/extract"
)

// Registry returns the format registry with every supported bank
// registered. Registration order is stable but not significant: the
// registry rejects documents matched by more than one recognizer.
func Registry() *extract.Registry {
	return extract.NewRegistry(
		ABNAmro{},
		SwedbankLT{},
		SwedbankLV{},
		Aktia{},
		ING{},
		NarpesSparbank{},
		OPBank{},
		Citadele{},
		Rabobank{},
		Luminor{},
		SEB{},
	)
}

// textAfter returns the remainder of line after the first occurrence of
// marker, trimmed, or "" when the marker is absent.
func textAfter(line, marker string) string {
	_, rest, ok := strings.Cut(line, marker)
	if !ok {
		return ""
	}
	return strings.TrimSpace(rest)
}

// textBefore returns the part of line before the first occurrence of
// marker, trimmed, or "" when the marker is absent.
func textBefore(line, marker string) string {
	prefix, _, ok := strings.Cut(line, marker)
	if !ok {
		return ""
	}
	return strings.TrimSpace(prefix)
}

// lineAt returns lines[i] trimmed, or "" when the index is out of range.
// Header layouts address fixed line positions; a short first page must
// degrade to empty fields, not panic.
func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[i])
}

// firstGroup runs re against s and returns the first capture group, or "".
func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// cellContains reports whether any cell of a table row contains any of
// the given markers. Table formats use it for their start and stop rows.
func cellContains(row []string, markers ...string) bool {
	for _, cell := range row {
		for _, m := range markers {
			if strings.Contains(cell, m) {
				return true
			}
		}
	}
	return false
}
