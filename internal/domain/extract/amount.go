package extract

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkallio/statement-converter/internal/domain/statement"
)

// NormalizeAmount converts a source amount token into the canonical
// unsigned decimal string plus its direction. Thousands separators are
// removed, a comma decimal separator becomes a dot, and an explicit
// leading sign is stripped into the indicator; an unsigned token counts
// as a credit. ok is false when the token is not a parseable amount.
func NormalizeAmount(raw string) (amount string, ind statement.Indicator, ok bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.Trim(s, "€$£")

	ind = statement.Credit
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		ind = statement.Debit
		s = s[1:]
	}

	amount, ok = NormalizeUnsigned(s)
	if !ok {
		return "", "", false
	}
	return amount, ind, true
}

// NormalizeUnsigned normalizes a digit string without interpreting any
// sign, for formats whose direction comes from column position or a
// keyword rather than a marker on the amount itself.
//
// When both separators appear, the rightmost is the decimal separator
// ("1.234,56" and "1,234.56" both become "1234.56"). A lone separator
// followed by at most two digits is decimal; otherwise it groups
// thousands.
func NormalizeUnsigned(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return "", false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if len(s)-lastComma-1 <= 2 && strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if len(s)-lastDot-1 > 2 || strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	if _, err := decimal.NewFromString(s); err != nil {
		return "", false
	}
	return s, true
}

// CollapseSpaces trims a fragment and folds internal whitespace runs into
// single spaces, the way every beneficiary and details cell is cleaned.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripSpaces removes every whitespace character, used to normalize
// IBAN-like account numbers.
func StripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
