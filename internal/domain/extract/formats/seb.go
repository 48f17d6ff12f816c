package formats

import (
	"regexp"
	"strings"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

// SEB parses AS SEB Banka statements (Latvian norēķinu konta pārskats).
// Transactions follow a per-page column header line; each entry is a
// single line with a dd.mm.yyyy date, a fused payer/purpose span, and a
// signed comma-decimal amount. The payer and purpose columns are split
// heuristically, keyed on the first long token (payment references run
// well past ordinary words).
type SEB struct{}

var (
	sebMarker    = "Norēķinu konts EUR"
	sebHeader    = "Datums Dok. Maksātājs/Saņēmējs Maksājuma mērķis Summa"
	sebDateRe    = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
	sebPeriodRe  = regexp.MustCompile(`Pārskats par periodu\s+(\d{2}\.\d{2}\.\d{4})\s+-\s+(\d{2}\.\d{2}\.\d{4})`)
	sebAccountRe = regexp.MustCompile(`Norēķinu konts EUR\s+(LV\S.*)`)
	sebClosingRe = regexp.MustCompile(`Beigu atlikums\s+(-?\d+,\d+)`)
	sebAmountRe  = regexp.MustCompile(`-?\d+,\d+`)
	sebAnchorRe  = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{4})\s+(.+?)\s+(-?\d+,\d+)$`)
)

func (SEB) BIC() string { return "UNLALV2X" }

func (SEB) Recognize(doc *pdfdoc.Document) bool {
	return strings.Contains(strings.Join(doc.FirstPageLines(), "\n"), sebMarker)
}

func (s SEB) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	first := doc.FirstPageLines()
	if len(first) == 0 {
		return nil, &extract.FormatMismatchError{BIC: s.BIC(), Reason: "first page has no rendered text"}
	}
	firstText := strings.Join(first, "\n")

	st := &statement.Statement{
		Bank: statement.Bank{
			Name:    "AS SEB Banka",
			Address: "Gustava Zemgala gatve 73",
			RegNo:   "40003816496",
			BIC:     s.BIC(),
		},
	}

	for _, line := range first {
		if strings.Contains(line, sebMarker) {
			st.AccountHolder = textBefore(line, sebMarker)
			st.AccountNumber = extract.StripSpaces(firstGroup(sebAccountRe, line))
			break
		}
	}

	if m := sebPeriodRe.FindStringSubmatch(firstText); m != nil {
		st.Period = m[1] + " - " + m[2]
	} else if dates := sebDateRe.FindAllString(firstText, 2); len(dates) == 2 {
		st.Period = dates[0] + " - " + dates[1]
	}

	st.ClosingBalance = sebBalance(firstGroup(sebClosingRe, firstText))
	for i, line := range first {
		if strings.Contains(line, "Beigu atlikums") && i > 0 {
			st.InitialBalance = sebBalance(sebAmountRe.FindString(first[i-1]))
			break
		}
	}

	st.Transactions = sebGrammar.Run(sebTxLines(doc))
	return st, nil
}

// sebBalance normalizes a signed comma-decimal balance, keeping a minus.
func sebBalance(raw string) string {
	if raw == "" {
		return ""
	}
	neg := strings.HasPrefix(raw, "-")
	norm, ok := extract.NormalizeUnsigned(strings.TrimPrefix(raw, "-"))
	if !ok {
		return ""
	}
	if neg {
		return "-" + norm
	}
	return norm
}

// sebTxLines collects, per page, the lines after the ledger column
// header. Pages without the header contribute nothing.
func sebTxLines(doc *pdfdoc.Document) []string {
	var out []string
	for _, page := range doc.Pages {
		for i, line := range page.Lines {
			if strings.Contains(line, sebHeader) {
				out = append(out, page.Lines[i+1:]...)
				break
			}
		}
	}
	return out
}

var sebGrammar = extract.LineGrammar{
	Anchor: func(line string) (statement.Transaction, bool) {
		m := sebAnchorRe.FindStringSubmatch(line)
		if m == nil {
			return statement.Transaction{}, false
		}
		amount, ok := extract.NormalizeUnsigned(strings.TrimPrefix(m[3], "-"))
		if !ok {
			return statement.Transaction{}, false
		}
		ind := statement.Credit
		if strings.HasPrefix(m[3], "-") {
			ind = statement.Debit
		}
		beneficiary, details := sebSplitSpan(m[2])
		return statement.Transaction{
			Date:        m[1],
			Beneficiary: beneficiary,
			Details:     details,
			Amount:      amount,
			CdtDbtInd:   ind,
		}, true
	},
	Detail: func(_ *statement.Transaction, _ string) (string, bool) {
		return "", false
	},
	DetailJoin: " ",
	AssignIDs:  true,
}

// sebSplitSpan divides the fused payer/purpose span. The purpose begins
// at the first token longer than 15 characters (payment references);
// spans without one split at the midpoint.
func sebSplitSpan(span string) (string, string) {
	words := strings.Fields(span)
	split := len(span) / 2
	if len(words) >= 2 {
		for _, w := range words[1:] {
			if len(w) > 15 {
				split = strings.Index(span, w)
				break
			}
		}
	}
	return strings.TrimSpace(span[:split]), strings.TrimSpace(span[split:])
}
