package formats

import (
	"regexp"
	"strings"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

// ING parses ING business statements (English-language "Statement
// Zakelijke rekening" layout). Transaction lines open with a dd/mm/yyyy
// date; the amount sits after the last explicit sign character, and
// wrapped detail lines follow until a "Value date" footer.
type ING struct{}

var (
	ingDateRe   = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	ingPeriodRe = regexp.MustCompile(`(\d{2}/\d{2}/\d{4}) till (\d{2}/\d{2}/\d{4})`)
)

func (ING) BIC() string { return "INGBNL2A" }

// Recognize keys on the statement title, which opens the first page.
func (ING) Recognize(doc *pdfdoc.Document) bool {
	first := doc.FirstPageLines()
	return len(first) > 0 && strings.Contains(first[0], "Statement Zakelijke rekening")
}

func (g ING) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	first := doc.FirstPageLines()
	if len(first) == 0 {
		return nil, &extract.FormatMismatchError{BIC: g.BIC(), Reason: "first page has no rendered text"}
	}

	st := &statement.Statement{
		Bank: statement.Bank{
			Name:    "ING",
			Address: "Amsterdam, Bijlmerdreef 106",
			RegNo:   "FC010062",
			BIC:     g.BIC(),
		},
	}

	for i, line := range first {
		switch {
		case strings.TrimSpace(line) == "Period":
			next := lineAt(first, i+1)
			if loc := ingDateRe.FindStringIndex(next); loc != nil {
				st.AccountHolder = strings.TrimSpace(next[:loc[0]])
			}
			if m := ingPeriodRe.FindStringSubmatch(next); m != nil {
				st.Period = m[1] + " - " + m[2]
				st.Date = m[2]
			}
		case strings.TrimSpace(line) == "Accountnumber":
			st.AccountNumber = extract.StripSpaces(lineAt(first, i+2))
		case strings.Contains(line, "Opening balance (EUR)"):
			if fields := strings.Fields(lineAt(first, i+1)); len(fields) > 0 {
				st.InitialBalance, _ = extract.NormalizeUnsigned(fields[0])
			}
		case strings.Contains(line, "Closing balance (EUR)"):
			if fields := strings.Fields(lineAt(first, i+1)); len(fields) > 0 {
				st.ClosingBalance, _ = extract.NormalizeUnsigned(fields[0])
			}
		}
	}

	st.Transactions = ingGrammar.Run(doc.Lines())
	return st, nil
}

var ingGrammar = extract.LineGrammar{
	Anchor: func(line string) (statement.Transaction, bool) {
		if len(line) < 11 || !ingDateRe.MatchString(line[:10]) {
			return statement.Transaction{}, false
		}
		var sign string
		switch {
		case strings.Contains(line, "+"):
			sign = "+"
		case strings.Contains(line, "-"):
			sign = "-"
		default:
			return statement.Transaction{}, false
		}
		rest := strings.TrimSpace(line[10:])
		idx := strings.LastIndex(rest, sign)
		amount, ok := extract.NormalizeUnsigned(rest[idx+1:])
		if !ok {
			return statement.Transaction{}, false
		}
		ind := statement.Debit
		if sign == "+" {
			ind = statement.Credit
		}
		return statement.Transaction{
			Date:        line[:10],
			Beneficiary: strings.TrimSpace(rest[:idx]),
			Amount:      amount,
			CdtDbtInd:   ind,
		}, true
	},
	Stop: func(line string) bool {
		return strings.Contains(line, "Value date")
	},
	DetailJoin: "\n",
	AssignIDs:  true,
}
