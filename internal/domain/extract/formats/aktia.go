package formats

import (
	"regexp"
	"strings"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

// Aktia parses Aktia Pankki statements (Finnish tiliote). Transactions
// are one-line entries matched by a single pattern: an alphanumeric
// reference, a type letter, a DDMM date, free-text details, and a
// dot-decimal amount with a trailing sign marker.
type Aktia struct{}

var (
	aktiaTxRe      = regexp.MustCompile(`([A-Z0-9]+) [A-Z] (\d{4}) (.+?) (\d+\.\d{2}) ([+-])`)
	aktiaPhoneRe   = regexp.MustCompile(`PUH\.\s+(\d{3}\s+\d{3}\s+\d{3})\s+Kausi`)
	aktiaPeriodRe  = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4} - \d{2}\.\d{2}\.\d{4}`)
	aktiaSaldoRe   = regexp.MustCompile(`SALDO (\d{2}\.\d{2}\.\d{4})`)
	aktiaClosingRe = regexp.MustCompile(`NOSTETTAVISSA\s+([\d.,]+)`)
)

func (Aktia) BIC() string { return "HELSFIHH" }

func (a Aktia) Recognize(doc *pdfdoc.Document) bool {
	return strings.Contains(doc.Text(), a.BIC())
}

func (a Aktia) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	lines := doc.Lines()
	if len(lines) < 7 {
		return nil, &extract.FormatMismatchError{BIC: a.BIC(), Reason: "header block shorter than expected"}
	}

	st := &statement.Statement{
		Bank: statement.Bank{
			Name:    "Aktia Pankki Oyj",
			Address: "Arkadiankatu 4-6, 00100 Helsinki",
			RegNo:   "2181702-8",
			VATCode: "FI21817028",
			BIC:     a.BIC(),
		},
	}

	// Line 3 carries the statement date and the account number side by
	// side; lines 4-6 the address, contact phone and period.
	if date, acct, ok := strings.Cut(lineAt(lines, 3), " "); ok {
		st.Date = date
		st.AccountNumber = extract.StripSpaces(acct)
	}
	st.AccountHolderAddress = lineAt(lines, 4)
	st.AccountHolderID = firstGroup(aktiaPhoneRe, lineAt(lines, 5))
	st.Period = aktiaPeriodRe.FindString(lineAt(lines, 6))

	for _, line := range lines {
		if st.InitialBalance == "" {
			// Only the SALDO entry dated at the period start is the
			// opening balance; later SALDO lines are running totals.
			if m := aktiaSaldoRe.FindStringSubmatch(line); m != nil && m[1] == st.PeriodStart() {
				st.InitialBalance, _ = extract.NormalizeUnsigned(strings.TrimPrefix(textAfter(line, m[1]), "-"))
			}
		}
		if st.ClosingBalance == "" && strings.Contains(line, "NOSTETTAVISSA") {
			st.ClosingBalance, _ = extract.NormalizeUnsigned(firstGroup(aktiaClosingRe, line))
		}
	}

	st.Transactions = aktiaGrammar.Run(lines)
	return st, nil
}

var aktiaGrammar = extract.LineGrammar{
	Anchor: func(line string) (statement.Transaction, bool) {
		m := aktiaTxRe.FindStringSubmatch(line)
		if m == nil {
			return statement.Transaction{}, false
		}
		ind := statement.Debit
		if m[5] == "+" {
			ind = statement.Credit
		}
		return statement.Transaction{
			Date:        m[2][:2] + "/" + m[2][2:],
			Beneficiary: m[1],
			Details:     m[3],
			Amount:      m[4],
			CdtDbtInd:   ind,
		}, true
	},
	Detail: func(_ *statement.Transaction, _ string) (string, bool) {
		return "", false
	},
	DetailJoin: " ",
	AssignIDs:  true,
}
