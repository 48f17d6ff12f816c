package formats

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

// Rabobank parses Rabobank statements. Transaction lines open with a
// DD-MM booking date and end with the amount; the debit and credit
// amounts print in separate columns, so direction comes from the amount's
// horizontal position. Detail lines accumulate until the next entry, and
// a "Verwerkingsdatum" detail overrides the booking date.
type Rabobank struct{}

// Amounts starting at or beyond this column sit in the credit ("Bij")
// column of the rendered layout; anything left of it is a debit ("Af").
const raboCreditColumn = 60

var (
	raboMarkerRe  = regexp.MustCompile(`NL\d{2} RABO`)
	raboAccountRe = regexp.MustCompile(`NL\d{2} RABO \d{4} \d{4} \d{2}`)
	raboDateRe    = regexp.MustCompile(`\d{2}-\d{2}-\d{4}`)
	raboBalanceRe = regexp.MustCompile(`([\d.,]+) CR`)
	raboAnchorRe  = regexp.MustCompile(`^(\d{2}-\d{2})\s+(.*?)\s+([\d.,]+)$`)
	raboProcDtRe  = regexp.MustCompile(`Verwerkingsdatum:\s*(\d{2}-\d{2}-\d{4})`)
)

func (Rabobank) BIC() string { return "RABONL2U" }

// Recognize keys on the bank code inside the printed IBAN; these
// statements carry no literal BIC marker.
func (Rabobank) Recognize(doc *pdfdoc.Document) bool {
	return raboMarkerRe.MatchString(doc.Text())
}

func (r Rabobank) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	lines := doc.Lines()
	if len(lines) < 13 {
		return nil, &extract.FormatMismatchError{BIC: r.BIC(), Reason: "header block shorter than expected"}
	}

	st := &statement.Statement{
		Bank: statement.Bank{
			Name:    "Rabobank",
			Address: "Croeselaan 18 3521 CB Utrecht The Netherlands",
			RegNo:   "30046259",
			VATCode: "NL001797931B01",
			BIC:     r.BIC(),
		},
	}

	// The holder line interleaves name and account-type columns; the
	// name is the first and third whitespace fields.
	if fields := strings.Fields(lineAt(lines, 5)); len(fields) >= 3 {
		st.AccountHolder = fields[0] + " " + fields[2]
	}
	st.AccountHolderAddress = lineAt(lines, 6)

	startDate := raboDateRe.FindString(lineAt(lines, 8))
	if startDate != "" {
		st.InitialBalance, _ = extract.NormalizeUnsigned(firstGroup(raboBalanceRe, lineAt(lines, 8)))
	}
	endDate := raboDateRe.FindString(lineAt(lines, 10))
	if endDate != "" {
		st.ClosingBalance, _ = extract.NormalizeUnsigned(firstGroup(raboBalanceRe, lineAt(lines, 10)))
	}
	switch {
	case startDate != "" && endDate != "":
		st.Period = startDate + " - " + endDate
	case startDate != "":
		st.Period = startDate
	}
	st.AccountNumber = extract.StripSpaces(raboAccountRe.FindString(lineAt(lines, 12)))

	st.Transactions = raboGrammar.Run(lines)
	return st, nil
}

var raboGrammar = extract.LineGrammar{
	Anchor: func(line string) (statement.Transaction, bool) {
		m := raboAnchorRe.FindStringSubmatch(line)
		if m == nil {
			return statement.Transaction{}, false
		}
		norm, ok := extract.NormalizeUnsigned(m[3])
		if !ok {
			return statement.Transaction{}, false
		}
		d, err := decimal.NewFromString(norm)
		if err != nil {
			return statement.Transaction{}, false
		}
		ind := statement.Debit
		if strings.LastIndex(line, m[3]) >= raboCreditColumn {
			ind = statement.Credit
		}
		return statement.Transaction{
			Date:        m[1],
			Beneficiary: strings.TrimSpace(m[2]),
			Amount:      d.StringFixed(2),
			CdtDbtInd:   ind,
		}, true
	},
	Detail: func(tx *statement.Transaction, line string) (string, bool) {
		if m := raboProcDtRe.FindStringSubmatch(line); m != nil {
			tx.Date = m[1]
			return "", false
		}
		return line, true
	},
	DetailJoin: " | ",
	AssignIDs:  true,
}
