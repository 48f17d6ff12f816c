package formats

import (
	"regexp"
	"strings"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

// ABNAmro parses ABN AMRO business statements. The Dutch layout renders
// transactions as free text: a dd-mm-yyyy date column, the counterparty,
// and a comma-decimal amount in the last column, followed by wrapped
// detail lines until the next date or the debit-count footer.
type ABNAmro struct{}

var (
	abnSaldoRe  = regexp.MustCompile(`Saldo\s+\d{2}-\d{2}-\d{4}\s+€\s+([\d.,]+)`)
	abnPeriodRe = regexp.MustCompile(`\d{2}-\d{2}-\d{4}`)
)

func (ABNAmro) BIC() string { return "ABNANL2A" }

// Recognize keys on the ledger heading of the first page.
func (ABNAmro) Recognize(doc *pdfdoc.Document) bool {
	return strings.Contains(strings.Join(doc.FirstPageLines(), "\n"), "Bij- en afschrijvingen")
}

func (a ABNAmro) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	first := doc.FirstPageLines()
	if len(first) == 0 {
		return nil, &extract.FormatMismatchError{BIC: a.BIC(), Reason: "first page has no rendered text"}
	}

	st := &statement.Statement{
		Bank: statement.Bank{
			Name:    "ABN AMRO",
			Address: "Gustav Mahlerlaan 10, 1082 PP",
			VATCode: "NL820646660B01",
			BIC:     a.BIC(),
		},
	}

	for i, line := range first {
		if strings.Contains(line, "Rekeninghouder") {
			st.AccountHolder = textAfter(line, "Rekeninghouder")
			addr := lineAt(first, i+1)
			if next := lineAt(first, i+2); next != "" {
				addr += " " + next
			}
			st.AccountHolderAddress = strings.TrimSpace(addr)
		}
		if strings.Contains(line, "Ondernemersrekenin") {
			// The label sometimes renders with its final letter split off,
			// so match the stem and drop a stray "g" remnant.
			rest := textAfter(line, "Ondernemersrekenin")
			st.AccountHolderID = strings.TrimSpace(strings.TrimPrefix(rest, "g"))
		}
		if strings.Contains(line, "Periode") {
			period := textAfter(line, "Periode")
			if cut := textBefore(period, "Aantal afschrijvingen"); cut != "" {
				period = cut
			}
			st.Period = strings.ReplaceAll(period, "t/m", "-")
			if dates := abnPeriodRe.FindAllString(period, -1); len(dates) == 2 {
				st.Date = dates[1]
			}
		}
	}

	// First Saldo line is the opening balance, second the closing one.
	if saldos := abnSaldoRe.FindAllStringSubmatch(doc.Text(), -1); len(saldos) > 0 {
		st.InitialBalance, _ = extract.NormalizeUnsigned(saldos[0][1])
		if len(saldos) > 1 {
			st.ClosingBalance, _ = extract.NormalizeUnsigned(saldos[1][1])
		}
	}

	st.Transactions = abnGrammar.Run(doc.Lines())
	return st, nil
}

// abnGrammar anchors on a dd-mm-yyyy first column whose line ends in a
// comma-decimal amount. Credits carry only date, counterparty and amount
// (three columns); any extra column means a debit entry.
var abnGrammar = extract.LineGrammar{
	Anchor: func(line string) (statement.Transaction, bool) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return statement.Transaction{}, false
		}
		date := fields[0]
		if len(date) != 10 || date[2] != '-' || date[5] != '-' {
			return statement.Transaction{}, false
		}
		last := fields[len(fields)-1]
		if len(last) <= 2 || last[len(last)-3] != ',' || !isDigits(last[len(last)-2:]) {
			return statement.Transaction{}, false
		}
		amount, ok := extract.NormalizeUnsigned(last)
		if !ok {
			return statement.Transaction{}, false
		}
		ind := statement.Debit
		if len(fields) == 3 {
			ind = statement.Credit
		}
		return statement.Transaction{
			Date:        date,
			Beneficiary: strings.Join(fields[1:len(fields)-1], " "),
			Amount:      amount,
			CdtDbtInd:   ind,
		}, true
	},
	Stop: func(line string) bool {
		return strings.Contains(line, "Aantal afschrijvingen")
	},
	DetailJoin: "\n",
	AssignIDs:  true,
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
