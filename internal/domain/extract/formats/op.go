package formats

import (
	"regexp"
	"strings"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

// OPBank parses OP Financial Group statements (Finnish tiliote).
// Transaction lines are keyed on booking-type keywords (TILISIIRTO,
// PALVELUMAKSU, VIITESIIRTO, PANO) next to a DD.MM.YY date; the amount
// carries an explicit sign and space-grouped thousands. SALDO and
// NOSTOVARA lines terminate detail collection.
type OPBank struct{}

var (
	opStatementDateRe = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	opAccountRe       = regexp.MustCompile(`Tilinumero IBAN:\s+([A-Z]+\d{2}\s+\d{4}\s+\d{4}\s+\d{4}\s+\d{2})\s+BIC:`)
	opSaldoRe         = regexp.MustCompile(`SALDO\s+\d{1,2}\.\d{1,2}\.\d{4}\s+([+-]\s?\d{1,3}(?:\s?\d{3})*,\d{2})`)
	opTxDateRe        = regexp.MustCompile(`\d{2}\.\d{2}\.\d{2}`)
	opAmountRe        = regexp.MustCompile(`[+-]\s?\d{1,3}(?:\s?\d{3})*,\d{2}`)

	opTxKeywords   = []string{"TILISIIRTO", "PALVELUMAKSU", "VIITESIIRTO", "PANO"}
	opStopKeywords = []string{"SALDO", "NOSTOVARA", "OTOT YHTEENSÄ"}
)

func (OPBank) BIC() string { return "OKOYFIHH" }

func (o OPBank) Recognize(doc *pdfdoc.Document) bool {
	return strings.Contains(doc.Text(), o.BIC())
}

func (o OPBank) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	text := doc.Text()
	lines := doc.Lines()

	st := &statement.Statement{
		Bank: statement.Bank{
			Name:    "OP FIN",
			Address: "Gebhardinaukio 1, Helsinki",
			RegNo:   "0242522-1",
			BIC:     o.BIC(),
		},
	}

	if m := opStatementDateRe.FindStringSubmatch(text); m != nil {
		st.Date = pad2(m[1]) + "." + pad2(m[2]) + "." + m[3]
	}
	st.AccountNumber = extract.StripSpaces(firstGroup(opAccountRe, text))

	// First SALDO is the opening balance, the last one the closing.
	if saldos := opSaldoRe.FindAllStringSubmatch(text, -1); len(saldos) > 0 {
		st.InitialBalance = opBalance(saldos[0][1])
		st.ClosingBalance = opBalance(saldos[len(saldos)-1][1])
	}

	st.Period = strings.TrimSpace(strings.ReplaceAll(lineAt(lines, 1), "Ajalta", ""))
	for i, line := range lines {
		if strings.Contains(line, "Ajalta") {
			st.AccountHolder = lineAt(lines, i+2)
			st.AccountHolderAddress = lineAt(lines, i+3)
			break
		}
	}

	st.Transactions = opGrammar.Run(lines)
	return st, nil
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// opBalance keeps a leading minus on balances but normalizes the digits.
func opBalance(raw string) string {
	raw = strings.ReplaceAll(raw, " ", "")
	neg := strings.HasPrefix(raw, "-")
	norm, ok := extract.NormalizeUnsigned(strings.Trim(raw, "+-"))
	if !ok {
		return ""
	}
	if neg {
		return "-" + norm
	}
	return norm
}

func opKeyed(line string) bool {
	for _, kw := range opTxKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

var opGrammar = extract.LineGrammar{
	Anchor: func(line string) (statement.Transaction, bool) {
		if !opKeyed(line) {
			return statement.Transaction{}, false
		}
		date := opTxDateRe.FindString(line)
		if date == "" {
			return statement.Transaction{}, false
		}
		tx := statement.Transaction{Date: date}
		if fields := strings.Fields(line); len(fields) > 0 {
			tx.Beneficiary = fields[0]
		}
		// The amount may be missing on a malformed entry; the
		// transaction is still kept, just without direction.
		if raw := strings.ReplaceAll(opAmountRe.FindString(line), " ", ""); raw != "" {
			if amount, ind, ok := extract.NormalizeAmount(raw); ok {
				tx.Amount = amount
				tx.CdtDbtInd = ind
			}
		}
		return tx, true
	},
	Stop: func(line string) bool {
		for _, kw := range opStopKeywords {
			if strings.Contains(line, kw) {
				return true
			}
		}
		return false
	},
	// A booking keyword without a date is a broken entry line, not a
	// detail of the previous transaction.
	Detail: func(_ *statement.Transaction, line string) (string, bool) {
		if opKeyed(line) {
			return "", false
		}
		return line, true
	},
	DetailJoin: " ",
	AssignIDs:  true,
}
