package formats

import (
	"regexp"
	"strings"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

// SwedbankLV parses Swedbank Latvia statements. Transactions are single
// lines: a row number, a dd.mm.yyyy date, counterparty and details in
// fixed field positions, then a signed amount and the running balance.
type SwedbankLV struct{}

var (
	lvPersonalCodeRe = regexp.MustCompile(`p\.k\.\s*(\d{6}-\d{5})`)
	lvAccountRe      = regexp.MustCompile(`LV\d{2} HABA \d{4} \d{4} \d{4} \d{1}`)
	lvOpeningRe      = regexp.MustCompile(`Sākuma atlikums\s+\d{2}\.\d{2}\.\d{4}\s+(\d+\.\d{2})`)
	lvClosingRe      = regexp.MustCompile(`Beigu atlikums\s+\d{2}\.\d{2}\.\d{4}\s+(\d+\.\d{2})`)
	lvAnchorRe       = regexp.MustCompile(`^\d+\s\d{2}\.\d{2}\.\d{4}`)
	lvBalanceRe      = regexp.MustCompile(`^\d+\.\d{2}$`)
)

func (SwedbankLV) BIC() string { return "HABALV22" }

func (s SwedbankLV) Recognize(doc *pdfdoc.Document) bool {
	return strings.Contains(doc.Text(), s.BIC())
}

func (s SwedbankLV) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	first := doc.FirstPageLines()
	if len(first) == 0 {
		return nil, &extract.FormatMismatchError{BIC: s.BIC(), Reason: "first page has no rendered text"}
	}

	st := &statement.Statement{
		Bank: statement.Bank{
			Name:    "AS Swedbank",
			Address: "Balasta dambis 15, Rīga",
			RegNo:   "40003074764",
			BIC:     s.BIC(),
		},
	}

	for _, line := range first {
		if st.AccountHolder == "" && strings.Contains(line, "AS Swedbank") {
			st.AccountHolder = textBefore(line, "AS Swedbank")
		}
		if st.AccountHolderID == "" {
			st.AccountHolderID = firstGroup(lvPersonalCodeRe, line)
		}
		if st.AccountNumber == "" && strings.Contains(line, "Konts") {
			st.AccountNumber = extract.StripSpaces(lvAccountRe.FindString(line))
		}
		if st.Period == "" && strings.Contains(line, "Periods") {
			period := textAfter(line, "Periods")
			if cut := textBefore(period, "Reģ. Nr."); cut != "" {
				period = cut
			}
			st.Period = period
		}
	}
	st.AccountHolderAddress = lineAt(first, 3)

	text := doc.Text()
	st.InitialBalance, _ = extract.NormalizeUnsigned(firstGroup(lvOpeningRe, text))
	st.ClosingBalance, _ = extract.NormalizeUnsigned(firstGroup(lvClosingRe, text))

	st.Transactions = lvGrammar.Run(doc.Lines())
	return st, nil
}

// lvGrammar anchors on "<row number> <dd.mm.yyyy>". Each transaction is a
// single line; the source row number is ignored and entries re-sequenced.
var lvGrammar = extract.LineGrammar{
	Anchor: func(line string) (statement.Transaction, bool) {
		if !lvAnchorRe.MatchString(line) {
			return statement.Transaction{}, false
		}
		parts := strings.Fields(line)
		if len(parts) < 8 {
			return statement.Transaction{}, false
		}
		raw := parts[len(parts)-2]
		amount, ok := extract.NormalizeUnsigned(strings.Trim(raw, "+-"))
		if !ok {
			return statement.Transaction{}, false
		}
		ind := statement.Debit
		if strings.Contains(raw, "+") {
			ind = statement.Credit
		}
		tx := statement.Transaction{
			Date:        parts[1],
			Beneficiary: strings.Join(parts[2:4], " "),
			Details:     strings.Join(parts[4:6], " "),
			Amount:      amount,
			CdtDbtInd:   ind,
		}
		if last := parts[len(parts)-1]; lvBalanceRe.MatchString(last) {
			tx.Balance = last
		}
		return tx, true
	},
	// Details ride on the anchor line itself; stray lines between
	// transactions belong to the page furniture, not the ledger.
	Detail: func(_ *statement.Transaction, _ string) (string, bool) {
		return "", false
	},
	DetailJoin: " ",
	AssignIDs:  true,
}
