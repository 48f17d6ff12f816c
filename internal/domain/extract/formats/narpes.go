package formats

import (
	"regexp"
	"strings"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

// NarpesSparbank parses Närpes Sparbank statements (Swedish-language
// Finnish kontoutdrag). The transaction section starts after a column
// header line; entries anchor on a DD.MM payment date, the amount is the
// rightmost comma-decimal token, and detail lines accumulate until the
// next entry. Card details are cut at the acquirer reference ("ARN:").
type NarpesSparbank struct{}

var (
	narpesDateRe    = regexp.MustCompile(`AB\s+(\d{2}\.\d{2}\.\d{4})`)
	narpesNameRe    = regexp.MustCompile(`NÄRPES\s+(.*?)\s+AB`)
	narpesAccountRe = regexp.MustCompile(`(?s)Mottagare\s+IBAN-kontonummer\s+(.*?)\s+FI(\d{2}\s+\d{4}\s+\d{4}\s+\d{4}\s+\d{2})(.*?)\s+BIC-kod`)
	narpesPeriodRe  = regexp.MustCompile(`NÄRPESVÄGEN 13\s+(\d{2}\.\d{2}\.\d{4}) - (\d{2}\.\d{2}\.\d{4})`)
	narpesSaldoRe   = regexp.MustCompile(`SALDO\s+\d{2}\.\d{2}\.\d{4}\s+([+-]?\d{1,3}(?:\.\d{3})*,\d{2})`)
	narpesRepeatRe  = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}\s+-\s+\d{2}\.\d{2}\.\d{4}`)
	narpesAnchorRe  = regexp.MustCompile(`^\d{2}\.\d{2}`)
	narpesAmountRe  = regexp.MustCompile(`^[+-]?\d+(?:,\d{3})*,\d+$`)

	narpesHeader = "BetalningsdagValördag Förklaring EUR"
)

func (NarpesSparbank) BIC() string { return "ITELFIHH" }

func (n NarpesSparbank) Recognize(doc *pdfdoc.Document) bool {
	return strings.Contains(doc.Text(), n.BIC())
}

func (n NarpesSparbank) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	text := doc.Text()

	st := &statement.Statement{
		Bank: statement.Bank{
			Name:    firstGroup(narpesNameRe, text),
			Address: "HUVUDKONTOR NÄRPES NÄRPESVÄGEN 13",
			RegNo:   "0104239000",
			BIC:     n.BIC(),
		},
	}
	st.Date = firstGroup(narpesDateRe, text)

	if m := narpesAccountRe.FindStringSubmatch(text); m != nil {
		holderBlock := strings.TrimSpace(m[1])
		st.AccountHolder = strings.TrimSpace(strings.SplitN(holderBlock, "\n", 2)[0])
		st.AccountNumber = "FI" + extract.StripSpaces(m[2])
		st.AccountHolderAddress = extract.CollapseSpaces(m[3])
	}

	if m := narpesPeriodRe.FindStringSubmatch(text); m != nil {
		st.Period = m[1] + " - " + m[2]
	}
	if raw := firstGroup(narpesSaldoRe, text); raw != "" {
		st.InitialBalance, _ = extract.NormalizeUnsigned(strings.Trim(raw, "+-"))
	}

	st.Transactions = narpesGrammar.Run(narpesTxLines(doc))
	return st, nil
}

// narpesTxLines collects the transaction-section lines: everything after
// the column header on its first page, and on continuation pages
// everything after the repeated period line.
func narpesTxLines(doc *pdfdoc.Document) []string {
	var out []string
	started := false
	for _, page := range doc.Pages {
		if !started {
			for i, line := range page.Lines {
				if strings.Contains(line, narpesHeader) {
					started = true
					out = append(out, page.Lines[i+1:]...)
					break
				}
			}
			continue
		}
		rest := page.Lines
		for i, line := range page.Lines {
			if narpesRepeatRe.MatchString(line) {
				rest = page.Lines[i+1:]
				break
			}
		}
		out = append(out, rest...)
	}
	return out
}

var narpesGrammar = extract.LineGrammar{
	Anchor: func(line string) (statement.Transaction, bool) {
		if !narpesAnchorRe.MatchString(line) {
			return statement.Transaction{}, false
		}
		parts := strings.Fields(line)
		amountIdx := -1
		for i := len(parts) - 1; i > 0; i-- {
			if narpesAmountRe.MatchString(parts[i]) {
				amountIdx = i
				break
			}
		}
		if amountIdx < 1 {
			return statement.Transaction{}, false
		}
		raw := parts[amountIdx]
		amount, ok := extract.NormalizeUnsigned(strings.Trim(raw, "+-"))
		if !ok {
			return statement.Transaction{}, false
		}
		ind := statement.Debit
		if strings.HasPrefix(raw, "+") {
			ind = statement.Credit
		}

		// Between date and amount: the counterparty, possibly wrapped in
		// a valördag (second DD.MM token) or an "/A" account marker.
		ben := parts[1:amountIdx]
		if len(ben) > 0 {
			if last := ben[len(ben)-1]; strings.HasSuffix(last, "/A") || narpesAnchorRe.MatchString(last) {
				ben = ben[:len(ben)-1]
			}
		}
		if len(ben) > 0 && narpesAnchorRe.MatchString(ben[0]) {
			ben = ben[1:]
		}

		return statement.Transaction{
			Date:        parts[0][:5],
			Beneficiary: strings.Join(ben, " "),
			Amount:      amount,
			CdtDbtInd:   ind,
		}, true
	},
	Finish: func(details string) string {
		if idx := strings.Index(details, "ARN:"); idx >= 0 {
			return strings.TrimSpace(details[:idx])
		}
		return details
	},
	DetailJoin: " ",
	AssignIDs:  true,
}
