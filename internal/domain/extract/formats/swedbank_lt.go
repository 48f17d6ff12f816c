package formats

import (
	"regexp"
	"strings"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

// SwedbankLT parses Swedbank Lithuania statements. The header is a fixed
// block of labelled lines; transactions come from the detected table, one
// numbered row per entry with a signed amount and a running balance.
// Unusually for the set, the bank's own identity (name, address,
// registration and VAT data) is printed in the header and extracted
// rather than hardcoded.
type SwedbankLT struct{}

var (
	ltOpeningRe = regexp.MustCompile(`[A-Z]{3} Opening balance \d{4}-\d{2}-\d{2} (\d+\.\d+)`)
	ltClosingRe = regexp.MustCompile(`[A-Z]{3} Closing balance \d{4}-\d{2}-\d{2} (\d+\.\d+)`)
	ltPeriodRe  = regexp.MustCompile(`Period (\d{4}-\d{2}-\d{2}) - (\d{4}-\d{2}-\d{2})`)
)

func (SwedbankLT) BIC() string { return "HABALT22" }

func (s SwedbankLT) Recognize(doc *pdfdoc.Document) bool {
	return strings.Contains(doc.Text(), s.BIC())
}

func (s SwedbankLT) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	lines := doc.Lines()
	if len(lines) < 7 {
		return nil, &extract.FormatMismatchError{BIC: s.BIC(), Reason: "header block shorter than expected"}
	}
	text := doc.Text()

	st := &statement.Statement{Bank: statement.Bank{BIC: s.BIC()}}

	// Lines 1-6 form the header: holder and bank name share a line, the
	// bank name quoted between „ and ”.
	holderLine := lineAt(lines, 1)
	st.AccountHolder = textBefore(holderLine, "„")
	if open := strings.Index(holderLine, "„"); open >= 0 {
		if rest := holderLine[open+len("„"):]; strings.Contains(rest, "”") {
			st.Bank.Name = textBefore(rest, "”")
		}
	}

	idLine := lineAt(lines, 2)
	if rest := textAfter(idLine, "ID No "); rest != "" {
		fields := strings.Fields(rest)
		st.AccountHolderID = fields[0]
		st.Bank.Address = strings.Join(fields[1:], " ")
	}

	regLine := lineAt(lines, 3)
	if before := textBefore(regLine, "Reg.no "); before != "" {
		if parts := strings.Split(before, ","); len(parts) > 1 {
			st.AccountHolderAddress = extract.CollapseSpaces(strings.Join(parts[:len(parts)-1], ","))
		}
	}
	if rest := textAfter(regLine, "Reg.no "); rest != "" {
		st.Bank.RegNo = strings.TrimSpace(strings.Split(rest, ",")[0])
	}
	st.Bank.VATCode = textAfter(regLine, "VAT payer code ")

	if acct := textAfter(lineAt(lines, 4), "Account "); acct != "" {
		st.AccountNumber = extract.StripSpaces(textBefore(acct, " Bank"))
	}

	periodLine := lineAt(lines, 5)
	if fields := strings.Fields(periodLine); len(fields) > 0 {
		st.Bank.RegistrationDate = fields[len(fields)-1]
	}

	// The display period carries the day boundaries as times.
	if m := ltPeriodRe.FindStringSubmatch(text); m != nil {
		st.Period = m[1] + "T00:00:01 - " + m[2] + "T23:59:59"
	}

	st.InitialBalance, _ = extract.NormalizeUnsigned(firstGroup(ltOpeningRe, text))
	st.ClosingBalance, _ = extract.NormalizeUnsigned(firstGroup(ltClosingRe, text))

	for _, table := range doc.Tables() {
		for _, row := range table {
			if tx, ok := ltRow(row); ok {
				st.Transactions = append(st.Transactions, tx)
			}
		}
	}
	return st, nil
}

// ltRow qualifies a table row as a transaction when its first cell is the
// statement's own row number. The source id is kept as-is rather than
// re-sequenced.
func ltRow(row []string) (statement.Transaction, bool) {
	if len(row) < 2 || !isDigits(strings.TrimSpace(row[0])) {
		return statement.Transaction{}, false
	}
	tx := statement.Transaction{
		ID:   strings.TrimSpace(row[0]),
		Date: strings.TrimSpace(row[1]),
	}
	if len(row) > 2 {
		tx.Beneficiary = extract.CollapseSpaces(row[2])
	}
	if len(row) > 3 {
		tx.Details = extract.CollapseSpaces(row[3])
	}
	if len(row) > 4 {
		raw := strings.TrimSpace(row[len(row)-2])
		tx.Balance = strings.TrimSpace(row[len(row)-1])
		amount, ind, ok := extract.NormalizeAmount(raw)
		if ok {
			tx.Amount = amount
			tx.CdtDbtInd = ind
		}
	}
	return tx, true
}
