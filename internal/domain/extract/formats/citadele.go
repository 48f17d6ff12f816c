package formats

import (
	"regexp"
	"strings"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

// Citadele parses AS Citadele banka statements (Latvian konta pārskats).
// Transactions come from the detected table: rows between the opening
// balance row and the outgoing-totals row, with the date in the first or
// second column and the signed amount in one of the trailing columns.
// The source assigns no per-transaction reference, so ids stay empty.
type Citadele struct{}

var (
	citadeleMarker    = `AS "Citadele banka" Reģ.`
	citadeleHolderRe  = regexp.MustCompile(`(?s)Konta pārskats\s*(.*?)\s*Personas kods/Pases Nr\.`)
	citadeleIDRe      = regexp.MustCompile(`Personas kods/Pases Nr\.:?\s*(\d{6}-\d{5})`)
	citadeleAccountRe = regexp.MustCompile(`Konta numurs \(IBAN\):\s*(LV\d{2}[A-Z0-9]{15})`)
	citadelePeriodRe  = regexp.MustCompile(`No\s+(\d{2}\.\d{2}\.\d{4})\s+līdz\s+(\d{2}\.\d{2}\.\d{4})`)
	citadeleOpeningRe = regexp.MustCompile(`Sākuma atlikums:\s*([\d,.]+)`)
	citadeleDateRe    = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}`)
)

func (Citadele) BIC() string { return "PARXLV22" }

func (Citadele) Recognize(doc *pdfdoc.Document) bool {
	return strings.Contains(doc.Text(), citadeleMarker)
}

func (c Citadele) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	text := doc.Text()

	st := &statement.Statement{
		Bank: statement.Bank{
			Name:    "AS Citadele banka",
			Address: "Republikas laukums 2A",
			RegNo:   "40103303559",
			BIC:     c.BIC(),
		},
	}

	st.AccountHolder = extract.CollapseSpaces(firstGroup(citadeleHolderRe, text))
	st.AccountHolderID = firstGroup(citadeleIDRe, text)
	st.AccountHolderAddress = citadeleAddress(text, st.AccountHolderID)
	st.AccountNumber = firstGroup(citadeleAccountRe, text)
	if m := citadelePeriodRe.FindStringSubmatch(text); m != nil {
		st.Period = m[1] + " - " + m[2]
	}
	st.InitialBalance, _ = extract.NormalizeUnsigned(firstGroup(citadeleOpeningRe, text))

	for _, page := range doc.Pages {
		st.Transactions = append(st.Transactions, citadelePageRows(page)...)
	}
	return st, nil
}

// citadeleAddress takes the text between the personal code and the IBAN
// label, dropping the first line (the remainder of the code's own row).
func citadeleAddress(text, holderID string) string {
	if holderID == "" {
		return ""
	}
	idx := strings.Index(text, holderID)
	if idx < 0 {
		return ""
	}
	segment := text[idx+len(holderID):]
	if end := strings.Index(segment, "Konta numurs (IBAN):"); end >= 0 {
		segment = segment[:end]
	}
	parts := strings.SplitN(segment, "\n", 2)
	if len(parts) < 2 {
		return ""
	}
	return extract.CollapseSpaces(parts[1])
}

// citadelePageRows scans the tables of a single page. The opening-balance
// marker restarts on every page: continuation pages repeat the balance
// header row above their slice of the ledger.
func citadelePageRows(page pdfdoc.Page) []statement.Transaction {
	var txs []statement.Transaction
	started := false
	for _, table := range page.Tables {
		for _, row := range table {
			if !started {
				if cellContains(row, "Sākuma atlikums") {
					started = true
				}
				continue
			}
			if cellContains(row, "Izejošie maksājumi", "Debeta apgrozījums") {
				return txs
			}
			if tx, ok := citadeleRow(row); ok {
				txs = append(txs, tx)
			}
		}
	}
	return txs
}

func citadeleRow(row []string) (statement.Transaction, bool) {
	if len(row) < 2 {
		return statement.Transaction{}, false
	}
	tx := statement.Transaction{}
	switch {
	case citadeleDateRe.MatchString(strings.TrimSpace(row[0])):
		tx.Date = strings.TrimSpace(row[0])
		tx.Beneficiary = extract.CollapseSpaces(cellAt(row, 1))
		tx.Details = extract.CollapseSpaces(cellAt(row, 2))
	case citadeleDateRe.MatchString(strings.TrimSpace(row[1])):
		tx.Date = strings.TrimSpace(row[1])
		tx.Beneficiary = extract.CollapseSpaces(cellAt(row, 2))
		tx.Details = extract.CollapseSpaces(cellAt(row, 3))
	default:
		return statement.Transaction{}, false
	}

	raw := strings.TrimSpace(cellAt(row, len(row)-1))
	if raw == "" {
		raw = strings.TrimSpace(cellAt(row, len(row)-2))
	}
	// Only explicitly signed cells are amounts; anything else in the
	// trailing columns is a running balance or page furniture.
	if !strings.HasPrefix(raw, "+") && !strings.HasPrefix(raw, "-") {
		return statement.Transaction{}, false
	}
	amount, ind, ok := extract.NormalizeAmount(raw)
	if !ok {
		return statement.Transaction{}, false
	}
	tx.Amount = amount
	tx.CdtDbtInd = ind
	return tx, true
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
