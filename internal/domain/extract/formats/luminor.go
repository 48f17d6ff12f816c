package formats

import (
	"regexp"
	"strings"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

// Luminor parses Luminor Bank statements, printed bilingually in Latvian
// and Russian. Transactions come from the detected table between the
// opening-balance row and the outgoing-totals row; the debit amount
// column precedes the credit one, so direction follows from which column
// holds the value. The source assigns no transaction ids.
type Luminor struct{}

var (
	luminorHolderRe  = regexp.MustCompile(`(?:Обзор счета|Konta pārskats)\s+(.+?)\s+\d`)
	luminorIDRe      = regexp.MustCompile(`\d{6}-\d{5}`)
	luminorAccountRe = regexp.MustCompile(`(?:Счет:|Konts:)\s+(LV\d{2}RIKO\d{13})`)
	luminorPeriodRe  = regexp.MustCompile(`(?:Отчетный период:|Pārskata periods:)\s+(\d{2}\.\d{2}\.\d{4}\s+-\s+\d{2}\.\d{2}\.\d{4})`)
	luminorOpeningRe = regexp.MustCompile(`(?:Начальный остаток|Sākuma atlikums):\s+\+?([\d,.]+)\s+EUR`)

	luminorStartMarkers = []string{"Начальный остаток", "Sākuma atlikums"}
	luminorStopMarkers  = []string{"Итого исходящие:", "Kopā izejošie:"}
)

func (Luminor) BIC() string { return "RIKOLV2X" }

func (l Luminor) Recognize(doc *pdfdoc.Document) bool {
	return strings.Contains(doc.Text(), l.BIC())
}

func (l Luminor) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	text := doc.Text()

	st := &statement.Statement{
		Bank: statement.Bank{
			Name: "Luminor Bank AS",
			BIC:  l.BIC(),
		},
	}
	st.AccountHolder = firstGroup(luminorHolderRe, text)
	st.AccountHolderID = luminorIDRe.FindString(text)
	st.AccountNumber = firstGroup(luminorAccountRe, text)
	st.Period = extract.CollapseSpaces(firstGroup(luminorPeriodRe, text))
	st.InitialBalance, _ = extract.NormalizeUnsigned(firstGroup(luminorOpeningRe, text))

	st.Transactions = luminorRows(doc.Tables())
	return st, nil
}

// luminorRows walks table rows across all pages with a single pass:
// collection starts after the opening-balance row and stops for good at
// the outgoing-totals row.
func luminorRows(tables []pdfdoc.Table) []statement.Transaction {
	var txs []statement.Transaction
	started := false
	for _, table := range tables {
		for _, row := range table {
			if !started {
				if cellContains(row, luminorStartMarkers...) {
					started = true
				}
				continue
			}
			if cellContains(row, luminorStopMarkers...) {
				return txs
			}
			if tx, ok := luminorRow(row); ok {
				txs = append(txs, tx)
			}
		}
	}
	return txs
}

func luminorRow(row []string) (statement.Transaction, bool) {
	if len(row) < 3 {
		return statement.Transaction{}, false
	}
	tx := statement.Transaction{
		Date:        strings.TrimSpace(row[0]),
		Beneficiary: extract.CollapseSpaces(row[1]),
		Details:     extract.CollapseSpaces(row[2]),
	}

	debit := strings.TrimSpace(cellAt(row, 3))
	credit := strings.TrimSpace(cellAt(row, 4))
	var raw string
	switch {
	case debit != "":
		raw = debit
		tx.CdtDbtInd = statement.Debit
	case credit != "":
		raw = credit
		tx.CdtDbtInd = statement.Credit
	default:
		return statement.Transaction{}, false
	}
	amount, ok := extract.NormalizeUnsigned(strings.Trim(raw, "+-"))
	if !ok {
		return statement.Transaction{}, false
	}
	tx.Amount = amount
	return tx, true
}
