package export

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/mkallio/statement-converter/internal/domain/statement"
)

type csvRow struct {
	IBAN        string `csv:"iban"`
	BIC         string `csv:"bic"`
	ID          string `csv:"transaction_id"`
	Date        string `csv:"date"`
	Beneficiary string `csv:"beneficiary"`
	Details     string `csv:"details"`
	Amount      string `csv:"amount"`
	Balance     string `csv:"balance"`
	Indicator   string `csv:"credit_debit_indicator"`
}

// EncodeCSV writes one row per transaction. Statement-level context that a
// flat row cannot nest (the account IBAN and the bank BIC) is repeated on
// every row so the file stands alone.
func EncodeCSV(w io.Writer, st *statement.Statement) error {
	rows := make([]csvRow, 0, len(st.Transactions))
	for _, tx := range st.Transactions {
		rows = append(rows, csvRow{
			IBAN:        st.AccountNumber,
			BIC:         st.Bank.BIC,
			ID:          tx.ID,
			Date:        tx.Date,
			Beneficiary: tx.Beneficiary,
			Details:     tx.Details,
			Amount:      tx.Amount,
			Balance:     tx.Balance,
			Indicator:   string(tx.CdtDbtInd),
		})
	}
	return gocsv.Marshal(&rows, w)
}
