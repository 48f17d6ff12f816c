package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkallio/statement-converter/internal/domain/statement"
)

func ingFixture() []string {
	return []string{
		"Statement Zakelijke rekening",
		"Period",
		"Jansen Holding B.V. 01/01/2024 till 31/01/2024",
		"Accountnumber",
		"IBAN",
		"NL69 INGB 0123 4567 89",
		"Opening balance (EUR)",
		"1.000,00",
		"Closing balance (EUR)",
		"1.050,00",
		"01/01/2024 Acme Services +75,00",
		"invoice 42",
		"Value date: 01/01/2024",
		"15/01/2024 Energie BV -25,00",
		"termijn januari",
		"Value date: 15/01/2024",
	}
}

func TestINGRecognize(t *testing.T) {
	g := ING{}
	assert.True(t, g.Recognize(linesDoc(ingFixture())))
	assert.False(t, g.Recognize(linesDoc([]string{"Rekeningafschrift"})))
	assert.False(t, g.Recognize(linesDoc(nil)))
}

func TestINGExtract(t *testing.T) {
	st, err := ING{}.Extract(linesDoc(ingFixture()))
	require.NoError(t, err)

	assert.Equal(t, "ING", st.Bank.Name)
	assert.Equal(t, "INGBNL2A", st.Bank.BIC)

	assert.Equal(t, "Jansen Holding B.V.", st.AccountHolder)
	assert.Equal(t, "01/01/2024 - 31/01/2024", st.Period)
	assert.Equal(t, "31/01/2024", st.Date)
	assert.Equal(t, "NL69INGB0123456789", st.AccountNumber)
	assert.Equal(t, "1000.00", st.InitialBalance)
	assert.Equal(t, "1050.00", st.ClosingBalance)

	require.Len(t, st.Transactions, 2)
	assert.Equal(t, statement.Transaction{
		ID:          "001",
		Date:        "01/01/2024",
		Beneficiary: "Acme Services",
		Details:     "invoice 42",
		Amount:      "75.00",
		CdtDbtInd:   statement.Credit,
	}, st.Transactions[0])
	assert.Equal(t, statement.Transaction{
		ID:          "002",
		Date:        "15/01/2024",
		Beneficiary: "Energie BV",
		Details:     "termijn januari",
		Amount:      "25.00",
		CdtDbtInd:   statement.Debit,
	}, st.Transactions[1])
}
