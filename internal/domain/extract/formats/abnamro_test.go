package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkallio/statement-converter/internal/domain/statement"
)

func abnFixture() []string {
	return []string{
		"Bij- en afschrijvingen",
		"Rekeninghouder Handelsonderneming Jansen B.V.",
		"Keizersgracht 12",
		"1015 CS Amsterdam",
		"Ondernemersrekening 12.34.56.789",
		"Periode 01-01-2024 t/m 31-01-2024 Aantal afschrijvingen 1",
		"Saldo 01-01-2024 € 1.000,00",
		"Saldo 31-01-2024 € 1.050,00",
		"01-01-2024 Acme 75,00",
		"invoice 42",
		"ref 9911",
		"15-01-2024 Energie BV 25,00",
		"termijn januari",
		"Aantal afschrijvingen 1",
	}
}

func TestABNAmroRecognize(t *testing.T) {
	a := ABNAmro{}
	assert.True(t, a.Recognize(linesDoc(abnFixture())))
	assert.False(t, a.Recognize(linesDoc([]string{"some other bank"})))
	assert.False(t, a.Recognize(linesDoc([]string{"page 1"}, []string{"Bij- en afschrijvingen"})),
		"marker on a later page must not match")
}

func TestABNAmroExtract(t *testing.T) {
	st, err := ABNAmro{}.Extract(linesDoc(abnFixture()))
	require.NoError(t, err)

	assert.Equal(t, "ABN AMRO", st.Bank.Name)
	assert.Equal(t, "ABNANL2A", st.Bank.BIC)
	assert.Equal(t, "NL820646660B01", st.Bank.VATCode)

	assert.Equal(t, "Handelsonderneming Jansen B.V.", st.AccountHolder)
	assert.Equal(t, "Keizersgracht 12 1015 CS Amsterdam", st.AccountHolderAddress)
	assert.Equal(t, "12.34.56.789", st.AccountHolderID)
	assert.Equal(t, "01-01-2024 - 31-01-2024", st.Period)
	assert.Equal(t, "31-01-2024", st.Date)
	assert.Equal(t, "1000.00", st.InitialBalance)
	assert.Equal(t, "1050.00", st.ClosingBalance)

	require.Len(t, st.Transactions, 2)
	assert.Equal(t, statement.Transaction{
		ID:          "001",
		Date:        "01-01-2024",
		Beneficiary: "Acme",
		Details:     "invoice 42\nref 9911",
		Amount:      "75.00",
		CdtDbtInd:   statement.Credit,
	}, st.Transactions[0])
	assert.Equal(t, statement.Transaction{
		ID:          "002",
		Date:        "15-01-2024",
		Beneficiary: "Energie BV",
		Details:     "termijn januari",
		Amount:      "25.00",
		CdtDbtInd:   statement.Debit,
	}, st.Transactions[1])

	diff, ok := st.Reconcile()
	require.True(t, ok)
	assert.True(t, diff.IsZero())
}

func TestABNAmroEmptyFirstPage(t *testing.T) {
	_, err := ABNAmro{}.Extract(linesDoc(nil))
	assert.Error(t, err)
}
