package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

func narpesFixture() *pdfdoc.Document {
	page1 := []string{
		"NÄRPES SPARBANK AB 31.01.2024",
		"KONTOUTDRAG",
		"Mottagare IBAN-kontonummer",
		"Ab Exempel Oy",
		"FI12 3456 7890 1234 56 NÄRPESVÄGEN 64200",
		"BIC-kod ITELFIHH",
		"HUVUDKONTOR NÄRPES NÄRPESVÄGEN 13 01.01.2024 - 31.01.2024",
		"SALDO 01.01.2024 1.000,00",
		"BetalningsdagValördag Förklaring EUR",
		"05.01 05.01 BETALNING ACME AB 123,45",
		"KORTKÖP 0501 ARN: 74123456789",
		"10.01 10.01 INBETALNING +500,00",
	}
	page2 := []string{
		"NÄRPES SPARBANK AB KONTOUTDRAG SIDA 2",
		"01.01.2024 - 31.01.2024",
		"20.01 UTBETALNING LÖN 200,00",
		"referens 12345",
	}
	return linesDoc(page1, page2)
}

func TestNarpesRecognize(t *testing.T) {
	n := NarpesSparbank{}
	assert.True(t, n.Recognize(narpesFixture()))
	assert.False(t, n.Recognize(linesDoc([]string{"HELSFIHH tiliote"})))
}

func TestNarpesExtract(t *testing.T) {
	st, err := NarpesSparbank{}.Extract(narpesFixture())
	require.NoError(t, err)

	assert.Equal(t, "SPARBANK", st.Bank.Name)
	assert.Equal(t, "0104239000", st.Bank.RegNo)
	assert.Equal(t, "ITELFIHH", st.Bank.BIC)

	assert.Equal(t, "31.01.2024", st.Date)
	assert.Equal(t, "Ab Exempel Oy", st.AccountHolder)
	assert.Equal(t, "FI1234567890123456", st.AccountNumber)
	assert.Equal(t, "NÄRPESVÄGEN 64200", st.AccountHolderAddress)
	assert.Equal(t, "01.01.2024 - 31.01.2024", st.Period)
	assert.Equal(t, "1000.00", st.InitialBalance)

	require.Len(t, st.Transactions, 3)
	assert.Equal(t, statement.Transaction{
		ID:          "001",
		Date:        "05.01",
		Beneficiary: "BETALNING ACME AB",
		Details:     "KORTKÖP 0501",
		Amount:      "123.45",
		CdtDbtInd:   statement.Debit,
	}, st.Transactions[0])
	assert.Equal(t, statement.Transaction{
		ID:          "002",
		Date:        "10.01",
		Beneficiary: "INBETALNING",
		Amount:      "500.00",
		CdtDbtInd:   statement.Credit,
	}, st.Transactions[1])
	assert.Equal(t, statement.Transaction{
		ID:          "003",
		Date:        "20.01",
		Beneficiary: "UTBETALNING LÖN",
		Details:     "referens 12345",
		Amount:      "200.00",
		CdtDbtInd:   statement.Debit,
	}, st.Transactions[2])
}
