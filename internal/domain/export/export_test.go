package export

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkallio/statement-converter/internal/domain/statement"
)

func sampleStatement() *statement.Statement {
	return &statement.Statement{
		Bank: statement.Bank{
			Name:    "Swedbank AS",
			Address: "Balasta dambis 15, Riga",
			RegNo:   "40003074764",
			BIC:     "HABALV22",
		},
		AccountHolder:        "SIA Piemers",
		AccountHolderID:      "40103123456",
		AccountHolderAddress: "Brivibas iela 1, Riga",
		AccountNumber:        "LV12HABA0551000000001",
		Period:               "01.01.2024 - 31.01.2024",
		Date:                 "31.01.2024",
		InitialBalance:       "100.00",
		ClosingBalance:       "150.00",
		Transactions: []statement.Transaction{
			{
				ID:          "001",
				Date:        "05.01.2024",
				Beneficiary: "Acme SIA",
				Details:     "invoice 42",
				Amount:      "75.00",
				Balance:     "175.00",
				CdtDbtInd:   statement.Credit,
			},
			{
				ID:          "002",
				Date:        "12.01.2024",
				Beneficiary: "Grid Energy",
				Details:     "electricity",
				Amount:      "25.00",
				Balance:     "150.00",
				CdtDbtInd:   statement.Debit,
			},
		},
	}
}

func TestMessageID(t *testing.T) {
	assert.Equal(t, "01.01.2024-001", MessageID(sampleStatement()))
	assert.Equal(t, "-001", MessageID(&statement.Statement{}))
}

func TestCAMTEncoder(t *testing.T) {
	enc := &CAMTEncoder{Clock: func() time.Time {
		return time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	}}

	var buf bytes.Buffer
	require.NoError(t, enc.Encode(&buf, sampleStatement()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"`)
	assert.Contains(t, out, `Ccy="EUR"`)

	var doc camtDocument
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	hdr := doc.BkToCstmrStmt.GrpHdr
	assert.Equal(t, "01.01.2024-001", hdr.MsgID)
	assert.Equal(t, "2024-02-01T09:30:00", hdr.CreDtTm)

	stmt := doc.BkToCstmrStmt.Stmt
	assert.Equal(t, "01.01.2024-001", stmt.ID)
	assert.Equal(t, "1", stmt.ElctrncSeqNb)
	assert.Equal(t, "01.01.2024", stmt.FrDtTm)
	assert.Equal(t, "31.01.2024", stmt.ToDtTm)
	assert.Equal(t, "LV12HABA0551000000001", stmt.Acct.IBAN)
	assert.Equal(t, "SIA Piemers", stmt.Acct.OwnerName)
	assert.Equal(t, "OPBD", stmt.Bal.Cd)
	assert.Equal(t, "100.00", stmt.Bal.Amt.Value)
	assert.Equal(t, "01.01.2024", stmt.Bal.Dt)

	require.Len(t, stmt.Ntry, 2)
	first := stmt.Ntry[0]
	assert.Equal(t, "75.00", first.Amt.Value)
	assert.Equal(t, "CRDT", first.CdtDbtInd)
	assert.Equal(t, "001", first.TxDtls.InstrID)
	assert.Equal(t, "75.00", first.TxDtls.AmtInstdAmt.Value)
	assert.Equal(t, "Acme SIA", first.TxDtls.DbtrName)
	assert.Equal(t, "HABALV22", first.TxDtls.DbtrAgentBIC)
	assert.Equal(t, "invoice 42", first.AddtlNtryInf)

	second := stmt.Ntry[1]
	assert.Equal(t, "DBIT", second.CdtDbtInd)
	assert.Equal(t, "Grid Energy", second.TxDtls.DbtrName)
}

func TestJSONEncoder(t *testing.T) {
	enc := &JSONEncoder{Clock: func() time.Time {
		return time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	}}

	var buf bytes.Buffer
	require.NoError(t, enc.Encode(&buf, sampleStatement()))

	assert.JSONEq(t, `{
	  "output": {
	    "document": {
	      "statement": {
	        "creation_date_time": "2024-02-01T09:30:00",
	        "from_date_time": "01.01.2024",
	        "to_date_time": "31.01.2024",
	        "account": {
	          "identifier": {
	            "iban": "LV12HABA0551000000001",
	            "swift": "HABALV22",
	            "bank": "Swedbank AS"
	          },
	          "owner": {
	            "name": "SIA Piemers",
	            "customer_code": "40103123456"
	          }
	        },
	        "balance": {
	          "opening_balance": {"currency": "EUR", "value": "100.00", "type": "OPBD"},
	          "closing_balance": {"currency": "EUR", "value": "150.00", "type": "CLBD"}
	        },
	        "transactions": [
	          {
	            "date": "05.01.2024",
	            "name": "Acme SIA",
	            "reference": "001",
	            "amount": {"currency": "EUR", "value": "75.00"},
	            "type": "CRDT",
	            "description": "invoice 42"
	          },
	          {
	            "date": "12.01.2024",
	            "name": "Grid Energy",
	            "reference": "002",
	            "amount": {"currency": "EUR", "value": "25.00"},
	            "type": "DBIT",
	            "description": "electricity"
	          }
	        ]
	      }
	    }
	  }
	}`, buf.String())
}

func TestJSONEncoderEmptyTransactions(t *testing.T) {
	var buf bytes.Buffer
	st := sampleStatement()
	st.Transactions = nil
	require.NoError(t, NewJSONEncoder().Encode(&buf, st))
	assert.Contains(t, buf.String(), `"transactions": []`)
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, sampleStatement()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "iban,bic,transaction_id,date,beneficiary,details,amount,balance,credit_debit_indicator", lines[0])
	assert.Equal(t, "LV12HABA0551000000001,HABALV22,001,05.01.2024,Acme SIA,invoice 42,75.00,175.00,CRDT", lines[1])
	assert.Equal(t, "LV12HABA0551000000001,HABALV22,002,12.01.2024,Grid Energy,electricity,25.00,150.00,DBIT", lines[2])
}
