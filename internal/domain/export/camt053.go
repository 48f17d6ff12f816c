// Package export serializes the canonical statement model to its
// interchange forms: a camt.053 bank-to-customer statement envelope, a
// nested JSON document, and a flat CSV transaction listing.
package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/mkallio/statement-converter/internal/domain/statement"
)

const camt053Namespace = "urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"

// MessageID derives the statement message id from the period start date.
// The suffix is a fixed sequence number: one statement per document.
func MessageID(st *statement.Statement) string {
	return st.PeriodStart() + "-001"
}

// CAMTEncoder writes camt.053 statement envelopes. Clock is injectable so
// the group header creation timestamp is reproducible in tests.
type CAMTEncoder struct {
	Clock func() time.Time
}

// NewCAMTEncoder returns an encoder stamping envelopes with the wall clock.
func NewCAMTEncoder() *CAMTEncoder {
	return &CAMTEncoder{Clock: time.Now}
}

type camtDocument struct {
	XMLName       xml.Name          `xml:"Document"`
	Xmlns         string            `xml:"xmlns,attr"`
	BkToCstmrStmt camtBkToCstmrStmt `xml:"BkToCstmrStmt"`
}

type camtBkToCstmrStmt struct {
	GrpHdr camtGrpHdr `xml:"GrpHdr"`
	Stmt   camtStmt   `xml:"Stmt"`
}

type camtGrpHdr struct {
	MsgID   string `xml:"MsgId"`
	CreDtTm string `xml:"CreDtTm"`
}

type camtStmt struct {
	ID           string     `xml:"Id"`
	ElctrncSeqNb string     `xml:"ElctrncSeqNb"`
	FrDtTm       string     `xml:"FrDtTm"`
	ToDtTm       string     `xml:"ToDtTm"`
	Acct         camtAcct   `xml:"Acct"`
	Bal          camtBal    `xml:"Bal"`
	Ntry         []camtNtry `xml:"Ntry"`
}

type camtAcct struct {
	IBAN      string `xml:"Id>IBAN"`
	OwnerName string `xml:"Ownr>Nm"`
}

type camtBal struct {
	Cd  string  `xml:"Tp>CdOrPrtry>Cd"`
	Amt camtAmt `xml:"Amt"`
	Dt  string  `xml:"Dt>Dt"`
}

type camtAmt struct {
	Ccy   string `xml:"Ccy,attr"`
	Value string `xml:",chardata"`
}

type camtNtry struct {
	Amt          camtAmt     `xml:"Amt"`
	CdtDbtInd    string      `xml:"CdtDbtInd"`
	TxDtls       camtTxDtls  `xml:"NtryDtls>TxDtls"`
	AddtlNtryInf string      `xml:"AddtlNtryInf"`
}

type camtTxDtls struct {
	InstrID      string  `xml:"Refs>InstrId"`
	AmtInstdAmt  camtAmt `xml:"AmtDtls>AmtInstdAmt"`
	DbtrName     string  `xml:"RltdPties>Dbtr>Nm"`
	DbtrAgentBIC string  `xml:"RltdAgts>DbtrAgt>FinInstnId>BIC"`
}

// Encode writes the statement as an indented camt.053 document. Every
// field is emitted even when empty: consumers rely on the envelope shape,
// not on element presence.
func (e *CAMTEncoder) Encode(w io.Writer, st *statement.Statement) error {
	msgID := MessageID(st)
	doc := camtDocument{
		Xmlns: camt053Namespace,
		BkToCstmrStmt: camtBkToCstmrStmt{
			GrpHdr: camtGrpHdr{
				MsgID:   msgID,
				CreDtTm: e.Clock().Format("2006-01-02T15:04:05"),
			},
			Stmt: camtStmt{
				ID:           msgID,
				ElctrncSeqNb: "1",
				FrDtTm:       st.PeriodStart(),
				ToDtTm:       st.PeriodEnd(),
				Acct: camtAcct{
					IBAN:      st.AccountNumber,
					OwnerName: st.AccountHolder,
				},
				Bal: camtBal{
					Cd:  "OPBD",
					Amt: camtAmt{Ccy: "EUR", Value: st.InitialBalance},
					Dt:  st.PeriodStart(),
				},
			},
		},
	}

	for _, tx := range st.Transactions {
		doc.BkToCstmrStmt.Stmt.Ntry = append(doc.BkToCstmrStmt.Stmt.Ntry, camtNtry{
			Amt:       camtAmt{Ccy: "EUR", Value: tx.Amount},
			CdtDbtInd: string(tx.CdtDbtInd),
			TxDtls: camtTxDtls{
				InstrID:      tx.ID,
				AmtInstdAmt:  camtAmt{Ccy: "EUR", Value: tx.Amount},
				DbtrName:     tx.Beneficiary,
				DbtrAgentBIC: st.Bank.BIC,
			},
			AddtlNtryInf: tx.Details,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode camt.053: %w", err)
	}
	return enc.Close()
}
