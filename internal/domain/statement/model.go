// Package statement defines the canonical statement model produced by every
// format extractor and consumed by the serialization layer. Every field is
// always present; extraction that fails to locate a value leaves the empty
// string rather than omitting the field.
package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Indicator marks the direction of a transaction amount.
type Indicator string

const (
	Credit Indicator = "CRDT" // inflow
	Debit  Indicator = "DBIT" // outflow
)

// Bank holds the issuing institution's identity. These are constants per
// format, not derived from document content except where extraction finds
// an override (e.g. HABALT22 prints its own registration data).
type Bank struct {
	Name             string
	Address          string
	RegNo            string
	VATCode          string
	RegistrationDate string
	BIC              string
}

// Transaction is one canonical ledger entry within a Statement.
type Transaction struct {
	// ID is a 3-digit zero-padded sequence number assigned in encounter
	// order, the source document's own row id, or empty for formats that
	// synthesize neither.
	ID          string
	Date        string // format-specific date token, not reparsed here
	Beneficiary string
	Details     string
	Amount      string // unsigned decimal string, "1234.56"
	Balance     string // running balance when the source exposes it
	CdtDbtInd   Indicator
}

// Signed returns the transaction amount with its direction applied.
func (t Transaction) Signed() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(t.Amount)
	if err != nil {
		return decimal.Zero, err
	}
	if t.CdtDbtInd == Debit {
		return d.Neg(), nil
	}
	return d, nil
}

// Statement is the canonical record for one bank account statement document.
type Statement struct {
	Bank Bank

	AccountHolder        string
	AccountHolderID      string
	AccountHolderAddress string
	AccountNumber        string // IBAN-like, internal whitespace stripped

	Period string // "<start> - <end>" display string, format-specific dates
	Date   string // single reference date, when present

	InitialBalance string // decimal string, dot decimal separator
	ClosingBalance string

	Transactions []Transaction // document order
}

// PeriodStart returns the start date of the statement period, or "".
func (s *Statement) PeriodStart() string {
	start, _, _ := strings.Cut(s.Period, " - ")
	return strings.TrimSpace(start)
}

// PeriodEnd returns the end date of the statement period, or "".
func (s *Statement) PeriodEnd() string {
	_, end, ok := strings.Cut(s.Period, " - ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(end)
}

// Reconcile computes closing - (initial + sum of signed amounts) as an
// advisory diagnostic. The boolean is false when any of the balances or
// amounts is missing or unparseable, in which case no conclusion can be
// drawn. A non-zero discrepancy is not an error: statements routinely
// carry fees or truncated pages the extractor is not required to recover.
func (s *Statement) Reconcile() (decimal.Decimal, bool) {
	initial, err := decimal.NewFromString(s.InitialBalance)
	if err != nil {
		return decimal.Zero, false
	}
	closing, err := decimal.NewFromString(s.ClosingBalance)
	if err != nil {
		return decimal.Zero, false
	}
	sum := initial
	for _, t := range s.Transactions {
		signed, err := t.Signed()
		if err != nil {
			return decimal.Zero, false
		}
		sum = sum.Add(signed)
	}
	return closing.Sub(sum), true
}
