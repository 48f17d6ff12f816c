package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/mkallio/statement-converter/internal/domain/statement"
)

// JSONEncoder writes the nested JSON statement document. Clock is
// injectable for the same reason as on CAMTEncoder.
type JSONEncoder struct {
	Clock func() time.Time
}

// NewJSONEncoder returns an encoder stamping documents with the wall clock.
func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{Clock: time.Now}
}

type jsonOutput struct {
	Output jsonDocument `json:"output"`
}

type jsonDocument struct {
	Document jsonDocumentBody `json:"document"`
}

type jsonDocumentBody struct {
	Statement jsonStatement `json:"statement"`
}

type jsonStatement struct {
	CreationDateTime string            `json:"creation_date_time"`
	FromDateTime     string            `json:"from_date_time"`
	ToDateTime       string            `json:"to_date_time"`
	Account          jsonAccount       `json:"account"`
	Balance          jsonBalances      `json:"balance"`
	Transactions     []jsonTransaction `json:"transactions"`
}

type jsonAccount struct {
	Identifier jsonIdentifier `json:"identifier"`
	Owner      jsonOwner      `json:"owner"`
}

type jsonIdentifier struct {
	IBAN  string `json:"iban"`
	SWIFT string `json:"swift"`
	Bank  string `json:"bank"`
}

type jsonOwner struct {
	Name         string `json:"name"`
	CustomerCode string `json:"customer_code"`
}

type jsonBalances struct {
	Opening jsonBalance `json:"opening_balance"`
	Closing jsonBalance `json:"closing_balance"`
}

type jsonBalance struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
	Type     string `json:"type"`
}

type jsonAmount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type jsonTransaction struct {
	Date        string     `json:"date"`
	Name        string     `json:"name"`
	Reference   string     `json:"reference"`
	Amount      jsonAmount `json:"amount"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
}

// Encode writes the statement as an indented JSON document. The nesting
// mirrors the camt.053 layering: an output wrapper, one statement with
// account identifier and owner, typed opening and closing balances, and a
// flat transaction list.
func (e *JSONEncoder) Encode(w io.Writer, st *statement.Statement) error {
	body := jsonStatement{
		CreationDateTime: e.Clock().Format("2006-01-02T15:04:05"),
		FromDateTime:     st.PeriodStart(),
		ToDateTime:       st.PeriodEnd(),
		Account: jsonAccount{
			Identifier: jsonIdentifier{
				IBAN:  st.AccountNumber,
				SWIFT: st.Bank.BIC,
				Bank:  st.Bank.Name,
			},
			Owner: jsonOwner{
				Name:         st.AccountHolder,
				CustomerCode: st.AccountHolderID,
			},
		},
		Balance: jsonBalances{
			Opening: jsonBalance{Currency: "EUR", Value: st.InitialBalance, Type: "OPBD"},
			Closing: jsonBalance{Currency: "EUR", Value: st.ClosingBalance, Type: "CLBD"},
		},
		Transactions: make([]jsonTransaction, 0, len(st.Transactions)),
	}

	for _, tx := range st.Transactions {
		body.Transactions = append(body.Transactions, jsonTransaction{
			Date:        tx.Date,
			Name:        tx.Beneficiary,
			Reference:   tx.ID,
			Amount:      jsonAmount{Currency: "EUR", Value: tx.Amount},
			Type:        string(tx.CdtDbtInd),
			Description: tx.Details,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(jsonOutput{Output: jsonDocument{Document: jsonDocumentBody{Statement: body}}})
}
