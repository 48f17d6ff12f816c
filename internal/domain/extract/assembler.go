package extract

import (
	"fmt"
	"strings"

	"github.com/mkallio/statement-converter/internal/domain/statement"
)

// LineGrammar is one format's declarative description of its line-based
// transaction layout. A shared state machine (Run) folds the flat line
// stream into transactions: an anchor match opens a transaction, following
// plain lines accumulate into its details, and a stop marker or the next
// anchor flushes the accumulator.
type LineGrammar struct {
	// Anchor parses a candidate line into a new transaction. ok=false
	// means the line does not start a transaction.
	Anchor func(line string) (statement.Transaction, bool)

	// Stop reports lines that close detail collection without opening a
	// new transaction (section footers, totals rows). May be nil.
	Stop func(line string) bool

	// Detail prepares a line for the accumulator while a transaction is
	// open, and may adjust the open transaction (e.g. a processing-date
	// line that overrides the booking date). Returning ok=false drops
	// the line. Nil keeps every line trimmed.
	Detail func(tx *statement.Transaction, line string) (string, bool)

	// Finish post-processes the joined details at flush time. May be nil.
	Finish func(details string) string

	// DetailJoin separates accumulated detail lines: "\n", " | " or " ".
	DetailJoin string

	// AssignIDs numbers transactions "001", "002", ... in encounter
	// order. Formats whose ids come from the source, or that assign
	// none, leave this false.
	AssignIDs bool
}

// Run scans the rendered lines of a whole document (all pages, in order)
// and returns the assembled transactions.
//
// The machine has two states: idle, and collecting details for the most
// recently opened transaction. End of input flushes any open accumulator,
// so a statement that ends mid-details still keeps those lines.
func (g LineGrammar) Run(lines []string) []statement.Transaction {
	var txs []statement.Transaction
	var details []string
	collecting := false

	flush := func() {
		if len(details) > 0 && len(txs) > 0 {
			joined := strings.TrimSpace(strings.Join(details, g.DetailJoin))
			if g.Finish != nil {
				joined = g.Finish(joined)
			}
			txs[len(txs)-1].Details = joined
		}
		details = details[:0]
	}

	for _, line := range lines {
		if tx, ok := g.Anchor(line); ok {
			flush()
			if g.AssignIDs {
				tx.ID = fmt.Sprintf("%03d", len(txs)+1)
			}
			txs = append(txs, tx)
			collecting = true
			continue
		}
		if !collecting {
			continue
		}
		if g.Stop != nil && g.Stop(line) {
			flush()
			collecting = false
			continue
		}
		trimmed := strings.TrimSpace(line)
		if g.Detail != nil {
			var keep bool
			if trimmed, keep = g.Detail(&txs[len(txs)-1], trimmed); !keep {
				continue
			}
		}
		if trimmed != "" {
			details = append(details, trimmed)
		}
	}
	flush()
	return txs
}
