// Package extract turns rendered statement documents into the canonical
// statement model. It holds the format registry, the shared line-scanning
// assembler, and the amount normalization used by every format; the
// per-bank grammars live in the formats subpackage.
//
// Extraction is fail-soft at the field level: a header field whose pattern
// does not match stays an empty string. Only whole-document structural
// failures (unrecognized format, a missing mandatory section) abort a
// parse, and then the document is skipped outright rather than emitted
// half-populated.
package extract

import (
	"errors"
	"fmt"

	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

var (
	// ErrNotRecognized means no registered format matched the document.
	ErrNotRecognized = errors.New("statement format not recognized")

	// ErrAmbiguousFormat means more than one format recognized the same
	// document. Marker strings are meant to be format-unique, so this
	// indicates either a corrupt document or a registry bug.
	ErrAmbiguousFormat = errors.New("statement matches more than one format")
)

// FormatMismatchError reports a document that passed recognition but
// failed a secondary structural check inside its extractor.
type FormatMismatchError struct {
	BIC    string
	Reason string
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("format %s: structure mismatch: %s", e.BIC, e.Reason)
}

// MalformedLayoutError reports a required line, table, or token that was
// absent or unparseable in a recognized document.
type MalformedLayoutError struct {
	BIC    string
	Reason string
}

func (e *MalformedLayoutError) Error() string {
	return fmt.Sprintf("format %s: malformed layout: %s", e.BIC, e.Reason)
}

// Extractor is the shared contract every bank format implements.
type Extractor interface {
	// BIC returns the format identifier (the bank's BIC/SWIFT code).
	BIC() string

	// Recognize reports whether the rendered document carries this
	// format's marker. It must be a cheap, side-effect-free test.
	Recognize(doc *pdfdoc.Document) bool

	// Extract parses the document into a canonical Statement.
	Extract(doc *pdfdoc.Document) (*statement.Statement, error)
}

// Registry holds the registered recognizer/extractor pairs. It is a static
// table built once at startup; Identify never mutates it.
type Registry struct {
	extractors []Extractor
}

// NewRegistry builds a registry from the given extractors, in order.
func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// Formats returns the BICs of all registered formats, in registration order.
func (r *Registry) Formats() []string {
	bics := make([]string, 0, len(r.extractors))
	for _, e := range r.extractors {
		bics = append(bics, e.BIC())
	}
	return bics
}

// Identify finds the single extractor whose recognizer matches the
// document. It returns ErrNotRecognized when none match and
// ErrAmbiguousFormat when more than one does; a document is never
// attributed to a format by guesswork.
func (r *Registry) Identify(doc *pdfdoc.Document) (Extractor, error) {
	var found Extractor
	for _, e := range r.extractors {
		if !e.Recognize(doc) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %s and %s", ErrAmbiguousFormat, found.BIC(), e.BIC())
		}
		found = e
	}
	if found == nil {
		return nil, ErrNotRecognized
	}
	return found, nil
}

// Extract identifies the document's format and parses it.
func (r *Registry) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	e, err := r.Identify(doc)
	if err != nil {
		return nil, err
	}
	stmt, err := e.Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", e.BIC(), err)
	}
	return stmt, nil
}
