// Package pdfdoc renders PDF documents into the plain structures the
// extraction layer consumes: per-page text lines and heuristic table rows.
// Extractors never touch the PDF library directly; they only see a Document.
package pdfdoc

import "strings"

// Table is a detected table: rows of cell strings. Cells that the source
// left blank are empty strings, never dropped, so column positions hold.
type Table [][]string

// Page is the rendered form of one document page.
type Page struct {
	Lines  []string
	Tables []Table
}

// Document is the rendered form of one statement PDF.
type Document struct {
	Pages []Page
}

// Lines returns the text lines of every page in order.
func (d *Document) Lines() []string {
	var lines []string
	for _, p := range d.Pages {
		lines = append(lines, p.Lines...)
	}
	return lines
}

// Text returns all page text joined with newlines. Recognizers run their
// marker tests over this.
func (d *Document) Text() string {
	return strings.Join(d.Lines(), "\n")
}

// Tables returns the detected tables of every page in order.
func (d *Document) Tables() []Table {
	var tables []Table
	for _, p := range d.Pages {
		tables = append(tables, p.Tables...)
	}
	return tables
}

// FirstPageLines returns the text lines of the first page, or nil for an
// empty document. Several formats read their header exclusively from the
// first page.
func (d *Document) FirstPageLines() []string {
	if len(d.Pages) == 0 {
		return nil
	}
	return d.Pages[0].Lines
}
