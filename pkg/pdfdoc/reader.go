package pdfdoc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dslipak/pdf"
)

// Geometry thresholds in PDF points. A gap wider than wordGap separates
// words within a cell; a gap wider than cellGap starts a new table cell.
const (
	wordGap = 1.5
	cellGap = 12.0
)

// Open reads a PDF file and renders every page into lines and table rows.
// A page that cannot be rendered yields an empty Page rather than failing
// the document; statements regularly carry a scanned signature page.
func Open(path string) (*Document, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: open %s: %w", path, err)
	}

	doc := &Document{}
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, Page{})
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			doc.Pages = append(doc.Pages, Page{})
			continue
		}
		doc.Pages = append(doc.Pages, renderPage(rows))
	}
	return doc, nil
}

// renderPage converts positioned text rows into a Page. Each visual row
// becomes one text line; the same rows, split at large horizontal gaps,
// become the rows of a single per-page table. Real table detection would
// need ruling lines, which text extraction does not expose; splitting on
// whitespace gaps is enough for the column heuristics the extractors use.
func renderPage(rows pdf.Rows) Page {
	sorted := make(pdf.Rows, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position > sorted[j].Position
	})

	var page Page
	var table Table
	for _, row := range sorted {
		line, cells := renderRow(row)
		if line == "" {
			continue
		}
		page.Lines = append(page.Lines, line)
		table = append(table, cells)
	}
	if len(table) > 0 {
		page.Tables = []Table{table}
	}
	return page
}

// renderRow joins the text fragments of one visual row left to right,
// producing both the flat line and the gap-split cells.
func renderRow(row *pdf.Row) (string, []string) {
	texts := make([]pdf.Text, len(row.Content))
	copy(texts, row.Content)
	sort.SliceStable(texts, func(i, j int) bool {
		return texts[i].X < texts[j].X
	})

	var line strings.Builder
	var cells []string
	var cell strings.Builder
	prevEnd := 0.0

	for i, t := range texts {
		frag := t.S
		if frag == "" {
			continue
		}
		if i > 0 {
			gap := t.X - prevEnd
			if gap > cellGap {
				cells = append(cells, strings.TrimSpace(cell.String()))
				cell.Reset()
				line.WriteByte(' ')
			} else if gap > wordGap {
				cell.WriteByte(' ')
				line.WriteByte(' ')
			}
		}
		cell.WriteString(frag)
		line.WriteString(frag)
		prevEnd = t.X + t.W
	}
	if cell.Len() > 0 {
		cells = append(cells, strings.TrimSpace(cell.String()))
	}
	return strings.TrimSpace(line.String()), cells
}
