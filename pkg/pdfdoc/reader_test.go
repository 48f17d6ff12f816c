package pdfdoc

import (
	"testing"

	"github.com/dslipak/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(x, w float64, s string) pdf.Text {
	return pdf.Text{X: x, W: w, S: s}
}

func TestRenderRow(t *testing.T) {
	t.Run("word gaps stay inside one cell", func(t *testing.T) {
		line, cells := renderRow(&pdf.Row{Content: []pdf.Text{
			text(10, 20, "Acme"),
			text(33, 15, "SIA"),
		}})
		assert.Equal(t, "Acme SIA", line)
		assert.Equal(t, []string{"Acme SIA"}, cells)
	})

	t.Run("cell gaps split columns", func(t *testing.T) {
		line, cells := renderRow(&pdf.Row{Content: []pdf.Text{
			text(10, 20, "05.01.2024"),
			text(80, 30, "Acme"),
			text(112, 15, "SIA"),
			text(200, 25, "+75,00"),
		}})
		assert.Equal(t, "05.01.2024 Acme SIA +75,00", line)
		assert.Equal(t, []string{"05.01.2024", "Acme SIA", "+75,00"}, cells)
	})

	t.Run("fragments are ordered by x position", func(t *testing.T) {
		line, _ := renderRow(&pdf.Row{Content: []pdf.Text{
			text(200, 25, "+75,00"),
			text(10, 20, "05.01.2024"),
		}})
		assert.Equal(t, "05.01.2024 +75,00", line)
	})

	t.Run("tight fragments join without a space", func(t *testing.T) {
		line, cells := renderRow(&pdf.Row{Content: []pdf.Text{
			text(10, 5, "Beta"),
			text(15.5, 5, "lning"),
		}})
		assert.Equal(t, "Betalning", line)
		assert.Equal(t, []string{"Betalning"}, cells)
	})
}

func TestRenderPage(t *testing.T) {
	rows := pdf.Rows{
		{Position: 700, Content: []pdf.Text{text(10, 30, "header")}},
		{Position: 650, Content: []pdf.Text{
			text(10, 20, "05.01.2024"),
			text(100, 30, "Acme SIA"),
		}},
		{Position: 600, Content: []pdf.Text{}},
	}

	page := renderPage(rows)
	require.Equal(t, []string{"header", "05.01.2024 Acme SIA"}, page.Lines)
	require.Len(t, page.Tables, 1)
	assert.Equal(t, Table{
		{"header"},
		{"05.01.2024", "Acme SIA"},
	}, page.Tables[0])
}

func TestRenderPageSortsTopDown(t *testing.T) {
	rows := pdf.Rows{
		{Position: 100, Content: []pdf.Text{text(10, 20, "bottom")}},
		{Position: 700, Content: []pdf.Text{text(10, 20, "top")}},
	}
	page := renderPage(rows)
	assert.Equal(t, []string{"top", "bottom"}, page.Lines)
}
