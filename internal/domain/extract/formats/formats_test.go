package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

func linesDoc(pages ...[]string) *pdfdoc.Document {
	doc := &pdfdoc.Document{}
	for _, lines := range pages {
		doc.Pages = append(doc.Pages, pdfdoc.Page{Lines: lines})
	}
	return doc
}

func tableDoc(lines []string, tables ...pdfdoc.Table) *pdfdoc.Document {
	return &pdfdoc.Document{Pages: []pdfdoc.Page{{Lines: lines, Tables: tables}}}
}

func TestRegistryCoversAllFormats(t *testing.T) {
	assert.Equal(t, []string{
		"ABNANL2A", "HABALT22", "HABALV22", "HELSFIHH", "INGBNL2A",
		"ITELFIHH", "OKOYFIHH", "PARXLV22", "RABONL2U", "RIKOLV2X",
		"UNLALV2X",
	}, Registry().Formats())
}

func TestRegistryRejectsUnknownDocument(t *testing.T) {
	_, err := Registry().Identify(linesDoc([]string{"quarterly report", "nothing bank-like"}))
	require.ErrorIs(t, err, extract.ErrNotRecognized)
}
