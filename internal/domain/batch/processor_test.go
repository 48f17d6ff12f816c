package batch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/config"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

type stubFormat struct {
	bic    string
	marker string
	err    error
}

func (s stubFormat) BIC() string { return s.bic }

func (s stubFormat) Recognize(doc *pdfdoc.Document) bool {
	return strings.Contains(doc.Text(), s.marker)
}

func (s stubFormat) Extract(doc *pdfdoc.Document) (*statement.Statement, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &statement.Statement{
		Bank:           statement.Bank{BIC: s.bic},
		AccountNumber:  "LV12HABA0551000000001",
		Period:         "01.01.2024 - 31.01.2024",
		InitialBalance: "100.00",
		ClosingBalance: "175.00",
		Transactions: []statement.Transaction{
			{ID: "001", Date: "05.01.2024", Amount: "75.00", CdtDbtInd: statement.Credit},
		},
	}, nil
}

func testDirs(t *testing.T) config.DirConfig {
	t.Helper()
	root := t.TempDir()
	dirs := config.DirConfig{
		Pending: filepath.Join(root, "pending"),
		Parsed:  filepath.Join(root, "parsed"),
		XML:     filepath.Join(root, "xml"),
		JSON:    filepath.Join(root, "json"),
		CSV:     filepath.Join(root, "csv"),
	}
	require.NoError(t, os.MkdirAll(dirs.Pending, 0o755))
	return dirs
}

func dropPDF(t *testing.T, dirs config.DirConfig, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dirs.Pending, name), []byte("%PDF-1.4"), 0o644))
}

func lineOpener(content string) func(string) (*pdfdoc.Document, error) {
	return func(string) (*pdfdoc.Document, error) {
		return &pdfdoc.Document{Pages: []pdfdoc.Page{{Lines: []string{content}}}}, nil
	}
}

func newTestProcessor(dirs config.DirConfig, reg *extract.Registry, metrics *Metrics) *Processor {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewProcessor(reg, dirs, logger, metrics)
}

func TestSweepProcessesAndArchives(t *testing.T) {
	dirs := testDirs(t)
	dropPDF(t, dirs, "january.pdf")
	dropPDF(t, dirs, "notes.txt") // wrong extension, must be ignored

	promReg := prometheus.NewRegistry()
	metrics := NewMetrics(promReg)
	reg := extract.NewRegistry(stubFormat{bic: "HABALV22", marker: "Swedbank"})
	p := newTestProcessor(dirs, reg, metrics).WithOpener(lineOpener("Swedbank statement"))

	res, err := p.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 0, res.Failed)
	assert.NotEmpty(t, res.JobID)

	assert.NoFileExists(t, filepath.Join(dirs.Pending, "january.pdf"))
	assert.FileExists(t, filepath.Join(dirs.Parsed, "january.pdf"))
	assert.FileExists(t, filepath.Join(dirs.XML, "january.xml"))
	assert.FileExists(t, filepath.Join(dirs.JSON, "january.json"))
	assert.FileExists(t, filepath.Join(dirs.CSV, "january.csv"))
	assert.FileExists(t, filepath.Join(dirs.Pending, "notes.txt"))

	xmlOut, err := os.ReadFile(filepath.Join(dirs.XML, "january.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(xmlOut), "<IBAN>LV12HABA0551000000001</IBAN>")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Processed))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Failed))
}

func TestSweepLeavesUnrecognizedInPlace(t *testing.T) {
	dirs := testDirs(t)
	dropPDF(t, dirs, "mystery.pdf")

	metrics := NewMetrics(prometheus.NewRegistry())
	reg := extract.NewRegistry(stubFormat{bic: "HABALV22", marker: "Swedbank"})
	p := newTestProcessor(dirs, reg, metrics).WithOpener(lineOpener("some other bank"))

	res, err := p.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 1, res.Skipped)
	assert.FileExists(t, filepath.Join(dirs.Pending, "mystery.pdf"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Skipped))
}

func TestSweepCountsExtractionFailure(t *testing.T) {
	dirs := testDirs(t)
	dropPDF(t, dirs, "broken.pdf")

	boom := &extract.MalformedLayoutError{BIC: "HABALV22", Reason: "no transaction table"}
	metrics := NewMetrics(prometheus.NewRegistry())
	reg := extract.NewRegistry(stubFormat{bic: "HABALV22", marker: "Swedbank", err: boom})
	p := newTestProcessor(dirs, reg, metrics).WithOpener(lineOpener("Swedbank statement"))

	res, err := p.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.FileExists(t, filepath.Join(dirs.Pending, "broken.pdf"))
	assert.NoFileExists(t, filepath.Join(dirs.XML, "broken.xml"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Failed))
}

func TestSweepUnreadablePDF(t *testing.T) {
	dirs := testDirs(t)
	dropPDF(t, dirs, "garbled.pdf")

	reg := extract.NewRegistry(stubFormat{bic: "HABALV22", marker: "Swedbank"})
	p := newTestProcessor(dirs, reg, nil).WithOpener(func(string) (*pdfdoc.Document, error) {
		return nil, errors.New("not a pdf")
	})

	res, err := p.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.FileExists(t, filepath.Join(dirs.Pending, "garbled.pdf"))
}

func TestSweepMissingPendingDir(t *testing.T) {
	dirs := testDirs(t)
	require.NoError(t, os.RemoveAll(dirs.Pending))

	p := newTestProcessor(dirs, extract.NewRegistry(), nil)
	_, err := p.Sweep(context.Background())
	assert.Error(t, err)
}

func TestSweepHonorsContextCancellation(t *testing.T) {
	dirs := testDirs(t)
	dropPDF(t, dirs, "a.pdf")
	dropPDF(t, dirs, "b.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reg := extract.NewRegistry(stubFormat{bic: "HABALV22", marker: "Swedbank"})
	p := newTestProcessor(dirs, reg, nil).WithOpener(lineOpener("Swedbank statement"))

	res, err := p.Sweep(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Processed)
}

func TestSweepIsIdempotent(t *testing.T) {
	dirs := testDirs(t)
	dropPDF(t, dirs, "january.pdf")

	reg := extract.NewRegistry(stubFormat{bic: "HABALV22", marker: "Swedbank"})
	p := newTestProcessor(dirs, reg, nil).WithOpener(lineOpener("Swedbank statement"))

	_, err := p.Sweep(context.Background())
	require.NoError(t, err)

	res, err := p.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 0, res.Failed)
}
