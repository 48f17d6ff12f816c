// Package batch drives the statement lifecycle: PDFs dropped in the
// pending directory are identified, extracted, serialized to XML, JSON
// and CSV, and moved to the parsed directory. Files that fail stay in
// pending so a fixed run can pick them up again.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mkallio/statement-converter/internal/domain/export"
	"github.com/mkallio/statement-converter/internal/domain/extract"
	"github.com/mkallio/statement-converter/internal/domain/statement"
	"github.com/mkallio/statement-converter/pkg/config"
	"github.com/mkallio/statement-converter/pkg/pdfdoc"
)

// Metrics counts sweep outcomes per file.
type Metrics struct {
	Processed prometheus.Counter
	Skipped   prometheus.Counter
	Failed    prometheus.Counter
}

// NewMetrics registers the sweep counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Processed: factory.NewCounter(prometheus.CounterOpts{
			Name: "statements_processed_total",
			Help: "Statements extracted and serialized successfully.",
		}),
		Skipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "statements_skipped_total",
			Help: "PDFs no registered format recognized.",
		}),
		Failed: factory.NewCounter(prometheus.CounterOpts{
			Name: "statements_failed_total",
			Help: "PDFs a format recognized but could not extract.",
		}),
	}
}

// Processor sweeps the pending directory. Opener is injectable so tests
// can feed documents without real PDF files.
type Processor struct {
	registry *extract.Registry
	opener   func(string) (*pdfdoc.Document, error)
	dirs     config.DirConfig
	logger   *slog.Logger
	metrics  *Metrics
}

// NewProcessor builds a processor reading real PDFs from disk. A nil
// metrics set is replaced with counters on a private registry so callers
// without a metrics endpoint need no wiring.
func NewProcessor(registry *extract.Registry, dirs config.DirConfig, logger *slog.Logger, metrics *Metrics) *Processor {
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}
	return &Processor{
		registry: registry,
		opener:   pdfdoc.Open,
		dirs:     dirs,
		logger:   logger,
		metrics:  metrics,
	}
}

// WithOpener replaces the PDF reader. Used by tests.
func (p *Processor) WithOpener(open func(string) (*pdfdoc.Document, error)) *Processor {
	p.opener = open
	return p
}

// Result summarizes one sweep.
type Result struct {
	JobID     string
	Processed int
	Skipped   int
	Failed    int
}

// Sweep processes every PDF currently in the pending directory. A file
// that fails never aborts the sweep: it is logged, counted and left in
// place. The returned error covers only environment failures such as an
// unreadable pending directory.
func (p *Processor) Sweep(ctx context.Context) (*Result, error) {
	res := &Result{JobID: uuid.NewString()}
	log := p.logger.With(slog.String("job_id", res.JobID))

	for _, dir := range []string{p.dirs.Parsed, p.dirs.XML, p.dirs.JSON, p.dirs.CSV} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure output dir: %w", err)
		}
	}

	entries, err := os.ReadDir(p.dirs.Pending)
	if err != nil {
		return nil, fmt.Errorf("read pending dir: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		p.processFile(log, entry.Name(), res)
	}

	log.Info("sweep completed",
		slog.Int("processed", res.Processed),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}

func (p *Processor) processFile(log *slog.Logger, name string, res *Result) {
	path := filepath.Join(p.dirs.Pending, name)

	doc, err := p.opener(path)
	if err != nil {
		log.Error("unreadable pdf", slog.String("file", name), slog.Any("error", err))
		res.Failed++
		p.metrics.Failed.Inc()
		return
	}

	ext, err := p.registry.Identify(doc)
	if err != nil {
		if errors.Is(err, extract.ErrNotRecognized) {
			log.Warn("no format recognized", slog.String("file", name))
			res.Skipped++
			p.metrics.Skipped.Inc()
			return
		}
		log.Error("format identification failed", slog.String("file", name), slog.Any("error", err))
		res.Failed++
		p.metrics.Failed.Inc()
		return
	}

	st, err := ext.Extract(doc)
	if err != nil {
		log.Error("extraction failed",
			slog.String("file", name),
			slog.String("bic", ext.BIC()),
			slog.Any("error", err),
		)
		res.Failed++
		p.metrics.Failed.Inc()
		return
	}

	if err := p.writeOutputs(name, st); err != nil {
		log.Error("write outputs", slog.String("file", name), slog.Any("error", err))
		res.Failed++
		p.metrics.Failed.Inc()
		return
	}

	if err := os.Rename(path, filepath.Join(p.dirs.Parsed, name)); err != nil {
		log.Error("archive pdf", slog.String("file", name), slog.Any("error", err))
		res.Failed++
		p.metrics.Failed.Inc()
		return
	}

	if diff, ok := st.Reconcile(); ok && !diff.IsZero() {
		log.Warn("balance mismatch",
			slog.String("file", name),
			slog.String("difference", diff.StringFixed(2)),
		)
	}

	log.Info("statement converted",
		slog.String("file", name),
		slog.String("bic", ext.BIC()),
		slog.Int("transactions", len(st.Transactions)),
	)
	res.Processed++
	p.metrics.Processed.Inc()
}

func (p *Processor) writeOutputs(name string, st *statement.Statement) error {
	base := strings.TrimSuffix(name, filepath.Ext(name))

	if err := writeFile(filepath.Join(p.dirs.XML, base+".xml"), func(f *os.File) error {
		return export.NewCAMTEncoder().Encode(f, st)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(p.dirs.JSON, base+".json"), func(f *os.File) error {
		return export.NewJSONEncoder().Encode(f, st)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(p.dirs.CSV, base+".csv"), func(f *os.File) error {
		return export.EncodeCSV(f, st)
	})
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
