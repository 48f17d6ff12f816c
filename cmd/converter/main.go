package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkallio/statement-converter/internal/domain/batch"
	"github.com/mkallio/statement-converter/internal/domain/extract/formats"
	"github.com/mkallio/statement-converter/pkg/config"
	"github.com/mkallio/statement-converter/pkg/cron"
)

func main() {
	watch := flag.Bool("watch", false, "stay resident and sweep the pending directory on a schedule")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(*watch, logger); err != nil {
		logger.Error("converter exiting", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(watch bool, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var metrics *batch.Metrics
	promReg := prometheus.NewRegistry()
	if cfg.Observability.MetricsEnabled {
		metrics = batch.NewMetrics(promReg)
	}

	processor := batch.NewProcessor(formats.Registry(), cfg.Dirs, logger, metrics)

	if !watch {
		res, err := processor.Sweep(context.Background())
		if err != nil {
			return err
		}
		if res.Failed > 0 {
			return fmt.Errorf("%d file(s) failed, left in %s", res.Failed, cfg.Dirs.Pending)
		}
		return nil
	}

	scheduler := cron.NewScheduler(processor, cfg.Schedule.CronExpr, logger)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	scheduler.RunNow()

	var metricsSrv *http.Server
	if cfg.Observability.MetricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		metricsSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Observability.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics listening", slog.Int("port", cfg.Observability.MetricsPort))
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server", slog.Any("error", err))
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	<-scheduler.Stop().Done()
	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(ctx)
	}
	return nil
}
