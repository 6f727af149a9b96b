// Package app assembles the service from configuration and runs it.
package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fxeval/internal/collector"
	"fxeval/internal/config"
	"fxeval/internal/evaluation"
	"fxeval/internal/importer"
	"fxeval/internal/logger"
	"fxeval/internal/market"
	"fxeval/internal/rates"
	"fxeval/internal/report"
	"fxeval/internal/scheduler"
	"fxeval/internal/store"
	"fxeval/internal/store/reportlog"
	transporthttp "fxeval/internal/transport/http"
	"fxeval/internal/vocab"
)

// App owns the wired service components.
type App struct {
	cfg *config.Config

	store      store.Store
	archive    *reportlog.Store
	registry   *vocab.Registry
	eval       *evaluation.Service
	importer   *importer.Importer
	reports    *report.Generator
	collector  *collector.Collector
	valuer     *rates.Valuer
	indicators *market.IndicatorService
	sched      *scheduler.Scheduler
	http       *transporthttp.Server
}

// New builds the application from configuration without starting anything.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return build(cfg)
}

// Run starts the HTTP server and the scheduler and blocks until ctx is
// canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	group, ctx := errgroup.WithContext(ctx)

	if a.sched != nil {
		a.sched.Start()
		group.Go(func() error {
			<-ctx.Done()
			a.sched.Stop()
			return nil
		})
	}

	group.Go(func() error {
		if err := a.http.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	err := group.Wait()
	a.Close()
	return err
}

// Close releases the database handles. Safe to call more than once.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			logger.Warnf("close report archive: %v", err)
		}
		a.archive = nil
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warnf("close store: %v", err)
		}
		a.store = nil
	}
}
