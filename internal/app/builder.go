package app

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fxeval/internal/collector"
	"fxeval/internal/config"
	"fxeval/internal/evaluation"
	"fxeval/internal/importer"
	"fxeval/internal/jobs"
	"fxeval/internal/market"
	"fxeval/internal/notifier"
	"fxeval/internal/rates"
	"fxeval/internal/report"
	"fxeval/internal/scheduler"
	"fxeval/internal/store/gormstore"
	"fxeval/internal/store/reportlog"
	transporthttp "fxeval/internal/transport/http"
	"fxeval/internal/vocab"
)

func build(cfg *config.Config) (*App, error) {
	st, err := gormstore.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	archive, err := reportlog.Open(cfg.Database.ReportLogPath)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("open report archive: %w", err)
	}

	registry, err := vocab.NewRegistry(cfg.Vocab.Path)
	if err != nil {
		st.Close()
		archive.Close()
		return nil, fmt.Errorf("load vocabularies: %w", err)
	}

	evalSvc := evaluation.NewService(st, registry)
	tradeImporter := importer.New(st)

	var reportNotifier report.Notifier
	if cfg.Report.Webhook.URL != "" {
		reportNotifier = notifier.NewWebhook(cfg.Report.Webhook.URL, cfg.Report.Webhook.Channel)
	}
	reports := report.NewGenerator(st, archive, reportNotifier, cfg.Report.ChartDir)

	a := &App{
		cfg:      cfg,
		store:    st,
		archive:  archive,
		registry: registry,
		eval:     evalSvc,
		importer: tradeImporter,
		reports:  reports,
	}

	if cfg.Collector.Enabled {
		sources := make([]collector.Source, 0, len(cfg.Collector.Sources))
		for _, srcCfg := range cfg.Collector.Sources {
			src, err := collector.NewHTTPSource(srcCfg)
			if err != nil {
				a.Close()
				return nil, err
			}
			sources = append(sources, src)
		}
		lookback := time.Duration(cfg.Collector.LookbackHours) * time.Hour
		a.collector = collector.New(sources, st, registry, lookback)
	}

	if cfg.Rates.Enabled {
		source, err := rates.NewBinanceSource(cfg.Rates.Binance)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("build rates source: %w", err)
		}
		spread, err := decimal.NewFromString(cfg.Rates.SpreadPerUnit)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("parse spread: %w", err)
		}
		a.valuer = rates.NewValuer(st, source, spread)
		a.indicators = market.NewIndicatorService(st, source, cfg.Rates.Pairs, cfg.Rates.Interval)
	}

	if cfg.Scheduler.Enabled {
		sched := scheduler.New()
		if err := registerJobs(sched, cfg, a); err != nil {
			a.Close()
			return nil, err
		}
		a.sched = sched
	}

	httpServer, err := transporthttp.NewServer(transporthttp.ServerConfig{
		Addr:     fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Mode:     cfg.Server.Mode,
		AppName:  cfg.App.Name,
		Store:    st,
		Registry: registry,
		Eval:     evalSvc,
		Importer: tradeImporter,
		Reports:  reports,
		Archive:  archive,
		Sched:    a.sched,
		Valuer:   a.valuer,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.http = httpServer
	return a, nil
}

func registerJobs(sched *scheduler.Scheduler, cfg *config.Config, a *App) error {
	if a.collector != nil {
		if err := sched.AddJob(cfg.Scheduler.CollectCron, &jobs.CollectJob{Collector: a.collector}); err != nil {
			return err
		}
	}
	if err := sched.AddJob(cfg.Scheduler.EvaluateCron, &jobs.EvaluateJob{
		Service: a.eval,
		Limit:   cfg.Scheduler.EvaluateLimit,
	}); err != nil {
		return err
	}
	if err := sched.AddJob(cfg.Scheduler.DailyReportCron, &jobs.ReportJob{
		Generator: a.reports,
		Period:    report.PeriodDaily,
	}); err != nil {
		return err
	}
	if err := sched.AddJob(cfg.Scheduler.WeeklyReportCron, &jobs.ReportJob{
		Generator: a.reports,
		Period:    report.PeriodWeekly,
	}); err != nil {
		return err
	}
	if a.valuer != nil {
		if err := sched.AddJob(cfg.Scheduler.HoldingsCron, &jobs.HoldingsJob{Valuer: a.valuer}); err != nil {
			return err
		}
	}
	if a.indicators != nil {
		if err := sched.AddJob(cfg.Scheduler.IndicatorCron, &jobs.IndicatorJob{Service: a.indicators}); err != nil {
			return err
		}
	}
	return nil
}
