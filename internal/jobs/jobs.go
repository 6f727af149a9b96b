// Package jobs adapts the service layer to the scheduler's Job interface.
package jobs

import (
	"context"

	"fxeval/internal/collector"
	"fxeval/internal/evaluation"
	"fxeval/internal/logger"
	"fxeval/internal/market"
	"fxeval/internal/rates"
	"fxeval/internal/report"
)

// CollectJob runs one collection sweep.
type CollectJob struct {
	Collector *collector.Collector
}

func (j *CollectJob) Name() string { return "collect-inferences" }

func (j *CollectJob) Run(ctx context.Context) error {
	_, err := j.Collector.Run(ctx)
	return err
}

// EvaluateJob sweeps unevaluated inferences.
type EvaluateJob struct {
	Service *evaluation.Service
	Limit   int
}

func (j *EvaluateJob) Name() string { return "evaluate-pending" }

func (j *EvaluateJob) Run(ctx context.Context) error {
	limit := j.Limit
	if limit <= 0 {
		limit = 50
	}
	_, err := j.Service.SweepUnevaluated(ctx, limit)
	return err
}

// ReportJob generates one periodic report.
type ReportJob struct {
	Generator *report.Generator
	Period    string
}

func (j *ReportJob) Name() string { return "report-" + j.Period }

func (j *ReportJob) Run(ctx context.Context) error {
	_, err := j.Generator.Generate(ctx, j.Period)
	return err
}

// HoldingsJob snapshots the open-trade valuation into the log.
type HoldingsJob struct {
	Valuer *rates.Valuer
}

func (j *HoldingsJob) Name() string { return "holdings-snapshot" }

func (j *HoldingsJob) Run(ctx context.Context) error {
	snap, err := j.Valuer.Snapshot(ctx)
	if err != nil {
		return err
	}
	logger.Infof("holdings: %d open positions, unrealized P&L %s",
		len(snap.Holdings), snap.TotalPnL.StringFixed(2))
	return nil
}

// IndicatorJob refreshes technical-indicator snapshots.
type IndicatorJob struct {
	Service *market.IndicatorService
}

func (j *IndicatorJob) Name() string { return "indicator-refresh" }

func (j *IndicatorJob) Run(ctx context.Context) error {
	return j.Service.RefreshAll(ctx)
}
