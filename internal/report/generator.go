package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fxeval/internal/logger"
	"fxeval/internal/store"
	"fxeval/internal/store/reportlog"
)

// Notifier delivers a finished report text to an external channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Generator assembles periodic reports from the store, archives them and
// hands the text rendering to the notifier. Archive and notifier are both
// optional; a nil one skips that step.
type Generator struct {
	store    store.Store
	archive  *reportlog.Store
	notifier Notifier
	chartDir string
	now      func() time.Time
}

func NewGenerator(st store.Store, archive *reportlog.Store, notifier Notifier, chartDir string) *Generator {
	return &Generator{
		store:    st,
		archive:  archive,
		notifier: notifier,
		chartDir: chartDir,
		now:      time.Now,
	}
}

// Build computes the report for one period without archiving or notifying.
func (g *Generator) Build(ctx context.Context, period string) (Report, error) {
	now := g.now()
	start, end, err := PeriodBounds(period, now)
	if err != nil {
		return Report{}, err
	}

	trades, err := g.store.Trades().ListSettledBetween(ctx, start, end)
	if err != nil {
		return Report{}, fmt.Errorf("load settled trades: %w", err)
	}
	evals, err := g.store.Evaluations().ListByInferenceTimeRange(ctx, start, end)
	if err != nil {
		return Report{}, fmt.Errorf("load evaluations: %w", err)
	}
	totalInferences, err := g.store.Inferences().CountBetween(ctx, start, end)
	if err != nil {
		return Report{}, fmt.Errorf("count inferences: %w", err)
	}

	perf := Summarize(period, start, end, trades)
	stats := AnalyzeEvaluations(evals, int(totalInferences))

	return Report{
		TraceID:     uuid.NewString(),
		Period:      period,
		GeneratedAt: now,
		Performance: perf,
		Evaluations: stats,
		Suggestions: Suggest(perf, stats),
	}, nil
}

// Generate builds, archives and delivers the report for one period. Chart
// rendering and notification failures are logged but do not fail the run;
// the archived record is the source of truth.
func (g *Generator) Generate(ctx context.Context, period string) (Report, error) {
	rep, err := g.Build(ctx, period)
	if err != nil {
		return Report{}, err
	}
	text := FormatText(rep)

	if g.chartDir != "" {
		trades, err := g.store.Trades().ListSettledBetween(ctx,
			rep.Performance.StartDate, rep.Performance.EndDate)
		if err == nil {
			name := fmt.Sprintf("%s_%s", period, rep.GeneratedAt.UTC().Format("20060102_150405"))
			if _, err := WriteChartFile(g.chartDir, name, rep.Evaluations, trades); err != nil {
				logger.Warnf("report %s: chart render failed: %v", rep.TraceID, err)
			}
		}
	}

	if g.archive != nil {
		payload, err := json.Marshal(rep)
		if err != nil {
			return Report{}, fmt.Errorf("marshal report payload: %w", err)
		}
		rec := &reportlog.Record{
			TraceID:   rep.TraceID,
			Period:    period,
			StartUnix: rep.Performance.StartDate.Unix(),
			EndUnix:   rep.Performance.EndDate.Unix(),
			Payload:   string(payload),
			Text:      text,
		}
		if err := g.archive.Insert(ctx, rec); err != nil {
			return Report{}, fmt.Errorf("archive report: %w", err)
		}
	}

	if g.notifier != nil {
		if err := g.notifier.Send(ctx, text); err != nil {
			logger.Warnf("report %s: notify failed: %v", rep.TraceID, err)
		}
	}

	logger.Infof("report %s generated: period=%s trades=%d evaluations=%d",
		rep.TraceID, period, rep.Performance.TotalTrades, rep.Evaluations.TotalEvaluations)
	return rep, nil
}
