package report

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Report is the complete generated artifact for one period.
type Report struct {
	TraceID     string             `json:"trace_id"`
	Period      string             `json:"period"`
	GeneratedAt time.Time          `json:"generated_at"`
	Performance PerformanceSummary `json:"performance"`
	Evaluations EvaluationStats    `json:"evaluations"`
	Suggestions []string           `json:"suggestions"`
}

// FormatText renders the report as the plain-text message sent to the
// notifier and archived alongside the JSON payload.
func FormatText(r Report) string {
	var b strings.Builder

	title := cases(r.Period) + " Performance Report"
	fmt.Fprintf(&b, "=== %s (%s) ===\n", title, r.GeneratedAt.UTC().Format(time.DateOnly))
	fmt.Fprintf(&b, "Period: %s to %s\n\n",
		r.Performance.StartDate.UTC().Format(time.DateTime),
		r.Performance.EndDate.UTC().Format(time.DateTime))

	b.WriteString("-- Trading --\n")
	fmt.Fprintf(&b, "Total trades:    %d\n", r.Performance.TotalTrades)
	fmt.Fprintf(&b, "Winning trades:  %d\n", r.Performance.WinningTrades)
	fmt.Fprintf(&b, "Losing trades:   %d\n", r.Performance.LosingTrades)
	fmt.Fprintf(&b, "Win rate:        %.2f%%\n", r.Performance.WinRate)
	fmt.Fprintf(&b, "Total P&L:       %.2f\n", r.Performance.TotalProfitLoss)
	fmt.Fprintf(&b, "Average profit:  %.2f\n", r.Performance.AverageProfit)
	fmt.Fprintf(&b, "Average loss:    %.2f\n", r.Performance.AverageLoss)
	fmt.Fprintf(&b, "Profit factor:   %s\n", formatProfitFactor(r.Performance.ProfitFactor))
	fmt.Fprintf(&b, "Max profit:      %.2f\n", r.Performance.MaxProfit)
	fmt.Fprintf(&b, "Max loss:        %.2f\n\n", r.Performance.MaxLoss)

	b.WriteString("-- Evaluations --\n")
	fmt.Fprintf(&b, "Total evaluations:   %d\n", r.Evaluations.TotalEvaluations)
	fmt.Fprintf(&b, "Average logic score: %.2f\n", r.Evaluations.AverageLogicScore)
	fmt.Fprintf(&b, "Avg potential P&L:   %.2f\n", r.Evaluations.AveragePotentialPnL)
	fmt.Fprintf(&b, "Completion rate:     %.1f%%\n", r.Evaluations.CompletionRate)
	if len(r.Evaluations.TopPerformers) > 0 {
		b.WriteString("Top performers:\n")
		for i, tp := range r.Evaluations.TopPerformers {
			fmt.Fprintf(&b, "  %d. inference #%d score=%d potential=%.2f composite=%.3f\n",
				i+1, tp.InferenceID, tp.LogicScore, tp.PotentialProfitLoss, tp.CompositeScore)
		}
	}
	b.WriteString("\n-- Suggestions --\n")
	for _, s := range r.Suggestions {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return b.String()
}

func formatProfitFactor(pf ProfitFactor) string {
	f := float64(pf)
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	return fmt.Sprintf("%.2f", f)
}

func cases(period string) string {
	if period == "" {
		return "Periodic"
	}
	period = strings.ReplaceAll(period, "_", " ")
	return strings.ToUpper(period[:1]) + period[1:]
}
