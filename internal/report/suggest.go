package report

// Suggestion trigger thresholds.
const (
	lowWinRate        = 50.0
	lowAverageScore   = 3.0
	lowProfitFactor   = 1.2
	lowCompletionRate = 80.0
)

// Suggest derives improvement suggestions from the aggregated numbers. Each
// threshold that trips contributes one suggestion; a clean sheet yields a
// single positive note.
func Suggest(perf PerformanceSummary, evals EvaluationStats) []string {
	var out []string

	if perf.TotalTrades > 0 && perf.WinRate < lowWinRate {
		out = append(out, "win rate is below 50%, review entry criteria")
	}
	if evals.TotalEvaluations > 0 && evals.AverageLogicScore < lowAverageScore {
		out = append(out, "average logic score is low, require deeper market analysis before acting")
	}
	if perf.TotalTrades > 0 && float64(perf.ProfitFactor) < lowProfitFactor {
		out = append(out, "profit factor is below 1.2, tighten loss cutting or let winners run longer")
	}
	if evals.TotalEvaluations > 0 && evals.CompletionRate < lowCompletionRate {
		out = append(out, "evaluation completion rate is below 80%, run the evaluation sweep more often")
	}

	if len(out) == 0 {
		out = append(out, "current performance is good, keep the present strategy")
	}
	return out
}
