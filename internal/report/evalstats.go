package report

import (
	"sort"

	"fxeval/internal/pkg/text"
	"fxeval/internal/store"
)

const (
	logicWeight     = 0.6
	potentialWeight = 0.4

	topPerformerCount  = 3
	summaryPreviewSize = 100

	logicScoreMin = 1
	logicScoreMax = 5
)

// EvaluationStats aggregates evaluations over a period.
type EvaluationStats struct {
	TotalEvaluations    int            `json:"total_evaluations"`
	AverageLogicScore   float64        `json:"average_logic_score"`
	ScoreDistribution   map[int]int    `json:"score_distribution"`
	AveragePotentialPnL float64        `json:"average_potential_pnl"`
	CompletionRate      float64        `json:"evaluation_completion_rate"`
	TopPerformers       []TopPerformer `json:"top_performers"`
}

// TopPerformer is one highly ranked inference in the report.
type TopPerformer struct {
	InferenceID         int64   `json:"inference_id"`
	LogicScore          int     `json:"logic_score"`
	PotentialProfitLoss float64 `json:"potential_profit_loss"`
	CompositeScore      float64 `json:"composite_score"`
	Summary             string  `json:"summary"`
}

// AnalyzeEvaluations computes score and potential statistics.
// totalInferences is the number of inferences in the same period, used for
// the completion rate; zero inferences means a zero rate.
func AnalyzeEvaluations(evals []store.EvaluationRecord, totalInferences int) EvaluationStats {
	stats := EvaluationStats{
		ScoreDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		TopPerformers:     []TopPerformer{},
	}
	if len(evals) == 0 {
		return stats
	}

	scoreSum := 0
	pnlSum := 0.0
	for _, ev := range evals {
		stats.TotalEvaluations++
		scoreSum += ev.LogicScore
		pnlSum += ev.PotentialProfitLoss
		if ev.LogicScore >= 1 && ev.LogicScore <= 5 {
			stats.ScoreDistribution[ev.LogicScore]++
		}
	}
	stats.AverageLogicScore = float64(scoreSum) / float64(stats.TotalEvaluations)
	stats.AveragePotentialPnL = pnlSum / float64(stats.TotalEvaluations)
	if totalInferences > 0 {
		stats.CompletionRate = float64(stats.TotalEvaluations) / float64(totalInferences) * 100
	}
	stats.TopPerformers = RankTop(evals, topPerformerCount)
	return stats
}

// RankTop orders evaluations by a composite of normalized logic score and
// normalized potential profit/loss and returns the best n. The score axis
// normalizes over the fixed 1..5 scale; the potential axis is min-max over
// the input set, contributing 0.5 for every member when min == max. The sort
// is stable, so equal composites keep input order.
func RankTop(evals []store.EvaluationRecord, n int) []TopPerformer {
	if len(evals) == 0 || n <= 0 {
		return []TopPerformer{}
	}

	minPnl, maxPnl := evals[0].PotentialProfitLoss, evals[0].PotentialProfitLoss
	for _, ev := range evals[1:] {
		if ev.PotentialProfitLoss < minPnl {
			minPnl = ev.PotentialProfitLoss
		}
		if ev.PotentialProfitLoss > maxPnl {
			maxPnl = ev.PotentialProfitLoss
		}
	}

	normScore := func(s int) float64 {
		return float64(s-logicScoreMin) / float64(logicScoreMax-logicScoreMin)
	}
	normPnl := func(p float64) float64 {
		if maxPnl == minPnl {
			return 0.5
		}
		return (p - minPnl) / (maxPnl - minPnl)
	}

	ranked := make([]TopPerformer, 0, len(evals))
	for _, ev := range evals {
		composite := logicWeight*normScore(ev.LogicScore) + potentialWeight*normPnl(ev.PotentialProfitLoss)
		ranked = append(ranked, TopPerformer{
			InferenceID:         ev.InferenceID,
			LogicScore:          ev.LogicScore,
			PotentialProfitLoss: ev.PotentialProfitLoss,
			CompositeScore:      composite,
			Summary:             text.Truncate(ev.Summary, summaryPreviewSize),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
