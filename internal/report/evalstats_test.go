package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"fxeval/internal/store"
)

func eval(id int64, score int, pnl float64) store.EvaluationRecord {
	return store.EvaluationRecord{
		InferenceID:         id,
		LogicScore:          score,
		PotentialProfitLoss: pnl,
	}
}

func TestAnalyzeEvaluations(t *testing.T) {
	evals := []store.EvaluationRecord{
		eval(1, 5, 80),
		eval(2, 3, 40),
		eval(3, 1, 0),
		eval(4, 3, 40),
	}

	stats := AnalyzeEvaluations(evals, 8)

	assert.Equal(t, 4, stats.TotalEvaluations)
	assert.InDelta(t, 3.0, stats.AverageLogicScore, 1e-9)
	assert.InDelta(t, 40.0, stats.AveragePotentialPnL, 1e-9)
	assert.InDelta(t, 50.0, stats.CompletionRate, 1e-9)
	assert.Equal(t, map[int]int{1: 1, 2: 0, 3: 2, 4: 1, 5: 1}, stats.ScoreDistribution)
	assert.Len(t, stats.TopPerformers, 3)
	assert.Equal(t, int64(1), stats.TopPerformers[0].InferenceID)
}

func TestAnalyzeEvaluationsEmpty(t *testing.T) {
	stats := AnalyzeEvaluations(nil, 10)

	assert.Zero(t, stats.TotalEvaluations)
	assert.Zero(t, stats.CompletionRate)
	assert.NotNil(t, stats.TopPerformers)
	assert.Empty(t, stats.TopPerformers)
}

func TestRankTopComposite(t *testing.T) {
	evals := []store.EvaluationRecord{
		eval(1, 1, 0),
		eval(2, 5, 100),
		eval(3, 3, 50),
	}

	top := RankTop(evals, 3)

	assert.Equal(t, int64(2), top[0].InferenceID)
	assert.InDelta(t, 1.0, top[0].CompositeScore, 1e-9)
	assert.Equal(t, int64(3), top[1].InferenceID)
	assert.InDelta(t, 0.5, top[1].CompositeScore, 1e-9)
	assert.Equal(t, int64(1), top[2].InferenceID)
	assert.InDelta(t, 0.0, top[2].CompositeScore, 1e-9)
}

func TestRankTopScoreAxisIsFixedRange(t *testing.T) {
	// The score axis normalizes over 1..5, not over the candidate set: a
	// score-2 evaluation with the best potential must outrank a score-3
	// evaluation with the worst.
	evals := []store.EvaluationRecord{
		eval(1, 2, 100),
		eval(2, 3, 0),
	}

	top := RankTop(evals, 2)

	assert.Equal(t, int64(1), top[0].InferenceID)
	assert.InDelta(t, 0.55, top[0].CompositeScore, 1e-9)
	assert.Equal(t, int64(2), top[1].InferenceID)
	assert.InDelta(t, 0.30, top[1].CompositeScore, 1e-9)
}

func TestRankTopDegenerateAxes(t *testing.T) {
	// All members identical on both axes: score 3 sits mid-scale and the
	// flat potential axis contributes 0.5, so every composite is 0.5 and
	// input order is preserved.
	evals := []store.EvaluationRecord{
		eval(1, 3, 10),
		eval(2, 3, 10),
		eval(3, 3, 10),
	}

	top := RankTop(evals, 3)

	for i, tp := range top {
		assert.InDelta(t, 0.5, tp.CompositeScore, 1e-9)
		assert.Equal(t, int64(i+1), tp.InferenceID)
	}
}

func TestRankTopLimitsAndTruncates(t *testing.T) {
	evals := []store.EvaluationRecord{
		{InferenceID: 1, LogicScore: 5, PotentialProfitLoss: 10, Summary: strings.Repeat("a", 150)},
		{InferenceID: 2, LogicScore: 1, PotentialProfitLoss: 0},
	}

	top := RankTop(evals, 1)

	assert.Len(t, top, 1)
	assert.Equal(t, int64(1), top[0].InferenceID)
	assert.Equal(t, strings.Repeat("a", 100)+"...", top[0].Summary)
}
