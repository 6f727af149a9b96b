package evaluation

import (
	"fmt"
	"strings"
	"time"

	"fxeval/internal/store"
	"fxeval/internal/vocab"
)

// Summary thresholds. Potential above highPotential reads as a strong
// opportunity, anything positive as mild.
const (
	scoreExcellent = 4
	scoreGood      = 3
	highPotential  = 50.0
)

// Draft is a completed judgment not yet persisted. The caller decides whether
// it becomes a new row or replaces an existing one.
type Draft struct {
	InferenceID         int64
	EvaluationTime      time.Time
	LogicScore          int
	LogicComment        string
	PotentialProfitLoss float64
	Summary             string
}

// Record converts the draft into a persistable evaluation.
func (d Draft) Record() *store.EvaluationRecord {
	return &store.EvaluationRecord{
		InferenceID:         d.InferenceID,
		EvaluationTime:      d.EvaluationTime,
		LogicScore:          d.LogicScore,
		LogicComment:        d.LogicComment,
		PotentialProfitLoss: d.PotentialProfitLoss,
		Summary:             d.Summary,
	}
}

// Engine runs the full judgment of one inference: logic scoring, potential
// outcome, realized-trade analysis, human-readable summary.
type Engine struct {
	logic *LogicEvaluator
	now   func() time.Time
}

func NewEngine(tbl vocab.LogicTable) *Engine {
	return &Engine{
		logic: NewLogicEvaluator(tbl),
		now:   time.Now,
	}
}

// Evaluate judges one inference against its linked trades. trades may be
// empty; the summary then omits the realized section.
func (e *Engine) Evaluate(inf store.InferenceRecord, trades []store.TradeRecord) Draft {
	score, comment := e.logic.Score(inf.Prompt, inf.RawResponse)
	potential := EstimatePotential(inf.Actions)

	return Draft{
		InferenceID:         inf.ID,
		EvaluationTime:      e.now(),
		LogicScore:          score,
		LogicComment:        comment,
		PotentialProfitLoss: potential,
		Summary:             buildSummary(score, potential, trades),
	}
}

func buildSummary(score int, potential float64, trades []store.TradeRecord) string {
	parts := make([]string, 0, 4)

	switch {
	case score >= scoreExcellent:
		parts = append(parts, "inference logic is excellent")
	case score >= scoreGood:
		parts = append(parts, "inference logic is good")
	default:
		parts = append(parts, "inference logic needs improvement")
	}

	switch {
	case potential > highPotential:
		parts = append(parts, "high profit potential")
	case potential > 0:
		parts = append(parts, "positive profit potential")
	default:
		parts = append(parts, "inference carries risk")
	}

	if len(trades) > 0 {
		parts = append(parts, "actual: "+analyzeTrades(trades))
	}

	if score < scoreGood {
		parts = append(parts, "strengthening market analysis and risk management is recommended")
	}

	return strings.Join(parts, ". ") + "."
}

// analyzeTrades summarizes realized performance. Trades without a settled
// profit/loss only count toward the executed total.
func analyzeTrades(trades []store.TradeRecord) string {
	settled := 0
	wins := 0
	total := 0.0
	for _, t := range trades {
		if !t.Settled() {
			continue
		}
		settled++
		pnl := *t.ProfitLoss
		total += pnl
		if pnl > 0 {
			wins++
		}
	}
	if settled == 0 {
		return fmt.Sprintf("executed trades: %d (unsettled)", len(trades))
	}
	winRate := float64(wins) / float64(settled) * 100
	return fmt.Sprintf("executed trades: %d, settled: %d, win rate: %.1f%%, total P&L: %.2f",
		len(trades), settled, winRate, total)
}
