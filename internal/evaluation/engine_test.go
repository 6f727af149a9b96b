package evaluation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fxeval/internal/inference"
	"fxeval/internal/store"
	"fxeval/internal/vocab"
)

func ptrFloat(v float64) *float64 { return &v }

func TestEvaluateProducesDraft(t *testing.T) {
	engine := NewEngine(vocab.Defaults().Logic)
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return fixed }

	inf := store.InferenceRecord{
		ID:          7,
		RawResponse: "trend support volume rsi macd stop loss risk",
		Actions: []inference.Action{
			{Action: inference.ActionBuy, Pair: "USDJPY", Confidence: 0.8},
		},
	}
	draft := engine.Evaluate(inf, nil)

	assert.Equal(t, int64(7), draft.InferenceID)
	assert.Equal(t, fixed, draft.EvaluationTime)
	assert.Equal(t, 4, draft.LogicScore)
	assert.InDelta(t, 64.0, draft.PotentialProfitLoss, 1e-9)
	assert.Contains(t, draft.Summary, "inference logic is excellent")
	assert.Contains(t, draft.Summary, "high profit potential")
	assert.NotContains(t, draft.Summary, "actual:")
}

func TestSummaryWithUnsettledTrades(t *testing.T) {
	engine := NewEngine(vocab.Defaults().Logic)

	inf := store.InferenceRecord{ID: 1, RawResponse: ""}
	trades := []store.TradeRecord{
		{ID: 10, Pair: "USDJPY", Action: "BUY"},
		{ID: 11, Pair: "USDJPY", Action: "BUY"},
	}
	draft := engine.Evaluate(inf, trades)

	assert.Contains(t, draft.Summary, "actual: executed trades: 2 (unsettled)")
	assert.Contains(t, draft.Summary, "inference logic needs improvement")
	assert.Contains(t, draft.Summary, "strengthening market analysis and risk management is recommended")
}

func TestSummaryWithSettledTrades(t *testing.T) {
	engine := NewEngine(vocab.Defaults().Logic)

	inf := store.InferenceRecord{ID: 2, RawResponse: ""}
	trades := []store.TradeRecord{
		{ID: 20, ProfitLoss: ptrFloat(500)},
		{ID: 21, ProfitLoss: ptrFloat(-200)},
		{ID: 22}, // still open
	}
	draft := engine.Evaluate(inf, trades)

	assert.Contains(t, draft.Summary, "executed trades: 3, settled: 2, win rate: 50.0%, total P&L: 300.00")
}

func TestDraftRecordRoundTrip(t *testing.T) {
	d := Draft{
		InferenceID:         5,
		EvaluationTime:      time.Now(),
		LogicScore:          3,
		LogicComment:        "c",
		PotentialProfitLoss: 12.5,
		Summary:             "s",
	}
	rec := d.Record()
	assert.Equal(t, d.InferenceID, rec.InferenceID)
	assert.Equal(t, d.LogicScore, rec.LogicScore)
	assert.Equal(t, d.PotentialProfitLoss, rec.PotentialProfitLoss)
	assert.Equal(t, d.Summary, rec.Summary)
}
