package report

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fxeval/internal/store"
)

func settledTrade(pnl float64) store.TradeRecord {
	return store.TradeRecord{ProfitLoss: &pnl}
}

func TestSummarizeMixedTrades(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	trades := []store.TradeRecord{
		settledTrade(500),
		settledTrade(500),
		settledTrade(-1000),
		{}, // open trade, ignored
	}

	sum := Summarize(PeriodDaily, start, end, trades)

	assert.Equal(t, 3, sum.TotalTrades)
	assert.Equal(t, 2, sum.WinningTrades)
	assert.Equal(t, 1, sum.LosingTrades)
	assert.InDelta(t, 66.6667, sum.WinRate, 0.001)
	assert.InDelta(t, 0.0, sum.TotalProfitLoss, 1e-9)
	assert.InDelta(t, 500.0, sum.AverageProfit, 1e-9)
	assert.InDelta(t, -1000.0, sum.AverageLoss, 1e-9)
	assert.InDelta(t, 1.0, float64(sum.ProfitFactor), 1e-9)
	assert.InDelta(t, 500.0, sum.MaxProfit, 1e-9)
	assert.InDelta(t, -1000.0, sum.MaxLoss, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	end := time.Now()

	sum := Summarize(PeriodDaily, start, end, nil)

	assert.Equal(t, 0, sum.TotalTrades)
	assert.Zero(t, sum.WinRate)
	assert.Zero(t, float64(sum.ProfitFactor))
	assert.Equal(t, start, sum.StartDate)
	assert.Equal(t, end, sum.EndDate)
}

func TestSummarizeOnlyWinners(t *testing.T) {
	sum := Summarize(PeriodWeekly, time.Now(), time.Now(), []store.TradeRecord{
		settledTrade(100),
		settledTrade(250),
	})

	assert.True(t, math.IsInf(float64(sum.ProfitFactor), 1))
	assert.InDelta(t, 100.0, sum.WinRate, 1e-9)
}

func TestProfitFactorJSON(t *testing.T) {
	t.Run("finite", func(t *testing.T) {
		data, err := json.Marshal(ProfitFactor(1.25))
		assert.NoError(t, err)
		assert.Equal(t, "1.25", string(data))
	})

	t.Run("infinite", func(t *testing.T) {
		data, err := json.Marshal(ProfitFactor(math.Inf(1)))
		assert.NoError(t, err)
		assert.Equal(t, `"Infinity"`, string(data))
	})

	t.Run("round trip infinite", func(t *testing.T) {
		var pf ProfitFactor
		assert.NoError(t, json.Unmarshal([]byte(`"Infinity"`), &pf))
		assert.True(t, math.IsInf(float64(pf), 1))
	})
}

func TestPeriodBounds(t *testing.T) {
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)

	t.Run("daily", func(t *testing.T) {
		start, end, err := PeriodBounds(PeriodDaily, now)
		assert.NoError(t, err)
		assert.Equal(t, now.Add(-24*time.Hour), start)
		assert.Equal(t, now, end)
	})

	t.Run("weekly", func(t *testing.T) {
		start, _, err := PeriodBounds(PeriodWeekly, now)
		assert.NoError(t, err)
		assert.Equal(t, now.Add(-7*24*time.Hour), start)
	})

	t.Run("all_time", func(t *testing.T) {
		start, _, err := PeriodBounds(PeriodAllTime, now)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), start)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := PeriodBounds("monthly", now)
		assert.Error(t, err)
	})
}
