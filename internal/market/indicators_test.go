package market

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxeval/internal/rates"
	"fxeval/internal/store/gormstore"
)

// syntheticCandles produces a gentle sine wave around base so every indicator
// has variation to work with.
func syntheticCandles(n int, base float64, start time.Time) []rates.Candle {
	out := make([]rates.Candle, n)
	for i := range out {
		close := base + 2*math.Sin(float64(i)/5)
		open := base + 2*math.Sin(float64(i-1)/5)
		t := start.Add(time.Duration(i) * time.Hour)
		out[i] = rates.Candle{
			OpenTime:  t.UnixMilli(),
			CloseTime: t.Add(time.Hour).UnixMilli() - 1,
			Open:      open,
			High:      math.Max(open, close) + 0.5,
			Low:       math.Min(open, close) - 0.5,
			Close:     close,
			Volume:    1000,
		}
	}
	return out
}

type fakeCandleSource struct {
	candles map[string][]rates.Candle
	err     error
}

func (f *fakeCandleSource) LatestPrices(ctx context.Context, symbols []string) (map[string]rates.Quote, error) {
	return nil, nil
}

func (f *fakeCandleSource) FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]rates.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candles[symbol], nil
}

func TestComputeSnapshot(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	candles := syntheticCandles(200, 150.0, start)

	rec, err := Compute("USDJPY", candles)
	require.NoError(t, err)

	last := candles[len(candles)-1]
	assert.Equal(t, "USDJPY", rec.Pair)
	assert.Equal(t, time.UnixMilli(last.CloseTime), rec.Timestamp)
	assert.Equal(t, last.Close, rec.Close)

	assert.False(t, math.IsNaN(rec.RSI))
	assert.Greater(t, rec.RSI, 0.0)
	assert.Less(t, rec.RSI, 100.0)
	assert.False(t, math.IsNaN(rec.MACD))
	assert.False(t, math.IsNaN(rec.MACDSignal))
	assert.InDelta(t, 150.0, rec.SMA20, 3.0)
	assert.InDelta(t, 150.0, rec.EMA50, 3.0)
	assert.Greater(t, rec.BBUpper, rec.BBLower)
	assert.False(t, math.IsNaN(rec.ADX))
}

func TestComputeRequiresHistory(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := Compute("USDJPY", syntheticCandles(30, 150.0, start))
	assert.ErrorContains(t, err, "at least 60 bars")
}

func TestRefreshAll(t *testing.T) {
	st, err := gormstore.New(filepath.Join(t.TempDir(), "market.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("persists per pair", func(t *testing.T) {
		src := &fakeCandleSource{candles: map[string][]rates.Candle{
			"USDJPY": syntheticCandles(200, 150.0, start),
			"EURUSD": syntheticCandles(200, 1.08, start),
		}}
		svc := NewIndicatorService(st, src, []string{"USDJPY", "EURUSD"}, "1h")

		require.NoError(t, svc.RefreshAll(context.Background()))

		for _, pair := range []string{"USDJPY", "EURUSD"} {
			recs, err := st.Indicators().ListByPair(context.Background(), pair, 10)
			require.NoError(t, err)
			assert.Len(t, recs, 1, pair)
		}
	})

	t.Run("partial failure is tolerated", func(t *testing.T) {
		src := &fakeCandleSource{candles: map[string][]rates.Candle{
			"USDJPY": syntheticCandles(200, 150.0, start),
			// GBPUSD missing, too few bars
		}}
		svc := NewIndicatorService(st, src, []string{"USDJPY", "GBPUSD"}, "1h")
		assert.NoError(t, svc.RefreshAll(context.Background()))
	})

	t.Run("all pairs failed", func(t *testing.T) {
		src := &fakeCandleSource{err: errors.New("upstream down")}
		svc := NewIndicatorService(st, src, []string{"USDJPY"}, "1h")
		assert.Error(t, svc.RefreshAll(context.Background()))
	})

	t.Run("no pairs is a no-op", func(t *testing.T) {
		svc := NewIndicatorService(st, &fakeCandleSource{}, nil, "")
		assert.NoError(t, svc.RefreshAll(context.Background()))
	})
}
