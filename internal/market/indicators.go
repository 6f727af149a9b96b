package market

import (
	"context"
	"fmt"
	"time"

	talib "github.com/markcheno/go-talib"

	"fxeval/internal/logger"
	"fxeval/internal/rates"
	"fxeval/internal/store"
)

// minBars is the history needed for the slowest indicator (EMA50 plus
// warmup).
const minBars = 60

// IndicatorService computes technical-indicator snapshots for the monitored
// pairs and persists them for use as report context.
type IndicatorService struct {
	store    store.Store
	source   rates.Source
	pairs    []string
	interval string
}

func NewIndicatorService(st store.Store, source rates.Source, pairs []string, interval string) *IndicatorService {
	if interval == "" {
		interval = "1h"
	}
	return &IndicatorService{
		store:    st,
		source:   source,
		pairs:    pairs,
		interval: interval,
	}
}

// RefreshAll computes and upserts the latest snapshot for every configured
// pair. Per-pair failures are logged and skipped; the error is non-nil only
// when every pair failed.
func (s *IndicatorService) RefreshAll(ctx context.Context) error {
	if len(s.pairs) == 0 {
		return nil
	}
	failures := 0
	for _, pair := range s.pairs {
		if err := s.refreshPair(ctx, pair); err != nil {
			failures++
			logger.Warnf("indicators: %s failed: %v", pair, err)
		}
	}
	if failures == len(s.pairs) {
		return fmt.Errorf("indicators: all %d pairs failed", failures)
	}
	return nil
}

func (s *IndicatorService) refreshPair(ctx context.Context, pair string) error {
	candles, err := s.source.FetchCandles(ctx, pair, s.interval, 200)
	if err != nil {
		return err
	}
	rec, err := Compute(pair, candles)
	if err != nil {
		return err
	}
	return s.store.Indicators().Upsert(ctx, rec)
}

// Compute derives the indicator snapshot from the most recent closed bar.
func Compute(pair string, candles []rates.Candle) (*store.IndicatorRecord, error) {
	if len(candles) < minBars {
		return nil, fmt.Errorf("need at least %d bars for %s, got %d", minBars, pair, len(candles))
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	rsi := talib.Rsi(closes, 14)
	macd, macdSignal, _ := talib.Macd(closes, 12, 26, 9)
	sma20 := talib.Sma(closes, 20)
	ema50 := talib.Ema(closes, 50)
	bbUpper, _, bbLower := talib.BBands(closes, 20, 2, 2, talib.SMA)
	adx := talib.Adx(highs, lows, closes, 14)

	last := len(candles) - 1
	return &store.IndicatorRecord{
		Pair:       pair,
		Timestamp:  time.UnixMilli(candles[last].CloseTime),
		Close:      closes[last],
		RSI:        rsi[last],
		MACD:       macd[last],
		MACDSignal: macdSignal[last],
		SMA20:      sma20[last],
		EMA50:      ema50[last],
		BBUpper:    bbUpper[last],
		BBLower:    bbLower[last],
		ADX:        adx[last],
	}, nil
}
