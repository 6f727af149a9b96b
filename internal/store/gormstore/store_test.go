package gormstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxeval/internal/inference"
	"fxeval/internal/store"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateInference(t *testing.T, s *GormStore, externalID string, at time.Time) *store.InferenceRecord {
	t.Helper()
	rec := &store.InferenceRecord{
		ExternalMessageID: externalID,
		InferenceTime:     at,
		Prompt:            "p",
		RawResponse:       "BUY USDJPY",
		Actions: []inference.Action{
			{Action: inference.ActionBuy, Pair: "USDJPY", Confidence: 0.5},
		},
	}
	require.NoError(t, s.Inferences().Create(context.Background(), rec))
	require.NotZero(t, rec.ID)
	return rec
}

func TestInferenceCreateAndDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	rec := mustCreateInference(t, s, "msg-1", now)

	t.Run("duplicate external id", func(t *testing.T) {
		dup := &store.InferenceRecord{ExternalMessageID: "msg-1", InferenceTime: now}
		err := s.Inferences().Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("find by id", func(t *testing.T) {
		got, err := s.Inferences().FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "msg-1", got.ExternalMessageID)
		assert.Equal(t, now.Unix(), got.InferenceTime.Unix())
		require.Len(t, got.Actions, 1)
		assert.Equal(t, "USDJPY", got.Actions[0].Pair)
	})

	t.Run("find by external id", func(t *testing.T) {
		got, err := s.Inferences().FindByExternalID(ctx, "msg-1")
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := s.Inferences().FindByID(ctx, 9999)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestInferenceUpdateActions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rec := mustCreateInference(t, s, "msg-act", time.Now())

	updated := []inference.Action{
		{Action: inference.ActionSell, Pair: "EURUSD", Confidence: 0.7},
	}
	require.NoError(t, s.Inferences().UpdateActions(ctx, rec.ID, updated))

	got, err := s.Inferences().FindByID(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, "EURUSD", got.Actions[0].Pair)

	assert.ErrorIs(t, s.Inferences().UpdateActions(ctx, 9999, updated), store.ErrNotFound)
}

func TestInferenceFindNearest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	early := mustCreateInference(t, s, "early", base.Add(-time.Hour))
	late := mustCreateInference(t, s, "late", base.Add(30*time.Minute))
	mustCreateInference(t, s, "far", base.Add(26*time.Hour))

	t.Run("picks minimum distance", func(t *testing.T) {
		got, err := s.Inferences().FindNearest(ctx, base, 2*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, late.ID, got.ID)
	})

	t.Run("window excludes distant rows", func(t *testing.T) {
		got, err := s.Inferences().FindNearest(ctx, base.Add(-50*time.Minute), 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, early.ID, got.ID)
	})

	t.Run("empty window", func(t *testing.T) {
		_, err := s.Inferences().FindNearest(ctx, base.Add(10*time.Hour), time.Hour)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("tie keeps first row", func(t *testing.T) {
		// early is -1h, late is +30m from base; from base-15m both are
		// 45m away and the lower id wins.
		got, err := s.Inferences().FindNearest(ctx, base.Add(-15*time.Minute), 2*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, early.ID, got.ID)
	})
}

func TestInferenceCountBetween(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	mustCreateInference(t, s, "a", base.Add(1*time.Hour))
	mustCreateInference(t, s, "b", base.Add(2*time.Hour))
	mustCreateInference(t, s, "c", base.Add(30*time.Hour))

	count, err := s.Inferences().CountBetween(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestTradeCreateRequiresParent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	missing := int64(1234)
	err := s.Trades().Create(ctx, &store.TradeRecord{
		InferenceID: &missing,
		TradeTime:   time.Now(),
		Pair:        "USDJPY",
		Action:      "BUY",
		EntryPrice:  150.0,
		Amount:      1,
	})
	assert.ErrorIs(t, err, store.ErrMissingParent)

	t.Run("nil parent allowed", func(t *testing.T) {
		rec := &store.TradeRecord{
			TradeTime:  time.Now(),
			Pair:       "USDJPY",
			Action:     "BUY",
			EntryPrice: 150.0,
			Amount:     1,
		}
		require.NoError(t, s.Trades().Create(ctx, rec))
		assert.NotZero(t, rec.ID)
	})
}

func TestTradeQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	inf := mustCreateInference(t, s, "trades", base)

	pnl := 120.5
	exit := 151.2
	settled := &store.TradeRecord{
		InferenceID: &inf.ID,
		TradeTime:   base.Add(10 * time.Minute),
		Pair:        "USDJPY",
		Action:      "BUY",
		EntryPrice:  150.0,
		ExitPrice:   &exit,
		Amount:      1,
		ProfitLoss:  &pnl,
	}
	require.NoError(t, s.Trades().Create(ctx, settled))

	open := &store.TradeRecord{
		TradeTime:  base.Add(20 * time.Minute),
		Pair:       "EURUSD",
		Action:     "SELL",
		EntryPrice: 1.08,
		Amount:     2,
	}
	require.NoError(t, s.Trades().Create(ctx, open))

	t.Run("list by inference", func(t *testing.T) {
		got, err := s.Trades().ListByInference(ctx, inf.ID)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, settled.ID, got[0].ID)
	})

	t.Run("settled between", func(t *testing.T) {
		got, err := s.Trades().ListSettledBetween(ctx, base, base.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].ProfitLoss)
		assert.InDelta(t, pnl, *got[0].ProfitLoss, 1e-9)
	})

	t.Run("open trades", func(t *testing.T) {
		got, err := s.Trades().ListOpen(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, open.ID, got[0].ID)
	})

	t.Run("find by details", func(t *testing.T) {
		got, err := s.Trades().FindByDetails(ctx, settled.TradeTime, "USDJPY", "BUY", 150.0, 1)
		require.NoError(t, err)
		assert.Equal(t, settled.ID, got.ID)

		_, err = s.Trades().FindByDetails(ctx, settled.TradeTime, "USDJPY", "BUY", 151.0, 1)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("attach inference", func(t *testing.T) {
		require.NoError(t, s.Trades().AttachInference(ctx, open.ID, inf.ID))
		got, err := s.Trades().FindByID(ctx, open.ID)
		require.NoError(t, err)
		require.NotNil(t, got.InferenceID)
		assert.Equal(t, inf.ID, *got.InferenceID)
	})
}

func TestEvaluationLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	inf := mustCreateInference(t, s, "eval", time.Now())

	rec := &store.EvaluationRecord{
		InferenceID:         inf.ID,
		EvaluationTime:      time.Now(),
		LogicScore:          3,
		LogicComment:        "ok",
		PotentialProfitLoss: 40,
		Summary:             "summary",
	}
	require.NoError(t, s.Evaluations().Create(ctx, rec))

	t.Run("duplicate rejected", func(t *testing.T) {
		err := s.Evaluations().Create(ctx, &store.EvaluationRecord{InferenceID: inf.ID})
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("missing parent rejected", func(t *testing.T) {
		err := s.Evaluations().Create(ctx, &store.EvaluationRecord{InferenceID: 9999})
		assert.ErrorIs(t, err, store.ErrMissingParent)
	})

	t.Run("delete then create", func(t *testing.T) {
		require.NoError(t, s.Evaluations().DeleteByInference(ctx, inf.ID))
		// Deleting again is not an error.
		require.NoError(t, s.Evaluations().DeleteByInference(ctx, inf.ID))

		replacement := &store.EvaluationRecord{
			InferenceID:    inf.ID,
			EvaluationTime: time.Now(),
			LogicScore:     5,
		}
		require.NoError(t, s.Evaluations().Create(ctx, replacement))

		got, err := s.Evaluations().FindByInference(ctx, inf.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.LogicScore)
	})
}

func TestListUnevaluated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	older := mustCreateInference(t, s, "u-old", base)
	newer := mustCreateInference(t, s, "u-new", base.Add(time.Hour))
	evaluated := mustCreateInference(t, s, "u-done", base.Add(2*time.Hour))
	require.NoError(t, s.Evaluations().Create(ctx, &store.EvaluationRecord{
		InferenceID:    evaluated.ID,
		EvaluationTime: time.Now(),
		LogicScore:     2,
	}))

	got, err := s.Inferences().ListUnevaluated(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
}

func TestEvaluationListByInferenceTimeRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	inRange := mustCreateInference(t, s, "r-in", base.Add(time.Hour))
	outRange := mustCreateInference(t, s, "r-out", base.Add(48*time.Hour))
	for _, inf := range []*store.InferenceRecord{inRange, outRange} {
		require.NoError(t, s.Evaluations().Create(ctx, &store.EvaluationRecord{
			InferenceID:    inf.ID,
			EvaluationTime: time.Now(),
			LogicScore:     3,
		}))
	}

	got, err := s.Evaluations().ListByInferenceTimeRange(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inRange.ID, got[0].InferenceID)
}

func TestIndicatorUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	rec := &store.IndicatorRecord{Pair: "USDJPY", Timestamp: ts, Close: 150.0, RSI: 55}
	require.NoError(t, s.Indicators().Upsert(ctx, rec))

	// Same (pair, timestamp) replaces instead of duplicating.
	update := &store.IndicatorRecord{Pair: "USDJPY", Timestamp: ts, Close: 151.0, RSI: 60}
	require.NoError(t, s.Indicators().Upsert(ctx, update))

	got, err := s.Indicators().ListByPair(ctx, "USDJPY", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 151.0, got[0].Close, 1e-9)
	assert.InDelta(t, 60.0, got[0].RSI, 1e-9)
}
