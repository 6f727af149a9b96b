package importer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxeval/internal/store"
	"fxeval/internal/store/gormstore"
)

func newImportTestStore(t *testing.T) *gormstore.GormStore {
	t.Helper()
	st, err := gormstore.New(filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestImportTradesLinksToNearestInference(t *testing.T) {
	st := newImportTestStore(t)
	ctx := context.Background()

	inf := &store.InferenceRecord{
		ExternalMessageID: "link-target",
		InferenceTime:     time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		RawResponse:       "BUY USDJPY",
	}
	require.NoError(t, st.Inferences().Create(ctx, inf))

	im := New(st)
	res, err := im.ImportTrades(ctx, []byte(`[
		{"trade_time": "2025-03-10T09:30:00Z", "currency_pair": "USDJPY", "trade_type": "BUY", "entry_price": 150.1, "amount": 1.0},
		{"trade_time": "2025-03-10T20:00:00Z", "currency_pair": "EURUSD", "trade_type": "SELL", "entry_price": 1.08, "amount": 2.0, "profit_loss": -40}
	]`))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Linked)
	assert.Empty(t, res.Errors)

	linked, err := st.Trades().FindByDetails(ctx,
		time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), "USDJPY", "BUY", 150.1, 1.0)
	require.NoError(t, err)
	require.NotNil(t, linked.InferenceID)
	assert.Equal(t, inf.ID, *linked.InferenceID)

	// The 20:00 trade is 11 hours away from the only inference, far outside
	// the attribution window.
	unlinked, err := st.Trades().FindByDetails(ctx,
		time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC), "EURUSD", "SELL", 1.08, 2.0)
	require.NoError(t, err)
	assert.Nil(t, unlinked.InferenceID)
	require.NotNil(t, unlinked.ProfitLoss)
	assert.InDelta(t, -40.0, *unlinked.ProfitLoss, 1e-9)
}

func TestImportTradesAliasNormalization(t *testing.T) {
	st := newImportTestStore(t)
	im := New(st)

	res, err := im.ImportTrades(context.Background(), []byte(`[
		{"datetime": "2025-03-10 09:30:00", "symbol": "gbpusd", "side": "LONG", "price": 1.27, "volume": 0.5},
		{"time": "2025/03/10 10:00:00", "pair": "USDJPY", "action": "売り", "entry_price": 150.2, "lots": 1}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Empty(t, res.Errors)

	first, err := st.Trades().FindByDetails(context.Background(),
		time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), "GBPUSD", "BUY", 1.27, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "BUY", first.Action)

	second, err := st.Trades().FindByDetails(context.Background(),
		time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), "USDJPY", "SELL", 150.2, 1)
	require.NoError(t, err)
	assert.Equal(t, "SELL", second.Action)
}

func TestImportTradesDedupes(t *testing.T) {
	st := newImportTestStore(t)
	im := New(st)
	batch := []byte(`[
		{"trade_time": "2025-03-10T09:30:00Z", "pair": "USDJPY", "action": "BUY", "entry_price": 150.1, "amount": 1.0}
	]`)

	res, err := im.ImportTrades(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	res, err = im.ImportTrades(context.Background(), batch)
	require.NoError(t, err)
	assert.Zero(t, res.Imported)
	assert.Equal(t, 1, res.Duplicates)
}

func TestImportTradesSchemaRejectsBatch(t *testing.T) {
	st := newImportTestStore(t)
	im := New(st)

	t.Run("not an array", func(t *testing.T) {
		_, err := im.ImportTrades(context.Background(), []byte(`{"trade_time": "x"}`))
		assert.Error(t, err)
	})

	t.Run("item missing required fields", func(t *testing.T) {
		_, err := im.ImportTrades(context.Background(), []byte(`[{"pair": "USDJPY"}]`))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := im.ImportTrades(context.Background(), []byte(`[{`))
		assert.Error(t, err)
	})
}

func TestImportTradesItemErrorsAreReported(t *testing.T) {
	st := newImportTestStore(t)
	im := New(st)

	res, err := im.ImportTrades(context.Background(), []byte(`[
		{"trade_time": "2025-03-10T09:30:00Z", "pair": "USDJPY", "action": "HEDGE", "entry_price": 150.1, "amount": 1.0},
		{"trade_time": "2025-03-10T09:31:00Z", "pair": "USDJPY", "action": "BUY", "entry_price": 150.1, "amount": 1.0}
	]`))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "unrecognized trade action")
}

func TestParseTradeTimeLayouts(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2025-03-10T09:30:00Z", time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)},
		{"2025-03-10 09:30:00", time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)},
		{"2025-03-10T09:30:00", time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)},
		{"2025/03/10 09:30:00", time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)},
		{"2025-03-10 09:30", time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)},
		{"2025-03-10", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := parseTradeTime(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := parseTradeTime("10 March 2025")
	assert.Error(t, err)
}
