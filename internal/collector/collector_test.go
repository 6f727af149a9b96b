package collector

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxeval/internal/store/gormstore"
	"fxeval/internal/vocab"
)

type fakeSource struct {
	name      string
	events    []InferenceEvent
	err       error
	lastSince time.Time
}

func (f *fakeSource) Fetch(ctx context.Context, since time.Time, limit int) ([]InferenceEvent, error) {
	f.lastSince = since
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeSource) Name() string { return f.name }

func newCollectorTestDeps(t *testing.T) (*gormstore.GormStore, *vocab.Registry) {
	t.Helper()
	st, err := gormstore.New(filepath.Join(t.TempDir(), "collector.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	reg, err := vocab.NewRegistry("")
	require.NoError(t, err)
	return st, reg
}

func TestRunStoresAndExtracts(t *testing.T) {
	st, reg := newCollectorTestDeps(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{
		name: "primary",
		events: []InferenceEvent{
			{ExternalID: "e-1", Time: base, Prompt: "p1", Response: "BUY USDJPY now"},
			{ExternalID: "e-2", Time: base.Add(time.Minute), Prompt: "p2", Response: "no signal here"},
		},
	}

	c := New([]Source{src}, st, reg, 24*time.Hour)
	stats, err := c.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Stats{Fetched: 2, Stored: 2, Duplicates: 0, Actions: 1}, stats)

	rec, err := st.Inferences().FindByExternalID(context.Background(), "e-1")
	require.NoError(t, err)
	require.Len(t, rec.Actions, 1)
	assert.Equal(t, "USDJPY", rec.Actions[0].Pair)
}

func TestRunCountsDuplicates(t *testing.T) {
	st, reg := newCollectorTestDeps(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{
		name:   "primary",
		events: []InferenceEvent{{ExternalID: "dup", Time: base, Response: "SELL EURUSD"}},
	}

	c := New([]Source{src}, st, reg, 24*time.Hour)

	_, err := c.Run(context.Background())
	require.NoError(t, err)

	stats, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Zero(t, stats.Stored)
}

func TestRunAdvancesSinceCursor(t *testing.T) {
	st, reg := newCollectorTestDeps(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{
		name:   "primary",
		events: []InferenceEvent{{ExternalID: "cursor", Time: base, Response: ""}},
	}

	c := New([]Source{src}, st, reg, time.Hour)

	_, err := c.Run(context.Background())
	require.NoError(t, err)
	// First run looks back one hour from now.
	assert.WithinDuration(t, time.Now().Add(-time.Hour), src.lastSince, 5*time.Second)

	_, err = c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, base, src.lastSince)
}

func TestRunSourceFailures(t *testing.T) {
	st, reg := newCollectorTestDeps(t)
	boom := errors.New("boom")

	t.Run("all sources failed", func(t *testing.T) {
		c := New([]Source{
			&fakeSource{name: "a", err: boom},
			&fakeSource{name: "b", err: boom},
		}, st, reg, time.Hour)

		_, err := c.Run(context.Background())
		assert.Error(t, err)
	})

	t.Run("partial failure is tolerated", func(t *testing.T) {
		ok := &fakeSource{
			name:   "ok",
			events: []InferenceEvent{{ExternalID: "p-1", Time: time.Now(), Response: ""}},
		}
		c := New([]Source{&fakeSource{name: "bad", err: boom}, ok}, st, reg, time.Hour)

		stats, err := c.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Stored)
	})
}
