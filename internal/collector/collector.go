package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fxeval/internal/inference"
	"fxeval/internal/logger"
	"fxeval/internal/store"
	"fxeval/internal/vocab"
)

// Stats summarizes one collection run.
type Stats struct {
	Fetched    int
	Stored     int
	Duplicates int
	Actions    int
}

// Collector pulls inference events from the sources, extracts actions and
// persists both. The extractor is rebuilt when the vocabulary registry
// reloads, so edits take effect on the next run.
type Collector struct {
	sources  []Source
	store    store.Store
	registry *vocab.Registry
	lookback time.Duration

	mu        sync.Mutex
	extractor *inference.Extractor
	vocabVer  int64
	lastSeen  time.Time
}

// New builds a collector over the given sources. lookback bounds the first
// fetch window; later runs continue from the newest stored event.
func New(sources []Source, st store.Store, registry *vocab.Registry, lookback time.Duration) *Collector {
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	return &Collector{
		sources:  sources,
		store:    st,
		registry: registry,
		lookback: lookback,
	}
}

// Run performs one collection sweep across all sources. A failing source is
// logged and skipped so the remaining sources still run; the error returned
// is non-nil only when every source failed.
func (c *Collector) Run(ctx context.Context) (Stats, error) {
	since := c.sinceTime()
	ext := c.currentExtractor()

	var stats Stats
	failures := 0
	for _, src := range c.sources {
		events, err := src.Fetch(ctx, since, 200)
		if err != nil {
			failures++
			logger.Warnf("collector: source %s failed: %v", src.Name(), err)
			continue
		}
		stats.Fetched += len(events)
		for _, evt := range events {
			if err := c.ingest(ctx, src.Name(), ext, evt, &stats); err != nil {
				logger.Errorf("collector: ingest %s/%s failed: %v", src.Name(), evt.ExternalID, err)
			}
		}
	}
	if len(c.sources) > 0 && failures == len(c.sources) {
		return stats, fmt.Errorf("collector: all %d sources failed", failures)
	}
	logger.Infof("collector: fetched=%d stored=%d duplicates=%d actions=%d",
		stats.Fetched, stats.Stored, stats.Duplicates, stats.Actions)
	return stats, nil
}

func (c *Collector) ingest(ctx context.Context, sourceName string, ext *inference.Extractor, evt InferenceEvent, stats *Stats) error {
	actions := ext.Extract(evt.Response)
	rec := &store.InferenceRecord{
		ExternalMessageID: evt.ExternalID,
		InferenceTime:     evt.Time,
		Prompt:            evt.Prompt,
		RawResponse:       evt.Response,
		Actions:           actions,
	}
	err := c.store.Inferences().Create(ctx, rec)
	if errors.Is(err, store.ErrDuplicate) {
		stats.Duplicates++
		c.advance(evt.Time)
		return nil
	}
	if err != nil {
		return err
	}
	stats.Stored++
	stats.Actions += len(actions)
	c.advance(evt.Time)
	logger.DumpInference(sourceName, evt.ExternalID, evt.Prompt, evt.Response)
	return nil
}

// currentExtractor returns the cached extractor, rebuilding it when the
// vocabulary snapshot advanced.
func (c *Collector) currentExtractor() *inference.Extractor {
	snap := c.registry.Snapshot()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.extractor == nil || snap.Version != c.vocabVer {
		c.extractor = inference.NewExtractor(snap.Tables)
		c.vocabVer = snap.Version
	}
	return c.extractor
}

func (c *Collector) sinceTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastSeen.IsZero() {
		return time.Now().Add(-c.lookback)
	}
	return c.lastSeen
}

func (c *Collector) advance(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.After(c.lastSeen) {
		c.lastSeen = t
	}
}
