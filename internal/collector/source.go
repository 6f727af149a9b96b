package collector

import (
	"context"
	"time"
)

// InferenceEvent is one prompt/response pair observed at an upstream source.
// ExternalID must be stable across fetches so reruns dedupe.
type InferenceEvent struct {
	ExternalID string
	Time       time.Time
	Prompt     string
	Response   string
}

// Source yields inference events newer than since, oldest first.
type Source interface {
	Fetch(ctx context.Context, since time.Time, limit int) ([]InferenceEvent, error)
	Name() string
}
