package inference

import (
	"strings"

	"fxeval/internal/vocab"
)

const (
	baseConfidence     = 0.5
	positiveIncrement  = 0.2
	uncertainDecrement = 0.15
	contextWindow      = 100
)

// ConfidenceEstimator scores a matched decision by scanning the text around
// the match span for sentiment phrases. Deterministic for identical input.
type ConfidenceEstimator struct {
	positive  []string
	uncertain []string
}

func NewConfidenceEstimator(tbl vocab.SentimentTable) *ConfidenceEstimator {
	return &ConfidenceEstimator{
		positive:  lowered(tbl.Positive),
		uncertain: lowered(tbl.Uncertain),
	}
}

// Estimate returns a confidence in [0,1] for the match spanning
// text[start:end]. Starts at 0.5; each positive-phrase occurrence in the
// surrounding 100-byte window adds 0.2, each uncertainty phrase subtracts
// 0.15, clamped only at the end.
func (c *ConfidenceEstimator) Estimate(text string, start, end int) float64 {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	ctxStart := start - contextWindow
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := end + contextWindow
	if ctxEnd > len(text) {
		ctxEnd = len(text)
	}
	context := strings.ToLower(text[ctxStart:ctxEnd])

	confidence := baseConfidence
	for _, phrase := range c.positive {
		confidence += positiveIncrement * float64(strings.Count(context, phrase))
	}
	for _, phrase := range c.uncertain {
		confidence -= uncertainDecrement * float64(strings.Count(context, phrase))
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

func lowered(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
