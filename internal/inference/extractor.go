package inference

import (
	"regexp"
	"sort"
	"strings"

	"fxeval/internal/vocab"
)

// MatcherSpec is one independent phrase matcher. Each pattern captures two
// groups; which group carries the action and which the instrument is resolved
// per match against the action vocabulary, so one spec covers both orders.
type MatcherSpec struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultMatcherSpecs returns the ordered matcher list: English
// action-then-pair and pair-then-action, plus the Japanese phrasings the
// trading LLM emits.
func DefaultMatcherSpecs() []MatcherSpec {
	return []MatcherSpec{
		{Name: "action-pair", Pattern: regexp.MustCompile(`(?i)(BUY|SELL)\s+([A-Za-z]{6})`)},
		{Name: "pair-action", Pattern: regexp.MustCompile(`(?i)([A-Za-z]{6})\s+(BUY|SELL)`)},
		{Name: "jp-position", Pattern: regexp.MustCompile(`(?i)ポジション\s*:\s*(買い|売り)\s*([A-Za-z]{6})`)},
		{Name: "jp-pair-action", Pattern: regexp.MustCompile(`(?i)([A-Za-z]{6})\s*を\s*(買い|売り)`)},
	}
}

// Extractor turns raw inference text into structured actions.
type Extractor struct {
	specs      []MatcherSpec
	actions    map[string]string // lowered token -> BUY/SELL
	confidence *ConfidenceEstimator
}

// NewExtractor builds an extractor over the default matcher specs with the
// given vocabulary tables.
func NewExtractor(tables vocab.Tables) *Extractor {
	return NewExtractorWithSpecs(DefaultMatcherSpecs(), tables)
}

// NewExtractorWithSpecs allows substituting the matcher list (tests, future
// phrasings).
func NewExtractorWithSpecs(specs []MatcherSpec, tables vocab.Tables) *Extractor {
	actions := make(map[string]string)
	for _, token := range tables.Actions.Buy {
		actions[strings.ToLower(strings.TrimSpace(token))] = ActionBuy
	}
	for _, token := range tables.Actions.Sell {
		actions[strings.ToLower(strings.TrimSpace(token))] = ActionSell
	}
	return &Extractor{
		specs:      specs,
		actions:    actions,
		confidence: NewConfidenceEstimator(tables.Sentiment),
	}
}

type candidate struct {
	Action
	position int
}

// Extract runs every matcher spec over the text, scores each retained match,
// sorts by confidence descending and keeps the best entry per instrument.
// No matches is a valid result: the returned slice is empty, never nil error.
func (e *Extractor) Extract(raw string) []Action {
	var candidates []candidate
	for _, spec := range e.specs {
		for _, loc := range spec.Pattern.FindAllStringSubmatchIndex(raw, -1) {
			// loc holds [full0 full1 g1s g1e g2s g2e]
			if len(loc) < 6 {
				continue
			}
			first := raw[loc[2]:loc[3]]
			second := raw[loc[4]:loc[5]]
			action, pair, ok := e.resolveRoles(first, second)
			if !ok {
				continue
			}
			if !validPair(pair) {
				continue
			}
			candidates = append(candidates, candidate{
				Action: Action{
					Action:     action,
					Pair:       strings.ToUpper(pair),
					Confidence: e.confidence.Estimate(raw, loc[0], loc[1]),
				},
				position: loc[0],
			})
		}
	}
	if len(candidates) == 0 {
		return []Action{}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	seen := make(map[string]bool, len(candidates))
	out := make([]Action, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.Pair] {
			continue
		}
		seen[c.Pair] = true
		out = append(out, c.Action)
	}
	return out
}

// resolveRoles decides which captured token is the action and which the
// instrument by looking the tokens up in the action vocabulary.
func (e *Extractor) resolveRoles(first, second string) (action, pair string, ok bool) {
	if a, hit := e.actions[strings.ToLower(first)]; hit {
		return a, second, true
	}
	if a, hit := e.actions[strings.ToLower(second)]; hit {
		return a, first, true
	}
	return "", "", false
}

func validPair(pair string) bool {
	if len(pair) != 6 {
		return false
	}
	for _, r := range pair {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
