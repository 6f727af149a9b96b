package evaluation

import (
	"strings"

	"fxeval/internal/vocab"
)

// Comment fragments emitted by the four logic checks. Tests and the report
// layer key off the "insufficient" wording, keep it stable.
const (
	commentMarketSufficient    = "market analysis is thorough"
	commentMarketBasic         = "basic market analysis present"
	commentMarketInsufficient  = "market analysis insufficient"
	commentTechMultiple        = "multiple technical indicators considered"
	commentTechSingle          = "technical indicators considered"
	commentTechInsufficient    = "technical indicator usage insufficient"
	commentRiskSufficient      = "risk management well covered"
	commentRiskBasic           = "basic risk management considered"
	commentRiskInsufficient    = "risk management mentions insufficient"
	commentClarityExplained    = "reasoning clearly explained"
	commentClarityPresent      = "reasoning explanation present"
	commentClarityInsufficient = "reasoning explanation insufficient"
)

const (
	minScore = 1
	maxScore = 5

	clarityFullLength  = 200
	clarityBasicLength = 100
)

// LogicEvaluator rates reasoning quality on a fixed 1-5 rule set: base score
// 1, four independent checks each adding at most 1, clamped at the end. The
// rule set is deterministic; the vocabularies are injected so they can be
// swapped without touching the checks.
type LogicEvaluator struct {
	market    []string
	technical []string
	risk      []string
	causal    []string
}

func NewLogicEvaluator(tbl vocab.LogicTable) *LogicEvaluator {
	return &LogicEvaluator{
		market:    loweredWords(tbl.Market),
		technical: loweredWords(tbl.Technical),
		risk:      loweredWords(tbl.Risk),
		causal:    loweredWords(tbl.Causal),
	}
}

// Score returns the 1-5 logic score and the semicolon-joined comments. All
// four comments are always emitted, incremented or not.
func (e *LogicEvaluator) Score(promptText, responseText string) (int, string) {
	_ = promptText // reserved: prompt-side checks have not been needed yet
	response := strings.ToLower(responseText)

	score := minScore
	comments := make([]string, 0, 4)

	switch hits := countDistinct(response, e.market); {
	case hits >= 3:
		score++
		comments = append(comments, commentMarketSufficient)
	case hits >= 1:
		comments = append(comments, commentMarketBasic)
	default:
		comments = append(comments, commentMarketInsufficient)
	}

	switch hits := countDistinct(response, e.technical); {
	case hits >= 2:
		score++
		comments = append(comments, commentTechMultiple)
	case hits >= 1:
		comments = append(comments, commentTechSingle)
	default:
		comments = append(comments, commentTechInsufficient)
	}

	switch hits := countDistinct(response, e.risk); {
	case hits >= 2:
		score++
		comments = append(comments, commentRiskSufficient)
	case hits >= 1:
		comments = append(comments, commentRiskBasic)
	default:
		comments = append(comments, commentRiskInsufficient)
	}

	switch {
	case len(response) >= clarityFullLength && containsAny(response, e.causal):
		score++
		comments = append(comments, commentClarityExplained)
	case len(response) >= clarityBasicLength:
		comments = append(comments, commentClarityPresent)
	default:
		comments = append(comments, commentClarityInsufficient)
	}

	if score > maxScore {
		score = maxScore
	}
	if score < minScore {
		score = minScore
	}
	return score, strings.Join(comments, "; ")
}

// countDistinct counts how many distinct keywords occur in text at least
// once.
func countDistinct(text string, words []string) int {
	hits := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			hits++
		}
	}
	return hits
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func loweredWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
