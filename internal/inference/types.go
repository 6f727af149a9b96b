package inference

// Canonical trade directions produced by the extractor.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// Action is one structured trade decision pulled out of raw inference text.
type Action struct {
	Action     string  `json:"action"`
	Pair       string  `json:"pair"`
	Confidence float64 `json:"confidence"`
}
