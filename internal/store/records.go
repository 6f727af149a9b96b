package store

import (
	"time"

	"fxeval/internal/inference"
)

// InferenceRecord is one recorded trading-decision event: the raw prompt and
// response text plus the structured actions derived from it. Immutable after
// creation except for the derived actions list.
type InferenceRecord struct {
	ID                int64              `json:"id"`
	ExternalMessageID string             `json:"external_message_id"`
	InferenceTime     time.Time          `json:"inference_time"`
	Prompt            string             `json:"prompt"`
	RawResponse       string             `json:"raw_response"`
	Actions           []inference.Action `json:"inferred_actions"`
}

// TradeRecord is a realized execution. InferenceID is nil for manual trades;
// ExitPrice and ProfitLoss are nil until the trade settles.
type TradeRecord struct {
	ID          int64     `json:"id"`
	InferenceID *int64    `json:"inference_id,omitempty"`
	TradeTime   time.Time `json:"trade_time"`
	Pair        string    `json:"pair"`
	Action      string    `json:"action"`
	EntryPrice  float64   `json:"entry_price"`
	ExitPrice   *float64  `json:"exit_price,omitempty"`
	Amount      float64   `json:"amount"`
	ProfitLoss  *float64  `json:"profit_loss,omitempty"`
}

// Settled reports whether the trade has a realized profit/loss.
func (t TradeRecord) Settled() bool { return t.ProfitLoss != nil }

// EvaluationRecord is the scored judgment of one inference. At most one live
// evaluation exists per inference.
type EvaluationRecord struct {
	ID                  int64     `json:"id"`
	InferenceID         int64     `json:"inference_id"`
	EvaluationTime      time.Time `json:"evaluation_time"`
	LogicScore          int       `json:"logic_evaluation_score"`
	LogicComment        string    `json:"logic_evaluation_comment"`
	PotentialProfitLoss float64   `json:"potential_profit_loss"`
	Summary             string    `json:"evaluation_summary"`
}

// IndicatorRecord is one technical-indicator snapshot for a pair.
type IndicatorRecord struct {
	ID         int64     `json:"id"`
	Pair       string    `json:"pair"`
	Timestamp  time.Time `json:"timestamp"`
	Close      float64   `json:"close"`
	RSI        float64   `json:"rsi"`
	MACD       float64   `json:"macd"`
	MACDSignal float64   `json:"macd_signal"`
	SMA20      float64   `json:"sma_20"`
	EMA50      float64   `json:"ema_50"`
	BBUpper    float64   `json:"bb_upper"`
	BBLower    float64   `json:"bb_lower"`
	ADX        float64   `json:"adx"`
}
