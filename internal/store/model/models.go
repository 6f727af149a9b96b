package model

import (
	"gorm.io/datatypes"
)

// Timestamps are stored as unix seconds; the store layer converts to
// time.Time on the record types.

type TradeInferenceModel struct {
	ID                int64          `gorm:"column:id;primaryKey"`
	ExternalMessageID string         `gorm:"column:external_message_id;uniqueIndex"`
	InferenceTimeUnix int64          `gorm:"column:inference_time;index"`
	Prompt            string         `gorm:"column:prompt;type:TEXT"`
	RawResponse       string         `gorm:"column:raw_response;type:TEXT"`
	InferredActions   datatypes.JSON `gorm:"column:inferred_actions;type:TEXT"`
	CreatedAtUnix     int64          `gorm:"column:created_at"`
}

func (TradeInferenceModel) TableName() string { return "trade_inferences" }

type ActualTradeModel struct {
	ID            int64    `gorm:"column:id;primaryKey"`
	InferenceID   *int64   `gorm:"column:inference_id;index"`
	TradeTimeUnix int64    `gorm:"column:trade_time;index"`
	Pair          string   `gorm:"column:pair;size:10"`
	Action        string   `gorm:"column:action;size:10"`
	EntryPrice    float64  `gorm:"column:entry_price"`
	ExitPrice     *float64 `gorm:"column:exit_price"`
	Amount        float64  `gorm:"column:amount"`
	ProfitLoss    *float64 `gorm:"column:profit_loss"`
	CreatedAtUnix int64    `gorm:"column:created_at"`
}

func (ActualTradeModel) TableName() string { return "actual_trades" }

type TradeEvaluationModel struct {
	ID                  int64   `gorm:"column:id;primaryKey"`
	InferenceID         int64   `gorm:"column:inference_id;uniqueIndex"`
	EvaluationTimeUnix  int64   `gorm:"column:evaluation_time"`
	LogicScore          int     `gorm:"column:logic_evaluation_score"`
	LogicComment        string  `gorm:"column:logic_evaluation_comment;type:TEXT"`
	PotentialProfitLoss float64 `gorm:"column:potential_profit_loss"`
	Summary             string  `gorm:"column:evaluation_summary;type:TEXT"`
	CreatedAtUnix       int64   `gorm:"column:created_at"`
}

func (TradeEvaluationModel) TableName() string { return "trade_evaluations" }

type TechnicalIndicatorModel struct {
	ID            int64   `gorm:"column:id;primaryKey"`
	Pair          string  `gorm:"column:currency_pair;uniqueIndex:uq_pair_time,priority:1"`
	TimestampUnix int64   `gorm:"column:timestamp;uniqueIndex:uq_pair_time,priority:2"`
	Close         float64 `gorm:"column:close"`
	RSI           float64 `gorm:"column:rsi"`
	MACD          float64 `gorm:"column:macd"`
	MACDSignal    float64 `gorm:"column:macd_signal"`
	SMA20         float64 `gorm:"column:sma_20"`
	EMA50         float64 `gorm:"column:ema_50"`
	BBUpper       float64 `gorm:"column:bb_upper"`
	BBLower       float64 `gorm:"column:bb_lower"`
	ADX           float64 `gorm:"column:adx"`
}

func (TechnicalIndicatorModel) TableName() string { return "technical_indicators" }
