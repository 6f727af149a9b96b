package report

import (
	"encoding/json"
	"math"
	"time"

	"fxeval/internal/store"
)

// ProfitFactor is gross profit divided by gross loss. It can legitimately be
// +Inf (profits with zero losses), which encoding/json cannot represent, so
// it marshals as the string "Infinity" in that case.
type ProfitFactor float64

func (p ProfitFactor) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsInf(f, 1) {
		return json.Marshal("Infinity")
	}
	return json.Marshal(f)
}

func (p *ProfitFactor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "Infinity" {
			*p = ProfitFactor(math.Inf(1))
			return nil
		}
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = ProfitFactor(f)
	return nil
}

// PerformanceSummary aggregates settled trades over a period.
type PerformanceSummary struct {
	Period          string       `json:"period"`
	StartDate       time.Time    `json:"start_date"`
	EndDate         time.Time    `json:"end_date"`
	TotalTrades     int          `json:"total_trades"`
	WinningTrades   int          `json:"winning_trades"`
	LosingTrades    int          `json:"losing_trades"`
	WinRate         float64      `json:"win_rate"`
	TotalProfitLoss float64      `json:"total_profit_loss"`
	AverageProfit   float64      `json:"average_profit"`
	AverageLoss     float64      `json:"average_loss"`
	ProfitFactor    ProfitFactor `json:"profit_factor"`
	MaxProfit       float64      `json:"max_profit"`
	MaxLoss         float64      `json:"max_loss"`
}

// Summarize aggregates settled trades into a performance summary. Only
// settled trades participate; an empty input yields the zero summary with
// period bounds filled in.
func Summarize(period string, start, end time.Time, trades []store.TradeRecord) PerformanceSummary {
	sum := PerformanceSummary{
		Period:    period,
		StartDate: start,
		EndDate:   end,
	}

	grossProfit := 0.0
	grossLoss := 0.0
	for _, t := range trades {
		if !t.Settled() {
			continue
		}
		pnl := *t.ProfitLoss
		sum.TotalTrades++
		sum.TotalProfitLoss += pnl
		if pnl > 0 {
			sum.WinningTrades++
			grossProfit += pnl
			if pnl > sum.MaxProfit {
				sum.MaxProfit = pnl
			}
		} else if pnl < 0 {
			sum.LosingTrades++
			grossLoss += -pnl
			if pnl < sum.MaxLoss {
				sum.MaxLoss = pnl
			}
		}
	}

	if sum.TotalTrades > 0 {
		sum.WinRate = float64(sum.WinningTrades) / float64(sum.TotalTrades) * 100
	}
	if sum.WinningTrades > 0 {
		sum.AverageProfit = grossProfit / float64(sum.WinningTrades)
	}
	if sum.LosingTrades > 0 {
		sum.AverageLoss = -grossLoss / float64(sum.LosingTrades)
	}
	switch {
	case grossLoss > 0:
		sum.ProfitFactor = ProfitFactor(grossProfit / grossLoss)
	case grossProfit > 0:
		sum.ProfitFactor = ProfitFactor(math.Inf(1))
	default:
		sum.ProfitFactor = 0
	}
	return sum
}
