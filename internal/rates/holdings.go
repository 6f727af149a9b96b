package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fxeval/internal/inference"
	"fxeval/internal/store"
)

// Holding is one open trade valued at the current market price. Monetary
// fields are decimal to keep the arithmetic exact.
type Holding struct {
	TradeID       int64           `json:"trade_id"`
	Pair          string          `json:"pair"`
	Action        string          `json:"action"`
	Amount        decimal.Decimal `json:"amount"`
	EntryPrice    decimal.Decimal `json:"entry_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
	PricedAt      time.Time       `json:"priced_at"`
}

// HoldingsSnapshot is the valuation of every open trade at one moment.
type HoldingsSnapshot struct {
	TakenAt       time.Time       `json:"taken_at"`
	Holdings      []Holding       `json:"holdings"`
	Unpriced      []int64         `json:"unpriced_trade_ids,omitempty"`
	TotalPnL      decimal.Decimal `json:"total_unrealized_pnl"`
	SpreadPerUnit decimal.Decimal `json:"spread_per_unit"`
}

// Valuer prices open trades. spreadPerUnit is deducted from every holding's
// unrealized result as a fixed exit-cost estimate.
type Valuer struct {
	store         store.Store
	source        Source
	spreadPerUnit decimal.Decimal
	now           func() time.Time
}

func NewValuer(st store.Store, source Source, spreadPerUnit decimal.Decimal) *Valuer {
	return &Valuer{
		store:         st,
		source:        source,
		spreadPerUnit: spreadPerUnit,
		now:           time.Now,
	}
}

// Snapshot values every open trade. Trades whose pair has no quote are listed
// as unpriced rather than failing the whole snapshot.
func (v *Valuer) Snapshot(ctx context.Context) (HoldingsSnapshot, error) {
	open, err := v.store.Trades().ListOpen(ctx)
	if err != nil {
		return HoldingsSnapshot{}, fmt.Errorf("list open trades: %w", err)
	}
	snap := HoldingsSnapshot{
		TakenAt:       v.now(),
		Holdings:      []Holding{},
		SpreadPerUnit: v.spreadPerUnit,
	}
	if len(open) == 0 {
		return snap, nil
	}

	symbols := make([]string, 0, len(open))
	seen := make(map[string]bool, len(open))
	for _, t := range open {
		if !seen[t.Pair] {
			seen[t.Pair] = true
			symbols = append(symbols, t.Pair)
		}
	}
	quotes, err := v.source.LatestPrices(ctx, symbols)
	if err != nil {
		return HoldingsSnapshot{}, fmt.Errorf("fetch prices: %w", err)
	}

	for _, t := range open {
		quote, ok := quotes[t.Pair]
		if !ok {
			snap.Unpriced = append(snap.Unpriced, t.ID)
			continue
		}
		h := valueTrade(t, quote, v.spreadPerUnit)
		snap.Holdings = append(snap.Holdings, h)
		snap.TotalPnL = snap.TotalPnL.Add(h.UnrealizedPnL)
	}
	return snap, nil
}

// valueTrade computes the unrealized profit/loss of one open trade. A BUY
// gains when price rises, a SELL when it falls; the spread cost scales with
// the traded amount.
func valueTrade(t store.TradeRecord, quote Quote, spreadPerUnit decimal.Decimal) Holding {
	entry := decimal.NewFromFloat(t.EntryPrice)
	amount := decimal.NewFromFloat(t.Amount)

	var perUnit decimal.Decimal
	if t.Action == inference.ActionSell {
		perUnit = entry.Sub(quote.Price)
	} else {
		perUnit = quote.Price.Sub(entry)
	}
	pnl := perUnit.Sub(spreadPerUnit).Mul(amount)

	return Holding{
		TradeID:       t.ID,
		Pair:          t.Pair,
		Action:        t.Action,
		Amount:        amount,
		EntryPrice:    entry,
		CurrentPrice:  quote.Price,
		UnrealizedPnL: pnl,
		PricedAt:      quote.Time,
	}
}
