package rates

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the latest observed price for one instrument.
type Quote struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Time   time.Time       `json:"time"`
}

// Candle is one closed OHLCV bar. Times are unix milliseconds, matching the
// upstream feed.
type Candle struct {
	OpenTime  int64   `json:"open_time"`
	CloseTime int64   `json:"close_time"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Source provides market prices and history.
type Source interface {
	// LatestPrices returns quotes keyed by symbol. Symbols the venue does
	// not know are absent from the map, not an error.
	LatestPrices(ctx context.Context, symbols []string) (map[string]Quote, error)
	// FetchCandles returns up to limit most recent closed bars.
	FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)
}
