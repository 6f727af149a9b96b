package rates

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

const maxCandleLimit = 1500

// BinanceConfig configures the Binance-backed rate source.
type BinanceConfig struct {
	RESTBaseURL    string `mapstructure:"rest_base_url"`
	ProxyURL       string `mapstructure:"proxy_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// BinanceSource serves quotes and candles from the Binance futures REST API.
// Read-only endpoints only, no credentials required.
type BinanceSource struct {
	client *futures.Client
	now    func() time.Time
}

func NewBinanceSource(cfg BinanceConfig) (*BinanceSource, error) {
	client := futures.NewClient("", "")
	if base := strings.TrimSpace(cfg.RESTBaseURL); base != "" {
		client.BaseURL = base
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	if proxy := strings.TrimSpace(cfg.ProxyURL); proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid rates proxy url: %w", err)
		}
		baseTransport, ok := http.DefaultTransport.(*http.Transport)
		if !ok || baseTransport == nil {
			return nil, fmt.Errorf("http DefaultTransport is not *http.Transport")
		}
		transport := baseTransport.Clone()
		transport.Proxy = http.ProxyURL(proxyURL)
		httpClient.Transport = transport
	}
	client.HTTPClient = httpClient
	return &BinanceSource{client: client, now: time.Now}, nil
}

func (s *BinanceSource) LatestPrices(ctx context.Context, symbols []string) (map[string]Quote, error) {
	wanted := make(map[string]bool, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym != "" {
			wanted[sym] = true
		}
	}
	prices, err := s.client.NewListPricesService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	now := s.now()
	out := make(map[string]Quote, len(wanted))
	for _, p := range prices {
		if p == nil {
			continue
		}
		sym := strings.ToUpper(strings.TrimSpace(p.Symbol))
		if len(wanted) > 0 && !wanted[sym] {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(p.Price))
		if err != nil || price.IsZero() {
			continue
		}
		out[sym] = Quote{Symbol: sym, Price: price, Time: now}
	}
	return out, nil
}

func (s *BinanceSource) FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]Candle, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		return nil, fmt.Errorf("interval is required")
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > maxCandleLimit {
		limit = maxCandleLimit
	}
	kls, err := s.client.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit).Do(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Candle, 0, len(kls))
	for _, kl := range kls {
		if kl == nil {
			continue
		}
		out = append(out, Candle{
			OpenTime:  kl.OpenTime,
			CloseTime: kl.CloseTime,
			Open:      parseFloat(kl.Open),
			High:      parseFloat(kl.High),
			Low:       parseFloat(kl.Low),
			Close:     parseFloat(kl.Close),
			Volume:    parseFloat(kl.Volume),
		})
	}
	return out, nil
}

func parseFloat(v string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return f
}
