package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"fxeval/internal/inference"
	"fxeval/internal/logger"
	"fxeval/internal/store"
)

// linkWindow bounds how far an imported trade may sit from the inference it
// gets attributed to.
const linkWindow = 2 * time.Hour

// Accepted timestamp layouts, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Result summarizes one import run.
type Result struct {
	Total      int      `json:"total"`
	Imported   int      `json:"imported"`
	Duplicates int      `json:"duplicates"`
	Linked     int      `json:"linked"`
	Errors     []string `json:"errors,omitempty"`
}

// Importer ingests externally produced trade histories: validates the batch,
// normalizes field aliases, dedupes against the store and links each trade to
// the nearest inference in time.
type Importer struct {
	store  store.Store
	schema *jsonschema.Schema
	window time.Duration
}

func New(st store.Store) *Importer {
	return &Importer{
		store:  st,
		schema: compileBatchSchema(),
		window: linkWindow,
	}
}

// ImportTrades processes one JSON batch. Schema violations reject the whole
// batch; per-item normalization errors skip the item and are reported in the
// result.
func (im *Importer) ImportTrades(ctx context.Context, raw []byte) (Result, error) {
	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Result{}, fmt.Errorf("parse import payload: %w", err)
	}
	if err := im.schema.Validate(payload); err != nil {
		return Result{}, fmt.Errorf("import payload rejected: %w", err)
	}

	items, ok := payload.([]interface{})
	if !ok {
		return Result{}, fmt.Errorf("import payload must be an array")
	}

	res := Result{Total: len(items)}
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("item %d: not an object", i))
			continue
		}
		rec, err := normalizeTrade(obj)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		if err := im.ingest(ctx, rec, &res); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("item %d: %v", i, err))
		}
	}
	logger.Infof("importer: total=%d imported=%d duplicates=%d linked=%d errors=%d",
		res.Total, res.Imported, res.Duplicates, res.Linked, len(res.Errors))
	return res, nil
}

func (im *Importer) ingest(ctx context.Context, rec *store.TradeRecord, res *Result) error {
	existing, err := im.store.Trades().FindByDetails(ctx,
		rec.TradeTime, rec.Pair, rec.Action, rec.EntryPrice, rec.Amount)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if existing != nil {
		res.Duplicates++
		return nil
	}

	if inf, err := im.store.Inferences().FindNearest(ctx, rec.TradeTime, im.window); err == nil {
		rec.InferenceID = &inf.ID
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if err := im.store.Trades().Create(ctx, rec); err != nil {
		return err
	}
	res.Imported++
	if rec.InferenceID != nil {
		res.Linked++
	}
	return nil
}

// normalizeTrade resolves field aliases and parses values into a trade
// record.
func normalizeTrade(obj map[string]interface{}) (*store.TradeRecord, error) {
	rawTime := firstString(obj, "trade_time", "datetime", "time")
	if rawTime == "" {
		return nil, fmt.Errorf("missing trade time")
	}
	t, err := parseTradeTime(rawTime)
	if err != nil {
		return nil, err
	}

	pair := strings.ToUpper(strings.TrimSpace(firstString(obj, "currency_pair", "pair", "symbol")))
	if pair == "" {
		return nil, fmt.Errorf("missing currency pair")
	}

	action, err := normalizeAction(firstString(obj, "trade_type", "action", "side"))
	if err != nil {
		return nil, err
	}

	entry, ok := firstNumber(obj, "entry_price", "price")
	if !ok {
		return nil, fmt.Errorf("missing entry price")
	}
	amount, ok := firstNumber(obj, "amount", "volume", "lots")
	if !ok {
		return nil, fmt.Errorf("missing amount")
	}

	rec := &store.TradeRecord{
		TradeTime:  t,
		Pair:       pair,
		Action:     action,
		EntryPrice: entry,
		Amount:     amount,
	}
	if exit, ok := firstNumber(obj, "exit_price"); ok {
		rec.ExitPrice = &exit
	}
	if pnl, ok := firstNumber(obj, "profit_loss", "pnl"); ok {
		rec.ProfitLoss = &pnl
	}
	return rec, nil
}

func parseTradeTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized trade time %q", raw)
}

func normalizeAction(raw string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case inference.ActionBuy, "LONG", "買い":
		return inference.ActionBuy, nil
	case inference.ActionSell, "SHORT", "売り":
		return inference.ActionSell, nil
	case "":
		return "", fmt.Errorf("missing trade action")
	default:
		return "", fmt.Errorf("unrecognized trade action %q", raw)
	}
}

func firstString(obj map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := obj[k].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstNumber(obj map[string]interface{}, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case float64:
			return v, true
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
