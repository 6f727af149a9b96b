package gormstore

import (
	"encoding/json"
	"time"

	"fxeval/internal/inference"
	"fxeval/internal/store"
	storemodel "fxeval/internal/store/model"

	"gorm.io/datatypes"
)

func newInferenceModel(rec store.InferenceRecord) (storemodel.TradeInferenceModel, error) {
	actions, err := marshalActions(rec.Actions)
	if err != nil {
		return storemodel.TradeInferenceModel{}, err
	}
	return storemodel.TradeInferenceModel{
		ID:                rec.ID,
		ExternalMessageID: rec.ExternalMessageID,
		InferenceTimeUnix: rec.InferenceTime.Unix(),
		Prompt:            rec.Prompt,
		RawResponse:       rec.RawResponse,
		InferredActions:   actions,
		CreatedAtUnix:     time.Now().Unix(),
	}, nil
}

func toInferenceRecord(m storemodel.TradeInferenceModel) store.InferenceRecord {
	var actions []inference.Action
	if len(m.InferredActions) > 0 {
		// Tolerate malformed rows: a decode failure degrades to an
		// empty actions list rather than a read error.
		_ = json.Unmarshal(m.InferredActions, &actions)
	}
	if actions == nil {
		actions = []inference.Action{}
	}
	return store.InferenceRecord{
		ID:                m.ID,
		ExternalMessageID: m.ExternalMessageID,
		InferenceTime:     time.Unix(m.InferenceTimeUnix, 0).UTC(),
		Prompt:            m.Prompt,
		RawResponse:       m.RawResponse,
		Actions:           actions,
	}
}

func marshalActions(actions []inference.Action) (datatypes.JSON, error) {
	if actions == nil {
		actions = []inference.Action{}
	}
	data, err := json.Marshal(actions)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func newTradeModel(rec store.TradeRecord) storemodel.ActualTradeModel {
	return storemodel.ActualTradeModel{
		ID:            rec.ID,
		InferenceID:   rec.InferenceID,
		TradeTimeUnix: rec.TradeTime.Unix(),
		Pair:          rec.Pair,
		Action:        rec.Action,
		EntryPrice:    rec.EntryPrice,
		ExitPrice:     rec.ExitPrice,
		Amount:        rec.Amount,
		ProfitLoss:    rec.ProfitLoss,
		CreatedAtUnix: time.Now().Unix(),
	}
}

func toTradeRecord(m storemodel.ActualTradeModel) store.TradeRecord {
	return store.TradeRecord{
		ID:          m.ID,
		InferenceID: m.InferenceID,
		TradeTime:   time.Unix(m.TradeTimeUnix, 0).UTC(),
		Pair:        m.Pair,
		Action:      m.Action,
		EntryPrice:  m.EntryPrice,
		ExitPrice:   m.ExitPrice,
		Amount:      m.Amount,
		ProfitLoss:  m.ProfitLoss,
	}
}

func newEvaluationModel(rec store.EvaluationRecord) storemodel.TradeEvaluationModel {
	return storemodel.TradeEvaluationModel{
		ID:                  rec.ID,
		InferenceID:         rec.InferenceID,
		EvaluationTimeUnix:  rec.EvaluationTime.Unix(),
		LogicScore:          rec.LogicScore,
		LogicComment:        rec.LogicComment,
		PotentialProfitLoss: rec.PotentialProfitLoss,
		Summary:             rec.Summary,
		CreatedAtUnix:       time.Now().Unix(),
	}
}

func toEvaluationRecord(m storemodel.TradeEvaluationModel) store.EvaluationRecord {
	return store.EvaluationRecord{
		ID:                  m.ID,
		InferenceID:         m.InferenceID,
		EvaluationTime:      time.Unix(m.EvaluationTimeUnix, 0).UTC(),
		LogicScore:          m.LogicScore,
		LogicComment:        m.LogicComment,
		PotentialProfitLoss: m.PotentialProfitLoss,
		Summary:             m.Summary,
	}
}

func newIndicatorModel(rec store.IndicatorRecord) storemodel.TechnicalIndicatorModel {
	return storemodel.TechnicalIndicatorModel{
		ID:            rec.ID,
		Pair:          rec.Pair,
		TimestampUnix: rec.Timestamp.Unix(),
		Close:         rec.Close,
		RSI:           rec.RSI,
		MACD:          rec.MACD,
		MACDSignal:    rec.MACDSignal,
		SMA20:         rec.SMA20,
		EMA50:         rec.EMA50,
		BBUpper:       rec.BBUpper,
		BBLower:       rec.BBLower,
		ADX:           rec.ADX,
	}
}

func toIndicatorRecord(m storemodel.TechnicalIndicatorModel) store.IndicatorRecord {
	return store.IndicatorRecord{
		ID:         m.ID,
		Pair:       m.Pair,
		Timestamp:  time.Unix(m.TimestampUnix, 0).UTC(),
		Close:      m.Close,
		RSI:        m.RSI,
		MACD:       m.MACD,
		MACDSignal: m.MACDSignal,
		SMA20:      m.SMA20,
		EMA50:      m.EMA50,
		BBUpper:    m.BBUpper,
		BBLower:    m.BBLower,
		ADX:        m.ADX,
	}
}
