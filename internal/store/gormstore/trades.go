package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fxeval/internal/store"
	storemodel "fxeval/internal/store/model"

	"gorm.io/gorm"
)

type tradeRepo struct {
	db *gorm.DB
}

func (r *tradeRepo) Create(ctx context.Context, rec *store.TradeRecord) error {
	if rec == nil {
		return fmt.Errorf("nil trade record")
	}
	if rec.InferenceID != nil {
		if err := r.checkInference(ctx, *rec.InferenceID); err != nil {
			return err
		}
	}
	m := newTradeModel(*rec)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	rec.ID = m.ID
	return nil
}

func (r *tradeRepo) checkInference(ctx context.Context, inferenceID int64) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&storemodel.TradeInferenceModel{}).
		Where("id = ?", inferenceID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return store.ErrMissingParent
	}
	return nil
}

func (r *tradeRepo) FindByID(ctx context.Context, id int64) (*store.TradeRecord, error) {
	var m storemodel.ActualTradeModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := toTradeRecord(m)
	return &rec, nil
}

func (r *tradeRepo) ListByInference(ctx context.Context, inferenceID int64) ([]store.TradeRecord, error) {
	var models []storemodel.ActualTradeModel
	err := r.db.WithContext(ctx).
		Where("inference_id = ?", inferenceID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toTradeRecords(models), nil
}

func (r *tradeRepo) ListSettledBetween(ctx context.Context, start, end time.Time) ([]store.TradeRecord, error) {
	var models []storemodel.ActualTradeModel
	err := r.db.WithContext(ctx).
		Where("trade_time >= ? AND trade_time <= ? AND profit_loss IS NOT NULL", start.Unix(), end.Unix()).
		Order("trade_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toTradeRecords(models), nil
}

func (r *tradeRepo) FindByDetails(ctx context.Context, t time.Time, pair, action string, entryPrice, amount float64) (*store.TradeRecord, error) {
	var m storemodel.ActualTradeModel
	err := r.db.WithContext(ctx).
		Where("trade_time = ? AND pair = ? AND action = ? AND entry_price = ? AND amount = ?",
			t.Unix(), pair, action, entryPrice, amount).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := toTradeRecord(m)
	return &rec, nil
}

func (r *tradeRepo) ListOpen(ctx context.Context) ([]store.TradeRecord, error) {
	var models []storemodel.ActualTradeModel
	err := r.db.WithContext(ctx).
		Where("exit_price IS NULL").
		Order("trade_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toTradeRecords(models), nil
}

func (r *tradeRepo) AttachInference(ctx context.Context, tradeID, inferenceID int64) error {
	if err := r.checkInference(ctx, inferenceID); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&storemodel.ActualTradeModel{}).
		Where("id = ?", tradeID).
		Update("inference_id", inferenceID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func toTradeRecords(models []storemodel.ActualTradeModel) []store.TradeRecord {
	out := make([]store.TradeRecord, 0, len(models))
	for _, m := range models {
		out = append(out, toTradeRecord(m))
	}
	return out
}
