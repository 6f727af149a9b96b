package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fxeval/internal/inference"
	"fxeval/internal/store"
	storemodel "fxeval/internal/store/model"

	"gorm.io/gorm"
)

type inferenceRepo struct {
	db *gorm.DB
}

func (r *inferenceRepo) Create(ctx context.Context, rec *store.InferenceRecord) error {
	if rec == nil {
		return fmt.Errorf("nil inference record")
	}
	existing, err := r.FindByExternalID(ctx, rec.ExternalMessageID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if existing != nil {
		return store.ErrDuplicate
	}
	m, err := newInferenceModel(*rec)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return err
	}
	rec.ID = m.ID
	return nil
}

func (r *inferenceRepo) FindByID(ctx context.Context, id int64) (*store.InferenceRecord, error) {
	var m storemodel.TradeInferenceModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := toInferenceRecord(m)
	return &rec, nil
}

func (r *inferenceRepo) FindByExternalID(ctx context.Context, externalID string) (*store.InferenceRecord, error) {
	var m storemodel.TradeInferenceModel
	err := r.db.WithContext(ctx).First(&m, "external_message_id = ?", externalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := toInferenceRecord(m)
	return &rec, nil
}

func (r *inferenceRepo) List(ctx context.Context, offset, limit int) ([]store.InferenceRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	var models []storemodel.TradeInferenceModel
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]store.InferenceRecord, 0, len(models))
	for _, m := range models {
		out = append(out, toInferenceRecord(m))
	}
	return out, nil
}

func (r *inferenceRepo) UpdateActions(ctx context.Context, id int64, actions []inference.Action) error {
	data, err := marshalActions(actions)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&storemodel.TradeInferenceModel{}).
		Where("id = ?", id).
		Update("inferred_actions", data)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// FindNearest fetches the window with one range query and picks the minimum
// absolute distance in-process; ties keep the first row in id order.
func (r *inferenceRepo) FindNearest(ctx context.Context, t time.Time, window time.Duration) (*store.InferenceRecord, error) {
	start := t.Add(-window).Unix()
	end := t.Add(window).Unix()
	var models []storemodel.TradeInferenceModel
	err := r.db.WithContext(ctx).
		Where("inference_time >= ? AND inference_time <= ?", start, end).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, store.ErrNotFound
	}
	target := t.Unix()
	best := 0
	bestDist := absInt64(models[0].InferenceTimeUnix - target)
	for i := 1; i < len(models); i++ {
		if d := absInt64(models[i].InferenceTimeUnix - target); d < bestDist {
			best, bestDist = i, d
		}
	}
	rec := toInferenceRecord(models[best])
	return &rec, nil
}

func (r *inferenceRepo) ListUnevaluated(ctx context.Context, limit int) ([]store.InferenceRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var models []storemodel.TradeInferenceModel
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM trade_evaluations WHERE trade_evaluations.inference_id = trade_inferences.id)").
		Order("inference_time DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]store.InferenceRecord, 0, len(models))
	for _, m := range models {
		out = append(out, toInferenceRecord(m))
	}
	return out, nil
}

func (r *inferenceRepo) CountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&storemodel.TradeInferenceModel{}).
		Where("inference_time >= ? AND inference_time <= ?", start.Unix(), end.Unix()).
		Count(&count).Error
	return count, err
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
