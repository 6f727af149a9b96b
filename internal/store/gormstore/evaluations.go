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

type evaluationRepo struct {
	db *gorm.DB
}

func (r *evaluationRepo) Create(ctx context.Context, rec *store.EvaluationRecord) error {
	if rec == nil {
		return fmt.Errorf("nil evaluation record")
	}
	var parents int64
	err := r.db.WithContext(ctx).
		Model(&storemodel.TradeInferenceModel{}).
		Where("id = ?", rec.InferenceID).
		Count(&parents).Error
	if err != nil {
		return err
	}
	if parents == 0 {
		return store.ErrMissingParent
	}
	exists, err := r.ExistsForInference(ctx, rec.InferenceID)
	if err != nil {
		return err
	}
	if exists {
		return store.ErrDuplicate
	}
	m := newEvaluationModel(*rec)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return err
	}
	rec.ID = m.ID
	return nil
}

func (r *evaluationRepo) FindByInference(ctx context.Context, inferenceID int64) (*store.EvaluationRecord, error) {
	var m storemodel.TradeEvaluationModel
	err := r.db.WithContext(ctx).First(&m, "inference_id = ?", inferenceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := toEvaluationRecord(m)
	return &rec, nil
}

func (r *evaluationRepo) ExistsForInference(ctx context.Context, inferenceID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&storemodel.TradeEvaluationModel{}).
		Where("inference_id = ?", inferenceID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *evaluationRepo) DeleteByInference(ctx context.Context, inferenceID int64) error {
	return r.db.WithContext(ctx).
		Where("inference_id = ?", inferenceID).
		Delete(&storemodel.TradeEvaluationModel{}).Error
}

func (r *evaluationRepo) ListByInferenceTimeRange(ctx context.Context, start, end time.Time) ([]store.EvaluationRecord, error) {
	var models []storemodel.TradeEvaluationModel
	err := r.db.WithContext(ctx).
		Joins("JOIN trade_inferences ON trade_inferences.id = trade_evaluations.inference_id").
		Where("trade_inferences.inference_time >= ? AND trade_inferences.inference_time <= ?", start.Unix(), end.Unix()).
		Order("trade_evaluations.id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]store.EvaluationRecord, 0, len(models))
	for _, m := range models {
		out = append(out, toEvaluationRecord(m))
	}
	return out, nil
}
