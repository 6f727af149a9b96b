package gormstore

import (
	"context"
	"fmt"

	"fxeval/internal/store"
	storemodel "fxeval/internal/store/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type indicatorRepo struct {
	db *gorm.DB
}

func (r *indicatorRepo) Upsert(ctx context.Context, rec *store.IndicatorRecord) error {
	if rec == nil {
		return fmt.Errorf("nil indicator record")
	}
	m := newIndicatorModel(*rec)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "currency_pair"}, {Name: "timestamp"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"close":       gorm.Expr("excluded.close"),
				"rsi":         gorm.Expr("excluded.rsi"),
				"macd":        gorm.Expr("excluded.macd"),
				"macd_signal": gorm.Expr("excluded.macd_signal"),
				"sma_20":      gorm.Expr("excluded.sma_20"),
				"ema_50":      gorm.Expr("excluded.ema_50"),
				"bb_upper":    gorm.Expr("excluded.bb_upper"),
				"bb_lower":    gorm.Expr("excluded.bb_lower"),
				"adx":         gorm.Expr("excluded.adx"),
			}),
		}).
		Create(&m).Error
	if err != nil {
		return err
	}
	rec.ID = m.ID
	return nil
}

func (r *indicatorRepo) ListByPair(ctx context.Context, pair string, limit int) ([]store.IndicatorRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var models []storemodel.TechnicalIndicatorModel
	err := r.db.WithContext(ctx).
		Where("currency_pair = ?", pair).
		Order("timestamp DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]store.IndicatorRecord, 0, len(models))
	for _, m := range models {
		out = append(out, toIndicatorRecord(m))
	}
	return out, nil
}
