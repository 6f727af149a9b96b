package store

import (
	"context"
	"time"

	"fxeval/internal/inference"
)

// Store is the entry point for database access.
type Store interface {
	Inferences() InferenceRepository
	Trades() TradeRepository
	Evaluations() EvaluationRepository
	Indicators() IndicatorRepository
	Close() error
}

// InferenceRepository persists trading-decision events.
type InferenceRepository interface {
	// Create inserts a new inference. Returns ErrDuplicate when the
	// external message id is already recorded.
	Create(ctx context.Context, rec *InferenceRecord) error
	FindByID(ctx context.Context, id int64) (*InferenceRecord, error)
	FindByExternalID(ctx context.Context, externalID string) (*InferenceRecord, error)
	List(ctx context.Context, offset, limit int) ([]InferenceRecord, error)
	// UpdateActions populates the derived actions list, the only mutation
	// allowed after creation.
	UpdateActions(ctx context.Context, id int64, actions []inference.Action) error
	// FindNearest returns the inference whose timestamp is closest to t
	// within ±window, first match winning ties; ErrNotFound when the
	// window is empty.
	FindNearest(ctx context.Context, t time.Time, window time.Duration) (*InferenceRecord, error)
	// ListUnevaluated returns inferences without an evaluation row, newest
	// first, capped at limit.
	ListUnevaluated(ctx context.Context, limit int) ([]InferenceRecord, error)
	// CountBetween counts inferences whose timestamp falls in [start,end].
	CountBetween(ctx context.Context, start, end time.Time) (int64, error)
}

// TradeRepository persists realized executions.
type TradeRepository interface {
	// Create inserts a trade. A non-nil InferenceID must reference an
	// existing inference or ErrMissingParent is returned.
	Create(ctx context.Context, rec *TradeRecord) error
	FindByID(ctx context.Context, id int64) (*TradeRecord, error)
	ListByInference(ctx context.Context, inferenceID int64) ([]TradeRecord, error)
	// ListSettledBetween returns trades in [start,end] with a non-null
	// realized profit/loss.
	ListSettledBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error)
	// FindByDetails locates an existing trade by its identifying tuple,
	// used by the importer to dedupe.
	FindByDetails(ctx context.Context, t time.Time, pair, action string, entryPrice, amount float64) (*TradeRecord, error)
	// ListOpen returns trades without an exit price (current holdings).
	ListOpen(ctx context.Context) ([]TradeRecord, error)
	// AttachInference repairs the inference back-reference.
	AttachInference(ctx context.Context, tradeID, inferenceID int64) error
}

// EvaluationRepository persists inference evaluations.
type EvaluationRepository interface {
	// Create inserts an evaluation. Returns ErrMissingParent when the
	// inference does not exist and ErrDuplicate when one already does.
	Create(ctx context.Context, rec *EvaluationRecord) error
	FindByInference(ctx context.Context, inferenceID int64) (*EvaluationRecord, error)
	ExistsForInference(ctx context.Context, inferenceID int64) (bool, error)
	// DeleteByInference removes the live evaluation; deleting a missing
	// row is not an error (re-evaluation is delete-then-create).
	DeleteByInference(ctx context.Context, inferenceID int64) error
	// ListByInferenceTimeRange joins against inferences and returns
	// evaluations whose inference timestamp falls in [start,end].
	ListByInferenceTimeRange(ctx context.Context, start, end time.Time) ([]EvaluationRecord, error)
}

// IndicatorRepository persists technical-indicator snapshots.
type IndicatorRepository interface {
	// Upsert inserts or replaces the snapshot for (pair, timestamp).
	Upsert(ctx context.Context, rec *IndicatorRecord) error
	ListByPair(ctx context.Context, pair string, limit int) ([]IndicatorRecord, error)
}
