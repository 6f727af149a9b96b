package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fxeval/internal/logger"
	"fxeval/internal/store"
	"fxeval/internal/vocab"
)

// Service drives evaluations against the store. The engine is rebuilt when
// the vocabulary registry reloads so keyword edits apply to later runs.
type Service struct {
	store    store.Store
	registry *vocab.Registry

	mu       sync.Mutex
	engine   *Engine
	vocabVer int64
}

func NewService(st store.Store, registry *vocab.Registry) *Service {
	return &Service{store: st, registry: registry}
}

// EvaluateOne judges a single inference. With force, an existing evaluation
// is replaced (delete then create); without it, an existing one is returned
// as is.
func (s *Service) EvaluateOne(ctx context.Context, inferenceID int64, force bool) (*store.EvaluationRecord, error) {
	inf, err := s.store.Inferences().FindByID(ctx, inferenceID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Evaluations().FindByInference(ctx, inferenceID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if existing != nil && !force {
		return existing, nil
	}
	if existing != nil {
		if err := s.store.Evaluations().DeleteByInference(ctx, inferenceID); err != nil {
			return nil, fmt.Errorf("replace evaluation %d: %w", inferenceID, err)
		}
	}

	trades, err := s.store.Trades().ListByInference(ctx, inferenceID)
	if err != nil {
		return nil, err
	}

	rec := s.currentEngine().Evaluate(*inf, trades).Record()
	if err := s.store.Evaluations().Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SweepUnevaluated judges every inference without an evaluation, up to limit.
// Per-inference failures are logged and the sweep continues.
func (s *Service) SweepUnevaluated(ctx context.Context, limit int) (int, error) {
	pending, err := s.store.Inferences().ListUnevaluated(ctx, limit)
	if err != nil {
		return 0, err
	}
	done := 0
	for _, inf := range pending {
		if _, err := s.EvaluateOne(ctx, inf.ID, false); err != nil {
			logger.Errorf("evaluation sweep: inference %d failed: %v", inf.ID, err)
			continue
		}
		done++
	}
	if len(pending) > 0 {
		logger.Infof("evaluation sweep: evaluated %d of %d pending", done, len(pending))
	}
	return done, nil
}

func (s *Service) currentEngine() *Engine {
	snap := s.registry.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil || snap.Version != s.vocabVer {
		s.engine = NewEngine(snap.Tables.Logic)
		s.vocabVer = snap.Version
	}
	return s.engine
}
