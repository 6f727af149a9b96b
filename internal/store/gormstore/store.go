package gormstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fxeval/internal/store"
	storemodel "fxeval/internal/store/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore implements store.Store on Gorm + SQLite.
type GormStore struct {
	db *gorm.DB
}

// New opens (creating if needed) the SQLite database at path and migrates the
// schema.
func New(path string) (*GormStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("gorm store: database path cannot be empty")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	models := []interface{}{
		&storemodel.TradeInferenceModel{},
		&storemodel.ActualTradeModel{},
		&storemodel.TradeEvaluationModel{},
		&storemodel.TechnicalIndicatorModel{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL: allow a little parallelism for concurrent HTTP reads
	// while keeping lock contention low.
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &GormStore{db: db}, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *GormStore) Inferences() store.InferenceRepository {
	return &inferenceRepo{db: s.db}
}

func (s *GormStore) Trades() store.TradeRepository {
	return &tradeRepo{db: s.db}
}

func (s *GormStore) Evaluations() store.EvaluationRepository {
	return &evaluationRepo{db: s.db}
}

func (s *GormStore) Indicators() store.IndicatorRepository {
	return &indicatorRepo{db: s.db}
}

// Close closes the underlying database connection.
func (s *GormStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ store.Store = (*GormStore)(nil)

// isUniqueViolation backstops the explicit pre-checks; SQLite reports
// constraint breaches by message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
