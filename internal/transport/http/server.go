package transporthttp

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"fxeval/internal/evaluation"
	"fxeval/internal/importer"
	"fxeval/internal/inference"
	"fxeval/internal/logger"
	"fxeval/internal/rates"
	"fxeval/internal/report"
	"fxeval/internal/scheduler"
	"fxeval/internal/store"
	"fxeval/internal/store/reportlog"
	"fxeval/internal/vocab"
)

// ServerConfig wires the HTTP surface to the service layer. Valuer and Sched
// are optional; their endpoints report unavailable when nil.
type ServerConfig struct {
	Addr     string
	Mode     string
	AppName  string
	Store    store.Store
	Registry *vocab.Registry
	Eval     *evaluation.Service
	Importer *importer.Importer
	Reports  *report.Generator
	Archive  *reportlog.Store
	Sched    *scheduler.Scheduler
	Valuer   *rates.Valuer
}

// Server exposes the evaluation service over HTTP.
type Server struct {
	addr   string
	router *gin.Engine

	appName  string
	store    store.Store
	registry *vocab.Registry
	eval     *evaluation.Service
	importer *importer.Importer
	reports  *report.Generator
	archive  *reportlog.Store
	sched    *scheduler.Scheduler
	valuer   *rates.Valuer

	mu        sync.Mutex
	extractor *inference.Extractor
	vocabVer  int64
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil || cfg.Registry == nil || cfg.Eval == nil {
		return nil, errors.New("http server requires store, vocab registry and evaluation service")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}
	switch cfg.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		addr:     cfg.Addr,
		router:   router,
		appName:  cfg.AppName,
		store:    cfg.Store,
		registry: cfg.Registry,
		eval:     cfg.Eval,
		importer: cfg.Importer,
		reports:  cfg.Reports,
		archive:  cfg.Archive,
		sched:    cfg.Sched,
		valuer:   cfg.Valuer,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.router.POST("/inferences", s.handleCreateInference)
	s.router.GET("/inferences", s.handleListInferences)
	s.router.GET("/inferences/:id", s.handleGetInference)
	s.router.POST("/inferences/:id/evaluate", s.handleEvaluate)
	s.router.GET("/inferences/:id/evaluation", s.handleGetEvaluation)

	s.router.POST("/trades", s.handleCreateTrade)
	s.router.POST("/trades/import", s.handleImportTrades)
	s.router.GET("/trades/holdings", s.handleHoldings)
	s.router.GET("/trades/inference/:id", s.handleTradesByInference)

	s.router.GET("/reports/summary", s.handleReportSummary)
	s.router.GET("/reports/evaluations", s.handleReportEvaluations)
	s.router.GET("/reports/history", s.handleReportHistory)
	s.router.POST("/reports/generate", s.handleReportGenerate)

	s.router.GET("/indicators/:pair", s.handleIndicators)
	s.router.GET("/scheduler/status", s.handleSchedulerStatus)
	s.router.GET("/vocab", s.handleVocab)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.addr }

// Start serves until ctx is canceled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Infof("http server listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

// currentExtractor caches the extractor per vocabulary version.
func (s *Server) currentExtractor() *inference.Extractor {
	snap := s.registry.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.extractor == nil || snap.Version != s.vocabVer {
		s.extractor = inference.NewExtractor(snap.Tables)
		s.vocabVer = snap.Version
	}
	return s.extractor
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		c.Next()
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s",
			method, path, c.Writer.Status(), c.ClientIP(), time.Since(start).Round(time.Microsecond))
	}
}
