package transporthttp

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fxeval/internal/inference"
	"fxeval/internal/logger"
	"fxeval/internal/report"
	"fxeval/internal/store"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": s.appName,
		"status":  "running",
	})
}

type createInferenceRequest struct {
	ExternalMessageID string    `json:"external_message_id" binding:"required"`
	InferenceTime     time.Time `json:"inference_time"`
	Prompt            string    `json:"prompt"`
	Response          string    `json:"response" binding:"required"`
}

func (s *Server) handleCreateInference(c *gin.Context) {
	var req createInferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.InferenceTime.IsZero() {
		req.InferenceTime = time.Now()
	}
	actions := s.currentExtractor().Extract(req.Response)
	rec := &store.InferenceRecord{
		ExternalMessageID: req.ExternalMessageID,
		InferenceTime:     req.InferenceTime,
		Prompt:            req.Prompt,
		RawResponse:       req.Response,
		Actions:           actions,
	}
	err := s.store.Inferences().Create(c.Request.Context(), rec)
	if errors.Is(err, store.ErrDuplicate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "inference with this external_message_id already exists"})
		return
	}
	if err != nil {
		logger.Errorf("[api] create inference failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Infof("[api] inference created id=%d external=%s actions=%d", rec.ID, rec.ExternalMessageID, len(actions))
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleListInferences(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit > 500 {
		limit = 500
	}
	recs, err := s.store.Inferences().List(c.Request.Context(), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inferences": recs, "offset": offset, "limit": limit})
}

func (s *Server) handleGetInference(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inference id"})
		return
	}
	rec, err := s.store.Inferences().FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "inference not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleEvaluate(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inference id"})
		return
	}
	force := parseBool(c.DefaultQuery("force", "0"))
	rec, err := s.eval.EvaluateOne(c.Request.Context(), id, force)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "inference not found"})
		return
	}
	if err != nil {
		logger.Errorf("[api] evaluate inference %d failed err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleGetEvaluation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inference id"})
		return
	}
	rec, err := s.store.Evaluations().FindByInference(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "evaluation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

type createTradeRequest struct {
	InferenceID *int64    `json:"inference_id"`
	TradeTime   time.Time `json:"trade_time"`
	Pair        string    `json:"pair" binding:"required"`
	Action      string    `json:"action" binding:"required"`
	EntryPrice  float64   `json:"entry_price" binding:"required"`
	ExitPrice   *float64  `json:"exit_price"`
	Amount      float64   `json:"amount" binding:"required"`
	ProfitLoss  *float64  `json:"profit_loss"`
}

func (s *Server) handleCreateTrade(c *gin.Context) {
	var req createTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	action := strings.ToUpper(strings.TrimSpace(req.Action))
	if action != inference.ActionBuy && action != inference.ActionSell {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be BUY or SELL"})
		return
	}
	if req.TradeTime.IsZero() {
		req.TradeTime = time.Now()
	}
	rec := &store.TradeRecord{
		InferenceID: req.InferenceID,
		TradeTime:   req.TradeTime,
		Pair:        strings.ToUpper(strings.TrimSpace(req.Pair)),
		Action:      action,
		EntryPrice:  req.EntryPrice,
		ExitPrice:   req.ExitPrice,
		Amount:      req.Amount,
		ProfitLoss:  req.ProfitLoss,
	}
	err := s.store.Trades().Create(c.Request.Context(), rec)
	if errors.Is(err, store.ErrMissingParent) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "referenced inference does not exist"})
		return
	}
	if err != nil {
		logger.Errorf("[api] create trade failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleImportTrades(c *gin.Context) {
	if s.importer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trade import not enabled"})
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 16<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.importer.ImportTrades(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleTradesByInference(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inference id"})
		return
	}
	if _, err := s.store.Inferences().FindByID(c.Request.Context(), id); errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "inference not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	trades, err := s.store.Trades().ListByInference(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inference_id": id, "trades": trades})
}

func (s *Server) handleHoldings(c *gin.Context) {
	if s.valuer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rates source not enabled"})
		return
	}
	snap, err := s.valuer.Snapshot(c.Request.Context())
	if err != nil {
		logger.Errorf("[api] holdings snapshot failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleReportSummary(c *gin.Context) {
	if s.reports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reporting not enabled"})
		return
	}
	period := c.DefaultQuery("period", report.PeriodDaily)
	rep, err := s.reports.Build(c.Request.Context(), period)
	if err != nil {
		if strings.Contains(err.Error(), "unknown report period") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Errorf("[api] report summary failed period=%s err=%v", period, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleReportEvaluations(c *gin.Context) {
	period := c.DefaultQuery("period", report.PeriodDaily)
	start, end, err := report.PeriodBounds(period, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	evals, err := s.store.Evaluations().ListByInferenceTimeRange(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, err := s.store.Inferences().CountBetween(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"period":     period,
		"start_date": start,
		"end_date":   end,
		"stats":      report.AnalyzeEvaluations(evals, int(total)),
	})
}

func (s *Server) handleReportHistory(c *gin.Context) {
	if s.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report archive not enabled"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	recs, err := s.archive.ListRecent(c.Request.Context(), c.Query("period"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": recs})
}

func (s *Server) handleReportGenerate(c *gin.Context) {
	if s.reports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reporting not enabled"})
		return
	}
	period := c.DefaultQuery("period", report.PeriodDaily)
	rep, err := s.reports.Generate(c.Request.Context(), period)
	if err != nil {
		if strings.Contains(err.Error(), "unknown report period") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Errorf("[api] report generate failed period=%s err=%v", period, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleIndicators(c *gin.Context) {
	pair := strings.ToUpper(strings.TrimSpace(c.Param("pair")))
	if pair == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pair is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	recs, err := s.store.Indicators().ListByPair(c.Request.Context(), pair, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pair": pair, "indicators": recs})
}

func (s *Server) handleSchedulerStatus(c *gin.Context) {
	if s.sched == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler not enabled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": s.sched.Status()})
}

func (s *Server) handleVocab(c *gin.Context) {
	snap := s.registry.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"version":   snap.Version,
		"loaded_at": snap.LoadedAt,
		"tables":    snap.Tables,
	})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func parseBool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
