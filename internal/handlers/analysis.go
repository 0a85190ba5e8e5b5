package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"production_advisor/internal/normalize"
	"production_advisor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errInvalidTop   = "invalid 'top'; use a non-negative integer"
	errInvalidLimit = "invalid 'limit'; use a positive integer"
	errInvalidNow   = "invalid 'now' time; use RFC3339 or YYYY-MM-DD"
)

// EvaluateRequest is an inline plan snapshot. Record field names follow the chosen shape.
type EvaluateRequest struct {
	// Producer shape: kera, legacy or canonical (default)
	Shape    string             `json:"shape" example:"kera"`
	Orders   []normalize.Record `json:"orders"`
	Machines []normalize.Record `json:"machines"`
	Schedule []normalize.Record `json:"schedule"`
	// Evaluation time (RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'); defaults to now
	Now string `json:"now,omitempty" example:"2025-03-15T08:00:00Z"`
	// Store the run so decisions can be recorded against it
	Persist bool `json:"persist,omitempty"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Analyze the upstream plan
// @Description  Fetches orders, machines and schedule from the planning API, evaluates them and stores the run.
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  models.AnalysisRun
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/analysis/run [post]
// @Security     BearerAuth
func (h *Handler) runAnalysis(c *gin.Context) {
	run, err := h.services.Analysis.Run(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "analysis_run_failed", err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary      Evaluate an inline snapshot
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        body  body      EvaluateRequest  true  "Snapshot"
// @Success      200   {object}  models.AnalysisRun
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/analysis/evaluate [post]
// @Security     BearerAuth
func (h *Handler) evaluateSnapshot(c *gin.Context) {
	var req EvaluateRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	var now time.Time
	if req.Now != "" {
		t, err := parseQueryTime(req.Now)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidNow})
			return
		}
		now = t
	}

	run, err := h.services.Analysis.Evaluate(c.Request.Context(), service.EvaluateInput{
		Shape: req.Shape,
		Raw: normalize.RawSnapshot{
			Orders:   req.Orders,
			Machines: req.Machines,
			Schedule: req.Schedule,
		},
		Now:     now,
		Persist: req.Persist,
	})
	if err != nil {
		h.respondServiceError(c, "analysis_evaluate_failed", err, "shape", req.Shape)
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary      Latest analysis run
// @Tags         analysis
// @Produce      json
// @Param        top  query     int  false  "Keep only the N most urgent recommendations"
// @Success      200  {object}  models.AnalysisRun
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/analysis/latest [get]
// @Security     BearerAuth
func (h *Handler) latestRun(c *gin.Context) {
	top, ok := h.parseTop(c, h.cfg.DefaultTopN)
	if !ok {
		return
	}
	run, err := h.services.Analysis.Latest(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "analysis_latest_failed", err)
		return
	}
	c.JSON(http.StatusOK, service.TopN(run, top))
}

// @Summary      Get an analysis run
// @Tags         analysis
// @Produce      json
// @Param        id   path      string  true   "Run ID"
// @Param        top  query     int     false  "Keep only the N most urgent recommendations"
// @Success      200  {object}  models.AnalysisRun
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/analysis/runs/{id} [get]
// @Security     BearerAuth
func (h *Handler) getRun(c *gin.Context) {
	top, ok := h.parseTop(c, 0)
	if !ok {
		return
	}
	run, err := h.services.Analysis.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, "analysis_get_failed", err, "run_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, service.TopN(run, top))
}

// @Summary      List analysis runs
// @Tags         analysis
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of runs, newest first"  default(20)
// @Success      200    {object}  map[string]interface{}  "count, runs"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/analysis/runs [get]
// @Security     BearerAuth
func (h *Handler) listRuns(c *gin.Context) {
	limit := 0
	if qs := strings.TrimSpace(c.Query("limit")); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
			return
		}
		limit = v
	}
	runs, err := h.services.Analysis.List(c.Request.Context(), limit)
	if err != nil {
		h.respondServiceError(c, "analysis_list_failed", err, "limit", limit)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}

// parseTop reads ?top=N; on a bad value it writes a 400 and returns false.
func (h *Handler) parseTop(c *gin.Context, def int) (int, bool) {
	qs := strings.TrimSpace(c.Query("top"))
	if qs == "" {
		return def, true
	}
	v, err := strconv.Atoi(qs)
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidTop})
		return 0, false
	}
	return v, true
}
