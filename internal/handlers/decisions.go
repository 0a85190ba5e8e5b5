package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"production_advisor/internal/models"
	"production_advisor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// DecisionRequest accepts or rejects the recommendation at position Rank of a run.
type DecisionRequest struct {
	// 0-based position in the run's recommendation list
	Rank *int `json:"rank" binding:"required" example:"0"`
	// ACCEPT or REJECT
	Action string `json:"action" binding:"required" example:"ACCEPT"`
	Note   string `json:"note,omitempty" example:"moved two tufting jobs to night shift"`
}

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      Record a decision
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Run ID"
// @Param        body  body      DecisionRequest  true  "Decision"
// @Success      201   {object}  models.Decision
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/analysis/runs/{id}/decisions [post]
// @Security     BearerAuth
func (h *Handler) recordDecision(c *gin.Context) {
	var req DecisionRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	runID := c.Param("id")
	d, err := h.services.Decisions.Record(c.Request.Context(), service.DecisionParams{
		RunID:  runID,
		Rank:   *req.Rank,
		Action: req.Action,
		Note:   req.Note,
		UserID: c.GetInt(ctxUserID),
	})
	if err != nil {
		h.respondServiceError(c, "decision_record_failed", err, "run_id", runID, "rank", *req.Rank)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// @Summary      List decisions
// @Description  Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         decisions
// @Produce      json
// @Param        from    query     string  false  "Start of range"  example(2025-03-01)
// @Param        to      query     string  false  "End of range. Date-only treated as end of day."  example(2025-03-31)
// @Param        action  query     string  false  "Decision action"  Enums(ACCEPT,REJECT)
// @Param        run_id  query     string  false  "Run ID"
// @Success      200     {object}  map[string]interface{}  "count, decisions"
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/decisions [get]
// @Security     BearerAuth
func (h *Handler) listDecisions(c *gin.Context) {
	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	// A date-only 'to' covers that whole day.
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	filter := models.DecisionFilter{
		From:   from,
		To:     to,
		Action: c.Query("action"),
		RunID:  c.Query("run_id"),
	}
	decisions, err := h.services.Decisions.List(c.Request.Context(), filter)
	if err != nil {
		h.respondServiceError(c, "decisions_list_failed", err, "from", from, "to", to, "action", filter.Action)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(decisions),
		"decisions": decisions,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-03-15T08:00:00Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
