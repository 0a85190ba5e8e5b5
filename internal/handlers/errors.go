package handlers

import (
	"errors"
	"net/http"

	"production_advisor/internal/service"

	"github.com/gin-gonic/gin"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError maps service sentinel errors to a status and a client message.
func (h *Handler) respondServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidDecision),
		errors.Is(err, service.ErrRankOutOfRange),
		errors.Is(err, service.ErrInvalidTimeRange):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrRunNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrUpstreamUnavailable):
		code, msg = http.StatusBadGateway, "upstream planning service unavailable"
	case errors.Is(err, service.ErrNoUpstream):
		code, msg = http.StatusServiceUnavailable, err.Error()
	}
	h.logAndJSONError(c, code, msg, logKey, err, kv...)
}
