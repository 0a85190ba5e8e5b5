package handlers

import (
	"context"
	"errors"
	"time"

	"production_advisor/internal/logger"
	"production_advisor/internal/service"

	"github.com/gin-contrib/gzip"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	readinessTimeout   = 2 * time.Second
	goroutineThreshold = 10_000
)

// Config tunes response defaults.
type Config struct {
	// DefaultTopN caps /analysis/latest and the websocket stream when no ?top= is given; 0 means all.
	DefaultTopN int
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	cfg      Config
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, cfg Config) *Handler {
	return &Handler{services: services, log: log, cfg: cfg}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	if h.log != nil {
		zl := h.log.Desugar()
		router.Use(ginzap.Ginzap(zl, time.RFC3339, true))
		router.Use(ginzap.RecoveryWithZap(zl, true))
	} else {
		router.Use(gin.Recovery())
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.registerHealthRoutes(router)
	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Recommendation stream; token via Authorization header or ?token=
	router.GET("/ws", h.wsAuthMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerHealthRoutes(r *gin.Engine) {
	checks := healthcheck.NewHandler()
	checks.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(goroutineThreshold))
	checks.AddReadinessCheck("database", h.databaseCheck)

	r.GET("/health", h.health)
	r.GET("/health/live", gin.WrapF(checks.LiveEndpoint))
	r.GET("/health/ready", gin.WrapF(checks.ReadyEndpoint))
}

func (h *Handler) databaseCheck() error {
	if h.services == nil || h.services.Health == nil {
		return errors.New("health service not configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), readinessTimeout)
	defer cancel()
	return h.services.Health.Ready(ctx)
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware, gzip.Gzip(gzip.DefaultCompression))
	{
		h.registerAnalysisRoutes(api)
		h.registerDecisionRoutes(api)
	}
}

func (h *Handler) registerAnalysisRoutes(api *gin.RouterGroup) {
	analysis := api.Group("/analysis")
	{
		analysis.POST("/run", h.runAnalysis)
		// Body example: {"shape":"kera","orders":[...],"machines":[...],"schedule":[...]}
		analysis.POST("/evaluate", h.evaluateSnapshot)
		analysis.GET("/latest", h.latestRun)
		analysis.GET("/runs", h.listRuns)
		analysis.GET("/runs/:id", h.getRun)
		// Body example: {"rank":0,"action":"ACCEPT","note":"moved to night shift"}
		analysis.POST("/runs/:id/decisions", h.recordDecision)
	}
}

func (h *Handler) registerDecisionRoutes(api *gin.RouterGroup) {
	api.GET("/decisions", h.listDecisions)
}
