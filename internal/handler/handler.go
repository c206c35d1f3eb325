package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"chainpulse/internal/cache"
	"chainpulse/internal/scheduler"
)

type Handler struct {
	tracer    trace.Tracer
	cache     *cache.SnapshotCache
	scheduler *scheduler.Scheduler
	apiKey    string
}

func New(tracer trace.Tracer, c *cache.SnapshotCache, s *scheduler.Scheduler, apiKey string) *Handler {
	return &Handler{
		tracer:    tracer,
		cache:     c,
		scheduler: s,
		apiKey:    apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/market-data", h.GetAllMarketData)
	r.GET("/api/market-data/:coin_id", h.GetMarketData)
	r.GET("/api/coins", h.GetCoins)
	r.GET("/api/stats", h.GetStats)
	r.GET("/api/fear-greed-index", h.GetFearGreedIndex)
	r.GET("/api/altcoin-season-index", h.GetAltcoinSeasonIndex)

	admin := r.Group("/api", APIKeyAuth(h.apiKey))
	admin.GET("/collectors", h.GetCollectors)
	admin.GET("/collectors/:name/history", h.GetCollectorHistory)
	admin.POST("/collectors/run", h.RunCollectors)
}
