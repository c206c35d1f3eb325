package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"chainpulse/internal/domain"
)

// GetMarketData godoc
// @Summary      Get cached market data for one coin
// @Description  Returns the latest snapshot with indicators for a coin id or symbol
// @Tags         market
// @Produce      json
// @Param        coin_id  path  string  true  "CoinGecko id (bitcoin) or symbol (BTC)"
// @Success      200  {object}  domain.CoinSnapshot
// @Failure      404  {object}  map[string]string
// @Router       /api/market-data/{coin_id} [get]
func (h *Handler) GetMarketData(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-market-data")
	defer span.End()

	coinID := resolveCoinID(c.Param("coin_id"))
	span.SetAttributes(attribute.String("coin_id", coinID))

	snap, ok := h.cache.Get(coinID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":        "no cached data for " + coinID,
			"cached_coins": h.cache.Coins(),
		})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// resolveCoinID accepts either a CoinGecko id or a known symbol.
func resolveCoinID(raw string) string {
	if id, ok := domain.CoinGeckoID[strings.ToUpper(raw)]; ok {
		return id
	}
	return strings.ToLower(raw)
}

// GetAllMarketData godoc
// @Summary      Get cached market data for all coins
// @Tags         market
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/market-data [get]
func (h *Handler) GetAllMarketData(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-all-market-data")
	defer span.End()

	snapshots := h.cache.GetAll()
	c.JSON(http.StatusOK, gin.H{
		"count": len(snapshots),
		"data":  snapshots,
	})
}

// GetCoins godoc
// @Summary      List coins currently in the cache
// @Tags         market
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/coins [get]
func (h *Handler) GetCoins(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-coins")
	defer span.End()

	coins := h.cache.Coins()
	c.JSON(http.StatusOK, gin.H{
		"count": len(coins),
		"coins": coins,
	})
}

// GetStats godoc
// @Summary      Cache statistics
// @Description  Returns item counts, hit/miss counters, and per-source totals
// @Tags         market
// @Produce      json
// @Success      200  {object}  domain.CacheStats
// @Router       /api/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-stats")
	defer span.End()

	c.JSON(http.StatusOK, h.cache.Stats())
}
