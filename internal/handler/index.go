package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chainpulse/internal/domain"
)

// GetFearGreedIndex godoc
// @Summary      Latest fear & greed index reading
// @Tags         indexes
// @Produce      json
// @Success      200  {object}  domain.IndexSnapshot
// @Failure      404  {object}  map[string]string
// @Router       /api/fear-greed-index [get]
func (h *Handler) GetFearGreedIndex(c *gin.Context) {
	h.serveIndex(c, domain.IndexFearGreed)
}

// GetAltcoinSeasonIndex godoc
// @Summary      Latest altcoin season index reading
// @Tags         indexes
// @Produce      json
// @Success      200  {object}  domain.IndexSnapshot
// @Failure      404  {object}  map[string]string
// @Router       /api/altcoin-season-index [get]
func (h *Handler) GetAltcoinSeasonIndex(c *gin.Context) {
	h.serveIndex(c, domain.IndexAltcoinSeason)
}

func (h *Handler) serveIndex(c *gin.Context, name string) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-index")
	defer span.End()

	snap, ok := h.cache.GetIndex(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cached reading for " + name})
		return
	}
	c.JSON(http.StatusOK, snap)
}
