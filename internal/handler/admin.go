package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chainpulse/internal/scheduler"
)

// GetCollectors godoc
// @Summary      List registered collectors
// @Description  Returns every collector with its status and last run
// @Tags         collectors
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/collectors [get]
func (h *Handler) GetCollectors(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-collectors")
	defer span.End()

	infos := h.scheduler.Collectors()
	c.JSON(http.StatusOK, gin.H{
		"count":      len(infos),
		"collectors": infos,
	})
}

// GetCollectorHistory godoc
// @Summary      Run history for one collector
// @Tags         collectors
// @Produce      json
// @Security     ApiKeyAuth
// @Param        name  path  string  true  "Collector name"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/collectors/{name}/history [get]
func (h *Handler) GetCollectorHistory(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-collector-history")
	defer span.End()

	name := c.Param("name")
	runs, err := h.scheduler.History(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"collector": name,
		"count":     len(runs),
		"runs":      runs,
	})
}

// RunCollectors godoc
// @Summary      Trigger a collection pass
// @Description  Runs all collectors, or one when the name query param is set
// @Tags         collectors
// @Produce      json
// @Security     ApiKeyAuth
// @Param        name  query  string  false  "Collector name"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/collectors/run [post]
func (h *Handler) RunCollectors(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.run-collectors")
	defer span.End()

	if name := c.Query("name"); name != "" {
		result, err := h.scheduler.ExecuteOne(ctx, name)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, scheduler.ErrUnknownCollector) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": []any{result}})
		return
	}

	results := h.scheduler.ExecuteAll(ctx)
	c.JSON(http.StatusOK, gin.H{"results": results})
}
