package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inventra-io/inventra/internal/domain/errs"
	"github.com/inventra-io/inventra/internal/service/stats"
)

// StatsHandler exposes the snapshot and dashboard read endpoints.
type StatsHandler struct {
	statsSvc *stats.Service
	logger   *zap.Logger
}

// NewStatsHandler constructs the HTTP handler adapter for aggregates.
func NewStatsHandler(statsSvc *stats.Service, logger *zap.Logger) *StatsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsHandler{statsSvc: statsSvc, logger: logger}
}

// InventoryStats returns a freshly recomputed inventory snapshot with
// week-over-week deltas.
func (h *StatsHandler) InventoryStats(c *gin.Context) {
	overview, err := h.statsSvc.Overview(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": overview})
}

// RefreshInventoryStats forces an inventory snapshot recomputation.
func (h *StatsHandler) RefreshInventoryStats(c *gin.Context) {
	snapshot, err := h.statsSvc.RecomputeInventorySnapshot(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "inventory stats refreshed successfully",
		"stats":   snapshot,
	})
}

// OverallInvoiceStats returns the stored overall-invoice snapshot.
func (h *StatsHandler) OverallInvoiceStats(c *gin.Context) {
	snapshot, err := h.statsSvc.OverallSnapshot(c.Request.Context())
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "no stats found"})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": snapshot})
}

// Dashboard returns the combined rollup, with the chart type taken from the
// path parameter or the query string (monthly by default).
func (h *StatsHandler) Dashboard(c *gin.Context) {
	chartType := c.Param("type")
	if chartType == "" {
		chartType = c.Query("type")
	}

	rollup, err := h.statsSvc.Dashboard(c.Request.Context(), chartType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rollup})
}
