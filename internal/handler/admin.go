package handler

import (
	"fmt"
	"net/http"

	"movie-discovery-service/internal/model"
	"movie-discovery-service/internal/repository"
	"movie-discovery-service/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin-related endpoints. metrics is nil when
// no Redis is configured.
type AdminHandler struct {
	tmdbService *service.TMDBService
	metrics     *repository.Metrics
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(tmdb *service.TMDBService, metrics *repository.Metrics) *AdminHandler {
	return &AdminHandler{
		tmdbService: tmdb,
		metrics:     metrics,
	}
}

// GetStatus returns service status
// GET /api/v1/status
func (h *AdminHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"tmdb_enabled":    h.tmdbService.IsConfigured(),
		"tmdb_tokens":     h.tmdbService.TokenCount(),
		"metrics_enabled": h.metrics != nil,
	})
}

func (h *AdminHandler) requireMetrics(c *gin.Context) bool {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, model.APIResponse{
			Code:  http.StatusServiceUnavailable,
			Error: "metrics disabled: REDIS_URL not configured",
		})
		return false
	}
	return true
}

// GetAnalytics returns API analytics
// GET /api/v1/analytics
func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	if !h.requireMetrics(c) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.metrics.GetOverallStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:  http.StatusInternalServerError,
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code: http.StatusOK,
		Data: stats,
	})
}

// GetEndpointStats returns stats for a specific endpoint
// GET /api/v1/analytics/endpoint?path=/api/v1/movies/popular
func (h *AdminHandler) GetEndpointStats(c *gin.Context) {
	if !h.requireMetrics(c) {
		return
	}

	path := c.Query("path")
	if path == "" {
		badRequest(c, "path parameter required")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.metrics.GetAPIStats(ctx, path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:  http.StatusInternalServerError,
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code: http.StatusOK,
		Data: stats,
	})
}

// ResetAnalytics resets all analytics data
// DELETE /api/v1/analytics
func (h *AdminHandler) ResetAnalytics(c *gin.Context) {
	if !h.requireMetrics(c) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	deleted, err := h.metrics.ResetMetrics(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:  http.StatusInternalServerError,
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Message: fmt.Sprintf("metrics reset (%d keys)", deleted),
	})
}
