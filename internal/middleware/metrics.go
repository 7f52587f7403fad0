package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Recorder stores one finished API call
type Recorder interface {
	RecordAPICall(ctx context.Context, path string, statusCode int, latencyMs float64) error
}

// Metrics returns a middleware that records API metrics
func Metrics(recorder Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only track API endpoints
		if !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		latency := float64(time.Since(start).Microseconds()) / 1000
		status := c.Writer.Status()

		// 优先使用路由模板，避免每个 ID 生成一个 key
		path := c.FullPath()
		if path == "" {
			path = normalizePath(c.Request.URL.Path)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := recorder.RecordAPICall(ctx, path, status, latency); err != nil {
			log.Warn().Err(err).Msg("Failed to record metrics")
		}
	}
}

// normalizePath normalizes API paths for grouping
func normalizePath(path string) string {
	// Normalize paths with IDs like /api/v1/movies/12345 -> /api/v1/movies/:id
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if isNumeric(part) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

// isNumeric checks if a string is purely numeric
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
