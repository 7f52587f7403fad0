package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAPIStats(t *testing.T) {
	stats := parseAPIStats("/api/v1/search", map[string]string{
		"total":           "4",
		"success":         "3",
		"error":           "1",
		"upstream_errors": "1",
		"latency_sum":     "100",
		"min_latency":     "5",
		"max_latency":     "60",
	})

	assert.Equal(t, int64(4), stats.TotalCalls)
	assert.Equal(t, int64(3), stats.SuccessCalls)
	assert.Equal(t, int64(1), stats.UpstreamErrors)
	assert.InDelta(t, 25.0, stats.AvgLatencyMs, 0.001)
	assert.InDelta(t, 60.0, stats.MaxLatencyMs, 0.001)

	empty := parseAPIStats("/x", nil)
	assert.Equal(t, "/x", empty.Path)
	assert.Zero(t, empty.TotalCalls)
}

func TestTopByCalls(t *testing.T) {
	all := []APIStats{
		{Path: "/b", TotalCalls: 5},
		{Path: "/a", TotalCalls: 5},
		{Path: "/c", TotalCalls: 9},
	}

	top := topByCalls(all, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "/c", top[0].Path)
	assert.Equal(t, "/a", top[1].Path)
}

// TestMetricsRoundTrip runs against a real Redis when REDIS_TEST_URL is set.
func TestMetricsRoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	m, err := NewMetrics(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	ctx := context.Background()
	_, err = m.ResetMetrics(ctx)
	require.NoError(t, err)

	require.NoError(t, m.RecordAPICall(ctx, "/api/v1/movies/popular", 200, 30))
	require.NoError(t, m.RecordAPICall(ctx, "/api/v1/movies/popular", 502, 10))

	stats, err := m.GetAPIStats(ctx, "/api/v1/movies/popular")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCalls)
	assert.Equal(t, int64(1), stats.ErrorCalls)
	assert.Equal(t, int64(1), stats.UpstreamErrors)
	assert.InDelta(t, 10.0, stats.MinLatencyMs, 0.001)
	assert.InDelta(t, 30.0, stats.MaxLatencyMs, 0.001)

	overall, err := m.GetOverallStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), overall.TotalAPICalls)
	assert.InDelta(t, 50.0, overall.UpstreamErrorRate, 0.001)
	assert.Len(t, overall.DailyTrend, trendDays)

	deleted, err := m.ResetMetrics(ctx)
	require.NoError(t, err)
	assert.Positive(t, deleted)
}
