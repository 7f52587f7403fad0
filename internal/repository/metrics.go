package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	keyPrefix     = "discovery:metrics:"
	keyPaths      = keyPrefix + "paths"
	keyTotal      = keyPrefix + "global:total"
	keyLatency    = keyPrefix + "global:latency_sum"
	keyUpstream   = keyPrefix + "global:upstream_errors"
	keyStartTime  = keyPrefix + "server:start_time"
	dailyRetain   = 30 * 24 * time.Hour
	hourlyRetain  = 48 * time.Hour
	topEndpoints  = 10
	trendDays     = 7
	upstreamFails = 502
)

// minMaxScript keeps running min/max latency fields of a hash
var minMaxScript = redis.NewScript(`
local v = tonumber(ARGV[1])
local cur = tonumber(redis.call("HGET", KEYS[1], "min_latency"))
if cur == nil or v < cur then redis.call("HSET", KEYS[1], "min_latency", ARGV[1]) end
cur = tonumber(redis.call("HGET", KEYS[1], "max_latency"))
if cur == nil or v > cur then redis.call("HSET", KEYS[1], "max_latency", ARGV[1]) end
return 1
`)

// Metrics stores API metrics in Redis
type Metrics struct {
	client *redis.Client
}

// APIStats represents statistics for an API endpoint
type APIStats struct {
	Path           string  `json:"path"`
	TotalCalls     int64   `json:"total_calls"`
	SuccessCalls   int64   `json:"success_calls"`
	ErrorCalls     int64   `json:"error_calls"`
	UpstreamErrors int64   `json:"upstream_errors"`
	AvgLatencyMs   float64 `json:"avg_latency_ms"`
	MaxLatencyMs   float64 `json:"max_latency_ms"`
	MinLatencyMs   float64 `json:"min_latency_ms"`
}

// DailyStats represents daily API statistics
type DailyStats struct {
	Date       string  `json:"date"`
	TotalCalls int64   `json:"total_calls"`
	AvgLatency float64 `json:"avg_latency"`
}

// OverallStats represents overall system statistics
type OverallStats struct {
	TotalAPICalls     int64        `json:"total_api_calls"`
	TodayAPICalls     int64        `json:"today_api_calls"`
	AvgLatencyMs      float64      `json:"avg_latency_ms"`
	UpstreamErrorRate float64      `json:"upstream_error_rate"`
	TopEndpoints      []APIStats   `json:"top_endpoints"`
	DailyTrend        []DailyStats `json:"daily_trend"`
	ErrorRate         float64      `json:"error_rate"`
	Uptime            int64        `json:"uptime_seconds"`
}

// NewMetrics connects to Redis and verifies the connection
func NewMetrics(redisURL string) (*Metrics, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	// 只记录地址，不记录完整 URL（可能包含密码）
	log.Info().Str("addr", opt.Addr).Msg("✅ Redis connected")

	return &Metrics{client: client}, nil
}

// NewMetricsWithClient wraps an existing Redis client
func NewMetricsWithClient(client *redis.Client) *Metrics {
	return &Metrics{client: client}
}

func pathKey(path string) string   { return keyPrefix + "path:" + path }
func dailyKey(date string) string  { return keyPrefix + "daily:" + date }
func hourlyKey(hour string) string { return keyPrefix + "hourly:" + hour }

// RecordAPICall records an API call
func (m *Metrics) RecordAPICall(ctx context.Context, path string, statusCode int, latencyMs float64) error {
	now := time.Now()
	today := now.Format("2006-01-02")
	hour := now.Format("2006-01-02-15")
	pk := pathKey(path)

	pipe := m.client.Pipeline()

	pipe.HIncrBy(ctx, pk, "total", 1)
	pipe.HIncrByFloat(ctx, pk, "latency_sum", latencyMs)

	if statusCode >= 200 && statusCode < 400 {
		pipe.HIncrBy(ctx, pk, "success", 1)
	} else {
		pipe.HIncrBy(ctx, pk, "error", 1)
	}
	if statusCode == upstreamFails {
		pipe.HIncrBy(ctx, pk, "upstream_errors", 1)
		pipe.Incr(ctx, keyUpstream)
	}

	dk := dailyKey(today)
	pipe.HIncrBy(ctx, dk, "total", 1)
	pipe.HIncrByFloat(ctx, dk, "latency_sum", latencyMs)
	pipe.Expire(ctx, dk, dailyRetain)

	hk := hourlyKey(hour)
	pipe.HIncrBy(ctx, hk, "total", 1)
	pipe.Expire(ctx, hk, hourlyRetain)

	pipe.Incr(ctx, keyTotal)
	pipe.IncrByFloat(ctx, keyLatency, latencyMs)
	pipe.SAdd(ctx, keyPaths, path)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to record metrics")
		return err
	}

	return minMaxScript.Run(ctx, m.client, []string{pk}, latencyMs).Err()
}

// GetAPIStats gets statistics for a specific API path
func (m *Metrics) GetAPIStats(ctx context.Context, path string) (*APIStats, error) {
	result, err := m.client.HGetAll(ctx, pathKey(path)).Result()
	if err != nil {
		return nil, err
	}
	return parseAPIStats(path, result), nil
}

func parseAPIStats(path string, fields map[string]string) *APIStats {
	stats := &APIStats{Path: path}
	if len(fields) == 0 {
		return stats
	}

	stats.TotalCalls, _ = strconv.ParseInt(fields["total"], 10, 64)
	stats.SuccessCalls, _ = strconv.ParseInt(fields["success"], 10, 64)
	stats.ErrorCalls, _ = strconv.ParseInt(fields["error"], 10, 64)
	stats.UpstreamErrors, _ = strconv.ParseInt(fields["upstream_errors"], 10, 64)
	stats.MinLatencyMs, _ = strconv.ParseFloat(fields["min_latency"], 64)
	stats.MaxLatencyMs, _ = strconv.ParseFloat(fields["max_latency"], 64)
	latencySum, _ := strconv.ParseFloat(fields["latency_sum"], 64)

	if stats.TotalCalls > 0 {
		stats.AvgLatencyMs = latencySum / float64(stats.TotalCalls)
	}
	return stats
}

// GetOverallStats gets overall system statistics
func (m *Metrics) GetOverallStats(ctx context.Context) (*OverallStats, error) {
	stats := &OverallStats{}

	total, _ := m.client.Get(ctx, keyTotal).Int64()
	latencySum, _ := m.client.Get(ctx, keyLatency).Float64()
	upstream, _ := m.client.Get(ctx, keyUpstream).Int64()
	stats.TotalAPICalls = total
	if total > 0 {
		stats.AvgLatencyMs = latencySum / float64(total)
		stats.UpstreamErrorRate = float64(upstream) / float64(total) * 100
	}

	today := time.Now().Format("2006-01-02")
	stats.TodayAPICalls, _ = m.client.HGet(ctx, dailyKey(today), "total").Int64()

	paths, err := m.client.SMembers(ctx, keyPaths).Result()
	if err != nil {
		return nil, err
	}

	var allStats []APIStats
	var totalErrors int64
	for _, path := range paths {
		pathStats, err := m.GetAPIStats(ctx, path)
		if err == nil && pathStats.TotalCalls > 0 {
			allStats = append(allStats, *pathStats)
			totalErrors += pathStats.ErrorCalls
		}
	}

	stats.TopEndpoints = topByCalls(allStats, topEndpoints)
	if total > 0 {
		stats.ErrorRate = float64(totalErrors) / float64(total) * 100
	}

	stats.DailyTrend = m.getDailyTrend(ctx, trendDays)

	startTime, err := m.client.Get(ctx, keyStartTime).Int64()
	if err == nil && startTime > 0 {
		stats.Uptime = time.Now().Unix() - startTime
	}

	return stats, nil
}

func topByCalls(all []APIStats, n int) []APIStats {
	sort.Slice(all, func(i, j int) bool {
		if all[i].TotalCalls == all[j].TotalCalls {
			return all[i].Path < all[j].Path
		}
		return all[i].TotalCalls > all[j].TotalCalls
	})
	if len(all) > n {
		return all[:n]
	}
	return all
}

// getDailyTrend gets daily statistics for the last N days
func (m *Metrics) getDailyTrend(ctx context.Context, days int) []DailyStats {
	var trend []DailyStats

	for i := days - 1; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i).Format("2006-01-02")

		result, err := m.client.HGetAll(ctx, dailyKey(date)).Result()
		if err != nil {
			continue
		}

		total, _ := strconv.ParseInt(result["total"], 10, 64)
		latencySum, _ := strconv.ParseFloat(result["latency_sum"], 64)

		avgLatency := 0.0
		if total > 0 {
			avgLatency = latencySum / float64(total)
		}

		trend = append(trend, DailyStats{
			Date:       date,
			TotalCalls: total,
			AvgLatency: avgLatency,
		})
	}

	return trend
}

// RecordServerStart records server start time
func (m *Metrics) RecordServerStart(ctx context.Context) {
	if err := m.client.Set(ctx, keyStartTime, time.Now().Unix(), 0).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to record server start")
	}
}

// ResetMetrics deletes every metrics key
func (m *Metrics) ResetMetrics(ctx context.Context) (int64, error) {
	var deleted int64
	iter := m.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := m.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return deleted, fmt.Errorf("redis del error: %w", err)
		}
		deleted += n
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("redis scan error: %w", err)
	}
	return deleted, nil
}

// Close closes the Redis connection
func (m *Metrics) Close() error {
	return m.client.Close()
}
