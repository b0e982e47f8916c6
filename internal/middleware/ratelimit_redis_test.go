package middleware

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func newUnreachableRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisRateLimitStoreFailsOpen(t *testing.T) {
	client := newUnreachableRedisClient()
	defer client.Close()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics()
	if err := metrics.Register(reg); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewRedisRateLimitStore(client, metrics, logger)

	config := RateLimitConfig{RequestsPerWindow: 10, WindowDuration: time.Minute}
	allowed, retryAfter := store.Allow(context.Background(), "client-1", config)
	if !allowed {
		t.Error("Allow() with unreachable Redis should fail open")
	}
	if retryAfter != 0 {
		t.Errorf("retryAfter = %d, want 0", retryAfter)
	}

	mf := gatherFamily(t, reg, MetricRateLimitRedisErrors)
	if mf == nil {
		t.Fatalf("metric %s not found", MetricRateLimitRedisErrors)
	}
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got < 1 {
		t.Errorf("%s = %v, want >= 1", MetricRateLimitRedisErrors, got)
	}
}

func TestRedisRateLimitStoreNilMetrics(t *testing.T) {
	client := newUnreachableRedisClient()
	defer client.Close()

	store := NewRedisRateLimitStore(client, nil, nil)
	config := RateLimitConfig{RequestsPerWindow: 10, WindowDuration: time.Minute}
	if allowed, _ := store.Allow(context.Background(), "client-1", config); !allowed {
		t.Error("Allow() with unreachable Redis should fail open")
	}
}
