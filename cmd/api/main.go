// Package main is the entry point for the leaderboard API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hasancaglar07/usercomments-sub003/internal/api"
	"github.com/hasancaglar07/usercomments-sub003/internal/config"
	"github.com/hasancaglar07/usercomments-sub003/internal/health"
	"github.com/hasancaglar07/usercomments-sub003/internal/leaderboard"
	"github.com/hasancaglar07/usercomments-sub003/internal/middleware"
	"github.com/hasancaglar07/usercomments-sub003/internal/remote"
	"github.com/hasancaglar07/usercomments-sub003/internal/tracing"
)

const serviceName = "leaderboard-api"

func main() {
	help := flag.Bool("help", false, "display help message")
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	if *help {
		fmt.Println("Leaderboard API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "config", cfg.LogSummary())

	// Distributed tracing (inert when disabled)
	tracerProvider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  serviceName,
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		ExporterType: "otlp-grpc",
		OTLPEndpoint: cfg.TracingEndpoint,
		SamplingRate: 1.0,
		InsecureMode: cfg.Env != "production",
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			logger.Error("failed to shut down tracing", "error", err)
		}
	}()

	// Prometheus registry and per-package metrics
	registry := prometheus.NewRegistry()

	middlewareMetrics := middleware.NewMetrics()
	if err := middlewareMetrics.Register(registry); err != nil {
		logger.Error("failed to register middleware metrics", "error", err)
		os.Exit(1)
	}

	leaderboardMetrics := leaderboard.NewMetrics()
	if err := leaderboardMetrics.Register(registry); err != nil {
		logger.Error("failed to register leaderboard metrics", "error", err)
		os.Exit(1)
	}

	// Remote ranked source; synthetic-only deployments (no remote URL)
	// serve the deterministic dataset directly.
	var source leaderboard.PageSource = leaderboard.NewSyntheticSource(cfg.MaxRanks)
	var remoteChecker api.HealthChecker
	if cfg.RemoteBaseURL != "" {
		client, err := remote.NewClient(remote.Config{
			BaseURL:  cfg.RemoteBaseURL,
			Timeout:  time.Duration(cfg.RemoteTimeoutSeconds) * time.Second,
			PageSize: cfg.BackendPageSize,
		}, logger)
		if err != nil {
			logger.Error("failed to create remote client", "error", err)
			os.Exit(1)
		}
		source = client
		remoteChecker = health.NewRemoteChecker(cfg.RemoteBaseURL)
	}

	assembler, err := leaderboard.NewAssembler(source, leaderboard.Config{
		PodiumSize:             cfg.PodiumSize,
		PageSize:               cfg.PageSize,
		BackendPageSize:        cfg.BackendPageSize,
		MaxRanks:               cfg.MaxRanks,
		AllowSyntheticFallback: cfg.AllowSyntheticFallback,
	}, leaderboardMetrics, logger)
	if err != nil {
		logger.Error("failed to create assembler", "error", err)
		os.Exit(1)
	}

	// Rate limit store: Redis when configured so limits span replicas,
	// in-memory otherwise.
	var rateLimitStore middleware.RateLimitStore
	var redisChecker api.HealthChecker
	var inMemoryStore *middleware.InMemoryRateLimitStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
		rateLimitStore = middleware.NewRedisRateLimitStore(redisClient, middlewareMetrics, logger)
		redisChecker = health.NewRedisChecker(redisClient)
	} else {
		inMemoryStore = middleware.NewInMemoryRateLimitStore()
		rateLimitStore = inMemoryStore
	}

	leaderboardHandlers := api.NewLeaderboardHandlers(assembler, logger)
	healthHandlers := api.NewHealthHandlers(api.HealthHandlersConfig{
		RemoteChecker: remoteChecker,
		RedisChecker:  redisChecker,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandlers.Health)
	mux.HandleFunc("/ready", healthHandlers.Ready)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	globalLimit := middleware.RateLimitConfig{
		RequestsPerWindow: cfg.GlobalRateLimit,
		WindowDuration:    time.Minute,
	}
	leaderboardLimit := middleware.RateLimitConfig{
		RequestsPerWindow: cfg.LeaderboardRateLimit,
		WindowDuration:    time.Minute,
	}
	rateLimit := middleware.RateLimiter(rateLimitStore, leaderboardLimit, middleware.IPKeyFunc())
	mux.Handle("/leaderboard", rateLimit(http.HandlerFunc(leaderboardHandlers.GetLeaderboard)))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Only handle exact root path, everything else returns 404
		if r.URL.Path != "/" {
			ctx := middleware.SetErrorCode(r.Context(), api.ErrCodeNotFound)
			api.WriteError(w, ctx, http.StatusNotFound, api.ErrCodeNotFound, "The requested resource was not found")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"service":"leaderboard-api","version":"0.1.0"}`)); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.CORSAllowedOrigins

	// Middleware chain, outermost first:
	// RequestID -> Tracing -> Logging -> HTTPMetrics -> global RateLimiter -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(corsConfig)(handler)
	handler = middleware.RateLimiter(rateLimitStore, globalLimit, middleware.IPKeyFunc())(handler)
	handler = middleware.HTTPMetrics(middlewareMetrics)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Tracing(serviceName)(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Periodic cleanup keeps the in-memory store from accumulating
	// expired buckets.
	stopCleanup := make(chan struct{})
	if inMemoryStore != nil {
		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					inMemoryStore.Cleanup()
				case <-stopCleanup:
					return
				}
			}
		}()
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	close(stopCleanup)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
