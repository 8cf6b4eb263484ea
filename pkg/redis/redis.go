package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/riserschool/enrollment-portal-api/pkg/core"
)

// The portal keeps small, short-lived keys in redis: enrollment drafts,
// state/LGA lookup caches and circuit breaker counters. Round trips are
// tiny, so a stuck connection should fail fast instead of queueing the
// submission path behind it.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 1 * time.Second
	writeTimeout = 1 * time.Second
	poolTimeout  = 1 * time.Second

	poolSize     = 10
	minIdleConns = 1
)

// NewClient builds the shared client from the service config and hooks in
// otel tracing and metrics.
func NewClient(cfg core.RedisConfig, logger *slog.Logger) *redis.Client {
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "redis"),
		slog.String("addr", cfg.Addr),
		slog.Int("db", cfg.DB),
	)

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		PoolTimeout:  poolTimeout,
		PoolSize:     poolSize,
		MinIdleConns: minIdleConns,
	})

	logger.Info("redis client initialized")

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		logger.Warn("otel tracing instrumentation failed", "err", err)
	}

	if err := redisotel.InstrumentMetrics(rdb); err != nil {
		logger.Warn("otel metrics instrumentation failed", "err", err)
	}

	return rdb
}

func Ping(ctx context.Context, rdb *redis.Client) error {
	return rdb.Ping(ctx).Err()
}
