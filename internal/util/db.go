package util

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

// NewDBConnection opens the postgres pool described by cfg and verifies it
// with a ping. The returned func closes the pool.
func NewDBConnection(logger *zap.SugaredLogger, cfg *DBConfig) (*sql.DB, func(), error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	logger.Infow("postgres pool ready", "max_open_conns", cfg.MaxOpenConns)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Errorw("failed to close postgres pool", "error", err)
			return
		}
		logger.Info("postgres pool closed")
	}

	return db, cleanup, nil
}

// NewRedisClient connects to the refresh-session redis described by cfg and
// verifies it with a ping. The returned func closes the client.
func NewRedisClient(logger *zap.SugaredLogger, cfg *RedisConfig) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Infow("redis client ready", "addr", cfg.Addr)

	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Errorw("failed to close redis client", "error", err)
			return
		}
		logger.Info("redis client closed")
	}

	return client, cleanup, nil
}
