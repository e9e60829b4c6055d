package database

import (
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"taskease/configs"
	"taskease/pkg/logger"
)

// ConnectRedis returns nil when no Redis host is configured; callers treat
// a nil client as caching disabled.
func ConnectRedis(cfg configs.Config) *redis.Client {
	if cfg.RedisHost == "" {
		logger.SystemLogger.Info("Redis not configured, caching disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: "",
		DB:       0,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.ErrorLogger.Error("Redis connection error", zap.Error(err))
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	return client
}
