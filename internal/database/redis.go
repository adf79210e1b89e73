// internal/database/redis.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/recordsdesk/rmd-backend/internal/config"
)

// InitializeRedis connects the pub/sub client used for live notification
// fan-out. A missing REDIS_HOST disables the transport; notifications are
// still persisted and served over HTTP.
func InitializeRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		log.Println("Redis disabled, notifications will be store-and-poll only")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Println("Redis connection established successfully")
	return client, nil
}

func CloseRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Printf("Error closing redis connection: %v", err)
	}
}
