package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"embedgate/config"
)

var RDB *redis.Client

// ConnectRedis connects the resolver cache. Redis is optional: on failure
// RDB stays nil and callers fall back to probing every time.
func ConnectRedis(cfg *config.Config) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisURL,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable at %s, resolve caching disabled: %v", cfg.RedisURL, err)
		return
	}

	RDB = rdb
	fmt.Println("Redis connected")
}
