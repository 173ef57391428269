package database

import (
	"context"
	"log"
	"time"

	"learnit/config"

	"github.com/redis/go-redis/v9"
)

// Redis backs the logout token blacklist. It stays nil when REDIS_URL is unset.
var Redis *redis.Client

// ConnectRedis connects to Redis when configured. A failed ping disables the blacklist
// instead of aborting startup.
func ConnectRedis() {
	if config.AppConfig.RedisURL == "" {
		log.Println("REDIS_URL not set, token blacklist disabled")
		return
	}

	opts, err := redis.ParseURL(config.AppConfig.RedisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL: %v", err)
		return
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis ping failed, token blacklist disabled: %v", err)
		_ = client.Close()
		return
	}

	Redis = client
	log.Println("Connected to Redis")
}
