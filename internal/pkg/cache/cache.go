package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/SubFox/internal/pkg/env"
	"github.com/ManuelReschke/SubFox/internal/pkg/logging"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache initializes the connection to the Redis cache server
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	// Test the connection
	log := logging.GetLogger()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Warn().Err(err).Msg("could not connect to cache")
	} else {
		log.Info().Str("pong", pong).Msg("connected to cache")
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}

// Get retrieves a cached value by key. A redis.Nil error means the key
// does not exist.
func Get(key string) (string, error) {
	return GetClient().Get(ctx, key).Result()
}

// Set stores a value with an expiration time.
func Set(key string, value string, expiration time.Duration) error {
	return GetClient().Set(ctx, key, value, expiration).Err()
}

// IsNotFound reports whether the error marks a cache miss.
func IsNotFound(err error) bool {
	return err == redis.Nil
}
