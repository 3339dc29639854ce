package redis

import (
	"github.com/redis/go-redis/v9"

	"goalpath/pkg/config"
)

// NewClient returns a redis client, or nil when no address is configured.
// Callers treat a nil client as "cache disabled".
func NewClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
