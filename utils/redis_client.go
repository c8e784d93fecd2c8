package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"yatube/config"
)

var (
	rdb     *redis.Client
	rdbOnce sync.Once
)

// GetRedis lazily builds the shared Redis client. The connection is probed
// once at first use; callers treat failures as a cache miss and fall back to
// their in-memory paths, so a missing Redis never blocks a request.
func GetRedis() *redis.Client {
	rdbOnce.Do(func() {
		cfg := config.Get()
		rdb = redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil && Sugar != nil {
			Sugar.Warnf("redis unreachable at boot, using in-memory fallbacks: %v", err)
		}
	})
	return rdb
}
