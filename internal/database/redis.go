package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisOptions parses redisURI and applies the pool settings used for the
// login throttle.
func RedisOptions(redisURI string) (*redis.Options, error) {
	opt, err := redis.ParseURL(redisURI)
	if err != nil {
		return nil, err
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 5
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute
	return opt, nil
}

// ConnectRedis connects to Redis and pings it.
func ConnectRedis(ctx context.Context, redisURI string, log logrus.FieldLogger) (*redis.Client, error) {
	opt, err := RedisOptions(redisURI)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info("Connected to Redis")
	return client, nil
}
