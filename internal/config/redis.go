package config

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// InitRedis connects to Redis when an address is configured. A nil client
// without error means event publishing is disabled.
func InitRedis(ctx context.Context, conf RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	if conf.Addr == "" {
		logger.Info("REDIS_ADDR is not set, post events are disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "could not connect to redis at %s", conf.Addr)
	}
	logger.Info("connected to redis", zap.String("addr", conf.Addr), zap.String("ping", pong))

	return client, nil
}
