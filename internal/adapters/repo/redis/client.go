package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	addrKey     = "storage.redis.addr"
	passwordKey = "storage.redis.password"
	dbKey       = "storage.redis.db"

	defaultAddr = "localhost:6379"

	// documentTTL keeps idle keys alive a week; every save refreshes it.
	documentTTL = 7 * 24 * time.Hour

	keyPrefix = "umatrack:"
)

// NewClient builds a Redis client from config and verifies connectivity
// with exponential-backoff pings before returning it.
func NewClient(ctx context.Context, cfg *viper.Viper, log *logrus.Logger) (*redis.Client, error) {
	if cfg == nil {
		cfg = viper.New()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	cfg.SetDefault(addrKey, defaultAddr)

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetString(addrKey),
		Password:     cfg.GetString(passwordKey),
		DB:           cfg.GetInt(dbKey),
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ping := func() error {
		return client.Ping(ctx).Err()
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.RetryNotify(ping, policy, func(err error, next time.Duration) {
		log.WithError(err).Warnf("redis ping failed, retrying in %v", next)
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.GetString(addrKey), err)
	}

	log.WithField("addr", cfg.GetString(addrKey)).Info("connected to redis")

	return client, nil
}
