package cache

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ICache is the key-value surface the note collection cache runs on. Get
// reports a clean miss as (nil, false, nil); engine failures come back as
// errors so callers can fall through to the store.
type ICache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) ICache {
	return &redisCache{client: client}
}

// Connect fails only on a malformed url. An unreachable server is logged
// and tolerated: the cache is a performance layer, reads degrade to the
// store until Redis comes back.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis url")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnf("[Cache] redis unreachable at startup: %v", err)
	}

	return client, nil
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		log.Errorf("[Cache] get %s failed: %v", key, err)
		return nil, false, err
	}
	return val, true, nil
}

// Set with ttl = 0 stores the key without expiry.
func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Errorf("[Cache] set %s failed: %v", key, err)
		return err
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Errorf("[Cache] delete %v failed: %v", keys, err)
		return err
	}
	return nil
}
