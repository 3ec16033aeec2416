package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MinKhant07/Thumbnail/internal/application/service"
	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
)

type redisCritiqueCache struct {
	rdb *redis.Client
}

func NewRedisCritiqueCache(rdb *redis.Client) service.CritiqueCache {
	return &redisCritiqueCache{rdb: rdb}
}

func cacheKey(digest string) string {
	return "critique:" + digest
}

func (c *redisCritiqueCache) Get(ctx context.Context, key string) (*thumbnail.Critique, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read critique cache: %w", err)
	}

	var crit thumbnail.Critique
	if err := json.Unmarshal(raw, &crit); err != nil {
		// A corrupt entry is treated as a miss.
		return nil, nil
	}
	return &crit, nil
}

func (c *redisCritiqueCache) Set(ctx context.Context, key string, crit *thumbnail.Critique, ttl time.Duration) error {
	raw, err := json.Marshal(crit)
	if err != nil {
		return fmt.Errorf("marshal critique: %w", err)
	}
	if err := c.rdb.Set(ctx, cacheKey(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("write critique cache: %w", err)
	}
	return nil
}
