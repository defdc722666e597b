package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sifan077/linkpulse/internal/app/model"
)

const (
	linkKeyPrefix   = "link:"
	defaultCacheTTL = time.Hour
)

// LinkCache stores the immutable routing data of a link (id, code, url) under link:<code>.
// Counters are never cached.
type LinkCache struct {
	rdb *redis.Client
	ttl time.Duration
}

type cachedLink struct {
	ID          int64  `json:"id"`
	ShortCode   string `json:"code"`
	OriginalURL string `json:"url"`
}

func NewLinkCache(rdb *redis.Client, ttl time.Duration) *LinkCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &LinkCache{rdb: rdb, ttl: ttl}
}

func (c *LinkCache) Get(ctx context.Context, code string) (*model.Link, error) {
	data, err := c.rdb.Get(ctx, linkKeyPrefix+code).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry cachedLink
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &model.Link{
		ID:          entry.ID,
		ShortCode:   entry.ShortCode,
		OriginalURL: entry.OriginalURL,
	}, nil
}

func (c *LinkCache) Set(ctx context.Context, link *model.Link) error {
	data, err := json.Marshal(cachedLink{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		OriginalURL: link.OriginalURL,
	})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, linkKeyPrefix+link.ShortCode, data, c.ttl).Err()
}

func (c *LinkCache) Delete(ctx context.Context, code string) error {
	return c.rdb.Del(ctx, linkKeyPrefix+code).Err()
}
