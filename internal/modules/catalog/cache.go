package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	productKeyPrefix = "catalog:product:"
	listKey          = "catalog:list"
)

// cachedRepo wraps a Repository with a Redis read-through cache.
// Concurrent misses for the same key are collapsed with singleflight.
type cachedRepo struct {
	next  Repository
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
	log   *zap.Logger
}

// NewCachedRepository decorates repo with a Redis cache. Redis failures are
// logged and fall through to the underlying repository.
func NewCachedRepository(next Repository, rdb *redis.Client, ttl time.Duration, log *zap.Logger) Repository {
	return &cachedRepo{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (c *cachedRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	key := productKeyPrefix + id
	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var p Product
		if json.Unmarshal(data, &p) == nil {
			return &p, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		p, err := c.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Product), nil
}

func (c *cachedRepo) List(ctx context.Context, category, keyword string, activeOnly bool) ([]*Product, error) {
	// Only the unfiltered active listing is cached; it is the hot path the
	// POS terminals poll.
	if category != "" || keyword != "" || !activeOnly {
		return c.next.List(ctx, category, keyword, activeOnly)
	}

	if data, err := c.rdb.Get(ctx, listKey).Bytes(); err == nil {
		var products []*Product
		if json.Unmarshal(data, &products) == nil {
			return products, nil
		}
	}

	v, err, _ := c.group.Do(listKey, func() (interface{}, error) {
		products, err := c.next.List(ctx, category, keyword, activeOnly)
		if err != nil {
			return nil, err
		}
		c.set(ctx, listKey, products)
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Product), nil
}

func (c *cachedRepo) Create(ctx context.Context, p *Product) error {
	if err := c.next.Create(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.ID.String())
	return nil
}

func (c *cachedRepo) Update(ctx context.Context, p *Product) error {
	if err := c.next.Update(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.ID.String())
	return nil
}

func (c *cachedRepo) Delete(ctx context.Context, id string) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *cachedRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	if err := c.next.AdjustStock(ctx, id, delta); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *cachedRepo) set(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("catalog cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *cachedRepo) invalidate(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, productKeyPrefix+id, listKey).Err(); err != nil {
		c.log.Warn("catalog cache invalidate failed", zap.String("id", id), zap.Error(err))
	}
}
