package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"miniblog/internal/model"
)

const categoriesKey = "blog:categories"

type CategoryCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewCategoryCache(client *redisv9.Client, ttl time.Duration) *CategoryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CategoryCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *CategoryCache) GetAll(ctx context.Context) ([]model.Category, bool, error) {
	raw, err := c.client.Get(ctx, categoriesKey).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get categories failed: %w", err)
	}

	var categories []model.Category
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached categories failed: %w", err)
	}
	return categories, true, nil
}

func (c *CategoryCache) SetAll(ctx context.Context, categories []model.Category) error {
	payload, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("marshal categories cache failed: %w", err)
	}
	if err := c.client.Set(ctx, categoriesKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set categories failed: %w", err)
	}
	return nil
}

func (c *CategoryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, categoriesKey).Err(); err != nil {
		return fmt.Errorf("redis delete categories failed: %w", err)
	}
	return nil
}
