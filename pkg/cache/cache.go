// Package cache 提供实体读缓存（cache-aside），Redis 优先，未配置时退化为进程内 LRU。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/blog-admin/config"
)

// Cache 以 JSON 存储实体快照
type Cache interface {
	// Get 命中时解码到 dst 并返回 true
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
	Stats() Stats
}

// Stats 命中统计
type Stats struct {
	Hits   int64
	Misses int64
}

type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (c *counters) hit(ok bool) {
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}

func (c *counters) snapshot() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Key 实体缓存 key，例如 post:42
func Key(entity string, id int64) string {
	return fmt.Sprintf("%s:%d", entity, id)
}

// New 按配置构建缓存
func New(cfg config.RedisConfig) (Cache, error) {
	if cfg.Addr == "" {
		return NewLRU(1024, cfg.CacheTTL)
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedis(client, cfg.CacheTTL), nil
}

// RedisCache 基于 go-redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	counters
}

func NewRedis(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.hit(false)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// 脏数据直接丢弃
		_ = r.client.Del(ctx, key).Err()
		r.hit(false)
		return false, nil
	}
	r.hit(true)
	return true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, payload, r.ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisCache) Stats() Stats { return r.snapshot() }

// Close 关闭 redis 连接
func (r *RedisCache) Close() error { return r.client.Close() }

type lruItem struct {
	data      []byte
	expiresAt time.Time
}

// LRUCache 进程内缓存，条目带过期时间
type LRUCache struct {
	lru *lru.Cache[string, lruItem]
	ttl time.Duration
	counters
}

func NewLRU(size int, ttl time.Duration) (*LRUCache, error) {
	l, err := lru.New[string, lruItem](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{lru: l, ttl: ttl}, nil
}

func (c *LRUCache) Get(_ context.Context, key string, dst any) (bool, error) {
	item, ok := c.lru.Get(key)
	if ok && c.ttl > 0 && time.Now().After(item.expiresAt) {
		c.lru.Remove(key)
		ok = false
	}
	if !ok {
		c.hit(false)
		return false, nil
	}
	if err := json.Unmarshal(item.data, dst); err != nil {
		c.lru.Remove(key)
		c.hit(false)
		return false, nil
	}
	c.hit(true)
	return true, nil
}

func (c *LRUCache) Set(_ context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.lru.Add(key, lruItem{data: payload, expiresAt: time.Now().Add(c.ttl)})
	return nil
}

func (c *LRUCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.lru.Remove(k)
	}
	return nil
}

func (c *LRUCache) Stats() Stats { return c.snapshot() }
