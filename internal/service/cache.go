package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/blog-admin/pkg/cache"
	"github.com/d60-Lab/blog-admin/pkg/logger"
)

// 缓存 key 前缀
const (
	postStatusEntity = "postStatus"
	postEntity       = "post"
	commentEntity    = "comment"
)

// loadThrough cache-aside：命中直接返回，未命中调用 load 并回填。缓存故障只记日志。
func loadThrough[T any](ctx context.Context, c cache.Cache, key string, load func(context.Context) (*T, error)) (*T, error) {
	if c == nil {
		return load(ctx)
	}
	var v T
	ok, err := c.Get(ctx, key, &v)
	if err != nil {
		logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return &v, nil
	}

	res, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, res); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return res, nil
}

func evict(ctx context.Context, c cache.Cache, entity string, id int64) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, cache.Key(entity, id)); err != nil {
		logger.Warn("cache evict failed", zap.String("entity", entity), zap.Int64("id", id), zap.Error(err))
	}
}
