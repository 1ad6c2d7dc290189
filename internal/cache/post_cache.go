package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/pkg/logger"
)

const (
	versionKey    = "posts:version"
	postKeyPrefix = "posts:slug:"
	listKeyPrefix = "posts:list:"
)

// PostCache 缓存公开文章详情与列表页。
// 详情和列表键都带同一个版本号，任何写操作只需 INCR 版本号即可让旧数据全部失效，
// 包括改名或删除的标签、分类以及作者资料。
// client 为 nil 时所有方法都是空操作。
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PostCache{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is attached.
func (c *PostCache) Enabled() bool { return c != nil && c.client != nil }

// GetPost 读取文章详情，未命中返回 false
func (c *PostCache) GetPost(ctx context.Context, slug string, dst any) bool {
	return c.get(ctx, postKeyPrefix, slug, dst)
}

func (c *PostCache) SetPost(ctx context.Context, slug string, v any) {
	c.set(ctx, postKeyPrefix, slug, v)
}

// InvalidatePost 让文章详情和所有列表页失效。
// slug 只用于日志，版本号变化后旧键自然过期。
func (c *PostCache) InvalidatePost(ctx context.Context, slugs ...string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		logger.Warn("post cache invalidate failed", zap.Strings("slugs", slugs), zap.Error(err))
	}
}

// InvalidateLists 标签、分类、作者资料变更时调用
func (c *PostCache) InvalidateLists(ctx context.Context) {
	c.InvalidatePost(ctx)
}

// GetList 按规范化的查询串读取列表页
func (c *PostCache) GetList(ctx context.Context, query string, dst any) bool {
	return c.get(ctx, listKeyPrefix, query, dst)
}

func (c *PostCache) SetList(ctx context.Context, query string, v any) {
	c.set(ctx, listKeyPrefix, query, v)
}

func (c *PostCache) get(ctx context.Context, prefix, id string, dst any) bool {
	if !c.Enabled() {
		return false
	}
	key, err := c.key(ctx, prefix, id)
	if err != nil {
		return false
	}
	return c.getJSON(ctx, key, dst)
}

func (c *PostCache) set(ctx context.Context, prefix, id string, v any) {
	if !c.Enabled() {
		return
	}
	key, err := c.key(ctx, prefix, id)
	if err != nil {
		return
	}
	c.setJSON(ctx, key, v)
}

func (c *PostCache) key(ctx context.Context, prefix, id string) (string, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		ver, err = 0, nil
	}
	if err != nil {
		logger.Warn("post cache version read failed", zap.Error(err))
		return "", err
	}
	return fmt.Sprintf("%sv%d:%s", prefix, ver, id), nil
}

func (c *PostCache) getJSON(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		_ = c.client.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *PostCache) setJSON(ctx context.Context, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Ping 健康检查；未启用时返回 nil
func (c *PostCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
