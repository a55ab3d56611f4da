package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ── 列表端点读穿缓存 ──
//
// Key 方案：cache:<resource>:list:<原始查询串>
// 同一资源不同过滤/分页参数天然不冲突。写该资源的任何一行后整体失效
// （SCAN cache:<resource>:* 后批量 DEL），以简单换精确，过期兜底由 TTL 保证。

const cachePrefix = "cache:"

// cacheKey 由资源名与请求原始查询串构造缓存键
func cacheKey(resource, rawQuery string) string {
	return cachePrefix + resource + ":list:" + rawQuery
}

// GetList 读取列表缓存
// 未命中返回 ("", false)；Redis 故障同样按未命中处理，读路径直接回源
func (c *Client) GetList(ctx context.Context, resource, rawQuery string) (string, bool) {
	if c == nil {
		return "", false
	}

	val, err := c.rdb.Get(ctx, cacheKey(resource, rawQuery)).Result()
	if err != nil {
		if err != goredis.Nil {
			c.logger.Warn("读取列表缓存失败，回源查询",
				zap.String("resource", resource), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

// SetList 写入列表缓存（固定 TTL）
// 写失败只记日志，不影响本次响应
func (c *Client) SetList(ctx context.Context, resource, rawQuery, payload string, ttl time.Duration) {
	if c == nil {
		return
	}

	if err := c.rdb.Set(ctx, cacheKey(resource, rawQuery), payload, ttl).Err(); err != nil {
		c.logger.Warn("写入列表缓存失败",
			zap.String("resource", resource), zap.Error(err))
	}
}

// InvalidateResource 使某资源的全部列表缓存失效
// 任何一次成功的增删改后调用；按前缀 SCAN 后批量删除
func (c *Client) InvalidateResource(ctx context.Context, resource string) {
	if c == nil {
		return
	}

	pattern := cachePrefix + resource + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("扫描缓存键失败", zap.String("resource", resource), zap.Error(err))
		return
	}

	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("删除缓存键失败", zap.String("resource", resource), zap.Error(err))
		return
	}

	c.logger.Debug("列表缓存已失效",
		zap.String("resource", resource), zap.Int("keys", len(keys)))
}
