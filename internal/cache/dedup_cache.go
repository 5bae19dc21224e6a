package cache

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// DedupCache 行情观察去重缓存，使用 go-cache 实现 TTL 自动过期
// 同一 token/kind 在 TTL 窗口内数值未变化时不再生成观察命令
type DedupCache struct {
	cache *cache.Cache // go-cache 内置 TTL 和自动清理
	ttl   time.Duration
}

// NewDedupCache 创建去重缓存
// ttl: 观察保留时间（建议 30 秒）
// 清理间隔自动设为 2×TTL
func NewDedupCache(ttl time.Duration) *DedupCache {
	return &DedupCache{
		cache: cache.New(ttl, ttl*2), // 清理间隔 = 2×TTL
		ttl:   ttl,
	}
}

// IsSeen 检查观察值在窗口内是否已上报
func (c *DedupCache) IsSeen(token, kind string, value float64) bool {
	prev, exists := c.cache.Get(c.dedupKey(token, kind))
	if !exists {
		return false
	}
	return prev.(float64) == value
}

// Mark 记录最近上报的观察值
func (c *DedupCache) Mark(token, kind string, value float64) {
	c.cache.Set(c.dedupKey(token, kind), value, cache.DefaultExpiration)
}

// dedupKey 生成去重键
// 格式: "token-kind"
func (c *DedupCache) dedupKey(token, kind string) string {
	return fmt.Sprintf("%s-%s", token, kind)
}

// Stats 获取统计信息
func (c *DedupCache) Stats() map[string]interface{} {
	return map[string]interface{}{
		"item_count":  c.cache.ItemCount(),
		"ttl_seconds": c.ttl.Seconds(),
	}
}
