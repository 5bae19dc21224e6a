package cache

import (
	"github.com/utrading/utrading-trade-ledger/pkg/concurrent"
)

// TickCache 最新行情缓存（价格 + 成交量）
// 仅供健康检查和日志展示，触发判定以账本内的观察记录为准
type TickCache struct {
	priceCache  concurrent.Map[string, float64] // 最新价格  SOL -> 123.0
	volumeCache concurrent.Map[string, float64] // 24h 成交量 SOL -> 456.0
}

// NewTickCache 创建行情缓存
func NewTickCache() *TickCache {
	return &TickCache{
		priceCache:  concurrent.Map[string, float64]{},
		volumeCache: concurrent.Map[string, float64]{},
	}
}

// GetPrice 获取最新价格
func (c *TickCache) GetPrice(token string) (float64, bool) {
	return c.priceCache.Load(token)
}

// SetPrice 设置最新价格
func (c *TickCache) SetPrice(token string, price float64) {
	c.priceCache.Store(token, price)
}

// GetVolume 获取最新成交量
func (c *TickCache) GetVolume(token string) (float64, bool) {
	return c.volumeCache.Load(token)
}

// SetVolume 设置最新成交量
func (c *TickCache) SetVolume(token string, volume float64) {
	c.volumeCache.Store(token, volume)
}

// Stats 获取统计信息
func (c *TickCache) Stats() map[string]interface{} {
	return map[string]interface{}{
		"price_count":  c.priceCache.Len(),
		"volume_count": c.volumeCache.Len(),
	}
}
