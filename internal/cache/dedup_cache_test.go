package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDedupCache_IsSeen(t *testing.T) {
	cache := NewDedupCache(30 * time.Second)

	// 测试首次查询
	assert.False(t, cache.IsSeen("SOL", "price", 150.0))

	// 测试标记
	cache.Mark("SOL", "price", 150.0)
	assert.True(t, cache.IsSeen("SOL", "price", 150.0))

	// 数值变化视为未见
	assert.False(t, cache.IsSeen("SOL", "price", 151.0))

	// 测试不同类型
	assert.False(t, cache.IsSeen("SOL", "volume", 150.0))

	// 测试不同代币
	assert.False(t, cache.IsSeen("BONK", "price", 150.0))
}

func TestDedupCache_TTL(t *testing.T) {
	cache := NewDedupCache(100 * time.Millisecond)

	cache.Mark("SOL", "price", 150.0)
	assert.True(t, cache.IsSeen("SOL", "price", 150.0))

	// 等待过期
	time.Sleep(150 * time.Millisecond)
	assert.False(t, cache.IsSeen("SOL", "price", 150.0))
}

func TestDedupCache_Concurrent(t *testing.T) {
	cache := NewDedupCache(30 * time.Second)
	done := make(chan bool)

	// 10 个协程同时读写
	for i := 0; i < 10; i++ {
		go func(id int) {
			for j := 0; j < 100; j++ {
				value := float64(id*1000 + j)
				cache.Mark("SOL", "price", value)
				cache.IsSeen("SOL", "price", value)
			}
			done <- true
		}(i)
	}

	// 等待所有协程完成
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestTickCache(t *testing.T) {
	cache := NewTickCache()

	_, ok := cache.GetPrice("SOL")
	assert.False(t, ok)

	cache.SetPrice("SOL", 150.5)
	price, ok := cache.GetPrice("SOL")
	assert.True(t, ok)
	assert.Equal(t, 150.5, price)

	cache.SetVolume("SOL", 1e6)
	volume, ok := cache.GetVolume("SOL")
	assert.True(t, ok)
	assert.Equal(t, 1e6, volume)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats["price_count"])
	assert.Equal(t, int64(1), stats["volume_count"])
}
