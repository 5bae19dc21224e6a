package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utrading/utrading-trade-ledger/internal/command"
	"github.com/utrading/utrading-trade-ledger/internal/event"
	"github.com/utrading/utrading-trade-ledger/internal/ledger"
	"github.com/utrading/utrading-trade-ledger/internal/store"
)

// TestValidRoute 测试路由连续性校验
func TestValidRoute(t *testing.T) {
	// 空路由和单跳路由天然有效
	assert.True(t, validRoute(nil))
	assert.True(t, validRoute([]ledger.RouteHop{
		{DEX: ledger.DEXRaydium, InputMint: "SOL", OutputMint: "USDC"},
	}))

	// 首尾相接
	assert.True(t, validRoute([]ledger.RouteHop{
		{DEX: ledger.DEXRaydium, InputMint: "SOL", OutputMint: "USDC"},
		{DEX: ledger.DEXJupiter, InputMint: "USDC", OutputMint: "BONK"},
	}))

	// 中间断裂
	assert.False(t, validRoute([]ledger.RouteHop{
		{DEX: ledger.DEXRaydium, InputMint: "SOL", OutputMint: "USDC"},
		{DEX: ledger.DEXJupiter, InputMint: "USDT", OutputMint: "BONK"},
	}))
}

// TestCreateMultiHopOrder 测试多跳订单创建
func TestCreateMultiHopOrder(t *testing.T) {
	m := newTestMachine()

	events := apply(m, command.TypeCreateMultiHopOrder, "alice", 1, &command.CreateMultiHopOrder{
		Order: ledger.DEXOrder{
			DEX:        ledger.DEXJupiter,
			InputMint:  "SOL",
			OutputMint: "BONK",
			RoutePath: []ledger.RouteHop{
				{DEX: ledger.DEXRaydium, InputMint: "SOL", OutputMint: "USDC", ExpectedOutput: 100},
				{DEX: ledger.DEXJupiter, InputMint: "USDC", OutputMint: "BONK", ExpectedOutput: 9000},
			},
		},
	})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeMultiHopOrderCreated, events[0].Type)

	payload := events[0].Payload.(event.MultiHopOrderCreated)
	assert.Equal(t, uint64(1), payload.OrderID)
	assert.Equal(t, 2, payload.HopCount)

	order, ok := m.Store().DEXOrders.Get(1)
	require.True(t, ok)
	assert.True(t, order.IsMultiHop)
}

// TestCreateMultiHopOrder_BrokenRouteConsumesNoID 测试非法路由整单拒绝且不消耗 ID
func TestCreateMultiHopOrder_BrokenRouteConsumesNoID(t *testing.T) {
	m := newTestMachine()

	events := apply(m, command.TypeCreateMultiHopOrder, "alice", 1, &command.CreateMultiHopOrder{
		Order: ledger.DEXOrder{
			InputMint:  "SOL",
			OutputMint: "BONK",
			RoutePath: []ledger.RouteHop{
				{InputMint: "SOL", OutputMint: "USDC"},
				{InputMint: "USDT", OutputMint: "BONK"},
			},
		},
	})
	assert.Nil(t, events)
	assert.Equal(t, 0, m.Store().DEXOrders.Len())
	assert.Equal(t, uint64(0), m.Store().Peek(store.CounterDEXOrder))

	// 随后的合法订单拿到 ID 1
	events = apply(m, command.TypeCreateDEXOrder, "alice", 2, &command.CreateDEXOrder{
		Order: ledger.DEXOrder{InputMint: "SOL", OutputMint: "USDC"},
	})
	require.Len(t, events, 1)
	order, _ := m.Store().DEXOrders.Get(1)
	assert.Equal(t, uint64(1), order.ID)
	assert.False(t, order.IsMultiHop)
}
