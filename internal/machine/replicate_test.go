package machine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utrading/utrading-trade-ledger/internal/command"
	"github.com/utrading/utrading-trade-ledger/internal/event"
	"github.com/utrading/utrading-trade-ledger/internal/ledger"
)

// TestReplicateTrade 测试按比例跟单复制
func TestReplicateTrade(t *testing.T) {
	m := newTestMachine()
	apply(m, command.TypeCreateOrder, "alice", 1, &command.CreateOrder{
		Order: ledger.Order{StrategyID: 1, Token: "SOL", Quantity: 100, OrderType: "buy"},
	})

	events := apply(m, command.TypeReplicateTrade, "node", 2, &command.ReplicateTrade{
		OriginalOrderID: 1, FollowerID: "bob", ScaleFactor: 0.25,
	})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeTradeReplicated, events[0].Type)

	payload := events[0].Payload.(event.TradeReplicated)
	assert.Equal(t, uint64(2), payload.FollowerOrderID)

	// 复制订单数量按比例缩放，其余字段继承原单
	replica, ok := m.Store().Orders.Get(2)
	require.True(t, ok)
	assert.Equal(t, 25.0, replica.Quantity)
	assert.Equal(t, "SOL", replica.Token)
	assert.Equal(t, "buy", replica.OrderType)
	assert.Equal(t, uint64(2), replica.CreatedAt)

	// 复制记录与订单同命令内创建
	rep, ok := m.Store().Replications.Get(2)
	require.True(t, ok)
	assert.Equal(t, uint64(1), rep.OriginalOrderID)
	assert.Equal(t, "bob", rep.FollowerID)
	assert.Equal(t, ledger.ReplicationExecuted, rep.Status)
}

// TestReplicateTrade_InvalidScale 测试非法比例静默拒绝
func TestReplicateTrade_InvalidScale(t *testing.T) {
	m := newTestMachine()
	apply(m, command.TypeCreateOrder, "alice", 1, &command.CreateOrder{
		Order: ledger.Order{Token: "SOL", Quantity: 100},
	})

	for _, scale := range []float64{0, -1, math.Inf(1), math.NaN()} {
		events := apply(m, command.TypeReplicateTrade, "node", 2, &command.ReplicateTrade{
			OriginalOrderID: 1, FollowerID: "bob", ScaleFactor: scale,
		})
		assert.Nil(t, events)
	}

	// 原单不存在同样拒绝
	events := apply(m, command.TypeReplicateTrade, "node", 3, &command.ReplicateTrade{
		OriginalOrderID: 42, FollowerID: "bob", ScaleFactor: 0.5,
	})
	assert.Nil(t, events)

	assert.Equal(t, 1, m.Store().Orders.Len())
	assert.Equal(t, 0, m.Store().Replications.Len())
}
