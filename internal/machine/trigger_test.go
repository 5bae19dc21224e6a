package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utrading/utrading-trade-ledger/internal/command"
	"github.com/utrading/utrading-trade-ledger/internal/event"
	"github.com/utrading/utrading-trade-ledger/internal/ledger"
)

// TestCheckConditionalOrders_PriceThreshold 测试价格触发
func TestCheckConditionalOrders_PriceThreshold(t *testing.T) {
	m := newTestMachine()
	apply(m, command.TypeCreateDEXOrder, "alice", 1, &command.CreateDEXOrder{
		Order: ledger.DEXOrder{
			InputMint: "USDC", OutputMint: "SOL",
			ExecutionMode: ledger.ModeConditional,
			ConditionalTrigger: &ledger.ConditionalTrigger{
				TriggerType: ledger.TriggerPriceThreshold,
				Token:       "SOL",
				Threshold:   150,
				Comparison:  ledger.CmpGreaterThanOrEqual,
				Active:      true,
			},
		},
	})

	// 无观测值：触发器保持待命
	events := apply(m, command.TypeCheckConditionalOrders, "node", 2, &command.CheckConditionalOrders{})
	assert.Nil(t, events)

	// 低于阈值：不触发
	apply(m, command.TypeRecordMarketObservation, "node", 3, &command.RecordMarketObservation{
		Token: "SOL", Kind: ledger.ObservationPrice, Value: 140,
	})
	events = apply(m, command.TypeCheckConditionalOrders, "node", 4, &command.CheckConditionalOrders{})
	assert.Nil(t, events)

	// 达到阈值：触发，订单转入 submitted
	apply(m, command.TypeRecordMarketObservation, "node", 5, &command.RecordMarketObservation{
		Token: "SOL", Kind: ledger.ObservationPrice, Value: 155,
	})
	events = apply(m, command.TypeCheckConditionalOrders, "node", 6, &command.CheckConditionalOrders{})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeConditionalOrderTriggered, events[0].Type)

	order, _ := m.Store().DEXOrders.Get(1)
	assert.Equal(t, ledger.OrderSubmitted, order.Status)
	require.NotNil(t, order.ConditionalTrigger)
	assert.False(t, order.ConditionalTrigger.Active)
	require.NotNil(t, order.ConditionalTrigger.TriggeredAt)
	assert.Equal(t, uint64(6), *order.ConditionalTrigger.TriggeredAt)

	// 触发器已停用，再扫描不重复触发
	events = apply(m, command.TypeCheckConditionalOrders, "node", 7, &command.CheckConditionalOrders{})
	assert.Nil(t, events)
}

// TestCheckConditionalOrders_MarketProbability 测试市场概率触发
func TestCheckConditionalOrders_MarketProbability(t *testing.T) {
	m := newTestMachine()
	apply(m, command.TypeCreatePredictionMarket, "alice", 1, &command.CreatePredictionMarket{
		Market: ledger.PredictionMarket{Question: "BTC above 100k?", Probability: 0.3},
	})
	apply(m, command.TypeCreateDEXOrder, "alice", 2, &command.CreateDEXOrder{
		Order: ledger.DEXOrder{
			InputMint: "USDC", OutputMint: "SOL",
			ExecutionMode: ledger.ModeConditional,
			ConditionalTrigger: &ledger.ConditionalTrigger{
				TriggerType: ledger.TriggerMarketProbability,
				MarketID:    1,
				Threshold:   0.7,
				Comparison:  ledger.CmpGreaterThan,
				Active:      true,
			},
		},
	})

	events := apply(m, command.TypeCheckConditionalOrders, "node", 3, &command.CheckConditionalOrders{})
	assert.Nil(t, events)

	apply(m, command.TypeUpdateMarketProbability, "oracle", 4, &command.UpdateMarketProbability{
		MarketID: 1, Probability: 0.75,
	})
	events = apply(m, command.TypeCheckConditionalOrders, "node", 5, &command.CheckConditionalOrders{})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeConditionalOrderTriggered, events[0].Type)
}

// TestCheckConditionalOrders_TimeBased 测试时间触发
func TestCheckConditionalOrders_TimeBased(t *testing.T) {
	m := newTestMachine()
	apply(m, command.TypeCreateDEXOrder, "alice", 1, &command.CreateDEXOrder{
		Order: ledger.DEXOrder{
			InputMint: "USDC", OutputMint: "SOL",
			ExecutionMode: ledger.ModeScheduled,
			ConditionalTrigger: &ledger.ConditionalTrigger{
				TriggerType: ledger.TriggerTimeBased,
				Threshold:   5000,
				Comparison:  ledger.CmpGreaterThanOrEqual,
				Active:      true,
			},
		},
	})

	// 未到时间
	events := apply(m, command.TypeCheckConditionalOrders, "node", 4000, &command.CheckConditionalOrders{})
	assert.Nil(t, events)

	// 到点触发
	events = apply(m, command.TypeCheckConditionalOrders, "node", 5000, &command.CheckConditionalOrders{})
	require.Len(t, events, 1)
}

// TestTriggerConditionalOrder_Manual 测试手动触发
func TestTriggerConditionalOrder_Manual(t *testing.T) {
	m := newTestMachine()
	apply(m, command.TypeCreateDEXOrder, "alice", 1, &command.CreateDEXOrder{
		Order: ledger.DEXOrder{
			InputMint: "USDC", OutputMint: "SOL",
			ConditionalTrigger: &ledger.ConditionalTrigger{
				TriggerType: ledger.TriggerPriceThreshold,
				Token:       "SOL",
				Threshold:   999,
				Comparison:  ledger.CmpGreaterThan,
				Active:      true,
			},
		},
	})

	// 手动触发不重新求值条件
	events := apply(m, command.TypeTriggerConditionalOrder, "alice", 2, &command.TriggerConditionalOrder{OrderID: 1})
	require.Len(t, events, 1)

	// 已触发的订单再次触发静默拒绝
	events = apply(m, command.TypeTriggerConditionalOrder, "alice", 3, &command.TriggerConditionalOrder{OrderID: 1})
	assert.Nil(t, events)

	// 无触发器的订单同样拒绝
	apply(m, command.TypeCreateDEXOrder, "alice", 4, &command.CreateDEXOrder{
		Order: ledger.DEXOrder{InputMint: "SOL", OutputMint: "USDC"},
	})
	events = apply(m, command.TypeTriggerConditionalOrder, "alice", 5, &command.TriggerConditionalOrder{OrderID: 2})
	assert.Nil(t, events)
}

// TestCancelConditionalOrder 测试条件单取消
func TestCancelConditionalOrder(t *testing.T) {
	m := newTestMachine()
	apply(m, command.TypeCreateDEXOrder, "alice", 1, &command.CreateDEXOrder{
		Order: ledger.DEXOrder{
			InputMint: "USDC", OutputMint: "SOL",
			ConditionalTrigger: &ledger.ConditionalTrigger{
				TriggerType: ledger.TriggerPriceThreshold,
				Token:       "SOL",
				Threshold:   100,
				Comparison:  ledger.CmpLessThan,
				Active:      true,
			},
		},
	})

	events := apply(m, command.TypeCancelConditionalOrder, "alice", 2, &command.CancelConditionalOrder{OrderID: 1})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeConditionalOrderCancelled, events[0].Type)

	order, _ := m.Store().DEXOrders.Get(1)
	assert.Equal(t, ledger.OrderCancelled, order.Status)
	assert.False(t, order.ConditionalTrigger.Active)

	// cancelled 是终态：满足条件也不再触发
	apply(m, command.TypeRecordMarketObservation, "node", 3, &command.RecordMarketObservation{
		Token: "SOL", Kind: ledger.ObservationPrice, Value: 50,
	})
	events = apply(m, command.TypeCheckConditionalOrders, "node", 4, &command.CheckConditionalOrders{})
	assert.Nil(t, events)

	// 重复取消静默拒绝
	events = apply(m, command.TypeCancelConditionalOrder, "alice", 5, &command.CancelConditionalOrder{OrderID: 1})
	assert.Nil(t, events)
}

// TestCompare 测试比较运算符
func TestCompare(t *testing.T) {
	assert.True(t, compare(10, ledger.CmpGreaterThan, 5))
	assert.False(t, compare(5, ledger.CmpGreaterThan, 5))
	assert.True(t, compare(5, ledger.CmpGreaterThanOrEqual, 5))
	assert.True(t, compare(3, ledger.CmpLessThan, 5))
	assert.True(t, compare(5, ledger.CmpLessThanOrEqual, 5))
	assert.True(t, compare(5, ledger.CmpEqual, 5))
	assert.False(t, compare(5, "bogus", 5))
}
