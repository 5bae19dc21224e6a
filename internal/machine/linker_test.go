package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utrading/utrading-trade-ledger/internal/command"
	"github.com/utrading/utrading-trade-ledger/internal/event"
	"github.com/utrading/utrading-trade-ledger/internal/ledger"
)

// TestMarketProbabilityActivatesLinkedStrategy 测试概率越线激活策略
func TestMarketProbabilityActivatesLinkedStrategy(t *testing.T) {
	m := newTestMachine()
	apply(m, command.TypeCreateStrategy, "alice", 1, &command.CreateStrategy{
		Strategy: ledger.Strategy{Owner: "alice", Name: "event-driven"},
	})
	apply(m, command.TypeCreatePredictionMarket, "alice", 2, &command.CreatePredictionMarket{
		Market: ledger.PredictionMarket{Question: "ETF approved?", Probability: 0.4},
	})
	apply(m, command.TypeLinkStrategyToMarket, "alice", 3, &command.LinkStrategyToMarket{
		Link: ledger.StrategyMarketLink{
			StrategyID: 1, MarketID: 1, TriggerProbability: 0.7, ActivateAbove: true,
		},
	})

	// 未越线：只有概率更新事件
	events := apply(m, command.TypeUpdateMarketProbability, "oracle", 4, &command.UpdateMarketProbability{
		MarketID: 1, Probability: 0.6,
	})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeMarketProbabilityUpdated, events[0].Type)

	st, _ := m.Store().Strategies.Get(1)
	assert.False(t, st.Active)

	// 越线：概率更新 + 策略触发，同一命令内原子完成
	events = apply(m, command.TypeUpdateMarketProbability, "oracle", 5, &command.UpdateMarketProbability{
		MarketID: 1, Probability: 0.75,
	})
	require.Len(t, events, 2)
	assert.Equal(t, event.TypeMarketProbabilityUpdated, events[0].Type)
	assert.Equal(t, event.TypeStrategyTriggeredByMarket, events[1].Type)

	st, _ = m.Store().Strategies.Get(1)
	assert.True(t, st.Active)
}

// TestMarketProbabilityActivateBelow 测试低于阈值触发
func TestMarketProbabilityActivateBelow(t *testing.T) {
	m := newTestMachine()
	apply(m, command.TypeCreateStrategy, "alice", 1, &command.CreateStrategy{
		Strategy: ledger.Strategy{Owner: "alice"},
	})
	apply(m, command.TypeCreatePredictionMarket, "alice", 2, &command.CreatePredictionMarket{
		Market: ledger.PredictionMarket{Question: "hedge?", Probability: 0.5},
	})
	apply(m, command.TypeLinkStrategyToMarket, "alice", 3, &command.LinkStrategyToMarket{
		Link: ledger.StrategyMarketLink{
			StrategyID: 1, MarketID: 1, TriggerProbability: 0.2, ActivateAbove: false,
		},
	})

	events := apply(m, command.TypeUpdateMarketProbability, "oracle", 4, &command.UpdateMarketProbability{
		MarketID: 1, Probability: 0.15,
	})
	require.Len(t, events, 2)
	assert.Equal(t, event.TypeStrategyTriggeredByMarket, events[1].Type)
}

// TestResolvePredictionMarket_Once 测试市场结果只能落定一次
func TestResolvePredictionMarket_Once(t *testing.T) {
	m := newTestMachine()
	apply(m, command.TypeCreatePredictionMarket, "alice", 1, &command.CreatePredictionMarket{
		Market: ledger.PredictionMarket{Question: "up?", Probability: 0.5},
	})

	events := apply(m, command.TypeResolvePredictionMarket, "oracle", 2, &command.ResolvePredictionMarket{
		MarketID: 1, Outcome: true,
	})
	require.Len(t, events, 1)

	market, _ := m.Store().Markets.Get(1)
	require.NotNil(t, market.Outcome)
	assert.True(t, *market.Outcome)

	// 第二次结算静默拒绝，首次结果保留
	events = apply(m, command.TypeResolvePredictionMarket, "oracle", 3, &command.ResolvePredictionMarket{
		MarketID: 1, Outcome: false,
	})
	assert.Nil(t, events)

	market, _ = m.Store().Markets.Get(1)
	assert.True(t, *market.Outcome)
	assert.Equal(t, uint64(2), *market.ResolvedAt)
}

// TestUpdateMarketProbability_MissingMarket 测试更新不存在的市场
func TestUpdateMarketProbability_MissingMarket(t *testing.T) {
	m := newTestMachine()

	events := apply(m, command.TypeUpdateMarketProbability, "oracle", 1, &command.UpdateMarketProbability{
		MarketID: 42, Probability: 0.9,
	})
	assert.Nil(t, events)
}
