package machine

import (
	"github.com/utrading/utrading-trade-ledger/internal/event"
)

// checkStrategyTriggers 概率更新后扫描全部市场关联
// activate_above 为真时概率 >= 阈值触发，否则 <= 阈值触发；
// 按策略 ID 升序遍历，触发即激活策略
func (m *Machine) checkStrategyTriggers(marketID uint64, probability float64, ts uint64) []event.Event {
	var events []event.Event

	for _, strategyID := range m.store.MarketLinks.Keys() {
		link, _ := m.store.MarketLinks.Get(strategyID)
		if link.MarketID != marketID {
			continue
		}

		crossed := (link.ActivateAbove && probability >= link.TriggerProbability) ||
			(!link.ActivateAbove && probability <= link.TriggerProbability)
		if !crossed {
			continue
		}

		strategy, ok := m.store.Strategies.Get(strategyID)
		if !ok {
			continue
		}

		strategy.Active = true
		m.store.Strategies.Put(strategyID, strategy)

		events = append(events, event.Event{
			Type:      event.TypeStrategyTriggeredByMarket,
			Timestamp: ts,
			Payload:   event.StrategyTriggeredByMarket{StrategyID: strategyID, MarketID: marketID},
		})
	}

	return events
}
