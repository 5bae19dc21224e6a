package machine

import (
	"github.com/utrading/utrading-trade-ledger/internal/event"
	"github.com/utrading/utrading-trade-ledger/internal/ledger"
)

// checkConditionalOrders 扫描全部活跃条件单，触发满足条件的
// 按订单 ID 升序遍历，保证各副本触发顺序一致
func (m *Machine) checkConditionalOrders(ts uint64) []event.Event {
	var events []event.Event

	for _, id := range m.store.DEXOrders.Keys() {
		order, _ := m.store.DEXOrders.Get(id)
		trigger := order.ConditionalTrigger
		if trigger == nil || !trigger.Active {
			continue
		}
		if order.Status == ledger.OrderFilled || order.Status == ledger.OrderCancelled {
			continue
		}

		value, ok := m.observedValue(trigger, ts)
		if !ok {
			// 无观测值的触发器保持待命
			continue
		}

		if compare(value, trigger.Comparison, trigger.Threshold) {
			events = append(events, m.fireTrigger(id, order, ts))
		}
	}

	return events
}

// triggerConditionalOrder 手动触发指定条件单，不重新求值条件
func (m *Machine) triggerConditionalOrder(orderID uint64, ts uint64) []event.Event {
	order, ok := m.store.DEXOrders.Get(orderID)
	if !ok || order.ConditionalTrigger == nil || !order.ConditionalTrigger.Active {
		return nil
	}

	return []event.Event{m.fireTrigger(orderID, order, ts)}
}

// cancelConditionalOrder 取消条件单：触发器永久停用，订单进入 cancelled 终态
func (m *Machine) cancelConditionalOrder(orderID uint64, ts uint64) []event.Event {
	order, ok := m.store.DEXOrders.Get(orderID)
	if !ok || order.ConditionalTrigger == nil || !order.ConditionalTrigger.Active {
		return nil
	}

	trig := *order.ConditionalTrigger
	trig.Active = false
	order.ConditionalTrigger = &trig
	order.Status = ledger.OrderCancelled
	m.store.DEXOrders.Put(orderID, order)

	return []event.Event{{
		Type:      event.TypeConditionalOrderCancelled,
		Timestamp: ts,
		Payload:   event.ConditionalOrderCancelled{OrderID: orderID},
	}}
}

// fireTrigger 触发条件单：停用触发器，订单转入待执行
// 只标记就绪，不执行订单本身
func (m *Machine) fireTrigger(orderID uint64, order ledger.DEXOrder, ts uint64) event.Event {
	triggeredAt := ts
	trig := *order.ConditionalTrigger
	trig.Active = false
	trig.TriggeredAt = &triggeredAt
	order.ConditionalTrigger = &trig
	if order.Status == ledger.OrderPending {
		order.Status = ledger.OrderSubmitted
	}
	m.store.DEXOrders.Put(orderID, order)

	return event.Event{
		Type:      event.TypeConditionalOrderTriggered,
		Timestamp: ts,
		Payload:   event.ConditionalOrderTriggered{OrderID: orderID},
	}
}

// observedValue 取触发器对应的当前观测值
// 价格/成交量来自观测表，市场概率来自预测市场，时间触发器比较当前时间戳
func (m *Machine) observedValue(trigger *ledger.ConditionalTrigger, ts uint64) (float64, bool) {
	switch trigger.TriggerType {
	case ledger.TriggerPriceThreshold:
		obs, ok := m.store.Observations.Get(observationKey(trigger.Token, ledger.ObservationPrice))
		return obs.Value, ok
	case ledger.TriggerVolumeThreshold:
		obs, ok := m.store.Observations.Get(observationKey(trigger.Token, ledger.ObservationVolume))
		return obs.Value, ok
	case ledger.TriggerMarketProbability:
		market, ok := m.store.Markets.Get(trigger.MarketID)
		return market.Probability, ok
	case ledger.TriggerTimeBased:
		return float64(ts), true
	default:
		return 0, false
	}
}

// compare 按比较运算符求值
func compare(value float64, op string, threshold float64) bool {
	switch op {
	case ledger.CmpGreaterThan:
		return value > threshold
	case ledger.CmpLessThan:
		return value < threshold
	case ledger.CmpGreaterThanOrEqual:
		return value >= threshold
	case ledger.CmpLessThanOrEqual:
		return value <= threshold
	case ledger.CmpEqual:
		return value == threshold
	default:
		return false
	}
}
