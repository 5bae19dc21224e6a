package machine

import (
	"github.com/utrading/utrading-trade-ledger/internal/event"
	"github.com/utrading/utrading-trade-ledger/internal/ledger"
	"github.com/utrading/utrading-trade-ledger/internal/store"
)

// validRoute 校验多跳路由连续性：每一跳的 output_mint 必须等于下一跳的 input_mint
// 空路由和单跳路由天然有效
func validRoute(hops []ledger.RouteHop) bool {
	for i := 0; i+1 < len(hops); i++ {
		if hops[i].OutputMint != hops[i+1].InputMint {
			return false
		}
	}
	return true
}

// createDEXOrder 创建 DEX 订单（含多跳）
// 路由校验在分配 ID 之前：非法路由不消耗计数器，整单拒绝，不落任何状态
func (m *Machine) createDEXOrder(order ledger.DEXOrder, ts uint64, multiHop bool) []event.Event {
	if !validRoute(order.RoutePath) {
		return nil
	}

	order.ID = m.store.Next(store.CounterDEXOrder)
	order.CreatedAt = ts
	order.IsMultiHop = len(order.RoutePath) > 0
	if order.Status == "" {
		order.Status = ledger.OrderPending
	}
	m.store.DEXOrders.Put(order.ID, order)

	if multiHop {
		return []event.Event{{
			Type:      event.TypeMultiHopOrderCreated,
			Timestamp: ts,
			Payload:   event.MultiHopOrderCreated{OrderID: order.ID, HopCount: len(order.RoutePath)},
		}}
	}
	return []event.Event{{
		Type:      event.TypeDEXOrderCreated,
		Timestamp: ts,
		Payload:   event.DEXOrderCreated{Order: order},
	}}
}
