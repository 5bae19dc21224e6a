package machine

import (
	"fmt"

	"github.com/utrading/utrading-trade-ledger/internal/event"
	"github.com/utrading/utrading-trade-ledger/internal/ledger"
)

// 校验检查项名称
// 检查按固定顺序执行，保证失败原因的排列跨副本一致
const (
	checkNoSafetyConfig   = "no_safety_config"
	checkPositionSize     = "position_size"
	checkPositionExceeded = "position_size_exceeded"
	checkStopLoss         = "stop_loss"
	checkStopLossMissing  = "stop_loss_missing"
)

// validateOrder 对已有订单执行安全校验
// 校验结论不是错误：rejected 也是正常的终态，落库并以事件上报
func (m *Machine) validateOrder(orderID uint64, signer string, ts uint64) []event.Event {
	order, ok := m.store.Orders.Get(orderID)
	if !ok {
		return nil
	}

	validated := m.runSafetyChecks(&order, signer, ts)
	m.store.Validations.Put(orderID, validated)

	return []event.Event{{
		Type:      event.TypeOrderValidated,
		Timestamp: ts,
		Payload: event.OrderValidated{
			OrderID: orderID,
			Status:  validated.Status,
			Reason:  validated.Reason,
		},
	}}
}

// runSafetyChecks 按 SafetyConfig 逐项检查订单
// 无配置时直接放行；仓位超限是唯一的硬失败，止损缺失只记录不否决
func (m *Machine) runSafetyChecks(order *ledger.Order, owner string, ts uint64) ledger.ValidatedOrder {
	validated := ledger.ValidatedOrder{
		OrderID:      order.ID,
		Status:       ledger.ValidationApproved,
		ChecksPassed: []string{},
		ChecksFailed: []string{},
		ValidatedAt:  ts,
	}

	cfg, ok := m.store.SafetyConfigs.Get(owner)
	if !ok {
		validated.ChecksPassed = append(validated.ChecksPassed, checkNoSafetyConfig)
		return validated
	}

	// 1. 仓位上限
	if order.Quantity <= cfg.MaxPositionPerToken {
		validated.ChecksPassed = append(validated.ChecksPassed, checkPositionSize)
	} else {
		validated.ChecksFailed = append(validated.ChecksFailed, checkPositionExceeded)
		validated.Status = ledger.ValidationRejected
		validated.Reason = fmt.Sprintf("position %v exceeds max %v", order.Quantity, cfg.MaxPositionPerToken)
	}

	// 2. 止损要求：订单关联信号需带止损提示
	if cfg.RequireStopLoss {
		if m.orderHasStopLoss(order) {
			validated.ChecksPassed = append(validated.ChecksPassed, checkStopLoss)
		} else {
			validated.ChecksFailed = append(validated.ChecksFailed, checkStopLossMissing)
		}
	}

	return validated
}

func (m *Machine) orderHasStopLoss(order *ledger.Order) bool {
	sig, ok := m.store.Signals.Get(order.SignalID)
	return ok && sig.StopLoss != nil
}
