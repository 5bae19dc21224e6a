package event

import (
	"encoding/json"
	"fmt"
)

// 事件类型，每个接受的状态迁移产生零或多个事件
const (
	TypeSignalReceived = "signal_received"

	TypeStrategyCreated     = "strategy_created"
	TypeStrategyActivated   = "strategy_activated"
	TypeStrategyDeactivated = "strategy_deactivated"
	TypeStrategyUpdated     = "strategy_updated"

	TypeOrderCreated = "order_created"
	TypeOrderFilled  = "order_filled"

	TypeDEXOrderCreated      = "dex_order_created"
	TypeDEXOrderExecuted     = "dex_order_executed"
	TypeMultiHopOrderCreated = "multi_hop_order_created"

	TypeStrategyFollowed   = "strategy_followed"
	TypeStrategyUnfollowed = "strategy_unfollowed"
	TypeTradeReplicated    = "trade_replicated"

	TypeSafetyConfigCreated = "safety_config_created"
	TypeSafetyConfigUpdated = "safety_config_updated"
	TypeOrderValidated      = "order_validated"

	TypePredictionMarketCreated   = "prediction_market_created"
	TypeMarketProbabilityUpdated  = "market_probability_updated"
	TypePredictionMarketResolved  = "prediction_market_resolved"
	TypeStrategyLinkedToMarket    = "strategy_linked_to_market"
	TypeStrategyTriggeredByMarket = "strategy_triggered_by_market"

	TypeConditionalOrderTriggered = "conditional_order_triggered"
	TypeConditionalOrderCancelled = "conditional_order_cancelled"

	TypeMicrochainProfileCreated  = "microchain_profile_created"
	TypeMarketObservationRecorded = "market_observation_recorded"
	TypeTradeOutcomeRecorded      = "trade_outcome_recorded"
)

// Event 领域事件：描述一次已接受状态迁移的不可变事实
type Event struct {
	Type      string `json:"type"`
	Timestamp uint64 `json:"timestamp"`
	Payload   any    `json:"payload,omitempty"`
}

// Marshal 序列化事件
func (e *Event) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s failed: %w", e.Type, err)
	}
	return data, nil
}

// Subject 事件发布的 NATS 主题
func (e *Event) Subject() string {
	return "trade_ledger.event." + e.Type
}
