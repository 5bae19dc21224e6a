package event

import "github.com/utrading/utrading-trade-ledger/internal/ledger"

// SignalReceived 信号已接受
type SignalReceived struct {
	Signal ledger.Signal `json:"signal"`
}

// StrategyCreated 策略已创建
type StrategyCreated struct {
	StrategyID uint64 `json:"strategy_id"`
	Owner      string `json:"owner"`
}

// StrategyActivated 策略已激活
type StrategyActivated struct {
	StrategyID uint64 `json:"strategy_id"`
}

// StrategyDeactivated 策略已停用
type StrategyDeactivated struct {
	StrategyID uint64 `json:"strategy_id"`
}

// StrategyUpdated 策略已更新至新版本
type StrategyUpdated struct {
	StrategyID uint64 `json:"strategy_id"`
	NewVersion uint64 `json:"new_version"`
}

// OrderCreated 订单已创建
type OrderCreated struct {
	Order ledger.Order `json:"order"`
}

// OrderFilled 订单已成交
type OrderFilled struct {
	OrderID   uint64  `json:"order_id"`
	TxHash    string  `json:"tx_hash"`
	FillPrice float64 `json:"fill_price"`
}

// DEXOrderCreated DEX 订单已创建
type DEXOrderCreated struct {
	Order ledger.DEXOrder `json:"order"`
}

// DEXOrderExecuted DEX 订单已执行
type DEXOrderExecuted struct {
	OrderID      uint64 `json:"order_id"`
	TxSignature  string `json:"tx_signature"`
	OutputAmount uint64 `json:"output_amount"`
}

// MultiHopOrderCreated 多跳订单已创建
type MultiHopOrderCreated struct {
	OrderID  uint64 `json:"order_id"`
	HopCount int    `json:"hop_count"`
}

// StrategyFollowed 已跟随策略
type StrategyFollowed struct {
	StrategyID uint64 `json:"strategy_id"`
	FollowerID string `json:"follower_id"`
}

// StrategyUnfollowed 已取消跟随
type StrategyUnfollowed struct {
	StrategyID uint64 `json:"strategy_id"`
	FollowerID string `json:"follower_id"`
}

// TradeReplicated 交易已复制
type TradeReplicated struct {
	OriginalOrderID uint64 `json:"original_order_id"`
	FollowerOrderID uint64 `json:"follower_order_id"`
	FollowerID      string `json:"follower_id"`
}

// SafetyConfigCreated 安全配置已创建
type SafetyConfigCreated struct {
	Owner string `json:"owner"`
}

// SafetyConfigUpdated 安全配置已更新
type SafetyConfigUpdated struct {
	Owner string `json:"owner"`
}

// OrderValidated 订单校验结论
type OrderValidated struct {
	OrderID uint64 `json:"order_id"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
}

// PredictionMarketCreated 预测市场已创建
type PredictionMarketCreated struct {
	MarketID uint64 `json:"market_id"`
	Question string `json:"question"`
}

// MarketProbabilityUpdated 市场概率已更新
type MarketProbabilityUpdated struct {
	MarketID    uint64  `json:"market_id"`
	Probability float64 `json:"probability"`
}

// PredictionMarketResolved 预测市场已结算
type PredictionMarketResolved struct {
	MarketID uint64 `json:"market_id"`
	Outcome  bool   `json:"outcome"`
}

// StrategyLinkedToMarket 策略已关联市场
type StrategyLinkedToMarket struct {
	StrategyID uint64 `json:"strategy_id"`
	MarketID   uint64 `json:"market_id"`
}

// StrategyTriggeredByMarket 市场概率越过阈值，策略被激活
type StrategyTriggeredByMarket struct {
	StrategyID uint64 `json:"strategy_id"`
	MarketID   uint64 `json:"market_id"`
}

// ConditionalOrderTriggered 条件单已触发
type ConditionalOrderTriggered struct {
	OrderID uint64 `json:"order_id"`
}

// ConditionalOrderCancelled 条件单已取消
type ConditionalOrderCancelled struct {
	OrderID uint64 `json:"order_id"`
}

// MicrochainProfileCreated 微链档案已创建
type MicrochainProfileCreated struct {
	Wallet string `json:"wallet"`
	Name   string `json:"name"`
}

// MarketObservationRecorded 行情观测已记录
type MarketObservationRecorded struct {
	Token string  `json:"token"`
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

// TradeOutcomeRecorded 交易结果已入账
type TradeOutcomeRecorded struct {
	Wallet string `json:"wallet"`
	Volume uint64 `json:"volume"`
	Pnl    int64  `json:"pnl"`
	Win    bool   `json:"win"`
}
