package command

import "github.com/utrading/utrading-trade-ledger/internal/ledger"

// SubmitSignal 提交交易信号
type SubmitSignal struct {
	Signal ledger.Signal `json:"signal"`
}

// CreateStrategy 创建策略
type CreateStrategy struct {
	Strategy ledger.Strategy `json:"strategy"`
}

// ActivateStrategy 激活策略
type ActivateStrategy struct {
	StrategyID uint64 `json:"strategy_id"`
}

// DeactivateStrategy 停用策略
type DeactivateStrategy struct {
	StrategyID uint64 `json:"strategy_id"`
}

// CreateOrder 创建普通订单
type CreateOrder struct {
	Order ledger.Order `json:"order"`
}

// RecordOrderFill 记录订单成交
type RecordOrderFill struct {
	OrderID   uint64  `json:"order_id"`
	TxHash    string  `json:"tx_hash"`
	FillPrice float64 `json:"fill_price"`
	FilledAt  uint64  `json:"filled_at"`
}

// CreateDEXOrder 创建 DEX 订单
type CreateDEXOrder struct {
	Order ledger.DEXOrder `json:"order"`
}

// ExecuteDEXOrder 执行 DEX 订单
type ExecuteDEXOrder struct {
	OrderID     uint64 `json:"order_id"`
	TxSignature string `json:"tx_signature"`
}

// FollowStrategy 跟随策略，跟随者身份取自信封 signer
type FollowStrategy struct {
	StrategyID           uint64  `json:"strategy_id"`
	AllocationPercentage float64 `json:"allocation_percentage"`
	MaxPositionSize      float64 `json:"max_position_size"`
	AutoFollow           bool    `json:"auto_follow"`
}

// UnfollowStrategy 取消跟随
type UnfollowStrategy struct {
	StrategyID uint64 `json:"strategy_id"`
}

// ReplicateTrade 按比例复制订单
type ReplicateTrade struct {
	OriginalOrderID uint64  `json:"original_order_id"`
	FollowerID      string  `json:"follower_id"`
	ScaleFactor     float64 `json:"scale_factor"`
}

// CreateSafetyConfig 创建安全配置
type CreateSafetyConfig struct {
	Config ledger.SafetyConfig `json:"config"`
}

// UpdateSafetyConfig 更新安全配置
type UpdateSafetyConfig struct {
	Config ledger.SafetyConfig `json:"config"`
}

// ValidateOrder 对订单执行安全校验
type ValidateOrder struct {
	OrderID uint64 `json:"order_id"`
}

// CreatePredictionMarket 创建预测市场
type CreatePredictionMarket struct {
	Market ledger.PredictionMarket `json:"market"`
}

// UpdateMarketProbability 更新市场概率
type UpdateMarketProbability struct {
	MarketID    uint64  `json:"market_id"`
	Probability float64 `json:"probability"`
}

// ResolvePredictionMarket 结算预测市场
type ResolvePredictionMarket struct {
	MarketID uint64 `json:"market_id"`
	Outcome  bool   `json:"outcome"`
}

// LinkStrategyToMarket 关联策略与预测市场
type LinkStrategyToMarket struct {
	Link ledger.StrategyMarketLink `json:"link"`
}

// UpdateStrategy 更新策略，旧版本写入历史
type UpdateStrategy struct {
	Strategy     ledger.Strategy `json:"strategy"`
	ChangeReason *string         `json:"change_reason,omitempty"`
}

// CreateMultiHopOrder 创建多跳 DEX 订单
type CreateMultiHopOrder struct {
	Order ledger.DEXOrder `json:"order"`
}

// CheckConditionalOrders 扫描并触发满足条件的条件单
type CheckConditionalOrders struct{}

// TriggerConditionalOrder 手动触发条件单
type TriggerConditionalOrder struct {
	OrderID uint64 `json:"order_id"`
}

// CancelConditionalOrder 取消条件单
type CancelConditionalOrder struct {
	OrderID uint64 `json:"order_id"`
}

// CreateMicrochainProfile 创建微链档案
type CreateMicrochainProfile struct {
	Name       string   `json:"name"`
	Wallet     string   `json:"wallet"`
	Chains     []string `json:"chains"`
	Visibility string   `json:"visibility"`
}

// RecordMarketObservation 记录行情观测（价格/成交量）
type RecordMarketObservation struct {
	Token string  `json:"token"`
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

// RecordTradeOutcome 记录交易结果，累计微链档案业绩
type RecordTradeOutcome struct {
	Wallet string `json:"wallet"`
	Volume uint64 `json:"volume"`
	Pnl    int64  `json:"pnl"`
	Win    bool   `json:"win"`
}
