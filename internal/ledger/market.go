package ledger

// PredictionMarket 预测市场
// outcome 只能从未定到已定变更一次
type PredictionMarket struct {
	ID          uint64  `json:"id"`
	Question    string  `json:"question"`
	Outcome     *bool   `json:"outcome,omitempty"` // nil 表示未决
	Probability float64 `json:"probability"`       // 0.0 - 1.0
	CreatedAt   uint64  `json:"created_at"`
	ResolvedAt  *uint64 `json:"resolved_at,omitempty"`
}

// StrategyMarketLink 策略与预测市场的关联，按策略 ID 存储（每策略一条）
type StrategyMarketLink struct {
	StrategyID         uint64  `json:"strategy_id"`
	MarketID           uint64  `json:"market_id"`
	TriggerProbability float64 `json:"trigger_probability"`
	ActivateAbove      bool    `json:"activate_above"` // true: 概率 >= 阈值触发；false: <= 阈值触发
}

// 行情观测类型
const (
	ObservationPrice  = "price"
	ObservationVolume = "volume"
)

// MarketObservation 按 token 记录的最新行情观测
// 由命令流写入，保证各副本对触发器求值时看到相同的值
type MarketObservation struct {
	Token      string  `json:"token"`
	Kind       string  `json:"kind"`
	Value      float64 `json:"value"`
	ObservedAt uint64  `json:"observed_at"`
}
