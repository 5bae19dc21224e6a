package ledger

// 策略变体类型
const (
	StrategyKindForm = "form" // 表单参数策略
	StrategyKindDSL  = "dsl"  // DSL 脚本策略
)

// 策略来源类型
const (
	SourceManual           = "manual"
	SourceCommunity        = "community"
	SourceCurated          = "curated"
	SourcePredictionMarket = "prediction_market"
)

// FormParams 表单策略参数
type FormParams struct {
	TokenPair       string  `json:"token_pair"`
	BuyPrice        float64 `json:"buy_price"`
	SellTarget      float64 `json:"sell_target"`
	TrailingStopPct float64 `json:"trailing_stop_pct"`
	TakeProfitPct   float64 `json:"take_profit_pct"`
	MaxLossPct      float64 `json:"max_loss_pct"`
}

// StrategyVariant 策略定义：表单参数或 DSL 文本，二选一
type StrategyVariant struct {
	Kind string      `json:"kind"`
	Form *FormParams `json:"form,omitempty"`
	DSL  string      `json:"dsl,omitempty"`
}

// StrategySource 策略的出处
type StrategySource struct {
	Kind     string  `json:"kind"`
	Author   string  `json:"author,omitempty"`
	PostID   string  `json:"post_id,omitempty"`
	Curator  string  `json:"curator,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
	MarketID uint64  `json:"market_id,omitempty"`
}

// Strategy 用户交易策略
// version 从 1 开始，每次接受的更新 +1，旧版本进入历史表
type Strategy struct {
	ID        uint64          `json:"id"`
	Owner     string          `json:"owner"`
	Name      string          `json:"name"`
	Variant   StrategyVariant `json:"variant"`
	Active    bool            `json:"active"`
	CreatedAt uint64          `json:"created_at"`

	Version   uint64  `json:"version"`
	UpdatedAt *uint64 `json:"updated_at,omitempty"`

	Source StrategySource `json:"source"`

	// 风控参数
	RiskPercentage float64 `json:"risk_percentage"` // 单笔最大风险占比
	MaxExposure    float64 `json:"max_exposure"`    // 最大总敞口（USD）
	SlippageBps    uint16  `json:"slippage_bps"`    // 滑点容忍，基点
}

// StrategyVersion 策略历史版本快照，只追加，永不修改
type StrategyVersion struct {
	StrategyID   uint64   `json:"strategy_id"`
	Version      uint64   `json:"version"`
	Snapshot     Strategy `json:"snapshot"`
	ChangedAt    uint64   `json:"changed_at"`
	ChangeReason *string  `json:"change_reason,omitempty"`
}
