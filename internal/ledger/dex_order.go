package ledger

// DEX 场所
const (
	DEXRaydium = "raydium"
	DEXJupiter = "jupiter"
	DEXBinance = "binance"
)

// 执行模式
const (
	ModeImmediate   = "immediate"   // 立即执行
	ModeConditional = "conditional" // 条件触发后执行
	ModeScheduled   = "scheduled"   // 定时执行
)

// 条件触发器类型
const (
	TriggerPriceThreshold    = "price_threshold"
	TriggerMarketProbability = "market_probability"
	TriggerTimeBased         = "time_based"
	TriggerVolumeThreshold   = "volume_threshold"
)

// 比较运算符
const (
	CmpGreaterThan        = "gt"
	CmpLessThan           = "lt"
	CmpGreaterThanOrEqual = "gte"
	CmpLessThanOrEqual    = "lte"
	CmpEqual              = "eq"
)

// ConditionalTrigger 条件触发器
// 触发或取消后 active 置 false，永不复位
type ConditionalTrigger struct {
	TriggerType string  `json:"trigger_type"`
	Token       string  `json:"token,omitempty"`     // price/volume 触发器的标的
	MarketID    uint64  `json:"market_id,omitempty"` // market_probability 触发器的市场
	Threshold   float64 `json:"threshold"`
	Comparison  string  `json:"comparison"`
	Active      bool    `json:"active"`
	TriggeredAt *uint64 `json:"triggered_at,omitempty"`
}

// RouteHop 多跳路由中的一跳
type RouteHop struct {
	DEX            string  `json:"dex"`
	InputMint      string  `json:"input_mint"`
	OutputMint     string  `json:"output_mint"`
	PoolAddress    *string `json:"pool_address,omitempty"`
	ExpectedOutput uint64  `json:"expected_output"`
}

// DEXOrder 链上交易所订单，支持多跳路由与条件执行
// 路由非空时相邻两跳必须首尾相接（output_mint == 下一跳 input_mint）
type DEXOrder struct {
	ID           uint64  `json:"id"`
	StrategyID   uint64  `json:"strategy_id"`
	DEX          string  `json:"dex"`
	InputMint    string  `json:"input_mint"`
	OutputMint   string  `json:"output_mint"`
	InputAmount  uint64  `json:"input_amount"`
	OutputAmount uint64  `json:"output_amount"`
	SlippageBps  uint16  `json:"slippage_bps"`
	PriorityFee  uint64  `json:"priority_fee"`
	Status       string  `json:"status"`
	TxSignature  *string `json:"tx_signature,omitempty"`
	CreatedAt    uint64  `json:"created_at"`
	ExecutedAt   *uint64 `json:"executed_at,omitempty"`

	// 多跳路由
	RoutePath  []RouteHop `json:"route_path,omitempty"`
	IsMultiHop bool       `json:"is_multi_hop"`

	// 条件执行
	ConditionalTrigger *ConditionalTrigger `json:"conditional_trigger,omitempty"`
	ExecutionMode      string              `json:"execution_mode"`
	ExecuteAt          *uint64             `json:"execute_at,omitempty"` // scheduled 模式的执行时间
}

// IsFilled 是否已成交（终态）
func (o *DEXOrder) IsFilled() bool {
	return o.Status == OrderFilled
}
