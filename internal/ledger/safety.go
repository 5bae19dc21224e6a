package ledger

// SafetyConfig 风控安全配置，按 owner 存储，后写覆盖
type SafetyConfig struct {
	Owner string `json:"owner"`

	MaxPositionPerToken float64 `json:"max_position_per_token"` // 单币种最大仓位（USD）
	MaxTotalExposure    float64 `json:"max_total_exposure"`     // 最大总敞口（USD）
	MaxSlippageBps      uint16  `json:"max_slippage_bps"`       // 最大允许滑点，基点
	MaxLossPercentage   float64 `json:"max_loss_percentage"`    // 触发保险的最大亏损比例
	RequireStopLoss     bool    `json:"require_stop_loss"`      // 是否强制止损
	FailSafeEnabled     bool    `json:"fail_safe_enabled"`      // 是否启用自动回退
	MinBalanceRequired  float64 `json:"min_balance_required"`   // 执行前最低余额
}

// 校验结论
const (
	ValidationApproved = "approved"
	ValidationRejected = "rejected"
)

// ValidatedOrder 订单安全校验记录，重复校验覆盖旧记录
type ValidatedOrder struct {
	OrderID      uint64   `json:"order_id"`
	Status       string   `json:"status"`
	Reason       string   `json:"reason,omitempty"` // rejected 时的原因
	ChecksPassed []string `json:"checks_passed"`
	ChecksFailed []string `json:"checks_failed"`
	ValidatedAt  uint64   `json:"validated_at"`
}
