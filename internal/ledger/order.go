package ledger

// 订单状态
const (
	OrderPending   = "pending"
	OrderSubmitted = "submitted"
	OrderFilled    = "filled"
	OrderFailed    = "failed"
	OrderCancelled = "cancelled"
)

// Order 普通交易订单
// 状态只能从 pending/submitted 迁移到 filled 一次，filled 为终态
type Order struct {
	ID         uint64   `json:"id"`
	StrategyID uint64   `json:"strategy_id"`
	SignalID   uint64   `json:"signal_id"`
	OrderType  string   `json:"order_type"` // buy/sell
	Token      string   `json:"token"`
	Quantity   float64  `json:"quantity"`
	Status     string   `json:"status"`
	TxHash     *string  `json:"tx_hash,omitempty"`
	FillPrice  *float64 `json:"fill_price,omitempty"`
	CreatedAt  uint64   `json:"created_at"`
	FilledAt   *uint64  `json:"filled_at,omitempty"`
}

// IsFilled 是否已成交（终态）
func (o *Order) IsFilled() bool {
	return o.Status == OrderFilled
}
