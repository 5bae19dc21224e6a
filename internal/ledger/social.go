package ledger

// StrategyFollower 策略跟随关系，键为 (strategy_id, follower_id)，取关即删除
type StrategyFollower struct {
	FollowerID           string  `json:"follower_id"`
	StrategyID           uint64  `json:"strategy_id"`
	AllocationPercentage float64 `json:"allocation_percentage"`
	MaxPositionSize      float64 `json:"max_position_size"`
	AutoFollow           bool    `json:"auto_follow"`
	FollowedAt           uint64  `json:"followed_at"`
}

// 跟单复制状态
const (
	ReplicationPending  = "pending"
	ReplicationExecuted = "executed"
	ReplicationFailed   = "failed"
	ReplicationSkipped  = "skipped"
)

// TradeReplication 跟单复制记录，与跟随者订单同一命令内创建
type TradeReplication struct {
	OriginalOrderID uint64  `json:"original_order_id"`
	FollowerOrderID uint64  `json:"follower_order_id"`
	FollowerID      string  `json:"follower_id"`
	ScaleFactor     float64 `json:"scale_factor"`
	Status          string  `json:"status"`
	Reason          string  `json:"reason,omitempty"` // failed/skipped 时的原因
}
