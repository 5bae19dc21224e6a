package ledger

// Signal 推文解析出的交易信号
// confidence 必须在 [0,1] 内，越界的信号在分配 ID 前被丢弃
type Signal struct {
	ID         uint64  `json:"id"`
	Influencer string  `json:"influencer"`
	Token      string  `json:"token"`
	Contract   string  `json:"contract"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Timestamp  uint64  `json:"timestamp"`
	TweetURL   string  `json:"tweet_url"`

	// 可选的执行提示
	EntryPrice   *float64 `json:"entry_price,omitempty"`
	StopLoss     *float64 `json:"stop_loss,omitempty"`
	TakeProfit   *float64 `json:"take_profit,omitempty"`
	PositionSize *float64 `json:"position_size,omitempty"`
	Leverage     *uint8   `json:"leverage,omitempty"`
	Platform     *string  `json:"platform,omitempty"` // DEX / CEX
}

// ValidConfidence 检查置信度是否在合法区间
func (s *Signal) ValidConfidence() bool {
	return s.Confidence >= 0.0 && s.Confidence <= 1.0
}
