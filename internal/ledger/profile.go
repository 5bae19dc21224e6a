package ledger

// MicrochainProfile 微链档案，按钱包地址存储
// 业绩计数器只增不减，total_pnl 可为负
type MicrochainProfile struct {
	Wallet          string   `json:"wallet"`
	Name            string   `json:"name"`
	Wallets         []string `json:"wallets"`
	PreferredChains []string `json:"preferred_chains"`
	Visibility      string   `json:"visibility"`
	CreatedAt       uint64   `json:"created_at"`

	// 业绩统计
	TotalTrades   uint64 `json:"total_trades"`
	WinningTrades uint64 `json:"winning_trades"`
	TotalVolume   uint64 `json:"total_volume"`
	TotalPnl      int64  `json:"total_pnl"`
}

// WinRate 胜率，无交易时为 0
func (p *MicrochainProfile) WinRate() float64 {
	if p.TotalTrades == 0 {
		return 0
	}
	return float64(p.WinningTrades) / float64(p.TotalTrades)
}
