package query

import (
	"sort"

	"github.com/utrading/utrading-trade-ledger/internal/ledger"
	"github.com/utrading/utrading-trade-ledger/internal/store"
)

const leaderboardSize = 10

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Wallet  string  `json:"wallet"`
	Name    string  `json:"name"`
	WinRate float64 `json:"win_rate"`
	ROI     float64 `json:"roi"`
	Trades  uint64  `json:"trades"`
	Volume  uint64  `json:"volume"`
	Chain   string  `json:"chain"`
}

// NetworkAnalytics 全网汇总统计
type NetworkAnalytics struct {
	TotalMicrochains uint64             `json:"total_microchains"`
	TotalStrategies  uint64             `json:"total_strategies"`
	TotalVolume      uint64             `json:"total_volume"`
	ActiveTrades     uint64             `json:"active_trades"`
	Leaderboard      []LeaderboardEntry `json:"leaderboard"`
}

// Analytics 汇总全网统计与档案排行榜
// 排行按胜率降序，并列时按钱包字典序，取前 10
func (s *Service) Analytics() NetworkAnalytics {
	out := NetworkAnalytics{
		TotalMicrochains: s.store.Peek(store.CounterMicrochain),
		TotalStrategies:  s.store.Peek(store.CounterStrategy),
	}

	for _, id := range s.store.Orders.Keys() {
		order, _ := s.store.Orders.Get(id)
		if !order.IsFilled() && order.Status != ledger.OrderCancelled && order.Status != ledger.OrderFailed {
			out.ActiveTrades++
		}
	}

	entries := make([]LeaderboardEntry, 0, s.store.Profiles.Len())
	for _, wallet := range s.store.Profiles.Keys() {
		profile, _ := s.store.Profiles.Get(wallet)
		out.TotalVolume += profile.TotalVolume

		entry := LeaderboardEntry{
			Wallet:  wallet,
			Name:    profile.Name,
			WinRate: profile.WinRate(),
			Trades:  profile.TotalTrades,
			Volume:  profile.TotalVolume,
		}
		if profile.TotalVolume > 0 {
			entry.ROI = float64(profile.TotalPnl) / float64(profile.TotalVolume)
		}
		if len(profile.PreferredChains) > 0 {
			entry.Chain = profile.PreferredChains[0]
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].WinRate != entries[j].WinRate {
			return entries[i].WinRate > entries[j].WinRate
		}
		return entries[i].Wallet < entries[j].Wallet
	})
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	out.Leaderboard = entries

	return out
}
