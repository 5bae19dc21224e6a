package query

import (
	"fmt"

	"github.com/utrading/utrading-trade-ledger/internal/ledger"
	"github.com/utrading/utrading-trade-ledger/internal/machine"
	"github.com/utrading/utrading-trade-ledger/internal/store"
)

// Service 只读查询层
// 分页从最新的 ID 向旧方向遍历：limit/offset 都以最新条目为原点。
// 查询在命令间隙运行，绝不与命令执行交错
type Service struct {
	store *store.Store
}

// New 创建查询服务
func New(m *machine.Machine) *Service {
	return &Service{store: m.Store()}
}

// pageDesc 从 counter-offset 开始向下取最多 limit 个命中
// 被拒绝的创建不占 ID，但计数器只在接受时递增，点查缺失直接跳过
func pageDesc[V any](t *store.Table[uint64, V], counter uint64, limit, offset int, keep func(V) bool) []V {
	if limit <= 0 || offset < 0 || uint64(offset) >= counter {
		return []V{}
	}
	out := make([]V, 0, limit)

	for id := counter - uint64(offset); id >= 1 && len(out) < limit; id-- {
		v, ok := t.Get(id)
		if !ok || (keep != nil && !keep(v)) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Signals 信号列表，新→旧
func (s *Service) Signals(limit, offset int) []ledger.Signal {
	return pageDesc(s.store.Signals, s.store.Peek(store.CounterSignal), limit, offset, nil)
}

// Signal 按 ID 取信号
func (s *Service) Signal(id uint64) (ledger.Signal, bool) {
	return s.store.Signals.Get(id)
}

// Strategies 策略列表，owner 非空时过滤
func (s *Service) Strategies(owner string, limit, offset int) []ledger.Strategy {
	var keep func(ledger.Strategy) bool
	if owner != "" {
		keep = func(st ledger.Strategy) bool { return st.Owner == owner }
	}
	return pageDesc(s.store.Strategies, s.store.Peek(store.CounterStrategy), limit, offset, keep)
}

// Strategy 按 ID 取策略
func (s *Service) Strategy(id uint64) (ledger.Strategy, bool) {
	return s.store.Strategies.Get(id)
}

// Orders 订单列表，可按策略与状态过滤
func (s *Service) Orders(strategyID uint64, status string, limit, offset int) []ledger.Order {
	var keep func(ledger.Order) bool
	if strategyID != 0 || status != "" {
		keep = func(o ledger.Order) bool {
			if strategyID != 0 && o.StrategyID != strategyID {
				return false
			}
			if status != "" && o.Status != status {
				return false
			}
			return true
		}
	}
	return pageDesc(s.store.Orders, s.store.Peek(store.CounterOrder), limit, offset, keep)
}

// Order 按 ID 取订单
func (s *Service) Order(id uint64) (ledger.Order, bool) {
	return s.store.Orders.Get(id)
}

// DEXOrder 按 ID 取 DEX 订单
func (s *Service) DEXOrder(id uint64) (ledger.DEXOrder, bool) {
	return s.store.DEXOrders.Get(id)
}

// DEXOrders DEX 订单列表，新→旧
func (s *Service) DEXOrders(limit, offset int) []ledger.DEXOrder {
	return pageDesc(s.store.DEXOrders, s.store.Peek(store.CounterDEXOrder), limit, offset, nil)
}

// SafetyConfig 按 owner 取安全配置
func (s *Service) SafetyConfig(owner string) (ledger.SafetyConfig, bool) {
	return s.store.SafetyConfigs.Get(owner)
}

// OrderValidation 按订单 ID 取校验记录
func (s *Service) OrderValidation(orderID uint64) (ledger.ValidatedOrder, bool) {
	return s.store.Validations.Get(orderID)
}

// PredictionMarkets 预测市场列表，新→旧
func (s *Service) PredictionMarkets(limit, offset int) []ledger.PredictionMarket {
	return pageDesc(s.store.Markets, s.store.Peek(store.CounterMarket), limit, offset, nil)
}

// PredictionMarket 按 ID 取预测市场
func (s *Service) PredictionMarket(id uint64) (ledger.PredictionMarket, bool) {
	return s.store.Markets.Get(id)
}

// StrategyMarketLinks 策略的市场关联（当前模型每策略至多一条）
func (s *Service) StrategyMarketLinks(strategyID uint64) []ledger.StrategyMarketLink {
	if link, ok := s.store.MarketLinks.Get(strategyID); ok {
		return []ledger.StrategyMarketLink{link}
	}
	return nil
}

// StrategyVersions 重建策略的完整版本序列 1..=当前版本
// 逐点查找，缺失的中间版本跳过而非报错
func (s *Service) StrategyVersions(strategyID uint64) []ledger.StrategyVersion {
	current, ok := s.store.Strategies.Get(strategyID)
	if !ok {
		return nil
	}

	var versions []ledger.StrategyVersion
	for v := uint64(1); v <= current.Version; v++ {
		if entry, ok := s.store.Versions.Get(versionKey(strategyID, v)); ok {
			versions = append(versions, entry)
		}
	}
	return versions
}

// MicrochainProfile 按钱包取微链档案
func (s *Service) MicrochainProfile(wallet string) (ledger.MicrochainProfile, bool) {
	return s.store.Profiles.Get(wallet)
}

// versionKey 与状态机一致的历史版本主键格式
func versionKey(strategyID, version uint64) string {
	return fmt.Sprintf("%d:%d", strategyID, version)
}
