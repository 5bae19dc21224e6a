package store

import (
	"fmt"
	"sort"

	"github.com/utrading/utrading-trade-ledger/internal/ledger"
)

// 计数器名称，每种实体独立分配单调递增 ID
const (
	CounterSignal     = "signal_counter"
	CounterStrategy   = "strategy_counter"
	CounterOrder      = "order_counter"
	CounterDEXOrder   = "dex_order_counter"
	CounterMarket     = "market_counter"
	CounterMicrochain = "microchain_counter"
)

// Persister 后备存储接口，由 DAO 层实现
type Persister interface {
	UpsertEntity(collection, key string, value []byte) error
	DeleteEntity(collection, key string) error
	LoadEntities(collection string, fn func(key string, value []byte) error) error
	SetCounter(name string, value uint64) error
	LoadCounters() (map[string]uint64, error)
}

// Store 实体存储：类型化 KV 表 + 单调计数器
// 状态机执行期间独占访问；Commit 是每条命令之后唯一的持久化边界
type Store struct {
	Signals       *Table[uint64, ledger.Signal]
	Strategies    *Table[uint64, ledger.Strategy]
	Orders        *Table[uint64, ledger.Order]
	DEXOrders     *Table[uint64, ledger.DEXOrder]
	Followers     *Table[string, ledger.StrategyFollower] // "strategy_id:follower_id"
	Replications  *Table[uint64, ledger.TradeReplication] // 跟随者订单 ID
	SafetyConfigs *Table[string, ledger.SafetyConfig]     // owner
	Validations   *Table[uint64, ledger.ValidatedOrder]   // order ID
	Markets       *Table[uint64, ledger.PredictionMarket]
	MarketLinks   *Table[uint64, ledger.StrategyMarketLink] // strategy ID
	Versions      *Table[string, ledger.StrategyVersion]    // "strategy_id:version"
	Profiles      *Table[string, ledger.MicrochainProfile]  // wallet
	Observations  *Table[string, ledger.MarketObservation]  // "token:kind"

	counters      map[string]uint64
	dirtyCounters map[string]struct{}
	tables        []persistable
}

// New 创建空存储
func New() *Store {
	s := &Store{
		Signals:       NewU64Table[ledger.Signal]("signals"),
		Strategies:    NewU64Table[ledger.Strategy]("strategies"),
		Orders:        NewU64Table[ledger.Order]("orders"),
		DEXOrders:     NewU64Table[ledger.DEXOrder]("dex_orders"),
		Followers:     NewStrTable[ledger.StrategyFollower]("strategy_followers"),
		Replications:  NewU64Table[ledger.TradeReplication]("trade_replications"),
		SafetyConfigs: NewStrTable[ledger.SafetyConfig]("safety_configs"),
		Validations:   NewU64Table[ledger.ValidatedOrder]("validated_orders"),
		Markets:       NewU64Table[ledger.PredictionMarket]("prediction_markets"),
		MarketLinks:   NewU64Table[ledger.StrategyMarketLink]("strategy_market_links"),
		Versions:      NewStrTable[ledger.StrategyVersion]("strategy_versions"),
		Profiles:      NewStrTable[ledger.MicrochainProfile]("microchain_profiles"),
		Observations:  NewStrTable[ledger.MarketObservation]("market_observations"),
		counters:      make(map[string]uint64),
		dirtyCounters: make(map[string]struct{}),
	}

	s.tables = []persistable{
		s.Signals, s.Strategies, s.Orders, s.DEXOrders,
		s.Followers, s.Replications, s.SafetyConfigs, s.Validations,
		s.Markets, s.MarketLinks, s.Versions, s.Profiles, s.Observations,
	}

	return s
}

// Next 递增并返回计数器，首次分配返回 1
func (s *Store) Next(counter string) uint64 {
	s.counters[counter]++
	s.dirtyCounters[counter] = struct{}{}
	return s.counters[counter]
}

// Peek 读取计数器当前值，不递增
func (s *Store) Peek(counter string) uint64 {
	return s.counters[counter]
}

// Load 从后备存储恢复全部状态，启动时调用一次
func (s *Store) Load(p Persister) error {
	for _, t := range s.tables {
		if err := t.load(p); err != nil {
			return fmt.Errorf("load table %s failed: %w", t.Name(), err)
		}
	}

	counters, err := p.LoadCounters()
	if err != nil {
		return fmt.Errorf("load counters failed: %w", err)
	}
	for name, v := range counters {
		s.counters[name] = v
	}

	return nil
}

// Commit 将自上次提交以来的变更落库
// 单条命令的全部校验成功后才会调用；失败对该命令视为致命
func (s *Store) Commit(p Persister) error {
	for _, t := range s.tables {
		if err := t.commit(p); err != nil {
			return fmt.Errorf("commit table %s failed: %w", t.Name(), err)
		}
	}

	names := make([]string, 0, len(s.dirtyCounters))
	for name := range s.dirtyCounters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := p.SetCounter(name, s.counters[name]); err != nil {
			return fmt.Errorf("commit counter %s failed: %w", name, err)
		}
	}
	s.dirtyCounters = make(map[string]struct{})

	return nil
}

// Stats 各表条目数，供健康检查展示
func (s *Store) Stats() map[string]any {
	stats := make(map[string]any, len(s.tables))
	for _, t := range s.tables {
		stats[t.Name()] = t.Len()
	}
	return stats
}
