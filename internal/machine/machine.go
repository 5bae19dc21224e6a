package machine

import (
	"fmt"

	"github.com/utrading/utrading-trade-ledger/internal/command"
	"github.com/utrading/utrading-trade-ledger/internal/event"
	"github.com/utrading/utrading-trade-ledger/internal/ledger"
	"github.com/utrading/utrading-trade-ledger/internal/store"
)

// Machine 命令状态机
// 自身无状态，所有状态都在 Store；同一命令序列在任意副本上重放产生
// 完全一致的状态与事件。被拒绝的输入和悬空引用一律静默忽略：
// 副本不能因为攻击者构造的 ID 而产生分歧
type Machine struct {
	store *store.Store
}

// New 创建状态机
func New(st *store.Store) *Machine {
	return &Machine{store: st}
}

// Store 暴露底层存储给只读查询层
func (m *Machine) Store() *store.Store {
	return m.store
}

// Apply 应用一条命令，返回本次接受的状态迁移产生的事件
// 返回 nil 表示命令是无操作（未知类型、校验失败或引用缺失），
// 绝不返回错误：错误语义对确定性账本没有意义
func (m *Machine) Apply(cmd *command.Command) []event.Event {
	if cmd == nil {
		return nil
	}

	ts := cmd.Timestamp

	switch p := cmd.Payload.(type) {
	case *command.SubmitSignal:
		return m.submitSignal(p.Signal, ts)
	case *command.CreateStrategy:
		return m.createStrategy(p.Strategy, ts)
	case *command.ActivateStrategy:
		return m.setStrategyActive(p.StrategyID, true, ts)
	case *command.DeactivateStrategy:
		return m.setStrategyActive(p.StrategyID, false, ts)
	case *command.CreateOrder:
		return m.createOrder(p.Order, ts)
	case *command.RecordOrderFill:
		return m.recordOrderFill(p, ts)
	case *command.CreateDEXOrder:
		return m.createDEXOrder(p.Order, ts, false)
	case *command.CreateMultiHopOrder:
		return m.createDEXOrder(p.Order, ts, true)
	case *command.ExecuteDEXOrder:
		return m.executeDEXOrder(p, ts)
	case *command.FollowStrategy:
		return m.followStrategy(p, cmd.Signer, ts)
	case *command.UnfollowStrategy:
		return m.unfollowStrategy(p.StrategyID, cmd.Signer, ts)
	case *command.ReplicateTrade:
		return m.replicateTrade(p, ts)
	case *command.CreateSafetyConfig:
		return m.putSafetyConfig(p.Config, event.TypeSafetyConfigCreated, ts)
	case *command.UpdateSafetyConfig:
		return m.putSafetyConfig(p.Config, event.TypeSafetyConfigUpdated, ts)
	case *command.ValidateOrder:
		return m.validateOrder(p.OrderID, cmd.Signer, ts)
	case *command.CreatePredictionMarket:
		return m.createPredictionMarket(p.Market, ts)
	case *command.UpdateMarketProbability:
		return m.updateMarketProbability(p.MarketID, p.Probability, ts)
	case *command.ResolvePredictionMarket:
		return m.resolvePredictionMarket(p.MarketID, p.Outcome, ts)
	case *command.LinkStrategyToMarket:
		return m.linkStrategyToMarket(p.Link, ts)
	case *command.UpdateStrategy:
		return m.updateStrategy(p.Strategy, p.ChangeReason, ts)
	case *command.CheckConditionalOrders:
		return m.checkConditionalOrders(ts)
	case *command.TriggerConditionalOrder:
		return m.triggerConditionalOrder(p.OrderID, ts)
	case *command.CancelConditionalOrder:
		return m.cancelConditionalOrder(p.OrderID, ts)
	case *command.CreateMicrochainProfile:
		return m.createMicrochainProfile(p, ts)
	case *command.RecordMarketObservation:
		return m.recordMarketObservation(p, ts)
	case *command.RecordTradeOutcome:
		return m.recordTradeOutcome(p, ts)
	default:
		return nil
	}
}

func (m *Machine) submitSignal(sig ledger.Signal, ts uint64) []event.Event {
	if !sig.ValidConfidence() {
		return nil
	}

	sig.ID = m.store.Next(store.CounterSignal)
	m.store.Signals.Put(sig.ID, sig)

	return []event.Event{{
		Type:      event.TypeSignalReceived,
		Timestamp: ts,
		Payload:   event.SignalReceived{Signal: sig},
	}}
}

func (m *Machine) createStrategy(st ledger.Strategy, ts uint64) []event.Event {
	st.ID = m.store.Next(store.CounterStrategy)
	st.Version = 1
	st.CreatedAt = ts
	m.store.Strategies.Put(st.ID, st)

	return []event.Event{{
		Type:      event.TypeStrategyCreated,
		Timestamp: ts,
		Payload:   event.StrategyCreated{StrategyID: st.ID, Owner: st.Owner},
	}}
}

func (m *Machine) setStrategyActive(strategyID uint64, active bool, ts uint64) []event.Event {
	st, ok := m.store.Strategies.Get(strategyID)
	if !ok {
		return nil
	}

	st.Active = active
	m.store.Strategies.Put(strategyID, st)

	if active {
		return []event.Event{{
			Type:      event.TypeStrategyActivated,
			Timestamp: ts,
			Payload:   event.StrategyActivated{StrategyID: strategyID},
		}}
	}
	return []event.Event{{
		Type:      event.TypeStrategyDeactivated,
		Timestamp: ts,
		Payload:   event.StrategyDeactivated{StrategyID: strategyID},
	}}
}

func (m *Machine) createOrder(order ledger.Order, ts uint64) []event.Event {
	order.ID = m.store.Next(store.CounterOrder)
	order.CreatedAt = ts
	if order.Status == "" {
		order.Status = ledger.OrderPending
	}
	m.store.Orders.Put(order.ID, order)

	return []event.Event{{
		Type:      event.TypeOrderCreated,
		Timestamp: ts,
		Payload:   event.OrderCreated{Order: order},
	}}
}

func (m *Machine) recordOrderFill(p *command.RecordOrderFill, ts uint64) []event.Event {
	order, ok := m.store.Orders.Get(p.OrderID)
	if !ok || order.IsFilled() {
		// 重复成交是静默无操作，保留首次成交数据
		return nil
	}

	order.Status = ledger.OrderFilled
	order.TxHash = &p.TxHash
	order.FillPrice = &p.FillPrice
	filledAt := p.FilledAt
	order.FilledAt = &filledAt
	m.store.Orders.Put(p.OrderID, order)

	return []event.Event{{
		Type:      event.TypeOrderFilled,
		Timestamp: ts,
		Payload:   event.OrderFilled{OrderID: p.OrderID, TxHash: p.TxHash, FillPrice: p.FillPrice},
	}}
}

func (m *Machine) executeDEXOrder(p *command.ExecuteDEXOrder, ts uint64) []event.Event {
	order, ok := m.store.DEXOrders.Get(p.OrderID)
	if !ok || order.IsFilled() {
		return nil
	}

	order.Status = ledger.OrderFilled
	order.TxSignature = &p.TxSignature
	executedAt := ts
	order.ExecutedAt = &executedAt
	m.store.DEXOrders.Put(p.OrderID, order)

	return []event.Event{{
		Type:      event.TypeDEXOrderExecuted,
		Timestamp: ts,
		Payload: event.DEXOrderExecuted{
			OrderID:      p.OrderID,
			TxSignature:  p.TxSignature,
			OutputAmount: order.OutputAmount,
		},
	}}
}

func (m *Machine) followStrategy(p *command.FollowStrategy, signer string, ts uint64) []event.Event {
	follower := ledger.StrategyFollower{
		FollowerID:           signer,
		StrategyID:           p.StrategyID,
		AllocationPercentage: p.AllocationPercentage,
		MaxPositionSize:      p.MaxPositionSize,
		AutoFollow:           p.AutoFollow,
		FollowedAt:           ts,
	}
	m.store.Followers.Put(followerKey(p.StrategyID, signer), follower)

	return []event.Event{{
		Type:      event.TypeStrategyFollowed,
		Timestamp: ts,
		Payload:   event.StrategyFollowed{StrategyID: p.StrategyID, FollowerID: signer},
	}}
}

func (m *Machine) unfollowStrategy(strategyID uint64, signer string, ts uint64) []event.Event {
	m.store.Followers.Delete(followerKey(strategyID, signer))

	return []event.Event{{
		Type:      event.TypeStrategyUnfollowed,
		Timestamp: ts,
		Payload:   event.StrategyUnfollowed{StrategyID: strategyID, FollowerID: signer},
	}}
}

func (m *Machine) putSafetyConfig(cfg ledger.SafetyConfig, eventType string, ts uint64) []event.Event {
	m.store.SafetyConfigs.Put(cfg.Owner, cfg)

	var payload any
	if eventType == event.TypeSafetyConfigCreated {
		payload = event.SafetyConfigCreated{Owner: cfg.Owner}
	} else {
		payload = event.SafetyConfigUpdated{Owner: cfg.Owner}
	}

	return []event.Event{{Type: eventType, Timestamp: ts, Payload: payload}}
}

func (m *Machine) createPredictionMarket(market ledger.PredictionMarket, ts uint64) []event.Event {
	market.ID = m.store.Next(store.CounterMarket)
	market.CreatedAt = ts
	market.Outcome = nil
	market.ResolvedAt = nil
	m.store.Markets.Put(market.ID, market)

	return []event.Event{{
		Type:      event.TypePredictionMarketCreated,
		Timestamp: ts,
		Payload:   event.PredictionMarketCreated{MarketID: market.ID, Question: market.Question},
	}}
}

func (m *Machine) updateMarketProbability(marketID uint64, probability float64, ts uint64) []event.Event {
	market, ok := m.store.Markets.Get(marketID)
	if !ok {
		return nil
	}

	market.Probability = probability
	m.store.Markets.Put(marketID, market)

	events := []event.Event{{
		Type:      event.TypeMarketProbabilityUpdated,
		Timestamp: ts,
		Payload:   event.MarketProbabilityUpdated{MarketID: marketID, Probability: probability},
	}}

	// 概率更新后扫描关联策略
	return append(events, m.checkStrategyTriggers(marketID, probability, ts)...)
}

func (m *Machine) resolvePredictionMarket(marketID uint64, outcome bool, ts uint64) []event.Event {
	market, ok := m.store.Markets.Get(marketID)
	if !ok || market.Outcome != nil {
		// 结果只能落定一次
		return nil
	}

	market.Outcome = &outcome
	resolvedAt := ts
	market.ResolvedAt = &resolvedAt
	m.store.Markets.Put(marketID, market)

	return []event.Event{{
		Type:      event.TypePredictionMarketResolved,
		Timestamp: ts,
		Payload:   event.PredictionMarketResolved{MarketID: marketID, Outcome: outcome},
	}}
}

func (m *Machine) linkStrategyToMarket(link ledger.StrategyMarketLink, ts uint64) []event.Event {
	m.store.MarketLinks.Put(link.StrategyID, link)

	return []event.Event{{
		Type:      event.TypeStrategyLinkedToMarket,
		Timestamp: ts,
		Payload:   event.StrategyLinkedToMarket{StrategyID: link.StrategyID, MarketID: link.MarketID},
	}}
}

func (m *Machine) createMicrochainProfile(p *command.CreateMicrochainProfile, ts uint64) []event.Event {
	profile := ledger.MicrochainProfile{
		Wallet:          p.Wallet,
		Name:            p.Name,
		Wallets:         []string{p.Wallet},
		PreferredChains: p.Chains,
		Visibility:      p.Visibility,
		CreatedAt:       ts,
	}
	m.store.Profiles.Put(p.Wallet, profile)
	m.store.Next(store.CounterMicrochain)

	return []event.Event{{
		Type:      event.TypeMicrochainProfileCreated,
		Timestamp: ts,
		Payload:   event.MicrochainProfileCreated{Wallet: p.Wallet, Name: p.Name},
	}}
}

func (m *Machine) recordMarketObservation(p *command.RecordMarketObservation, ts uint64) []event.Event {
	if p.Token == "" {
		return nil
	}
	if p.Kind != ledger.ObservationPrice && p.Kind != ledger.ObservationVolume {
		return nil
	}

	m.store.Observations.Put(observationKey(p.Token, p.Kind), ledger.MarketObservation{
		Token:      p.Token,
		Kind:       p.Kind,
		Value:      p.Value,
		ObservedAt: ts,
	})

	return []event.Event{{
		Type:      event.TypeMarketObservationRecorded,
		Timestamp: ts,
		Payload:   event.MarketObservationRecorded{Token: p.Token, Kind: p.Kind, Value: p.Value},
	}}
}

func (m *Machine) recordTradeOutcome(p *command.RecordTradeOutcome, ts uint64) []event.Event {
	profile, ok := m.store.Profiles.Get(p.Wallet)
	if !ok {
		return nil
	}

	profile.TotalTrades++
	if p.Win {
		profile.WinningTrades++
	}
	profile.TotalVolume += p.Volume
	profile.TotalPnl += p.Pnl
	m.store.Profiles.Put(p.Wallet, profile)

	return []event.Event{{
		Type:      event.TypeTradeOutcomeRecorded,
		Timestamp: ts,
		Payload:   event.TradeOutcomeRecorded{Wallet: p.Wallet, Volume: p.Volume, Pnl: p.Pnl, Win: p.Win},
	}}
}

// followerKey 跟随关系主键
func followerKey(strategyID uint64, followerID string) string {
	return fmt.Sprintf("%d:%s", strategyID, followerID)
}

// versionKey 策略历史版本主键
func versionKey(strategyID, version uint64) string {
	return fmt.Sprintf("%d:%d", strategyID, version)
}

// observationKey 行情观测主键
func observationKey(token, kind string) string {
	return token + ":" + kind
}
