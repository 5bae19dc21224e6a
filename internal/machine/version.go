package machine

import (
	"github.com/utrading/utrading-trade-ledger/internal/event"
	"github.com/utrading/utrading-trade-ledger/internal/ledger"
)

// updateStrategy 更新策略：先快照当前版本入历史，再以新版本号落库
// 版本号每次恰好 +1；历史键 (strategy_id, 旧版本号)，只追加
func (m *Machine) updateStrategy(st ledger.Strategy, changeReason *string, ts uint64) []event.Event {
	current, ok := m.store.Strategies.Get(st.ID)
	if !ok {
		return nil
	}

	m.store.Versions.Put(versionKey(st.ID, current.Version), ledger.StrategyVersion{
		StrategyID:   st.ID,
		Version:      current.Version,
		Snapshot:     current,
		ChangedAt:    ts,
		ChangeReason: changeReason,
	})

	st.Version = current.Version + 1
	st.CreatedAt = current.CreatedAt
	updatedAt := ts
	st.UpdatedAt = &updatedAt
	m.store.Strategies.Put(st.ID, st)

	return []event.Event{{
		Type:      event.TypeStrategyUpdated,
		Timestamp: ts,
		Payload:   event.StrategyUpdated{StrategyID: st.ID, NewVersion: st.Version},
	}}
}
