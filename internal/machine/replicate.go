package machine

import (
	"math"

	"github.com/utrading/utrading-trade-ledger/internal/command"
	"github.com/utrading/utrading-trade-ledger/internal/event"
	"github.com/utrading/utrading-trade-ledger/internal/ledger"
	"github.com/utrading/utrading-trade-ledger/internal/store"
)

// replicateTrade 按比例复制已有订单给跟随者
// 复制订单与复制记录在同一条命令内原子创建；
// 比例必须为有限正数，否则整条命令静默拒绝
func (m *Machine) replicateTrade(p *command.ReplicateTrade, ts uint64) []event.Event {
	if p.ScaleFactor <= 0 || math.IsInf(p.ScaleFactor, 0) || math.IsNaN(p.ScaleFactor) {
		return nil
	}

	original, ok := m.store.Orders.Get(p.OriginalOrderID)
	if !ok {
		return nil
	}

	replica := original
	replica.ID = m.store.Next(store.CounterOrder)
	replica.Quantity = original.Quantity * p.ScaleFactor
	replica.CreatedAt = ts
	m.store.Orders.Put(replica.ID, replica)

	m.store.Replications.Put(replica.ID, ledger.TradeReplication{
		OriginalOrderID: p.OriginalOrderID,
		FollowerOrderID: replica.ID,
		FollowerID:      p.FollowerID,
		ScaleFactor:     p.ScaleFactor,
		Status:          ledger.ReplicationExecuted,
	})

	return []event.Event{{
		Type:      event.TypeTradeReplicated,
		Timestamp: ts,
		Payload: event.TradeReplicated{
			OriginalOrderID: p.OriginalOrderID,
			FollowerOrderID: replica.ID,
			FollowerID:      p.FollowerID,
		},
	}}
}
