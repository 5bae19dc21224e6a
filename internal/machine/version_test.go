package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utrading/utrading-trade-ledger/internal/command"
	"github.com/utrading/utrading-trade-ledger/internal/ledger"
)

// TestUpdateStrategy_VersionHistory 测试版本号递增与历史快照
func TestUpdateStrategy_VersionHistory(t *testing.T) {
	m := newTestMachine()
	apply(m, command.TypeCreateStrategy, "alice", 100, &command.CreateStrategy{
		Strategy: ledger.Strategy{Owner: "alice", Name: "v1-name", RiskPercentage: 1},
	})

	reason := "raise risk"
	apply(m, command.TypeUpdateStrategy, "alice", 200, &command.UpdateStrategy{
		Strategy:     ledger.Strategy{ID: 1, Owner: "alice", Name: "v2-name", RiskPercentage: 2},
		ChangeReason: &reason,
	})
	apply(m, command.TypeUpdateStrategy, "alice", 300, &command.UpdateStrategy{
		Strategy: ledger.Strategy{ID: 1, Owner: "alice", Name: "v3-name", RiskPercentage: 3},
	})

	// 两次更新后当前版本为 3
	st, ok := m.Store().Strategies.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint64(3), st.Version)
	assert.Equal(t, "v3-name", st.Name)
	assert.Equal(t, uint64(100), st.CreatedAt) // 创建时间保留
	require.NotNil(t, st.UpdatedAt)
	assert.Equal(t, uint64(300), *st.UpdatedAt)

	// 历史中恰好两个快照
	assert.Equal(t, 2, m.Store().Versions.Len())

	snap1, ok := m.Store().Versions.Get("1:1")
	require.True(t, ok)
	assert.Equal(t, "v1-name", snap1.Snapshot.Name)
	assert.Equal(t, uint64(1), snap1.Version)
	require.NotNil(t, snap1.ChangeReason)
	assert.Equal(t, "raise risk", *snap1.ChangeReason)

	snap2, ok := m.Store().Versions.Get("1:2")
	require.True(t, ok)
	assert.Equal(t, "v2-name", snap2.Snapshot.Name)
	assert.Nil(t, snap2.ChangeReason)
}

// TestUpdateStrategy_MissingStrategy 测试更新不存在的策略
func TestUpdateStrategy_MissingStrategy(t *testing.T) {
	m := newTestMachine()

	events := apply(m, command.TypeUpdateStrategy, "alice", 1, &command.UpdateStrategy{
		Strategy: ledger.Strategy{ID: 42, Name: "ghost"},
	})
	assert.Nil(t, events)
	assert.Equal(t, 0, m.Store().Versions.Len())
}
