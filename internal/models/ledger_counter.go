package models

import "time"

// LedgerCounter 单调 ID 计数器表
type LedgerCounter struct {
	Name  string `gorm:"primaryKey;type:varchar(64);comment:计数器名" json:"name"`
	Value uint64 `gorm:"not null;default:0;comment:当前值" json:"value"`

	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`
}

// TableName 指定表名
func (LedgerCounter) TableName() string {
	return "ledger_counters"
}
