package models

import "time"

// LedgerEntity 账本实体快照表
// 每个实体类型一个 collection，值为整实体的 JSON；内存表 Commit 时覆盖写入
type LedgerEntity struct {
	Collection string `gorm:"primaryKey;type:varchar(64);comment:实体集合名" json:"collection"`
	Key        string `gorm:"primaryKey;type:varchar(128);comment:实体主键" json:"key"`
	Value      string `gorm:"type:text;not null;comment:实体 JSON" json:"value"`

	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`
}

// TableName 指定表名
func (LedgerEntity) TableName() string {
	return "ledger_entities"
}
