package models

import "time"

// LedgerEvent 事件归档表，只追加
// 领域事件发布到 NATS 之后批量落库，供审计回查；过期由 cleaner 清理
type LedgerEvent struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Type      string `gorm:"type:varchar(64);not null;index:idx_type;comment:事件类型" json:"type"`
	Timestamp uint64 `gorm:"not null;comment:命令时间戳(微秒)" json:"timestamp"`
	Payload   string `gorm:"type:text;not null;comment:事件 JSON" json:"payload"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_created;comment:入库时间" json:"created_at"`
}

// TableName 指定表名
func (LedgerEvent) TableName() string {
	return "ledger_events"
}
