package dao

import (
	"time"

	"gorm.io/gorm"

	"github.com/utrading/utrading-trade-ledger/internal/models"
)

type EventDAO struct {
	db *gorm.DB
}

var _event = &EventDAO{}

func InitEventDAO(db *gorm.DB) {
	_event.db = db
}

// Event 获取 EventDAO 单例
func Event() *EventDAO {
	return _event
}

// BatchInsert 批量归档事件
func (d *EventDAO) BatchInsert(events []*models.LedgerEvent) error {
	if len(events) == 0 {
		return nil
	}
	return d.db.CreateInBatches(events, 100).Error
}

// DeleteBefore 删除指定时间之前的归档事件，返回删除行数
func (d *EventDAO) DeleteBefore(before time.Time) (int64, error) {
	result := d.db.
		Where("created_at < ?", before).
		Delete(&models.LedgerEvent{})
	return result.RowsAffected, result.Error
}

// CountAll 归档事件总数
func (d *EventDAO) CountAll() (int64, error) {
	var count int64
	err := d.db.Model(&models.LedgerEvent{}).Count(&count).Error
	return count, err
}
