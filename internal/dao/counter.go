package dao

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/utrading/utrading-trade-ledger/internal/models"
)

type CounterDAO struct {
	db *gorm.DB
}

var _counter = &CounterDAO{}

func InitCounterDAO(db *gorm.DB) {
	_counter.db = db
}

// Counter 获取 CounterDAO 单例
func Counter() *CounterDAO {
	return _counter
}

// Set 写入计数器当前值
func (d *CounterDAO) Set(name string, value uint64) error {
	return d.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value", "updated_at",
		}),
	}).Create(&models.LedgerCounter{
		Name:  name,
		Value: value,
	}).Error
}

// LoadAll 加载全部计数器
func (d *CounterDAO) LoadAll() (map[string]uint64, error) {
	var rows []*models.LedgerCounter
	if err := d.db.Find(&rows).Error; err != nil {
		return nil, err
	}

	counters := make(map[string]uint64, len(rows))
	for _, row := range rows {
		counters[row.Name] = row.Value
	}

	return counters, nil
}
