package dao

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/utrading/utrading-trade-ledger/internal/models"
)

type EntityDAO struct {
	db *gorm.DB
}

var _entity = &EntityDAO{}

func InitEntityDAO(db *gorm.DB) {
	_entity.db = db
}

// Entity 获取 EntityDAO 单例
func Entity() *EntityDAO {
	return _entity
}

// Upsert 写入或覆盖实体快照
func (d *EntityDAO) Upsert(collection, key string, value []byte) error {
	return d.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "collection"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value", "updated_at",
		}),
	}).Create(&models.LedgerEntity{
		Collection: collection,
		Key:        key,
		Value:      string(value),
	}).Error
}

// Delete 删除实体快照
func (d *EntityDAO) Delete(collection, key string) error {
	return d.db.
		Where("collection = ? AND `key` = ?", collection, key).
		Delete(&models.LedgerEntity{}).Error
}

// LoadAll 按 key 升序遍历集合内全部实体
func (d *EntityDAO) LoadAll(collection string, fn func(key string, value []byte) error) error {
	var rows []*models.LedgerEntity
	err := d.db.
		Where("collection = ?", collection).
		Order("`key` ASC").
		Find(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		if err = fn(row.Key, []byte(row.Value)); err != nil {
			return err
		}
	}

	return nil
}
