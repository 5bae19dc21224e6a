package store

import (
	"cmp"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// persistable 表的持久化视角，Store 按固定顺序逐表落库
type persistable interface {
	Name() string
	Len() int
	load(p Persister) error
	commit(p Persister) error
}

// Table 内存实体表
// 读写只在命令执行期间发生，不加锁；脏键在 Commit 时按字典序落库
type Table[K cmp.Ordered, V any] struct {
	name      string
	data      map[K]V
	dirty     map[K]struct{}
	deleted   map[K]struct{}
	encodeKey func(K) string
	decodeKey func(string) (K, error)
}

// NewU64Table 创建 uint64 主键表
func NewU64Table[V any](name string) *Table[uint64, V] {
	return &Table[uint64, V]{
		name:    name,
		data:    make(map[uint64]V),
		dirty:   make(map[uint64]struct{}),
		deleted: make(map[uint64]struct{}),
		encodeKey: func(k uint64) string {
			return strconv.FormatUint(k, 10)
		},
		decodeKey: func(s string) (uint64, error) {
			return strconv.ParseUint(s, 10, 64)
		},
	}
}

// NewStrTable 创建字符串主键表
func NewStrTable[V any](name string) *Table[string, V] {
	return &Table[string, V]{
		name:      name,
		data:      make(map[string]V),
		dirty:     make(map[string]struct{}),
		deleted:   make(map[string]struct{}),
		encodeKey: func(k string) string { return k },
		decodeKey: func(s string) (string, error) { return s, nil },
	}
}

// Name 表名（持久化集合名）
func (t *Table[K, V]) Name() string {
	return t.name
}

// Get 按键读取
func (t *Table[K, V]) Get(key K) (V, bool) {
	v, ok := t.data[key]
	return v, ok
}

// Put 写入整个新值，覆盖旧值
func (t *Table[K, V]) Put(key K, value V) {
	t.data[key] = value
	t.dirty[key] = struct{}{}
	delete(t.deleted, key)
}

// Delete 删除键
func (t *Table[K, V]) Delete(key K) {
	if _, ok := t.data[key]; !ok {
		return
	}
	delete(t.data, key)
	delete(t.dirty, key)
	t.deleted[key] = struct{}{}
}

// Len 当前条目数
func (t *Table[K, V]) Len() int {
	return len(t.data)
}

// Keys 全部键，升序。扫描类命令依赖该顺序保证各副本遍历一致
func (t *Table[K, V]) Keys() []K {
	keys := make([]K, 0, len(t.data))
	for k := range t.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (t *Table[K, V]) load(p Persister) error {
	return p.LoadEntities(t.name, func(key string, value []byte) error {
		k, err := t.decodeKey(key)
		if err != nil {
			return fmt.Errorf("table %s: bad key %q: %w", t.name, key, err)
		}
		var v V
		if err = json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("table %s: decode key %q failed: %w", t.name, key, err)
		}
		t.data[k] = v
		return nil
	})
}

func (t *Table[K, V]) commit(p Persister) error {
	if len(t.dirty) == 0 && len(t.deleted) == 0 {
		return nil
	}

	dirty := make([]K, 0, len(t.dirty))
	for k := range t.dirty {
		dirty = append(dirty, k)
	}
	sort.Slice(dirty, func(i, j int) bool { return dirty[i] < dirty[j] })

	for _, k := range dirty {
		value, err := json.Marshal(t.data[k])
		if err != nil {
			return fmt.Errorf("table %s: encode key %v failed: %w", t.name, k, err)
		}
		if err = p.UpsertEntity(t.name, t.encodeKey(k), value); err != nil {
			return err
		}
	}

	removed := make([]K, 0, len(t.deleted))
	for k := range t.deleted {
		removed = append(removed, k)
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })

	for _, k := range removed {
		if err := p.DeleteEntity(t.name, t.encodeKey(k)); err != nil {
			return err
		}
	}

	t.dirty = make(map[K]struct{})
	t.deleted = make(map[K]struct{})
	return nil
}
