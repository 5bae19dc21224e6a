package dao

// Persister 基于 DAO 单例实现 store.Persister
type Persister struct{}

func NewPersister() *Persister {
	return &Persister{}
}

func (p *Persister) UpsertEntity(collection, key string, value []byte) error {
	return Entity().Upsert(collection, key, value)
}

func (p *Persister) DeleteEntity(collection, key string) error {
	return Entity().Delete(collection, key)
}

func (p *Persister) LoadEntities(collection string, fn func(key string, value []byte) error) error {
	return Entity().LoadAll(collection, fn)
}

func (p *Persister) SetCounter(name string, value uint64) error {
	return Counter().Set(name, value)
}

func (p *Persister) LoadCounters() (map[string]uint64, error) {
	return Counter().LoadAll()
}
