package settings

// MemoryStore keeps settings for the lifetime of the process only.
type MemoryStore struct {
	values map[string]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]float64)}
}

func (m *MemoryStore) Float(key string) (float64, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) SetFloat(key string, value float64) error {
	if m.values == nil {
		m.values = make(map[string]float64)
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Flush() error {
	return nil
}
