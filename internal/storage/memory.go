package storage

import "sync"

// MemoryHighScore keeps the high score in memory only. The zero value is ready to use.
type MemoryHighScore struct {
	mu    sync.Mutex
	value int
}

// Get returns the current value.
func (m *MemoryHighScore) Get() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

// Set raises the current value; a lower value is ignored.
func (m *MemoryHighScore) Set(value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = max(m.value, value)
	return nil
}
