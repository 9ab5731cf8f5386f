package storage

import (
	"errors"
	"sync"
)

var errSetFailed = errors.New("storage: set failed")

// Memory implements Provider with an in-process map. Used in tests and as
// the fallback when durable storage cannot be opened.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailSets, when true, makes every Set return an error. Tests use this
	// to exercise the swallow-write-failures paths.
	FailSets bool
}

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	if m.FailSets {
		return errSetFailed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *Memory) Close() error { return nil }
