package drafts

import (
	"context"
	"sync"
)

// Memory keeps drafts in process memory. Payloads are stored encoded so the
// behaviour matches the other adapters.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Load implements Store.
func (m *Memory) Load(ctx context.Context, formID string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := checkFormID(formID)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	raw := m.data[Key(id)]
	m.mu.RUnlock()
	return decode(raw)
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, formID string, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := checkFormID(formID)
	if err != nil {
		return err
	}
	compact := Compact(values)
	if compact == nil {
		return m.Clear(ctx, id)
	}
	raw, err := encode(compact)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[Key(id)] = raw
	m.mu.Unlock()
	return nil
}

// Clear implements Store.
func (m *Memory) Clear(ctx context.Context, formID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := checkFormID(formID)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.data, Key(id))
	m.mu.Unlock()
	return nil
}
