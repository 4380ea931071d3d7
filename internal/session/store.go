package session

import (
	"context"
	"encoding/json"
	"sync"
)

// Store persists one UserSession per session id. Load returns ErrNoSession
// when nothing usable is stored, including content that no longer decodes.
type Store interface {
	Load(ctx context.Context, sid string) (UserSession, error)
	Save(ctx context.Context, sid string, s UserSession) error
	Clear(ctx context.Context, sid string) error
}

// MemoryStore keeps sessions in process memory as serialized JSON, the same
// shape RedisStore writes.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, sid string) (UserSession, error) {
	m.mu.RLock()
	raw, ok := m.data[sid]
	m.mu.RUnlock()
	if !ok {
		return UserSession{}, ErrNoSession
	}
	return decode(raw)
}

func (m *MemoryStore) Save(_ context.Context, sid string, s UserSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[sid] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	delete(m.data, sid)
	m.mu.Unlock()
	return nil
}

// putRaw stores bytes verbatim. Tests use it to plant corrupted content.
func (m *MemoryStore) putRaw(sid string, raw []byte) {
	m.mu.Lock()
	m.data[sid] = raw
	m.mu.Unlock()
}

func decode(raw []byte) (UserSession, error) {
	var s UserSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return UserSession{}, ErrNoSession
	}
	if !s.valid() {
		return UserSession{}, ErrNoSession
	}
	return s, nil
}
