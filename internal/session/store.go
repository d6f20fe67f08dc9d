package session

import "sync"

// Keys under which the client state is persisted.
const (
	KeyToken  = "token"
	KeyUserID = "user_id"
	KeyTheme  = "mfg_theme_pref"
)

// Change notifies that a key was modified by another process sharing the store.
type Change struct {
	Key string
}

// Store is a persisted string key/value store, the console's equivalent of browser local storage.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
	// Changes delivers keys modified outside this Store instance. Writes made through
	// the instance itself are never reported.
	Changes() <-chan Change
	Close() error
}

// MemoryStore is an in-process Store. Simulate writes from elsewhere with SetExternal.
type MemoryStore struct {
	mu      sync.RWMutex
	values  map[string]string
	changes chan Change
	closed  bool
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:  make(map[string]string),
		changes: make(chan Change, 16),
	}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// SetExternal writes a value as if another process had, and emits a Change.
// An empty value removes the key.
func (s *MemoryStore) SetExternal(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.values, key)
	} else {
		s.values[key] = value
	}
	if s.closed {
		return
	}
	select {
	case s.changes <- Change{Key: key}:
	default:
	}
}

func (s *MemoryStore) Changes() <-chan Change {
	return s.changes
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.changes)
	}
	return nil
}
