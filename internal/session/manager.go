package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
)

// Origin tells subscribers where a session change came from.
type Origin string

const (
	OriginLocal    Origin = "local"
	OriginExternal Origin = "external"
)

// Event is delivered to subscribers whenever the session changes.
type Event struct {
	Session models.Session
	Origin  Origin
}

// Manager is the single owner of the persisted session. It is passed explicitly to
// the API client (as its token source) and to every page controller.
type Manager struct {
	store  Store
	logger *zap.Logger

	mu          sync.RWMutex
	nextID      int
	subscribers map[int]func(Event)
}

// NewManager wraps a Store.
func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:       store,
		logger:      logger,
		subscribers: make(map[int]func(Event)),
	}
}

// Current reads the session from the store; nothing is cached.
func (m *Manager) Current() models.Session {
	token, _ := m.store.Get(KeyToken)
	sess := models.Session{Token: token}
	if id, ok := m.UserID(); ok {
		sess.UserID = &id
	}
	return sess
}

// IsAuthenticated reports whether a token is stored.
func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

// Token returns the stored bearer token or "".
func (m *Manager) Token() string {
	token, _ := m.store.Get(KeyToken)
	return token
}

// UserID returns the stored user id. Non-numeric values are treated as absent.
func (m *Manager) UserID() (int64, bool) {
	raw, ok := m.store.Get(KeyUserID)
	if !ok || raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Save persists a login/signup result. A zero user id leaves any stored id untouched.
func (m *Manager) Save(token string, userID int64) error {
	if token == "" {
		return fmt.Errorf("save session: empty token")
	}
	if err := m.store.Set(KeyToken, token); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	if userID != 0 {
		if err := m.store.Set(KeyUserID, strconv.FormatInt(userID, 10)); err != nil {
			return fmt.Errorf("save session user id: %w", err)
		}
	}
	m.publish(OriginLocal)
	return nil
}

// Clear destroys the session.
func (m *Manager) Clear() error {
	if err := m.store.Remove(KeyToken); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	if err := m.store.Remove(KeyUserID); err != nil {
		return fmt.Errorf("clear session user id: %w", err)
	}
	m.publish(OriginLocal)
	return nil
}

// Theme returns the stored theme preference ("" means the default dark theme).
func (m *Manager) Theme() string {
	theme, _ := m.store.Get(KeyTheme)
	return theme
}

// ToggleTheme flips between the dark default and "light" and returns the new value.
func (m *Manager) ToggleTheme() (string, error) {
	next := "light"
	if m.Theme() == "light" {
		next = ""
	}
	if err := m.store.Set(KeyTheme, next); err != nil {
		return m.Theme(), fmt.Errorf("save theme preference: %w", err)
	}
	return next, nil
}

// Subscribe registers fn for session events and returns a function removing it.
func (m *Manager) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subscribers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

// Watch forwards external token/user id changes to subscribers until ctx is done
// or the store stops delivering changes.
func (m *Manager) Watch(ctx context.Context) {
	changes := m.store.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			if change.Key != KeyToken && change.Key != KeyUserID {
				continue
			}
			m.logger.Info("session changed externally", zap.String("key", change.Key), zap.Bool("authenticated", m.IsAuthenticated()))
			m.publish(OriginExternal)
		}
	}
}

func (m *Manager) publish(origin Origin) {
	evt := Event{Session: m.Current(), Origin: origin}

	m.mu.RLock()
	subs := make([]func(Event), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.mu.RUnlock()

	for _, fn := range subs {
		fn(evt)
	}
}
