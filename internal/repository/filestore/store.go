package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mamadbah2/mfgconsole/internal/session"
)

// Store persists the console session as a JSON object on disk and watches the file so
// that writes made by other console processes surface as session.Change values.
type Store struct {
	path   string
	logger *zap.Logger

	mu     sync.Mutex
	values map[string]string

	watcher *fsnotify.Watcher
	changes chan session.Change
	done    chan struct{}
	wg      sync.WaitGroup
}

var _ session.Store = (*Store)(nil)

// New opens (or creates) the store at path and starts watching it.
func New(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve session store path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o700); err != nil {
		return nil, fmt.Errorf("create session store directory: %w", err)
	}

	values, err := readFile(abs)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create session store watcher: %w", err)
	}
	// Watch the directory: atomic renames replace the file inode.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch session store directory: %w", err)
	}

	s := &Store{
		path:    abs,
		logger:  logger,
		values:  values,
		watcher: watcher,
		changes: make(chan session.Change, 16),
		done:    make(chan struct{}),
	}

	s.wg.Add(1)
	go s.watch()

	return s, nil
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneValues(s.values)
	next[key] = value
	if err := s.persist(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	next := cloneValues(s.values)
	delete(next, key)
	if err := s.persist(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *Store) Changes() <-chan session.Change {
	return s.changes
}

// Close stops the watcher. Changes is closed once the watch loop has exited.
func (s *Store) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	err := s.watcher.Close()
	s.wg.Wait()
	close(s.changes)
	return err
}

func (s *Store) watch() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.reload()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("session store watcher error", zap.Error(err))
		}
	}
}

// reload re-reads the file and emits a Change for every key that differs from memory.
// The read happens under the lock so our own writes always compare equal.
func (s *Store) reload() {
	s.mu.Lock()
	values, err := readFile(s.path)
	if err != nil {
		s.mu.Unlock()
		// partially written by another process; the next event will retry
		s.logger.Debug("skip unreadable session store", zap.Error(err))
		return
	}
	changed := diffKeys(s.values, values)
	s.values = values
	s.mu.Unlock()

	for _, key := range changed {
		select {
		case s.changes <- session.Change{Key: key}:
		case <-s.done:
			return
		}
	}
}

func (s *Store) persist(values map[string]string) error {
	payload, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create session store temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session store: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod session store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session store temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace session store: %w", err)
	}
	return nil
}

func readFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session store: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode session store %s: %w", path, err)
	}
	return values, nil
}

func diffKeys(before, after map[string]string) []string {
	var keys []string
	for k, v := range after {
		if old, ok := before[k]; !ok || old != v {
			keys = append(keys, k)
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func cloneValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
