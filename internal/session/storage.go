package session

import (
	"encoding/json"
	"os"
	"sync"
)

// MemoryStorage is an in-process Storage, useful in tests and for sessions
// that should not outlive the process.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemoryStorage) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// FileStorage mirrors session keys into a JSON file. Write failures are
// swallowed: losing the mirror degrades to a fresh logged-out session on
// the next start, never to a crash.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileStorage loads the file at path if present. A malformed file is
// treated as empty.
func NewFileStorage(path string) *FileStorage {
	fs := &FileStorage{path: path, values: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fs
	}
	var values map[string]string
	if err := json.Unmarshal(raw, &values); err != nil || values == nil {
		return fs
	}
	fs.values = values
	return fs
}

func (f *FileStorage) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *FileStorage) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	f.flushLocked()
}

func (f *FileStorage) Delete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	f.flushLocked()
}

func (f *FileStorage) flushLocked() {
	raw, err := json.Marshal(f.values)
	if err != nil {
		return
	}
	_ = os.WriteFile(f.path, raw, 0o600)
}
