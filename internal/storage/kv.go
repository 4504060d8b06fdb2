package storage

import (
	"encoding/json"
	"os"
	"sync"
)

// MemoryKV is an in-process key-value store, used in tests and as the web
// fallback where no durable device storage exists.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]string{}}
}

func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// FileKV persists the whole keyspace as one JSON file, rewritten on every
// set. Last persisted value wins across process restarts.
type FileKV struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

func NewFileKV(path string) *FileKV {
	kv := &FileKV{path: path, data: map[string]string{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		return kv
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		// A corrupt file degrades to an empty store rather than erroring.
		return kv
	}
	kv.data = data
	return kv
}

func (f *FileKV) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	raw, err := json.Marshal(f.data)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
