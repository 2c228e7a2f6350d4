package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// InMemoryStore is a process-local key/value store. All operations run
// under a single mutex, so tools holding the same store observe each
// other's writes in a total order.
type InMemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{values: make(map[string]string)}
}

// Keys returns all keys in sorted order.
func (m *InMemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedKeys()
}

func (m *InMemoryStore) sortedKeys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value stored under key.
func (m *InMemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// Set inserts or overwrites key.
func (m *InMemoryStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Len returns the number of stored keys.
func (m *InMemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

// List renders the key listing returned to the model.
func (m *InMemoryStore) List() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var b strings.Builder
	b.WriteString("Keys in memory:\n")
	for _, k := range m.sortedKeys() {
		fmt.Fprintf(&b, "- %s\n", k)
	}
	return b.String()
}

// Describe renders the answer to a key lookup.
func (m *InMemoryStore) Describe(key string) string {
	if v, ok := m.Get(key); ok {
		return fmt.Sprintf("value of key %s:\n%s", key, v)
	}
	return fmt.Sprintf("key %s is not in memory", key)
}

// Insert stores value under key and renders the confirmation.
func (m *InMemoryStore) Insert(key, value string) string {
	m.Set(key, value)
	return fmt.Sprintf("key %s inserted into memory", key)
}
