// Package memory holds map-backed repositories used when STORAGE_DRIVER is
// "memory" and by tests.
package memory

import (
	"sync"

	"github.com/google/uuid"
)

// table is a concurrency-safe map of value copies keyed by id.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[string]T
	keys []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	return v, ok
}

// put stores v, returning false if insertOnly is set and id is taken.
func (t *table[T]) put(id string, v T, insertOnly bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; exists {
		if insertOnly {
			return false
		}
	} else {
		t.keys = append(t.keys, id)
	}
	t.rows[id] = v
	return true
}

func (t *table[T]) delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, k := range t.keys {
		if k == id {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
	return true
}

// all returns rows in insertion order.
func (t *table[T]) all() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.rows[k])
	}
	return out
}

func newID() string {
	return uuid.NewString()
}

func ptrs[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		row := rows[i]
		out[i] = &row
	}
	return out
}
