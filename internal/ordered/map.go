// Package ordered provides a string-keyed map that remembers insertion order.
//
// Generated sources must be byte-identical across runs, so every collection
// whose iteration order reaches an artifact is kept in one of these instead of
// a built-in map.
package ordered

import "iter"

// Map is an insertion-ordered map. The zero value is not usable; call New.
// A nil *Map behaves as an empty, read-only map.
type Map[V any] struct {
	keys  []string
	index map[string]V
}

// New returns an empty Map.
func New[V any]() *Map[V] {
	return &Map[V]{index: make(map[string]V)}
}

// Set stores v under k. Re-setting an existing key keeps its original position.
func (m *Map[V]) Set(k string, v V) {
	if _, ok := m.index[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.index[k] = v
}

// Get returns the value stored under k.
func (m *Map[V]) Get(k string) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	v, ok := m.index[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Map[V]) Has(k string) bool {
	_, ok := m.Get(k)
	return ok
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[V]) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates over the entries in insertion order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.index[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy; values are shared.
func (m *Map[V]) Clone() *Map[V] {
	out := New[V]()
	for k, v := range m.All() {
		out.Set(k, v)
	}
	return out
}
