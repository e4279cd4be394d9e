// Package omap provides a small insertion-ordered map. The client state
// caches use it so iteration and serialization stay deterministic across
// mutation, which plain Go maps cannot guarantee.
package omap

// Map is a keyed mapping that remembers first-insertion order. Overwriting an
// existing key keeps its original position; deleting and re-inserting moves
// it to the end. The zero value is not usable, call New.
type Map[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{vals: make(map[K]V)}
}

// Set inserts or overwrites the value for k.
func (m *Map[K, V]) Set(k K, v V) {
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Get returns the value for k and whether it exists.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Has reports whether k exists.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.vals[k]
	return ok
}

// Delete removes k and reports whether it existed.
func (m *Map[K, V]) Delete(k K) bool {
	if _, ok := m.vals[k]; !ok {
		return false
	}
	delete(m.vals, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in insertion order.
func (m *Map[K, V]) Values() []V {
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.vals[k])
	}
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map[K, V]) Range(fn func(k K, v V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// Clear removes every entry.
func (m *Map[K, V]) Clear() {
	m.keys = m.keys[:0]
	clear(m.vals)
}
