// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"maps"
	"sync"
)

// Map is a generic map guarded by a RW mutex. Used to collect per-index
// results from concurrently dispatched snapshot fetches.
type Map[T comparable, K any] struct {
	m     map[T]K
	mutex *sync.RWMutex
}

func NewMap[T comparable, K any]() *Map[T, K] {
	return &Map[T, K]{
		m:     make(map[T]K),
		mutex: &sync.RWMutex{},
	}
}

func NewMapWithLen[T comparable, K any](length int) *Map[T, K] {
	return &Map[T, K]{
		m:     make(map[T]K, length),
		mutex: &sync.RWMutex{},
	}
}

func (m *Map[T, K]) Get(key T) (K, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	value, ok := m.m[key]
	return value, ok
}

func (m *Map[T, K]) Set(key T, value K) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.m[key] = value
}

func (m *Map[T, K]) Delete(key T) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.m, key)
}

func (m *Map[T, K]) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.m)
}

// GetMap returns a copy of the underlying map.
func (m *Map[T, K]) GetMap() map[T]K {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return maps.Clone(m.m)
}
