package repository

import (
	"container/list"
	"context"
	"sync"
)

type memoryEntry[V any] struct {
	id    string
	value V
}

// Memory is an in-process Repository. The zero value is not usable; call NewMemory.
type Memory[V any] struct {
	mu    sync.RWMutex
	items map[string]*list.Element
	order *list.List
}

// NewMemory creates an empty in-memory repository.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

func (m *Memory[V]) Get(_ context.Context, id string) (V, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	elem, ok := m.items[id]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return elem.Value.(*memoryEntry[V]).value, nil
}

func (m *Memory[V]) Put(_ context.Context, id string, value V) error {
	if err := checkID(id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[id]; ok {
		elem.Value.(*memoryEntry[V]).value = value
		return nil
	}
	m.items[id] = m.order.PushBack(&memoryEntry[V]{id: id, value: value})
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	m.order.Remove(elem)
	delete(m.items, id)
	return nil
}

func (m *Memory[V]) List(_ context.Context) ([]V, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]V, 0, len(m.items))
	for elem := m.order.Front(); elem != nil; elem = elem.Next() {
		out = append(out, elem.Value.(*memoryEntry[V]).value)
	}
	return out, nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]*list.Element)
	m.order.Init()
	return nil
}

var _ Repository[any] = (*Memory[any])(nil)
