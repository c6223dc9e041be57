package repository

import (
	"context"
	"encoding/json"
	"errors"
)

// Repository is a keyed collection of values that remembers insertion order.
//
// Put on an existing id replaces the value but keeps its position.
// List returns values in the order their ids were first stored.
type Repository[V any] interface {
	// Get returns ErrNotFound if id is unknown.
	Get(ctx context.Context, id string) (V, error)

	// Put creates or replaces the value stored under id.
	Put(ctx context.Context, id string, value V) error

	// Delete returns ErrNotFound if id is unknown.
	Delete(ctx context.Context, id string) error

	List(ctx context.Context) ([]V, error)

	// Clear removes every value.
	Clear(ctx context.Context) error
}

// Marshaler serializes values for backends that store bytes (Redis, Postgres).
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// JSON is the default Marshaler.
type JSON[V any] struct{}

func (JSON[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (JSON[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

func checkID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	return nil
}
