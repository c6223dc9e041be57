package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis stores values of one namespace in a hash "{prefix}:{namespace}"
// and keeps insertion order in the sorted set "{prefix}:{namespace}:order",
// scored by the counter "{prefix}:{namespace}:seq".
type Redis[V any] struct {
	client    redis.UniversalClient
	marshaler Marshaler[V]
	dataKey   string
	orderKey  string
	seqKey    string
}

// RedisOption configures a Redis repository.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix string
}

// WithPrefix sets the key prefix shared by all namespaces. Default: "mailcast".
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}

// NewRedis creates a repository for namespace. A nil Marshaler means JSON.
// The client should be obtained from pkg/redis.Open.
//
// Example:
//
//	lists := repository.NewRedis[recipientlist.List](client, "lists", nil)
func NewRedis[V any](client redis.UniversalClient, namespace string, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	o := &redisOptions{prefix: "mailcast"}
	for _, opt := range opts {
		opt(o)
	}
	if m == nil {
		m = JSON[V]{}
	}

	key := namespace
	if o.prefix != "" {
		key = o.prefix + ":" + namespace
	}

	return &Redis[V]{
		client:    client,
		marshaler: m,
		dataKey:   key,
		orderKey:  key + ":order",
		seqKey:    key + ":seq",
	}
}

func (r *Redis[V]) Get(ctx context.Context, id string) (V, error) {
	var zero V

	data, err := r.client.HGet(ctx, r.dataKey, id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return r.marshaler.Unmarshal(data)
}

func (r *Redis[V]) Put(ctx context.Context, id string, value V) error {
	if err := checkID(id); err != nil {
		return err
	}

	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}

	seq, err := r.client.Incr(ctx, r.seqKey).Result()
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.dataKey, id, data)
		pipe.ZAddNX(ctx, r.orderKey, redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	return err
}

func (r *Redis[V]) Delete(ctx context.Context, id string) error {
	var removed *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, r.dataKey, id)
		pipe.ZRem(ctx, r.orderKey, id)
		return nil
	})
	if err != nil {
		return err
	}
	if removed.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis[V]) List(ctx context.Context) ([]V, error) {
	ids, err := r.client.ZRange(ctx, r.orderKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []V{}, nil
	}

	raw, err := r.client.HMGet(ctx, r.dataKey, ids...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]V, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			// Deleted between ZRANGE and HMGET.
			continue
		}
		v, err := r.marshaler.Unmarshal([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *Redis[V]) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.dataKey, r.orderKey, r.seqKey).Err()
}

var _ Repository[any] = (*Redis[any])(nil)
