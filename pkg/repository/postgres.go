package repository

import (
	"context"
	"embed"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Migrations holds the goose migrations of the Postgres backend, under "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations that holds the files.
const MigrationsDir = "migrations"

// DB is the subset of *pgxpool.Pool the Postgres backend uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres stores values of one namespace as JSONB rows of the records table.
type Postgres[V any] struct {
	db        DB
	namespace string
	marshaler Marshaler[V]
}

// NewPostgres creates a repository for namespace. A nil Marshaler means JSON.
// Run db.Migrate with Migrations before use.
func NewPostgres[V any](db DB, namespace string, m Marshaler[V]) *Postgres[V] {
	if m == nil {
		m = JSON[V]{}
	}
	return &Postgres[V]{db: db, namespace: namespace, marshaler: m}
}

const (
	pgGet    = `SELECT payload FROM records WHERE namespace = $1 AND id = $2`
	pgPut    = `INSERT INTO records (namespace, id, payload) VALUES ($1, $2, $3)
ON CONFLICT (namespace, id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`
	pgDelete = `DELETE FROM records WHERE namespace = $1 AND id = $2`
	pgList   = `SELECT payload FROM records WHERE namespace = $1 ORDER BY seq`
	pgClear  = `DELETE FROM records WHERE namespace = $1`
)

func (p *Postgres[V]) Get(ctx context.Context, id string) (V, error) {
	var (
		zero V
		data []byte
	)
	if err := p.db.QueryRow(ctx, pgGet, p.namespace, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return p.marshaler.Unmarshal(data)
}

func (p *Postgres[V]) Put(ctx context.Context, id string, value V) error {
	if err := checkID(id); err != nil {
		return err
	}

	data, err := p.marshaler.Marshal(value)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(ctx, pgPut, p.namespace, id, data)
	return err
}

func (p *Postgres[V]) Delete(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, pgDelete, p.namespace, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres[V]) List(ctx context.Context) ([]V, error) {
	rows, err := p.db.Query(ctx, pgList, p.namespace)
	if err != nil {
		return nil, err
	}

	payloads, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, err
	}

	out := make([]V, 0, len(payloads))
	for _, data := range payloads {
		v, err := p.marshaler.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (p *Postgres[V]) Clear(ctx context.Context) error {
	_, err := p.db.Exec(ctx, pgClear, p.namespace)
	return err
}

var _ Repository[any] = (*Postgres[any])(nil)
