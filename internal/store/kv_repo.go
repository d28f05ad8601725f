package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// execQuerier is satisfied by both *sql.DB and *sql.Tx.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// kvRepo implements KVRepo on the kv_entries table.
type kvRepo struct {
	db      *sql.DB
	dialect string
}

func (r *kvRepo) Get(ctx context.Context, key string) (string, bool, error) {
	return r.get(ctx, r.db, key)
}

func (r *kvRepo) get(ctx context.Context, q execQuerier, key string) (string, bool, error) {
	query, args := entsql.Dialect(r.dialect).
		Select("value").
		From(entsql.Dialect(r.dialect).Table(KvEntriesTable.Name)).
		Where(entsql.EQ("key", key)).
		Query()

	var v string
	err := q.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *kvRepo) Set(ctx context.Context, key, value string) error {
	return r.set(ctx, r.db, key, value)
}

func (r *kvRepo) set(ctx context.Context, q execQuerier, key, value string) error {
	query, args := entsql.Dialect(r.dialect).
		Insert(KvEntriesTable.Name).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(r.dialect).
		Delete(KvEntriesTable.Name).
		Where(entsql.EQ("key", key)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (r *kvRepo) DeletePrefix(ctx context.Context, prefix string) error {
	del := entsql.Dialect(r.dialect).Delete(KvEntriesTable.Name)
	if prefix != "" {
		del = del.Where(entsql.HasPrefix("key", prefix))
	}
	query, args := del.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete prefix %q: %w", prefix, err)
	}
	return nil
}
