package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/f3rmion/caucus/internal/caucus"
)

// Pool stores one entity kind in its own table. It implements caucus.Pool.
// Entities are listed newest first.
type Pool[T any] struct {
	db    *sql.DB
	table string
	build func(id, name string) T
	split func(T) (id, name string)
}

var _ caucus.Pool[caucus.Character] = (*Pool[caucus.Character])(nil)

// List returns every entity, newest first.
func (p *Pool[T]) List(ctx context.Context) ([]T, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT id, name FROM "+p.table+" ORDER BY seq DESC")
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", p.table, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p.table, err)
		}
		out = append(out, p.build(id, name))
	}
	return out, rows.Err()
}

// Count returns the number of entities.
func (p *Pool[T]) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+p.table).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", p.table, err)
	}
	return n, nil
}

// Create inserts a new entity with a fresh id.
func (p *Pool[T]) Create(ctx context.Context, name string) (T, error) {
	var zero T
	name, err := cleanName(name)
	if err != nil {
		return zero, err
	}
	id := newID()
	if _, err := p.db.ExecContext(ctx,
		"INSERT INTO "+p.table+" (id, name, created_at) VALUES (?, ?, ?)",
		id, name, nowMillis(),
	); err != nil {
		return zero, fmt.Errorf("inserting into %s: %w", p.table, err)
	}
	return p.build(id, name), nil
}

// Put inserts entity, or renames it when its id already exists. An empty id
// is replaced by a fresh one.
func (p *Pool[T]) Put(ctx context.Context, entity T) (T, error) {
	var zero T
	id, name := p.split(entity)
	name, err := cleanName(name)
	if err != nil {
		return zero, err
	}
	if id == "" {
		id = newID()
	}
	if _, err := p.db.ExecContext(ctx,
		"INSERT INTO "+p.table+" (id, name, created_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET name = excluded.name",
		id, name, nowMillis(),
	); err != nil {
		return zero, fmt.Errorf("upserting into %s: %w", p.table, err)
	}
	return p.build(id, name), nil
}

// Rename changes the name of the entity with the given id.
// Returns caucus.ErrNotFound when id is unknown.
func (p *Pool[T]) Rename(ctx context.Context, id, newName string) (T, error) {
	var zero T
	newName, err := cleanName(newName)
	if err != nil {
		return zero, err
	}
	res, err := p.db.ExecContext(ctx, "UPDATE "+p.table+" SET name = ? WHERE id = ?", newName, id)
	if err != nil {
		return zero, fmt.Errorf("renaming in %s: %w", p.table, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return zero, fmt.Errorf("renaming in %s: %w", p.table, err)
	} else if n == 0 {
		return zero, caucus.ErrNotFound
	}
	return p.build(id, newName), nil
}

// Remove deletes the entity with the given id and reports whether it existed.
func (p *Pool[T]) Remove(ctx context.Context, id string) (bool, error) {
	res, err := p.db.ExecContext(ctx, "DELETE FROM "+p.table+" WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("removing from %s: %w", p.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("removing from %s: %w", p.table, err)
	}
	return n > 0, nil
}

// Get returns the entity with the given id, or caucus.ErrNotFound.
func (p *Pool[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	var name string
	err := p.db.QueryRowContext(ctx, "SELECT name FROM "+p.table+" WHERE id = ?", id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, caucus.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("reading %s: %w", p.table, err)
	}
	return p.build(id, name), nil
}
