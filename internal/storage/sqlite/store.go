// Package sqlite persists courses, students and entity pools in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/f3rmion/caucus/internal/caucus"
	"github.com/f3rmion/caucus/internal/storage/sqlite/migrations"
)

// ErrEmptyName is returned when a name is blank after trimming.
var ErrEmptyName = errors.New("name must not be empty")

// Store is the SQLite-backed storage for caucus.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Characters returns the character pool.
func (s *Store) Characters() *Pool[caucus.Character] {
	return &Pool[caucus.Character]{
		db:    s.db,
		table: "characters",
		build: func(id, name string) caucus.Character { return caucus.Character{ID: id, Name: name} },
		split: func(c caucus.Character) (string, string) { return c.ID, c.Name },
	}
}

// Moods returns the mood pool.
func (s *Store) Moods() *Pool[caucus.Mood] {
	return &Pool[caucus.Mood]{
		db:    s.db,
		table: "moods",
		build: func(id, name string) caucus.Mood { return caucus.Mood{ID: id, Name: name} },
		split: func(m caucus.Mood) (string, string) { return m.ID, m.Name },
	}
}

// Places returns the place pool.
func (s *Store) Places() *Pool[caucus.Place] {
	return &Pool[caucus.Place]{
		db:    s.db,
		table: "places",
		build: func(id, name string) caucus.Place { return caucus.Place{ID: id, Name: name} },
		split: func(p caucus.Place) (string, string) { return p.ID, p.Name },
	}
}

func newID() string {
	return uuid.NewString()
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}
