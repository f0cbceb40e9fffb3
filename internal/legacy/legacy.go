// Package legacy imports data exported from the browser version of the app.
//
// The browser kept every pool as a JSON array in localStorage. Early releases
// used the "cre-impro~" key prefix, later ones "caucus~". A dump is a JSON
// object mapping localStorage keys to their values.
package legacy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/caucus"
)

const (
	OldPrefix = "cre-impro~"
	NewPrefix = "caucus~"
)

var pools = []string{"characters", "courses", "moods", "places"}

// Dump is a localStorage snapshot. Values are either the stored string
// (JSON-encoded again) or the JSON document itself.
type Dump map[string]json.RawMessage

// ReadDump decodes a dump from r.
func ReadDump(r io.Reader) (Dump, error) {
	var d Dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding localStorage dump: %w", err)
	}
	if d == nil {
		d = Dump{}
	}
	return d, nil
}

// NeedsMigration reports whether any old-prefix key is present.
func (d Dump) NeedsMigration() bool {
	for _, name := range pools {
		if _, ok := d[OldPrefix+name]; ok {
			return true
		}
	}
	return false
}

// Result summarises a migration.
type Result struct {
	Success      bool     `json:"success"`
	MigratedKeys []string `json:"migratedKeys"`
	Errors       []string `json:"errors"`
	TotalItems   int      `json:"totalItems"`
}

// MigrateKeys renames old-prefix keys to the new prefix in place. When the new
// key already exists the old one is dropped.
func MigrateKeys(d Dump, logger *zap.Logger) Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	res := Result{Success: true, MigratedKeys: []string{}, Errors: []string{}}
	if !d.NeedsMigration() {
		logger.Debug("no legacy keys found")
		return res
	}

	for _, name := range pools {
		oldKey, newKey := OldPrefix+name, NewPrefix+name
		data, ok := d[oldKey]
		if ok {
			if _, exists := d[newKey]; exists {
				logger.Warn("new key already present, dropping old key",
					zap.String("old", oldKey), zap.String("new", newKey))
			} else {
				d[newKey] = data
				logger.Info("migrated key",
					zap.String("old", oldKey), zap.String("new", newKey), zap.Int("bytes", len(data)))
			}
			delete(d, oldKey)
		}
		res.MigratedKeys = append(res.MigratedKeys, oldKey+" → "+newKey)

		var items []json.RawMessage
		if err := decodeValue(d[newKey], &items); err == nil {
			res.TotalItems += len(items)
		}
	}
	return res
}

// Putter stores an entity keeping its id.
type Putter[T any] interface {
	Put(ctx context.Context, entity T) (T, error)
}

// CoursePutter stores a course and its roster keeping ids.
type CoursePutter interface {
	PutCourse(ctx context.Context, c caucus.Course) (caucus.Course, error)
}

// Target is where imported entities are written.
type Target struct {
	Courses    CoursePutter
	Characters Putter[caucus.Character]
	Moods      Putter[caucus.Mood]
	Places     Putter[caucus.Place]
}

// Import migrates the keys of d and writes every entity found under the new
// keys into t. Entities that fail to decode or store are reported in
// Result.Errors and do not stop the import.
func Import(ctx context.Context, d Dump, t Target, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	res := MigrateKeys(d, logger)
	res.TotalItems = 0

	fail := func(format string, args ...any) {
		res.Success = false
		res.Errors = append(res.Errors, fmt.Sprintf(format, args...))
	}

	n, errs := importPool(ctx, d[NewPrefix+"characters"], t.Characters)
	res.TotalItems += n
	for _, err := range errs {
		fail("characters: %v", err)
	}
	n, errs = importPool(ctx, d[NewPrefix+"moods"], t.Moods)
	res.TotalItems += n
	for _, err := range errs {
		fail("moods: %v", err)
	}
	n, errs = importPool(ctx, d[NewPrefix+"places"], t.Places)
	res.TotalItems += n
	for _, err := range errs {
		fail("places: %v", err)
	}
	var courses Putter[caucus.Course]
	if t.Courses != nil {
		courses = putterFunc[caucus.Course](t.Courses.PutCourse)
	}
	n, errs = importPool(ctx, d[NewPrefix+"courses"], courses)
	res.TotalItems += n
	for _, err := range errs {
		fail("courses: %v", err)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	logger.Info("legacy import finished",
		zap.Bool("success", res.Success),
		zap.Int("items", res.TotalItems),
		zap.Int("errors", len(res.Errors)))
	return res, nil
}

type putterFunc[T any] func(ctx context.Context, entity T) (T, error)

func (f putterFunc[T]) Put(ctx context.Context, entity T) (T, error) { return f(ctx, entity) }

// importPool stores the entities of one pool. The browser kept arrays newest
// first, so they are written oldest first to keep that order in the store.
func importPool[T any](ctx context.Context, raw json.RawMessage, p Putter[T]) (int, []error) {
	if len(raw) == 0 {
		return 0, nil
	}
	if p == nil {
		return 0, []error{fmt.Errorf("no destination configured")}
	}

	var items []T
	if err := decodeValue(raw, &items); err != nil {
		return 0, []error{err}
	}

	var errs []error
	stored := 0
	for _, item := range slices.Backward(items) {
		if err := ctx.Err(); err != nil {
			return stored, append(errs, err)
		}
		if _, err := p.Put(ctx, item); err != nil {
			errs = append(errs, err)
			continue
		}
		stored++
	}
	return stored, errs
}

// decodeValue decodes a localStorage value, unwrapping it first when it was
// dumped as a JSON string.
func decodeValue(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return fmt.Errorf("empty value")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("decoding stored string: %w", err)
		}
		raw = json.RawMessage(s)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding stored value: %w", err)
	}
	return nil
}
