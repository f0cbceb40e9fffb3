package caucus

import (
	"context"
	"errors"
)

// ErrNotFound is returned by pools when an entity id does not exist.
var ErrNotFound = errors.New("not found")

// Lister reads the full pool of one entity kind.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// Pool is the data-access capability for one entity kind.
//
// Rename returns ErrNotFound when id is unknown. Remove reports whether an
// entity was actually removed.
type Pool[T any] interface {
	Lister[T]
	Create(ctx context.Context, name string) (T, error)
	Rename(ctx context.Context, id, newName string) (T, error)
	Remove(ctx context.Context, id string) (bool, error)
}

// Confirmer asks the user whether a deletion should proceed.
type Confirmer interface {
	ConfirmDeletion(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

// ConfirmDeletion calls f.
func (f ConfirmFunc) ConfirmDeletion(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// Answer is a Confirmer whose answer was already collected, typically by a
// modal prompt in an event-driven UI.
type Answer bool

// ConfirmDeletion returns the recorded answer.
func (a Answer) ConfirmDeletion(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return bool(a), nil
}
