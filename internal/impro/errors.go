package impro

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of them.
var (
	// ErrInvalidInput covers bad selections, counts and indices.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientPool means a pool cannot satisfy a generation request.
	ErrInsufficientPool = errors.New("insufficient pool")
	// ErrExhausted means regeneration found no candidate other than those in use.
	ErrExhausted = errors.New("no candidate available")
	// ErrLastItem is returned when removing the last place or assignment.
	ErrLastItem = errors.New("cannot remove the last item")
)

// Error carries the human-readable message shown to the instructor.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// plural picks the singular or plural form of a word for n.
func plural(n int, one, many string) string {
	if n > 1 {
		return many
	}
	return one
}
