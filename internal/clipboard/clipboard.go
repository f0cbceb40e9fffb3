// Package clipboard copies impro sheets to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard backend exists on this system.
var ErrUnavailable = errors.New("clipboard unavailable (install xclip, xsel or wl-clipboard)")

// Writer copies text somewhere the instructor can paste it from.
type Writer func(text string) error

// System writes to the OS clipboard.
func System(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Available reports whether System can work here.
func Available() bool {
	return !clipboard.Unsupported
}
