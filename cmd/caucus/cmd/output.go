package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/caucus/internal/caucus"
)

// printTable writes rows under header with columns aligned by display width.
func printTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	line := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			if i == len(cells)-1 {
				parts[i] = c
			} else {
				parts[i] = runewidth.FillRight(c, widths[i])
			}
		}
		fmt.Fprintln(w, strings.Join(parts, "  "))
	}

	line(header)
	for _, row := range rows {
		line(row)
	}
}

// resolve finds the item whose id equals ref, or else the single item whose
// name matches ref case-insensitively.
func resolve[T any](items []T, ref string, fields func(T) (id, name string)) (T, error) {
	var zero T
	for _, it := range items {
		if id, _ := fields(it); id == ref {
			return it, nil
		}
	}

	var matches []T
	for _, it := range items {
		if _, name := fields(it); strings.EqualFold(name, strings.TrimSpace(ref)) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%q: %w", ref, caucus.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%q matches %d entries, use an id", ref, len(matches))
	}
}

func studentFields(s caucus.Student) (string, string) { return s.ID, s.Name }
