package impro_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/f3rmion/caucus/internal/caucus"
	"github.com/f3rmion/caucus/internal/impro"
)

// memLister serves a fixed pool and counts List calls.
type memLister[T any] struct {
	items []T
	err   error
	calls int
}

func (l *memLister[T]) List(ctx context.Context) ([]T, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.items, nil
}

var errBackend = errors.New("backend down")

type fixture struct {
	characters *memLister[caucus.Character]
	moods      *memLister[caucus.Mood]
	places     *memLister[caucus.Place]
}

func newFixture(nChars, nMoods, nPlaces int) *fixture {
	f := &fixture{
		characters: &memLister[caucus.Character]{},
		moods:      &memLister[caucus.Mood]{},
		places:     &memLister[caucus.Place]{},
	}
	for i := 0; i < nChars; i++ {
		f.characters.items = append(f.characters.items, caucus.Character{ID: fmt.Sprintf("c%d", i), Name: fmt.Sprintf("Character %d", i)})
	}
	for i := 0; i < nMoods; i++ {
		f.moods.items = append(f.moods.items, caucus.Mood{ID: fmt.Sprintf("m%d", i), Name: fmt.Sprintf("Mood %d", i)})
	}
	for i := 0; i < nPlaces; i++ {
		f.places.items = append(f.places.items, caucus.Place{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Place %d", i)})
	}
	return f
}

func (f *fixture) pools() impro.Pools {
	return impro.Pools{Characters: f.characters, Moods: f.moods, Places: f.places}
}

func students(n int) []caucus.Student {
	out := make([]caucus.Student, n)
	for i := range out {
		out[i] = caucus.Student{ID: fmt.Sprintf("s%d", i), Name: fmt.Sprintf("Student %d", i)}
	}
	return out
}

func idsOf[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}
