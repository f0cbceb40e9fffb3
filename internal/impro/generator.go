// Package impro generates improv assignments and edits them in place.
package impro

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/caucus"
)

// Pools gives read access to the three entity pools. Each pool is listed
// fresh on every call.
type Pools struct {
	Characters caucus.Lister[caucus.Character]
	Moods      caucus.Lister[caucus.Mood]
	Places     caucus.Lister[caucus.Place]
}

// Generator builds a new Impro from the current pools.
type Generator struct {
	pools  Pools
	random caucus.RandomSource
	logger *zap.Logger
}

// NewGenerator creates a Generator. A nil logger disables logging.
func NewGenerator(pools Pools, random caucus.RandomSource, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{pools: pools, random: random, logger: logger}
}

// Generate assigns a distinct character and a mood to every student, in
// input order, and selects placesCount distinct places.
//
// Moods are cycled when the mood pool is smaller than the number of students.
// Generate either returns a complete Impro or an error; pools are never
// modified.
func (g *Generator) Generate(ctx context.Context, students []caucus.Student, placesCount int) (caucus.Impro, error) {
	if len(students) == 0 {
		return caucus.Impro{}, newError(ErrInvalidInput, "no student selected")
	}
	if err := ctx.Err(); err != nil {
		return caucus.Impro{}, err
	}

	characters, err := g.pools.Characters.List(ctx)
	if err != nil {
		return caucus.Impro{}, fmt.Errorf("listing characters: %w", err)
	}
	moods, err := g.pools.Moods.List(ctx)
	if err != nil {
		return caucus.Impro{}, fmt.Errorf("listing moods: %w", err)
	}
	places, err := g.pools.Places.List(ctx)
	if err != nil {
		return caucus.Impro{}, fmt.Errorf("listing places: %w", err)
	}

	if len(characters) < len(students) {
		return caucus.Impro{}, newError(ErrInsufficientPool,
			"not enough characters (%d) for %d students", len(characters), len(students))
	}
	if len(moods) == 0 {
		return caucus.Impro{}, newError(ErrInsufficientPool, "no emotion available")
	}
	if len(places) == 0 {
		return caucus.Impro{}, newError(ErrInsufficientPool, "no place available")
	}
	if len(places) < placesCount {
		missing := placesCount - len(places)
		return caucus.Impro{}, newError(ErrInsufficientPool,
			"missing %d %s to satisfy the request (%d available, %d requested)",
			missing, plural(missing, "place", "places"), len(places), placesCount)
	}

	characters = shuffle(characters, g.random)
	moods = shuffle(moods, g.random)
	places = shuffle(places, g.random)

	assignments := make([]caucus.ImproAssignment, len(students))
	for i, s := range students {
		assignments[i] = caucus.ImproAssignment{
			Student:   s,
			Character: characters[i],
			Mood:      moods[i%len(moods)],
		}
	}

	n := min(placesCount, len(places))
	if n < 0 {
		n = 0
	}

	g.logger.Debug("impro generated",
		zap.Int("students", len(students)),
		zap.Int("places", n),
		zap.Int("character_pool", len(characters)),
		zap.Int("mood_pool", len(moods)),
		zap.Int("place_pool", len(places)),
	)

	return caucus.Impro{
		Assignments: assignments,
		Places:      places[:n:n],
	}, nil
}

// shuffle returns a Fisher–Yates shuffled copy of items.
func shuffle[T any](items []T, random caucus.RandomSource) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := caucus.Index(random, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
