package impro

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/caucus"
)

// Regenerator replaces single elements of an existing Impro with values drawn
// from a freshly listed pool. It never mutates its arguments; writing the
// result back is the caller's job.
type Regenerator struct {
	pools  Pools
	random caucus.RandomSource
	logger *zap.Logger
}

// NewRegenerator creates a Regenerator. A nil logger disables logging.
func NewRegenerator(pools Pools, random caucus.RandomSource, logger *zap.Logger) *Regenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Regenerator{pools: pools, random: random, logger: logger}
}

// RegeneratePlace picks a place that is neither in currentPlaces nor the place
// at placeIndex.
func (r *Regenerator) RegeneratePlace(ctx context.Context, currentPlaces []caucus.Place, placeIndex int) (caucus.Place, error) {
	if placeIndex < 0 || placeIndex >= len(currentPlaces) {
		return caucus.Place{}, newError(ErrInvalidInput, "place index %d out of range", placeIndex)
	}
	if err := ctx.Err(); err != nil {
		return caucus.Place{}, err
	}
	places, err := r.pools.Places.List(ctx)
	if err != nil {
		return caucus.Place{}, fmt.Errorf("listing places: %w", err)
	}

	used := make([]string, len(currentPlaces))
	for i, p := range currentPlaces {
		used[i] = p.ID
	}
	currentID := currentPlaces[placeIndex].ID

	candidates := slices.DeleteFunc(slices.Clone(places), func(p caucus.Place) bool {
		return slices.Contains(used, p.ID) || p.ID == currentID
	})
	if len(candidates) == 0 {
		return caucus.Place{}, newError(ErrExhausted, "no other place available")
	}

	picked := candidates[caucus.Index(r.random, len(candidates))]
	r.logger.Debug("place regenerated",
		zap.Int("index", placeIndex),
		zap.String("from", currentID),
		zap.String("to", picked.ID),
		zap.Int("candidates", len(candidates)),
	)
	return picked, nil
}

// RegenerateCharacter picks a character not used by any assignment and
// different from the one at assignmentIndex.
func (r *Regenerator) RegenerateCharacter(ctx context.Context, currentAssignments []caucus.ImproAssignment, assignmentIndex int) (caucus.Character, error) {
	if assignmentIndex < 0 || assignmentIndex >= len(currentAssignments) {
		return caucus.Character{}, newError(ErrInvalidInput, "assignment index %d out of range", assignmentIndex)
	}
	if err := ctx.Err(); err != nil {
		return caucus.Character{}, err
	}
	characters, err := r.pools.Characters.List(ctx)
	if err != nil {
		return caucus.Character{}, fmt.Errorf("listing characters: %w", err)
	}

	used := make([]string, len(currentAssignments))
	for i, a := range currentAssignments {
		used[i] = a.Character.ID
	}
	currentID := currentAssignments[assignmentIndex].Character.ID

	candidates := slices.DeleteFunc(slices.Clone(characters), func(c caucus.Character) bool {
		return slices.Contains(used, c.ID) || c.ID == currentID
	})
	if len(candidates) == 0 {
		return caucus.Character{}, newError(ErrExhausted, "no other character available")
	}

	picked := candidates[caucus.Index(r.random, len(candidates))]
	r.logger.Debug("character regenerated",
		zap.Int("index", assignmentIndex),
		zap.String("from", currentID),
		zap.String("to", picked.ID),
		zap.Int("candidates", len(candidates)),
	)
	return picked, nil
}

// RegenerateMood picks a mood different from the one at assignmentIndex.
// Moods used by other assignments remain eligible.
func (r *Regenerator) RegenerateMood(ctx context.Context, currentAssignments []caucus.ImproAssignment, assignmentIndex int) (caucus.Mood, error) {
	if assignmentIndex < 0 || assignmentIndex >= len(currentAssignments) {
		return caucus.Mood{}, newError(ErrInvalidInput, "assignment index %d out of range", assignmentIndex)
	}
	if err := ctx.Err(); err != nil {
		return caucus.Mood{}, err
	}
	moods, err := r.pools.Moods.List(ctx)
	if err != nil {
		return caucus.Mood{}, fmt.Errorf("listing moods: %w", err)
	}
	if len(moods) == 0 {
		return caucus.Mood{}, newError(ErrInsufficientPool, "no emotion available")
	}

	currentID := currentAssignments[assignmentIndex].Mood.ID
	candidates := slices.DeleteFunc(slices.Clone(moods), func(m caucus.Mood) bool {
		return m.ID == currentID
	})
	if len(candidates) == 0 {
		return caucus.Mood{}, newError(ErrExhausted, "no other emotion available")
	}

	picked := candidates[caucus.Index(r.random, len(candidates))]
	r.logger.Debug("mood regenerated",
		zap.Int("index", assignmentIndex),
		zap.String("from", currentID),
		zap.String("to", picked.ID),
		zap.Int("candidates", len(candidates)),
	)
	return picked, nil
}
