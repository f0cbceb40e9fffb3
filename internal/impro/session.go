package impro

import (
	"context"

	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/caucus"
)

// Session owns one generated Impro and applies regenerations and deletions to
// it in place. A failed operation leaves the Impro unchanged.
//
// A Session is not safe for concurrent use; it is driven by a single UI loop.
type Session struct {
	impro  caucus.Impro
	regen  *Regenerator
	logger *zap.Logger
}

// NewSession wraps imp. A nil logger disables logging.
func NewSession(imp caucus.Impro, regen *Regenerator, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{impro: imp, regen: regen, logger: logger}
}

// Impro returns the current state.
func (s *Session) Impro() caucus.Impro {
	return s.impro
}

// RegeneratePlace replaces the place at index.
func (s *Session) RegeneratePlace(ctx context.Context, index int) (caucus.Place, error) {
	p, err := s.regen.RegeneratePlace(ctx, s.impro.Places, index)
	if err != nil {
		s.logger.Info("place regeneration failed", zap.Int("index", index), zap.Error(err))
		return caucus.Place{}, err
	}
	s.impro.Places[index] = p
	return p, nil
}

// RegenerateCharacter replaces the character of the assignment at index.
func (s *Session) RegenerateCharacter(ctx context.Context, index int) (caucus.Character, error) {
	c, err := s.regen.RegenerateCharacter(ctx, s.impro.Assignments, index)
	if err != nil {
		s.logger.Info("character regeneration failed", zap.Int("index", index), zap.Error(err))
		return caucus.Character{}, err
	}
	s.impro.Assignments[index].Character = c
	return c, nil
}

// RegenerateMood replaces the mood of the assignment at index.
func (s *Session) RegenerateMood(ctx context.Context, index int) (caucus.Mood, error) {
	m, err := s.regen.RegenerateMood(ctx, s.impro.Assignments, index)
	if err != nil {
		s.logger.Info("mood regeneration failed", zap.Int("index", index), zap.Error(err))
		return caucus.Mood{}, err
	}
	s.impro.Assignments[index].Mood = m
	return m, nil
}

// CanRemovePlace reports whether a place may be removed.
func (s *Session) CanRemovePlace() bool {
	return len(s.impro.Places) > 1
}

// CanRemoveAssignment reports whether an assignment may be removed.
func (s *Session) CanRemoveAssignment() bool {
	return len(s.impro.Assignments) > 1
}

// RemovePlace asks confirm and removes the place at index. The last place is
// never removed.
func (s *Session) RemovePlace(ctx context.Context, index int, confirm caucus.Confirmer) (bool, error) {
	if !s.CanRemovePlace() {
		return false, newError(ErrLastItem, "an impro needs at least one place")
	}
	removed, err := ConfirmAndDeletePlace(ctx, confirm, &s.impro, index)
	if err != nil {
		return false, err
	}
	s.logger.Debug("place removal", zap.Int("index", index), zap.Bool("removed", removed))
	return removed, nil
}

// RemoveAssignment asks confirm and removes the assignment at index. The last
// assignment is never removed.
func (s *Session) RemoveAssignment(ctx context.Context, index int, confirm caucus.Confirmer) (bool, error) {
	if !s.CanRemoveAssignment() {
		return false, newError(ErrLastItem, "an impro needs at least one student")
	}
	removed, err := ConfirmAndDeleteAssignment(ctx, confirm, &s.impro, index)
	if err != nil {
		return false, err
	}
	s.logger.Debug("assignment removal", zap.Int("index", index), zap.Bool("removed", removed))
	return removed, nil
}
