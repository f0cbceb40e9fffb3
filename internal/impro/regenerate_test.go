package impro_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/f3rmion/caucus/internal/caucus"
	"github.com/f3rmion/caucus/internal/impro"
)

func assignment(student, character, mood string) caucus.ImproAssignment {
	return caucus.ImproAssignment{
		Student:   caucus.Student{ID: student, Name: student},
		Character: caucus.Character{ID: character},
		Mood:      caucus.Mood{ID: mood},
	}
}

func TestRegeneratePlace_PicksUnusedPlace(t *testing.T) {
	f := newFixture(0, 0, 4)
	current := []caucus.Place{f.places.items[0], f.places.items[1]}

	p, err := impro.NewRegenerator(f.pools(), caucus.NewSequenceSource(0), nil).RegeneratePlace(context.Background(), current, 0)
	require.NoError(t, err)
	assert.Equal(t, "p2", p.ID)

	p, err = impro.NewRegenerator(f.pools(), caucus.NewSequenceSource(0.99), nil).RegeneratePlace(context.Background(), current, 0)
	require.NoError(t, err)
	assert.Equal(t, "p3", p.ID)

	assert.Equal(t, []string{"p0", "p1"}, idsOf(current, placeID), "arguments must not be modified")
}

// Every pool place is already in the impro.
func TestRegeneratePlace_PoolExhausted(t *testing.T) {
	f := newFixture(0, 0, 3)
	current := append([]caucus.Place(nil), f.places.items...)

	_, err := impro.NewRegenerator(f.pools(), caucus.NewSequenceSource(0), nil).RegeneratePlace(context.Background(), current, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, impro.ErrExhausted)
	assert.EqualError(t, err, "no other place available")
}

func TestRegeneratePlace_IndexOutOfRange(t *testing.T) {
	f := newFixture(0, 0, 3)
	r := impro.NewRegenerator(f.pools(), caucus.NewSequenceSource(0), nil)
	_, err := r.RegeneratePlace(context.Background(), f.places.items[:1], 1)
	assert.ErrorIs(t, err, impro.ErrInvalidInput)
	_, err = r.RegeneratePlace(context.Background(), f.places.items[:1], -1)
	assert.ErrorIs(t, err, impro.ErrInvalidInput)
	assert.Zero(t, f.places.calls)
}

func TestRegenerateCharacter_ExcludesEveryUsedCharacter(t *testing.T) {
	f := newFixture(4, 1, 1)
	current := []caucus.ImproAssignment{assignment("s0", "c0", "m0"), assignment("s1", "c2", "m0")}

	c, err := impro.NewRegenerator(f.pools(), caucus.NewSequenceSource(0), nil).RegenerateCharacter(context.Background(), current, 1)
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)

	c, err = impro.NewRegenerator(f.pools(), caucus.NewSequenceSource(0.6), nil).RegenerateCharacter(context.Background(), current, 1)
	require.NoError(t, err)
	assert.Equal(t, "c3", c.ID)
}

func TestRegenerateCharacter_Exhausted(t *testing.T) {
	f := newFixture(2, 1, 1)
	current := []caucus.ImproAssignment{assignment("s0", "c0", "m0"), assignment("s1", "c1", "m0")}
	_, err := impro.NewRegenerator(f.pools(), caucus.NewSequenceSource(0), nil).RegenerateCharacter(context.Background(), current, 0)
	assert.ErrorIs(t, err, impro.ErrExhausted)
	assert.EqualError(t, err, "no other character available")
}

func TestRegenerateCharacter_ListError(t *testing.T) {
	f := newFixture(2, 1, 1)
	f.characters.err = errBackend
	current := []caucus.ImproAssignment{assignment("s0", "c0", "m0")}
	_, err := impro.NewRegenerator(f.pools(), caucus.NewSequenceSource(0), nil).RegenerateCharacter(context.Background(), current, 0)
	assert.ErrorIs(t, err, errBackend)
}

// Another assignment's mood is a legitimate replacement.
func TestRegenerateMood_AllowsMoodUsedElsewhere(t *testing.T) {
	f := newFixture(0, 2, 0)
	current := []caucus.ImproAssignment{assignment("s0", "c0", "m0"), assignment("s1", "c1", "m1")}

	m, err := impro.NewRegenerator(f.pools(), caucus.NewSequenceSource(0), nil).RegenerateMood(context.Background(), current, 0)
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, current[1].Mood.ID, m.ID)
}

func TestRegenerateMood_EmptyPool(t *testing.T) {
	f := newFixture(0, 0, 0)
	current := []caucus.ImproAssignment{assignment("s0", "c0", "m0")}
	_, err := impro.NewRegenerator(f.pools(), caucus.NewSequenceSource(0), nil).RegenerateMood(context.Background(), current, 0)
	assert.ErrorIs(t, err, impro.ErrInsufficientPool)
	assert.EqualError(t, err, "no emotion available")
}

func TestRegenerateMood_OnlyCurrentMood(t *testing.T) {
	f := newFixture(0, 1, 0)
	current := []caucus.ImproAssignment{assignment("s0", "c0", "m0")}
	_, err := impro.NewRegenerator(f.pools(), caucus.NewSequenceSource(0), nil).RegenerateMood(context.Background(), current, 0)
	assert.ErrorIs(t, err, impro.ErrExhausted)
	assert.EqualError(t, err, "no other emotion available")
}

func TestRegenerate_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		nStudents := rapid.IntRange(1, 8).Draw(rt, "students")
		nChars := rapid.IntRange(nStudents+1, 15).Draw(rt, "characters")
		nMoods := rapid.IntRange(2, 6).Draw(rt, "moods")
		nPlaces := rapid.IntRange(2, 8).Draw(rt, "places")
		placesCount := rapid.IntRange(1, nPlaces-1).Draw(rt, "placesCount")
		draws := rapid.SliceOfN(rapid.Float64Range(0, 0.999999), 1, 30).Draw(rt, "draws")

		f := newFixture(nChars, nMoods, nPlaces)
		src := caucus.NewSequenceSource(draws...)
		imp, err := impro.NewGenerator(f.pools(), src, nil).Generate(context.Background(), students(nStudents), placesCount)
		require.NoError(rt, err)

		r := impro.NewRegenerator(f.pools(), src, nil)
		idx := rapid.IntRange(0, nStudents-1).Draw(rt, "index")

		used := imp.CharacterIDs()
		c, err := r.RegenerateCharacter(context.Background(), imp.Assignments, idx)
		require.NoError(rt, err)
		assert.NotContains(rt, used, c.ID)
		assert.NotEqual(rt, imp.Assignments[idx].Character.ID, c.ID)

		m, err := r.RegenerateMood(context.Background(), imp.Assignments, idx)
		require.NoError(rt, err)
		assert.NotEqual(rt, imp.Assignments[idx].Mood.ID, m.ID)

		pIdx := rapid.IntRange(0, len(imp.Places)-1).Draw(rt, "placeIndex")
		p, err := r.RegeneratePlace(context.Background(), imp.Places, pIdx)
		require.NoError(rt, err)
		assert.NotContains(rt, imp.PlaceIDs(), p.ID)
	})
}
