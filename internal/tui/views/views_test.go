package views_test

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/caucus"
	"github.com/f3rmion/caucus/internal/impro"
	"github.com/f3rmion/caucus/internal/sheet"
	"github.com/f3rmion/caucus/internal/tui/views"
)

type named interface {
	caucus.Character | caucus.Mood | caucus.Place
}

// memPool is an in-memory caucus.Pool.
type memPool[T named] struct {
	items []T
	next  int
}

func newMemPool[T named](prefix string, names ...string) *memPool[T] {
	p := &memPool[T]{}
	for _, n := range names {
		p.items = append(p.items, T{ID: fmt.Sprintf("%s%d", prefix, p.next), Name: n})
		p.next++
	}
	return p
}

func (p *memPool[T]) List(ctx context.Context) ([]T, error) {
	return append([]T(nil), p.items...), nil
}

func (p *memPool[T]) Create(ctx context.Context, name string) (T, error) {
	item := T{ID: fmt.Sprintf("new%d", p.next), Name: name}
	p.next++
	p.items = append([]T{item}, p.items...)
	return item, nil
}

func (p *memPool[T]) Rename(ctx context.Context, id, newName string) (T, error) {
	for i, it := range p.items {
		if caucus.Place(it).ID == id {
			p.items[i] = T{ID: id, Name: newName}
			return p.items[i], nil
		}
	}
	var zero T
	return zero, caucus.ErrNotFound
}

func (p *memPool[T]) Remove(ctx context.Context, id string) (bool, error) {
	for i, it := range p.items {
		if caucus.Place(it).ID == id {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type courses []caucus.Course

func (c courses) ListCourses(ctx context.Context) ([]caucus.Course, error) { return c, nil }

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press[M interface {
	Update(tea.Msg) (M, tea.Cmd)
}](m M, keys ...string) (M, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m, cmd
}

type world struct {
	characters *memPool[caucus.Character]
	moods      *memPool[caucus.Mood]
	places     *memPool[caucus.Place]
	pools      impro.Pools
}

func newWorld() *world {
	w := &world{
		characters: newMemPool[caucus.Character]("c", "Pirate", "Chef", "Robot"),
		moods:      newMemPool[caucus.Mood]("m", "Angry", "Shy"),
		places:     newMemPool[caucus.Place]("p", "Beach", "Kitchen", "Moon"),
	}
	w.pools = impro.Pools{Characters: w.characters, Moods: w.moods, Places: w.places}
	return w
}

var monday = caucus.Course{ID: "k1", Name: "Monday", Students: []caucus.Student{
	{ID: "s1", Name: "Ana"}, {ID: "s2", Name: "Ben"},
}}

func newSetup(w *world) views.SetupModel {
	gen := impro.NewGenerator(w.pools, caucus.NewSeededSource(1), nil)
	m := views.NewSetupModel(context.Background(), courses{monday}, w.places, gen, 1, zap.NewNop())
	m.Refresh()
	return m
}

func TestSetup_RequiresSelection(t *testing.T) {
	m, cmd := press(newSetup(newWorld()), "g")
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), impro.MsgNoStudentSelected)
}

func TestSetup_TooManyPlaces(t *testing.T) {
	m, cmd := press(newSetup(newWorld()), "a", "+", "+", "+", "g")
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "maximum 3 places available")
}

func TestSetup_GeneratesForSelectedStudents(t *testing.T) {
	m, _ := press(newSetup(newWorld()), "enter", "j", " ")
	_, cmd := press(m, "g")
	require.NotNil(t, cmd)

	msg, ok := cmd().(views.ImproGeneratedMsg)
	require.True(t, ok)
	assert.Equal(t, "k1", msg.Course.ID)
	require.Len(t, msg.Impro.Assignments, 1)
	assert.Equal(t, "Ben", msg.Impro.Assignments[0].Student.Name)
	assert.Len(t, msg.Impro.Places, 1)
}

func TestSetup_PoolErrorShown(t *testing.T) {
	w := newWorld()
	w.characters.items = w.characters.items[:1]
	m, cmd := press(newSetup(w), "a", "g")
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "not enough characters (1) for 2 students")
}

func newImproView(t *testing.T, w *world, imp caucus.Impro) (views.ImproModel, *string) {
	t.Helper()
	renderer, err := sheet.NewRenderer(sheet.FormatText)
	require.NoError(t, err)
	var copied string
	regen := impro.NewRegenerator(w.pools, caucus.NewSequenceSource(0), nil)
	m := views.NewImproModel(context.Background(), regen, renderer, nil,
		func(text string) error { copied = text; return nil }, zap.NewNop())
	m.SetImpro(monday, imp)
	return m, &copied
}

func sampleImpro() caucus.Impro {
	return caucus.Impro{
		Assignments: []caucus.ImproAssignment{
			{Student: monday.Students[0], Character: caucus.Character{ID: "c0", Name: "Pirate"}, Mood: caucus.Mood{ID: "m0", Name: "Angry"}},
			{Student: monday.Students[1], Character: caucus.Character{ID: "c1", Name: "Chef"}, Mood: caucus.Mood{ID: "m0", Name: "Angry"}},
		},
		Places: []caucus.Place{{ID: "p0", Name: "Beach"}},
	}
}

func TestImpro_RegeneratePlace(t *testing.T) {
	m, _ := newImproView(t, newWorld(), sampleImpro())
	m, _ = press(m, "r")
	assert.Equal(t, "p1", m.Impro().Places[0].ID)
	assert.Contains(t, m.View(), "new place: Kitchen")
}

func TestImpro_RegenerateCharacterAndMood(t *testing.T) {
	m, _ := newImproView(t, newWorld(), sampleImpro())
	m, _ = press(m, "j", "c", "m")
	a := m.Impro().Assignments[0]
	assert.Equal(t, "c2", a.Character.ID)
	assert.Equal(t, "m1", a.Mood.ID)
}

func TestImpro_LastPlaceIsKept(t *testing.T) {
	m, _ := newImproView(t, newWorld(), sampleImpro())
	m, _ = press(m, "d")
	assert.False(t, m.Confirming())
	assert.Contains(t, m.View(), "an impro needs at least one place")
	assert.Len(t, m.Impro().Places, 1)
}

func TestImpro_DeleteStudentAfterConfirmation(t *testing.T) {
	m, _ := newImproView(t, newWorld(), sampleImpro())

	m, _ = press(m, "j", "d")
	require.True(t, m.Confirming())
	assert.Contains(t, m.View(), `Remove student "Ana" from the impro?`)

	m, _ = press(m, "n")
	assert.Len(t, m.Impro().Assignments, 2)

	m, _ = press(m, "d", "y")
	require.Len(t, m.Impro().Assignments, 1)
	assert.Equal(t, "Ben", m.Impro().Assignments[0].Student.Name)
}

func TestImpro_CopySheet(t *testing.T) {
	m, copied := newImproView(t, newWorld(), sampleImpro())
	m, _ = press(m, "y")
	assert.Contains(t, *copied, "Places: Beach")
	assert.Contains(t, m.View(), "sheet copied to clipboard")
}

func TestPools_AddRenameRemove(t *testing.T) {
	w := newWorld()
	m := views.NewPoolsModel(context.Background(), w.characters, w.moods, w.places, zap.NewNop())
	m.Refresh()
	assert.Contains(t, m.View(), "characters: 3")

	m, _ = press(m, "a", "N", "i", "n", "j", "a", "enter")
	assert.False(t, m.Editing())
	assert.Equal(t, "Ninja", w.characters.items[0].Name)

	m, _ = press(m, "e")
	require.True(t, m.Editing())
	m, _ = press(m, "!", "enter")
	assert.Equal(t, "Ninja!", w.characters.items[0].Name)

	m, _ = press(m, "x", "y")
	assert.Len(t, w.characters.items, 3)
	assert.Contains(t, m.View(), "removed Ninja!")

	m, _ = press(m, "l")
	assert.Contains(t, m.View(), "moods: 2")
}
