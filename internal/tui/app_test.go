package tui_test

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/caucus/internal/caucus"
	"github.com/f3rmion/caucus/internal/sheet"
	"github.com/f3rmion/caucus/internal/storage/sqlite"
	"github.com/f3rmion/caucus/internal/tui"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m tea.Model, msgs ...tea.Msg) tea.Model {
	t.Helper()
	for _, msg := range msgs {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		// Follow up on view messages the way the runtime would.
		if cmd != nil {
			if next := cmd(); next != nil {
				if _, ok := next.(tea.QuitMsg); !ok {
					m, _ = m.Update(next)
				}
			}
		}
	}
	return m
}

func TestApp_GenerateSwitchesToImpro(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "caucus.db"))
	require.NoError(t, err)
	defer store.Close()

	course, err := store.CreateCourse(ctx, "Monday")
	require.NoError(t, err)
	_, err = store.AddStudent(ctx, course.ID, "Ana")
	require.NoError(t, err)
	_, err = store.Characters().Create(ctx, "Pirate")
	require.NoError(t, err)
	_, err = store.Moods().Create(ctx, "Angry")
	require.NoError(t, err)
	_, err = store.Places().Create(ctx, "Beach")
	require.NoError(t, err)

	renderer, err := sheet.NewRenderer(sheet.FormatText)
	require.NoError(t, err)

	app := tui.NewApp(ctx, tui.Deps{
		Courses:       store,
		Characters:    store.Characters(),
		Moods:         store.Moods(),
		Places:        store.Places(),
		Random:        caucus.NewSeededSource(3),
		Renderer:      renderer,
		Clipboard:     func(string) error { return nil },
		DefaultPlaces: 1,
	})

	m := update(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Contains(t, m.View(), "Monday")

	m = update(t, m, runes("a"), runes("g"))
	view := m.View()
	assert.Contains(t, view, "Pirate")
	assert.Contains(t, view, "Beach")

	m = update(t, m, runes("?"))
	assert.Contains(t, m.View(), "Press any key to close")
	m = update(t, m, runes("x"), runes("3"))
	assert.Contains(t, m.View(), "Pirate")
	assert.Contains(t, m.View(), "characters: 1")
}
