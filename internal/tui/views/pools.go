package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/caucus"
)

type entry struct {
	ID   string
	Name string
}

// poolTab erases the entity type of one pool so the view can treat all
// three alike.
type poolTab struct {
	kind   caucus.Kind
	list   func(ctx context.Context) ([]entry, error)
	create func(ctx context.Context, name string) error
	rename func(ctx context.Context, id, name string) error
	remove func(ctx context.Context, id string) (bool, error)
}

func newPoolTab[T any](kind caucus.Kind, pool caucus.Pool[T], toEntry func(T) entry) poolTab {
	return poolTab{
		kind: kind,
		list: func(ctx context.Context) ([]entry, error) {
			items, err := pool.List(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]entry, 0, len(items))
			for _, it := range items {
				out = append(out, toEntry(it))
			}
			return out, nil
		},
		create: func(ctx context.Context, name string) error {
			_, err := pool.Create(ctx, name)
			return err
		},
		rename: func(ctx context.Context, id, name string) error {
			_, err := pool.Rename(ctx, id, name)
			return err
		},
		remove: pool.Remove,
	}
}

type editMode int

const (
	editNone editMode = iota
	editAdd
	editRename
	editRemove
)

// PoolsModel lists and edits the character, mood and place pools.
type PoolsModel struct {
	ctx    context.Context
	tabs   []poolTab
	logger *zap.Logger

	tab    int
	items  []entry
	cursor int

	mode  editMode
	input textinput.Model

	status string
	err    string
	width  int
	height int
}

// NewPoolsModel creates the pools view.
func NewPoolsModel(ctx context.Context, characters caucus.Pool[caucus.Character],
	moods caucus.Pool[caucus.Mood], places caucus.Pool[caucus.Place], logger *zap.Logger) PoolsModel {
	ti := textinput.New()
	ti.CharLimit = 80
	ti.Width = 40

	return PoolsModel{
		ctx: ctx,
		tabs: []poolTab{
			newPoolTab(caucus.KindCharacter, characters, func(c caucus.Character) entry { return entry{c.ID, c.Name} }),
			newPoolTab(caucus.KindMood, moods, func(m caucus.Mood) entry { return entry{m.ID, m.Name} }),
			newPoolTab(caucus.KindPlace, places, func(p caucus.Place) entry { return entry{p.ID, p.Name} }),
		},
		logger: logger,
		input:  ti,
	}
}

// SetSize updates the view dimensions.
func (m *PoolsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Editing reports whether the view is capturing keystrokes.
func (m PoolsModel) Editing() bool {
	return m.mode != editNone
}

// Refresh reloads the active tab.
func (m *PoolsModel) Refresh() {
	items, err := m.tabs[m.tab].list(m.ctx)
	if err != nil {
		m.err = fmt.Sprintf("loading %s: %v", m.tabs[m.tab].kind.Plural(), err)
		return
	}
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = max(len(items)-1, 0)
	}
}

// Update handles messages.
func (m PoolsModel) Update(msg tea.Msg) (PoolsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == editAdd || m.mode == editRename {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch m.mode {
	case editAdd, editRename:
		return m.updateInput(key)
	case editRemove:
		switch key.String() {
		case "y", "Y":
			m.mode = editNone
			m.removeCurrent()
		case "n", "N", "esc":
			m.mode = editNone
		}
		return m, nil
	}

	m.status, m.err = "", ""
	switch key.String() {
	case "tab", "right", "l":
		m.tab = (m.tab + 1) % len(m.tabs)
		m.cursor = 0
		m.Refresh()
	case "shift+tab", "left", "h":
		m.tab = (m.tab + len(m.tabs) - 1) % len(m.tabs)
		m.cursor = 0
		m.Refresh()
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		m.mode = editAdd
		m.input.Placeholder = "new " + string(m.tabs[m.tab].kind)
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd
	case "e":
		if len(m.items) == 0 {
			break
		}
		m.mode = editRename
		m.input.Placeholder = ""
		m.input.SetValue(m.items[m.cursor].Name)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	case "x":
		if len(m.items) > 0 {
			m.mode = editRemove
		}
	}
	return m, nil
}

func (m PoolsModel) updateInput(key tea.KeyMsg) (PoolsModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = editNone
		m.input.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.err = "name must not be empty"
			return m, nil
		}
		tab := m.tabs[m.tab]
		var err error
		if m.mode == editAdd {
			err = tab.create(m.ctx, name)
		} else {
			err = tab.rename(m.ctx, m.items[m.cursor].ID, name)
		}
		m.mode = editNone
		m.input.Blur()
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.logger.Debug("pool edited", zap.String("pool", tab.kind.Plural()), zap.String("name", name))
		m.status = "saved " + name
		m.Refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m *PoolsModel) removeCurrent() {
	if m.cursor >= len(m.items) {
		return
	}
	it := m.items[m.cursor]
	removed, err := m.tabs[m.tab].remove(m.ctx, it.ID)
	if err != nil {
		m.err = err.Error()
		return
	}
	if removed {
		m.status = "removed " + it.Name
	}
	m.Refresh()
}

// View renders the pools view.
func (m PoolsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Pools"))
	b.WriteString("\n")

	var tabViews []string
	for i, t := range m.tabs {
		style := tabStyle
		if i == m.tab {
			style = tabActiveStyle
		}
		label := strings.ToUpper(t.kind.Plural()[:1]) + t.kind.Plural()[1:]
		tabViews = append(tabViews, style.Render(label))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabViews...))
	b.WriteString("\n")
	b.WriteString(divider(m.width))
	b.WriteString("\n\n")

	kind := m.tabs[m.tab].kind
	if len(m.items) == 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("No %s yet, press a to add one", kind.Plural())))
		b.WriteString("\n")
	} else {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s: %d", kind.Plural(), len(m.items))))
		b.WriteString("\n\n")

		visible := max(m.height-14, 5)
		start := max(m.cursor-visible+1, 0)
		end := min(start+visible, len(m.items))
		for i := start; i < end; i++ {
			if i == m.cursor {
				b.WriteString(selectedRowStyle.Render("▸ " + m.items[i].Name))
			} else {
				b.WriteString(rowStyle.Render("  " + m.items[i].Name))
			}
			b.WriteString("\n")
		}
		if len(m.items) > visible {
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render(fmt.Sprintf("Showing %d-%d of %d", start+1, end, len(m.items))))
			b.WriteString("\n")
		}
	}

	switch m.mode {
	case editAdd, editRename:
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("enter: save • esc: cancel"))
		b.WriteString("\n")
	case editRemove:
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Remove %s %q?  (y/n)", kind, m.items[m.cursor].Name)))
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab/←→: switch pool • j/k: move • a: add • e: rename • x: remove"))
	return b.String()
}
