package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/caucus"
	"github.com/f3rmion/caucus/internal/clipboard"
	"github.com/f3rmion/caucus/internal/impro"
	"github.com/f3rmion/caucus/internal/sheet"
	"github.com/f3rmion/caucus/internal/tui/banner"
)

// ImproModel shows the current impro and lets the instructor reroll or
// remove any place, character or mood.
//
// The cursor walks the places first, then the assignments.
type ImproModel struct {
	ctx      context.Context
	regen    *impro.Regenerator
	session  *impro.Session
	renderer *sheet.Renderer
	banner   *banner.Banner
	clip     clipboard.Writer
	logger   *zap.Logger

	course caucus.Course
	cursor int

	confirming    bool
	confirmPrompt string

	status string
	err    string
	width  int
	height int
}

// NewImproModel creates the impro view. bnr may be nil.
func NewImproModel(ctx context.Context, regen *impro.Regenerator, renderer *sheet.Renderer,
	bnr *banner.Banner, clip clipboard.Writer, logger *zap.Logger) ImproModel {
	return ImproModel{
		ctx:      ctx,
		regen:    regen,
		renderer: renderer,
		banner:   bnr,
		clip:     clip,
		logger:   logger,
	}
}

// SetImpro replaces the displayed impro.
func (m *ImproModel) SetImpro(course caucus.Course, imp caucus.Impro) {
	m.course = course
	m.session = impro.NewSession(imp, m.regen, m.logger)
	m.cursor = 0
	m.confirming = false
	m.status = ""
	m.err = ""
}

// HasImpro reports whether an impro has been generated.
func (m ImproModel) HasImpro() bool {
	return m.session != nil
}

// Impro returns the displayed impro.
func (m ImproModel) Impro() caucus.Impro {
	if m.session == nil {
		return caucus.Impro{}
	}
	return m.session.Impro()
}

// Confirming reports whether a deletion prompt is open.
func (m ImproModel) Confirming() bool {
	return m.confirming
}

// SetSize updates the view dimensions.
func (m *ImproModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m ImproModel) rows() int {
	imp := m.Impro()
	return len(imp.Places) + len(imp.Assignments)
}

// target resolves the cursor to a place index or an assignment index.
func (m ImproModel) target() (place bool, index int) {
	n := len(m.Impro().Places)
	if m.cursor < n {
		return true, m.cursor
	}
	return false, m.cursor - n
}

// Update handles messages.
func (m ImproModel) Update(msg tea.Msg) (ImproModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.session == nil {
		return m, nil
	}

	if m.confirming {
		switch key.String() {
		case "y", "Y":
			m.confirming = false
			m.remove(caucus.Answer(true))
		case "n", "N", "esc":
			m.confirming = false
			m.status = "kept"
		}
		return m, nil
	}

	m.status, m.err = "", ""
	isPlace, i := m.target()

	switch key.String() {
	case "j", "down":
		if m.cursor < m.rows()-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		if !isPlace {
			m.err = "r rerolls a place, use c or m on a student"
			break
		}
		if p, err := m.session.RegeneratePlace(m.ctx, i); err != nil {
			m.err = err.Error()
		} else {
			m.status = "new place: " + p.Name
		}
	case "c":
		if isPlace {
			m.err = "c rerolls a character, move to a student"
			break
		}
		if c, err := m.session.RegenerateCharacter(m.ctx, i); err != nil {
			m.err = err.Error()
		} else {
			m.status = "new character: " + c.Name
		}
	case "m":
		if isPlace {
			m.err = "m rerolls a mood, move to a student"
			break
		}
		if md, err := m.session.RegenerateMood(m.ctx, i); err != nil {
			m.err = err.Error()
		} else {
			m.status = "new mood: " + md.Name
		}
	case "d", "delete":
		// Ask the session with a recording confirmer: it enforces the
		// last-item guard and hands us the prompt without deleting.
		var prompt string
		ask := caucus.ConfirmFunc(func(_ context.Context, message string) (bool, error) {
			prompt = message
			return false, nil
		})
		if _, err := m.removeWith(ask); err != nil {
			m.err = err.Error()
			break
		}
		m.confirming = true
		m.confirmPrompt = prompt
	case "y":
		m.copySheet()
	}
	return m, nil
}

func (m *ImproModel) removeWith(confirm caucus.Confirmer) (bool, error) {
	isPlace, i := m.target()
	if isPlace {
		return m.session.RemovePlace(m.ctx, i, confirm)
	}
	return m.session.RemoveAssignment(m.ctx, i, confirm)
}

func (m *ImproModel) remove(confirm caucus.Confirmer) {
	removed, err := m.removeWith(confirm)
	switch {
	case err != nil:
		m.err = err.Error()
	case removed:
		m.status = "removed"
		if m.cursor >= m.rows() {
			m.cursor = m.rows() - 1
		}
	}
}

func (m *ImproModel) copySheet() {
	text, err := m.renderer.Render(m.Impro())
	if err != nil {
		m.err = err.Error()
		return
	}
	if err := m.clip(text); err != nil {
		if errors.Is(err, clipboard.ErrUnavailable) {
			m.err = err.Error()
		} else {
			m.err = fmt.Sprintf("copy failed: %v", err)
		}
		return
	}
	m.status = "sheet copied to clipboard"
}

// View renders the impro view.
func (m ImproModel) View() string {
	var b strings.Builder

	if m.session == nil {
		b.WriteString(titleStyle.Render("Impro"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Nothing generated yet, go to Setup (1) and press g"))
		return b.String()
	}

	imp := m.Impro()
	if m.banner != nil {
		if art := m.banner.Render("IMPRO", 3, m.width-4); art != "" {
			b.WriteString(bannerStyle.Render(art))
			b.WriteString("\n")
		}
	}
	b.WriteString(titleStyle.Render(m.course.Name))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Places"))
	b.WriteString("\n")
	for i, p := range imp.Places {
		m.writeRow(&b, i, "  "+p.Name)
	}
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	sw, cw := runewidth.StringWidth("Student"), runewidth.StringWidth("Character")
	for _, a := range imp.Assignments {
		sw = max(sw, runewidth.StringWidth(a.Student.Name))
		cw = max(cw, runewidth.StringWidth(a.Character.Name))
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %s  %s  %s",
		runewidth.FillRight("Student", sw), runewidth.FillRight("Character", cw), "Mood")))
	b.WriteString("\n")
	for i, a := range imp.Assignments {
		line := fmt.Sprintf("  %s  %s  %s",
			runewidth.FillRight(a.Student.Name, sw), runewidth.FillRight(a.Character.Name, cw), a.Mood.Name)
		m.writeRow(&b, len(imp.Places)+i, line)
	}

	if m.confirming {
		b.WriteString(confirmStyle.Render(m.confirmPrompt + "  (y/n)"))
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
	b.WriteString(helpStyle.Render("j/k: move • r: place • c: character • m: mood • d: remove • y: copy sheet"))
	return b.String()
}

func (m ImproModel) writeRow(b *strings.Builder, row int, line string) {
	if row == m.cursor {
		b.WriteString(selectedRowStyle.Render("▸" + line[1:]))
	} else {
		b.WriteString(rowStyle.Render(line))
	}
	b.WriteString("\n")
}
