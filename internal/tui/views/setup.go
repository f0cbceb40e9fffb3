package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/caucus"
	"github.com/f3rmion/caucus/internal/impro"
)

// CourseLister lists courses with their rosters.
type CourseLister interface {
	ListCourses(ctx context.Context) ([]caucus.Course, error)
}

// ImproGeneratedMsg is sent when the setup view produced a new impro.
type ImproGeneratedMsg struct {
	Course caucus.Course
	Impro  caucus.Impro
}

type setupFocus int

const (
	focusCourses setupFocus = iota
	focusStudents
)

// SetupModel picks a course, the students taking part and the number of
// places, then generates an impro.
type SetupModel struct {
	ctx       context.Context
	courses   CourseLister
	places    caucus.Lister[caucus.Place]
	generator *impro.Generator
	logger    *zap.Logger

	courseList      []caucus.Course
	courseIdx       int
	studentIdx      int
	selected        map[string]bool
	placesCount     int
	availablePlaces int
	focus           setupFocus

	err    string
	width  int
	height int
}

// NewSetupModel creates the setup view.
func NewSetupModel(ctx context.Context, courses CourseLister, places caucus.Lister[caucus.Place],
	gen *impro.Generator, defaultPlaces int, logger *zap.Logger) SetupModel {
	if defaultPlaces < impro.MinPlacesCount {
		defaultPlaces = impro.DefaultPlacesCount
	}
	return SetupModel{
		ctx:         ctx,
		courses:     courses,
		places:      places,
		generator:   gen,
		logger:      logger,
		selected:    make(map[string]bool),
		placesCount: defaultPlaces,
	}
}

// SetSize updates the view dimensions.
func (m *SetupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Refresh reloads courses and the number of available places.
func (m *SetupModel) Refresh() {
	courses, err := m.courses.ListCourses(m.ctx)
	if err != nil {
		m.err = fmt.Sprintf("loading courses: %v", err)
		return
	}
	places, err := m.places.List(m.ctx)
	if err != nil {
		m.err = fmt.Sprintf("loading places: %v", err)
		return
	}
	m.courseList = courses
	m.availablePlaces = len(places)
	if m.courseIdx >= len(courses) {
		m.courseIdx = 0
		m.selected = make(map[string]bool)
	}
	if c, ok := m.course(); ok && m.studentIdx >= len(c.Students) {
		m.studentIdx = 0
	}
	m.err = ""
}

func (m SetupModel) course() (caucus.Course, bool) {
	if m.courseIdx < 0 || m.courseIdx >= len(m.courseList) {
		return caucus.Course{}, false
	}
	return m.courseList[m.courseIdx], true
}

// Update handles messages.
func (m SetupModel) Update(msg tea.Msg) (SetupModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "+", "=":
		if m.placesCount < impro.MaxPlacesCount {
			m.placesCount++
		}
		return m, nil
	case "-":
		if m.placesCount > impro.MinPlacesCount {
			m.placesCount--
		}
		return m, nil
	case "a":
		if c, ok := m.course(); ok {
			for _, s := range c.Students {
				m.selected[s.ID] = true
			}
		}
		return m, nil
	case "n":
		m.selected = make(map[string]bool)
		return m, nil
	case "g":
		return m.generate()
	}

	if m.focus == focusCourses {
		switch key.String() {
		case "j", "down":
			if m.courseIdx < len(m.courseList)-1 {
				m.courseIdx++
				m.studentIdx = 0
				m.selected = make(map[string]bool)
			}
		case "k", "up":
			if m.courseIdx > 0 {
				m.courseIdx--
				m.studentIdx = 0
				m.selected = make(map[string]bool)
			}
		case "enter", "l", "right":
			if c, ok := m.course(); ok && len(c.Students) > 0 {
				m.focus = focusStudents
			}
		}
		return m, nil
	}

	c, _ := m.course()
	switch key.String() {
	case "j", "down":
		if m.studentIdx < len(c.Students)-1 {
			m.studentIdx++
		}
	case "k", "up":
		if m.studentIdx > 0 {
			m.studentIdx--
		}
	case " ", "x", "enter":
		if m.studentIdx < len(c.Students) {
			id := c.Students[m.studentIdx].ID
			if m.selected[id] {
				delete(m.selected, id)
			} else {
				m.selected[id] = true
			}
		}
	case "h", "left", "backspace":
		m.focus = focusCourses
	}
	return m, nil
}

func (m SetupModel) generate() (SetupModel, tea.Cmd) {
	c, ok := m.course()
	if !ok {
		m.err = "create a course first (caucus course add)"
		return m, nil
	}
	if msg := impro.ValidateStudentSelection(m.selected, c); msg != "" {
		m.err = msg
		return m, nil
	}
	if msg := impro.ValidatePlacesCount(m.placesCount, m.availablePlaces); msg != "" {
		m.err = msg
		return m, nil
	}

	imp, err := m.generator.Generate(m.ctx, c.StudentsByID(m.selected), m.placesCount)
	if err != nil {
		m.logger.Info("generation refused", zap.String("course", c.ID), zap.Error(err))
		m.err = err.Error()
		return m, nil
	}
	m.err = ""
	return m, func() tea.Msg { return ImproGeneratedMsg{Course: c, Impro: imp} }
}

// View renders the setup view.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("New impro"))
	b.WriteString("\n")

	if len(m.courseList) == 0 {
		b.WriteString(mutedStyle.Render("No course yet"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Run 'caucus course add <name>' then 'caucus student add'"))
		b.WriteString("\n")
		m.writeFooter(&b)
		return b.String()
	}

	b.WriteString(headerStyle.Render("Course"))
	b.WriteString("\n")
	for i, c := range m.courseList {
		line := fmt.Sprintf("  %s (%d)", c.Name, len(c.Students))
		if i == m.courseIdx {
			line = "▸ " + line[2:]
			if m.focus == focusCourses {
				b.WriteString(selectedRowStyle.Render(line))
			} else {
				b.WriteString(rowStyle.Bold(true).Render(line))
			}
		} else {
			b.WriteString(mutedStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	c, _ := m.course()
	b.WriteString(headerStyle.Render(fmt.Sprintf("Students (%d/%d selected)", m.selectedCount(c), len(c.Students))))
	b.WriteString("\n")
	if len(c.Students) == 0 {
		b.WriteString(mutedStyle.Render("  No students in this course"))
		b.WriteString("\n")
	}
	for i, s := range c.Students {
		box := "[ ]"
		if m.selected[s.ID] {
			box = "[x]"
		}
		line := fmt.Sprintf("  %s %s", box, s.Name)
		if m.focus == focusStudents && i == m.studentIdx {
			b.WriteString(selectedRowStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Places: "))
	b.WriteString(rowStyle.Render(fmt.Sprintf("%d", m.placesCount)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  (%d available)", m.availablePlaces)))
	b.WriteString("\n")

	m.writeFooter(&b)
	return b.String()
}

func (m SetupModel) writeFooter(b *strings.Builder) {
	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("j/k: move • enter/h: courses⇄students • space: toggle • a/n: all/none • +/-: places • g: generate"))
}

func (m SetupModel) selectedCount(c caucus.Course) int {
	n := 0
	for _, s := range c.Students {
		if m.selected[s.ID] {
			n++
		}
	}
	return n
}
