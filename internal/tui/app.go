package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/caucus"
	"github.com/f3rmion/caucus/internal/clipboard"
	"github.com/f3rmion/caucus/internal/impro"
	"github.com/f3rmion/caucus/internal/sheet"
	"github.com/f3rmion/caucus/internal/tui/banner"
	"github.com/f3rmion/caucus/internal/tui/views"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewSetup ViewType = iota
	ViewImpro
	ViewPools
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// Deps is everything the UI needs from the rest of the program.
type Deps struct {
	Courses    views.CourseLister
	Characters caucus.Pool[caucus.Character]
	Moods      caucus.Pool[caucus.Mood]
	Places     caucus.Pool[caucus.Place]

	Random        caucus.RandomSource
	Renderer      *sheet.Renderer
	Banner        *banner.Banner // optional
	Clipboard     clipboard.Writer
	DefaultPlaces int
	Logger        *zap.Logger
}

// AppModel is the main TUI model
type AppModel struct {
	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Sub-models (views)
	setupView views.SetupModel
	improView views.ImproModel
	poolsView views.PoolsModel

	logger   *zap.Logger
	showHelp bool
}

// NewApp creates the TUI application.
func NewApp(ctx context.Context, deps Deps) AppModel {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.System
	}

	pools := impro.Pools{Characters: deps.Characters, Moods: deps.Moods, Places: deps.Places}
	gen := impro.NewGenerator(pools, deps.Random, logger)
	regen := impro.NewRegenerator(pools, deps.Random, logger)

	app := AppModel{
		sidebarWidth: 18,
		currentView:  ViewSetup,
		menuItems: []MenuItem{
			{Label: "Setup", View: ViewSetup, Shortcut: "1"},
			{Label: "Impro", View: ViewImpro, Shortcut: "2"},
			{Label: "Pools", View: ViewPools, Shortcut: "3"},
		},
		setupView: views.NewSetupModel(ctx, deps.Courses, deps.Places, gen, deps.DefaultPlaces, logger),
		improView: views.NewImproModel(ctx, regen, deps.Renderer, deps.Banner, deps.Clipboard, logger),
		poolsView: views.NewPoolsModel(ctx, deps.Characters, deps.Moods, deps.Places, logger),
		logger:    logger,
	}
	app.setupView.Refresh()
	app.poolsView.Refresh()
	return app
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// capturing reports whether the active view owns every keystroke.
func (m AppModel) capturing() bool {
	switch m.currentView {
	case ViewImpro:
		return m.improView.Confirming()
	case ViewPools:
		return m.poolsView.Editing()
	}
	return false
}

func (m *AppModel) switchTo(v ViewType) {
	m.currentView = v
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
	m.sidebarActive = false
	switch v {
	case ViewSetup:
		m.setupView.Refresh()
	case ViewPools:
		m.poolsView.Refresh()
	}
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if !m.capturing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			case "esc":
				if m.sidebarActive {
					return m, tea.Quit
				}
				m.sidebarActive = true
				return m, nil
			case "1":
				m.switchTo(ViewSetup)
				return m, nil
			case "2":
				m.switchTo(ViewImpro)
				return m, nil
			case "3":
				m.switchTo(ViewPools)
				return m, nil
			case "tab":
				if m.currentView != ViewPools || m.sidebarActive {
					m.sidebarActive = !m.sidebarActive
					return m, nil
				}
			}
		}

		if m.sidebarActive {
			switch msg.String() {
			case "j", "down":
				if m.selectedMenu < len(m.menuItems)-1 {
					m.selectedMenu++
				}
			case "k", "up":
				if m.selectedMenu > 0 {
					m.selectedMenu--
				}
			case "enter", "l", "right":
				m.switchTo(m.menuItems[m.selectedMenu].View)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2
		m.setupView.SetSize(contentWidth, contentHeight)
		m.improView.SetSize(contentWidth, contentHeight)
		m.poolsView.SetSize(contentWidth, contentHeight)
		return m, nil

	case views.ImproGeneratedMsg:
		m.improView.SetImpro(msg.Course, msg.Impro)
		m.logger.Info("impro generated",
			zap.String("course", msg.Course.ID),
			zap.String("summary", sheet.Summary(msg.Impro)))
		m.switchTo(ViewImpro)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewSetup:
		m.setupView, cmd = m.setupView.Update(msg)
	case ViewImpro:
		m.improView, cmd = m.improView.Update(msg)
	case ViewPools:
		m.poolsView, cmd = m.poolsView.Update(msg)
	}
	return m, cmd
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch m.currentView {
	case ViewSetup:
		content = m.setupView.View()
	case ViewImpro:
		content = m.improView.View()
	case ViewPools:
		content = m.poolsView.View()
	}

	mainContent := ContentStyle.
		Width(m.width - m.sidebarWidth - 4).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), mainContent)
}

func (m AppModel) renderSidebar() string {
	items := []string{SidebarTitleStyle.Render(" caucus "), ""}

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		style := SidebarItemStyle
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		}
		items = append(items, style.Render(label))
	}

	usedHeight := len(items) + 4
	for i := 0; i < m.height-usedHeight-2; i++ {
		items = append(items, "")
	}
	items = append(items, SidebarHelpStyle.Render("? Help  q Quit"))

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (m AppModel) renderHelp() string {
	line := func(key, desc string) string {
		return HelpKeyStyle.Render(key) + HelpDescStyle.Render(desc) + "\n"
	}

	text := HelpTitleStyle.Render("caucus - improv role assignment") + "\n\n"

	text += HelpSectionStyle.Render("Global Keys") + "\n"
	text += line("1-3", "Switch views")
	text += line("tab", "Toggle sidebar focus")
	text += line("?", "Show this help")
	text += line("q", "Quit")

	text += HelpSectionStyle.Render("Setup") + "\n"
	text += line("enter/h", "Courses / students")
	text += line("space", "Toggle student")
	text += line("a / n", "Select all / none")
	text += line("+ / -", "More / fewer places")
	text += line("g", "Generate impro")

	text += HelpSectionStyle.Render("Impro") + "\n"
	text += line("r", "New place")
	text += line("c / m", "New character / mood")
	text += line("d", "Remove place or student")
	text += line("y", "Copy sheet to clipboard")

	text += HelpSectionStyle.Render("Pools") + "\n"
	text += line("tab/←→", "Switch pool")
	text += line("a / e / x", "Add / rename / remove")

	text += "\n" + lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true).
		Render("Press any key to close")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpBoxStyle.Render(text))
}
