package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/nz-tides/internal/models"
)

// AppState represents the current state of the application
type AppState int

const (
	StateImporting AppState = iota // Loading bundled tables into the database
	StatePortList                  // Choose a port
	StateLoading                   // Decoding a day's tides
	StateDisplay                   // Browse tides for the chosen port
	StateError                     // Error state
)

// Resolver is the subset of *tides.Resolver the browser uses
type Resolver interface {
	GetTidesForDate(ctx context.Context, port models.Port, date time.Time) ([]models.TideEvent, error)
	Next(ctx context.Context, e models.TideEvent) (models.TideEvent, error)
	Previous(ctx context.Context, e models.TideEvent) (models.TideEvent, error)
}

// Importer loads tide tables before browsing starts, reporting progress on
// the channel.
type Importer func(ctx context.Context, progress chan<- string) (int, error)

// Options configures a Model. The zero value browses today's tides in UTC,
// starting at the port list.
type Options struct {
	Location *time.Location
	Port     *models.Port // open this port straight away
	Date     time.Time    // first day shown, today when zero
	Importer Importer
	Now      func() time.Time
}

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	resolver Resolver
	loc      *time.Location
	now      func() time.Time

	portList    list.Model
	initialPort *models.Port
	startDate   time.Time

	// Current day
	port     models.Port
	date     time.Time
	tides    []models.TideEvent
	selected int

	// Import
	spinner        spinner.Model
	importer       Importer
	importStatus   string
	importChannels *importStartedMsg
}

// NewModel creates a new application model
func NewModel(resolver Resolver, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	state := StatePortList
	if opts.Importer != nil {
		state = StateImporting
	}

	return Model{
		state:       state,
		resolver:    resolver,
		loc:         loc,
		now:         now,
		portList:    createPortList(models.AllPorts(), 0, 0),
		initialPort: opts.Port,
		startDate:   opts.Date,
		spinner:     s,
		importer:    opts.Importer,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.importer != nil {
		return tea.Batch(m.spinner.Tick, startImport(m.importer))
	}
	if m.initialPort != nil {
		return m.openPort(*m.initialPort)
	}
	return nil
}

func (m Model) today() time.Time {
	y, mo, d := m.now().In(m.loc).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, m.loc)
}

func (m Model) openPort(port models.Port) tea.Cmd {
	date := m.startDate
	if date.IsZero() {
		date = m.today()
	}
	return tea.Batch(m.spinner.Tick, fetchDay(m.resolver, port, date, nil))
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.portList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil
	}

	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	case importStartedMsg:
		m.importStatus = "Starting import..."
		m.importChannels = &msg
		return m, tea.Batch(
			waitForImportStatus(msg.progressChan),
			waitForImportResult(msg.resultChan),
		)

	case importStatusMsg:
		m.importStatus = string(msg)
		if m.importChannels != nil {
			return m, waitForImportStatus(m.importChannels.progressChan)
		}
		return m, nil

	case importResultMsg:
		m.importChannels = nil
		if msg.err != nil {
			m.err = importFailed(msg.err)
			m.state = StateError
			return m, nil
		}
		m.importStatus = fmt.Sprintf("Imported %d tide tables", msg.count)
		m.state = StatePortList
		if m.initialPort != nil {
			m.port = *m.initialPort
			m.state = StateLoading
			return m, m.openPort(*m.initialPort)
		}
		return m, nil

	case tidesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = StateError
			return m, nil
		}
		m.port = msg.port
		m.date = msg.date
		m.tides = msg.tides
		m.selected = 0
		if msg.focus != nil {
			for i, e := range m.tides {
				if e.Matches(*msg.focus) {
					m.selected = i
				}
			}
		}
		m.state = StateDisplay
		return m, nil

	case tideSteppedMsg:
		if msg.err != nil {
			// Stay on the current day, typically at the edge of the data.
			m.err = msg.err
			return m, nil
		}
		if sameDay(msg.tide.Time, m.date) {
			for i, e := range m.tides {
				if e.Matches(msg.tide) {
					m.selected = i
				}
			}
			return m, nil
		}
		m.state = StateLoading
		focus := msg.tide
		return m, fetchDay(m.resolver, m.port, msg.tide.Time, &focus)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if keyMsg.String() == "q" && !(m.state == StatePortList && m.portList.FilterState() == list.Filtering) {
			return m, tea.Quit
		}

		switch m.state {
		case StatePortList:
			return m.handlePortList(msg)

		case StateDisplay:
			return m.handleDisplay(keyMsg)

		case StateError:
			// Any key returns to the port list (except quit keys)
			m.state = StatePortList
			m.err = nil
			return m, nil
		}
	}

	switch m.state {
	case StateImporting, StateLoading:
		m.spinner, cmd = m.spinner.Update(msg)
	case StatePortList:
		m.portList, cmd = m.portList.Update(msg)
	}

	return m, cmd
}

// handlePortList handles keyboard input in the port list
func (m Model) handlePortList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter &&
		m.portList.FilterState() != list.Filtering {
		if item, ok := m.portList.SelectedItem().(portItem); ok {
			m.port = item.port
			m.state = StateLoading
			return m, m.openPort(item.port)
		}
	}

	m.portList, cmd = m.portList.Update(msg)
	return m, cmd
}

// handleDisplay handles keyboard input while browsing a day
func (m Model) handleDisplay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch msg.String() {
	case "n", "right", "l":
		if m.selected < len(m.tides)-1 {
			m.selected++
			return m, nil
		}
		if sel, ok := m.selectedTide(); ok {
			return m, stepTide(m.resolver, sel, true)
		}

	case "p", "left", "h":
		if m.selected > 0 {
			m.selected--
			return m, nil
		}
		if sel, ok := m.selectedTide(); ok {
			return m, stepTide(m.resolver, sel, false)
		}

	case "]":
		m.state = StateLoading
		return m, fetchDay(m.resolver, m.port, addDays(m.date, 1), nil)

	case "[":
		m.state = StateLoading
		return m, fetchDay(m.resolver, m.port, addDays(m.date, -1), nil)

	case "t":
		m.state = StateLoading
		return m, fetchDay(m.resolver, m.port, m.today(), nil)

	case "esc", "backspace":
		m.state = StatePortList
		m.tides = nil
		return m, nil
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateImporting:
		return m.viewImporting()
	case StatePortList:
		return m.viewPortList()
	case StateLoading:
		return m.viewLoading()
	case StateDisplay:
		return m.viewDisplay()
	case StateError:
		return m.viewError()
	}

	return ""
}

// viewImporting renders the initial setup screen
func (m Model) viewImporting() string {
	title := titleStyle.Render("NZ Tides Setup")
	status := mutedStyle.Render(m.importStatus)
	info := helpStyle.Render("One-time setup: loading the bundled tide tables...")

	return lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		title,
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), status),
		"",
		info,
	)
}

// viewError renders the error view
func (m Model) viewError() string {
	errorMsg := "An unknown error occurred"
	if m.err != nil {
		errorMsg = m.err.Error()
	}

	help := helpStyle.Render("Press any key to return to the port list • Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render("✗ Error"),
		"",
		errorMsg,
		"",
		help,
	)
}

func (m Model) viewPortList() string {
	help := helpStyle.Render("↑/↓: Navigate • /: Filter • Enter: Select • Q: Quit")
	return lipgloss.JoinVertical(lipgloss.Left, m.portList.View(), help)
}

func (m Model) viewLoading() string {
	return fmt.Sprintf("%s Loading tides for %s...", m.spinner.View(), m.port.Name())
}

func (m Model) viewDisplay() string {
	sections := []string{m.renderTidePane(m.width - 4)}

	if m.err != nil {
		sections = append(sections, errorStyle.Render("✗ "+m.err.Error()))
	}

	help := helpStyle.Render("N/P: Next/previous tide • ]/[: Next/previous day • T: Today • Esc: Ports • Q: Quit")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func addDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}
