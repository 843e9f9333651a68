package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/punchcard-dev/punchcard/internal/core/aggregate"
	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/store"
	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
	"github.com/punchcard-dev/punchcard/internal/core/tracker"
)

type viewMode int

const (
	timelineView viewMode = iota
	statsView
	helpView
)

// Model is the root bubbletea model for the interactive tracker.
type Model struct {
	store   *store.Store
	tracker *tracker.Tracker
	owner   string
	styles  styles

	mode        viewMode
	list        list.Model
	input       textinput.Model
	prompting   bool
	granularity aggregate.Granularity
	report      aggregate.Report
	sessions    []models.Session
	active      *models.Session

	width  int
	height int
	err    error
}

func New(s *store.Store, tr *tracker.Tracker, owner, theme string) Model {
	st := newStyles(theme)

	l := list.New(nil, newSessionDelegate(st), 0, 0)
	l.Title = "Timeline"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = st.title
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Placeholder = "category"
	ti.CharLimit = 64
	ti.Width = 30

	return Model{
		store:       s,
		tracker:     tr,
		owner:       owner,
		styles:      st,
		mode:        timelineView,
		list:        l,
		input:       ti,
		granularity: aggregate.Week,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadSessions(m.store, m.owner), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tickMsg:
		// Refresh the elapsed time on the active session.
		return m, tickCmd()

	case sessionsLoadedMsg:
		m.err = nil
		m.sessions = msg.sessions
		m.active = nil
		items := make([]list.Item, 0, len(msg.sessions))
		for i := range msg.sessions {
			s := msg.sessions[i]
			if s.Active() && m.active == nil {
				m.active = &s
			}
			items = append(items, sessionItem{session: s})
		}
		m.list.SetItems(items)
		return m, nil

	case reportLoadedMsg:
		m.err = nil
		m.report = msg.report
		return m, nil

	case sessionToggledMsg:
		return m, tea.Batch(
			loadSessions(m.store, m.owner),
			loadReport(m.store, m.owner, m.granularity),
		)

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		category := m.input.Value()
		m.prompting = false
		m.input.Blur()
		m.input.SetValue("")
		if category == "" {
			return m, nil
		}
		return m, startSession(m.tracker, category)
	case tea.KeyEsc:
		m.prompting = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.mode == helpView {
			m.mode = timelineView
			return m, nil
		}
		return m, tea.Quit

	case "?":
		m.mode = helpView
		return m, nil

	case "esc":
		if m.mode != timelineView {
			m.mode = timelineView
			return m, nil
		}

	case "tab":
		if m.mode == timelineView {
			m.mode = statsView
			return m, loadReport(m.store, m.owner, m.granularity)
		}
		m.mode = timelineView
		return m, nil

	case "g":
		if m.mode == statsView {
			m.granularity = nextGranularity(m.granularity)
			return m, loadReport(m.store, m.owner, m.granularity)
		}

	case "r":
		return m, tea.Batch(
			loadSessions(m.store, m.owner),
			loadReport(m.store, m.owner, m.granularity),
		)

	case "n":
		if m.mode == timelineView {
			m.prompting = true
			m.input.Focus()
			return m, textinput.Blink
		}

	case "s":
		if m.active != nil {
			return m, stopActive(m.tracker)
		}

	case "enter":
		// Restart the selected session's category.
		if m.mode == timelineView {
			if item, ok := m.list.SelectedItem().(sessionItem); ok {
				return m, startSession(m.tracker, item.session.Category)
			}
		}

	case "d":
		if m.mode == timelineView {
			if item, ok := m.list.SelectedItem().(sessionItem); ok {
				return m, deleteSession(m.tracker, item.session.ID)
			}
		}
	}

	if m.mode == timelineView {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var body string
	switch m.mode {
	case statsView:
		body = m.statsViewContent()
	case helpView:
		body = m.helpViewContent()
	default:
		body = m.timelineViewContent()
	}
	return body + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	status := "idle"
	if m.active != nil {
		status = fmt.Sprintf("tracking %s (started %s)",
			m.active.Category, humanize.Time(m.active.StartTime))
		status = m.styles.active.Render(status)
	} else {
		status = m.styles.dimmed.Render(status)
	}
	help := m.styles.dimmed.Render("n new · s stop · tab stats · ? help · q quit")
	line := m.styles.statusBar.Render(status + "  " + help)
	if m.err != nil {
		line += "\n" + m.styles.errText.Render("error: "+m.err.Error())
	}
	return line
}

func (m Model) timelineViewContent() string {
	if m.prompting {
		return m.list.View() + "\n" +
			m.styles.title.Render("Start session") + " " + m.input.View()
	}
	return m.list.View()
}

func (m Model) helpViewContent() string {
	rows := [][2]string{
		{"n", "start a new session"},
		{"s", "stop the active session"},
		{"enter", "restart the selected session's category"},
		{"d", "delete the selected session"},
		{"tab", "toggle stats view"},
		{"g", "cycle stats granularity"},
		{"r", "reload from the server"},
		{"q", "quit"},
	}
	out := m.styles.title.Render("Keys") + "\n\n"
	for _, row := range rows {
		out += fmt.Sprintf("  %s  %s\n",
			m.styles.helpKey.Render(fmt.Sprintf("%-6s", row[0])),
			m.styles.helpDesc.Render(row[1]))
	}
	return out
}

func nextGranularity(g aggregate.Granularity) aggregate.Granularity {
	switch g {
	case aggregate.Day:
		return aggregate.Week
	case aggregate.Week:
		return aggregate.Month
	case aggregate.Month:
		return aggregate.Year
	default:
		return aggregate.Day
	}
}

func formatElapsed(s models.Session, now time.Time) string {
	minutes := timeutil.WholeMinutes(s.Duration(now))
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
