package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/punchcard-dev/punchcard/internal/core/aggregate"
	"github.com/punchcard-dev/punchcard/internal/core/models"
)

type sessionItem struct {
	session models.Session
}

func (i sessionItem) FilterValue() string { return i.session.Category }

type sessionDelegate struct {
	styles styles
}

func newSessionDelegate(st styles) sessionDelegate {
	return sessionDelegate{styles: st}
}

func (d sessionDelegate) Height() int  { return 1 }
func (d sessionDelegate) Spacing() int { return 0 }

func (d sessionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d sessionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(sessionItem)
	if !ok {
		return
	}
	s := si.session
	now := time.Now()

	dot := lipgloss.NewStyle().
		Foreground(lipgloss.Color(aggregate.CategoryColor(s.Category))).
		Render("●")

	var when string
	if s.Active() {
		when = d.styles.active.Render(fmt.Sprintf("running · %s", formatElapsed(s, now)))
	} else {
		when = d.styles.dimmed.Render(fmt.Sprintf("%s · %s",
			humanize.Time(s.StartTime), formatElapsed(s, now)))
	}

	line := fmt.Sprintf("%s %-20s %s", dot, s.Category, when)
	if index == m.Index() {
		line = d.styles.helpKey.Render("> ") + line
	} else {
		line = "  " + line
	}
	fmt.Fprint(w, line)
}
