package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/punchcard-dev/punchcard/internal/core/aggregate"
	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/store"
	"github.com/punchcard-dev/punchcard/internal/core/tracker"
)

type sessionsLoadedMsg struct {
	sessions []models.Session
}

type reportLoadedMsg struct {
	report aggregate.Report
}

type sessionToggledMsg struct{}

type errMsg struct {
	err error
}

type tickMsg time.Time

// tickCmd drives the running-session elapsed display.
func tickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadSessions(s *store.Store, owner string) tea.Cmd {
	return func() tea.Msg {
		sessions, err := s.LoadAll(context.Background(), owner)
		if err != nil {
			return errMsg{err}
		}
		return sessionsLoadedMsg{sessions: sessions}
	}
}

func loadReport(s *store.Store, owner string, g aggregate.Granularity) tea.Cmd {
	return func() tea.Msg {
		sessions, err := s.LoadAll(context.Background(), owner)
		if err != nil {
			return errMsg{err}
		}
		return reportLoadedMsg{report: aggregate.Build(sessions, time.Now(), g)}
	}
}

func startSession(tr *tracker.Tracker, category string) tea.Cmd {
	return func() tea.Msg {
		if _, err := tr.Start(context.Background(), category); err != nil {
			return errMsg{err}
		}
		return sessionToggledMsg{}
	}
}

func stopActive(tr *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		if _, err := tr.StopActive(context.Background()); err != nil {
			return errMsg{err}
		}
		return sessionToggledMsg{}
	}
}

func deleteSession(tr *tracker.Tracker, id string) tea.Cmd {
	return func() tea.Msg {
		if err := tr.Delete(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return sessionToggledMsg{}
	}
}
