// Package insights produces an optional natural-language summary of tracked
// time. Every failure here degrades to a user-visible notice; nothing in this
// package is ever fatal to the process.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
)

// Analyzer generates summaries using a text-generation provider.
type Analyzer struct {
	provider Provider
	tmpl     string
}

// NewAnalyzer creates an analyzer with the given provider and mustache
// prompt template.
func NewAnalyzer(provider Provider, tmpl string) *Analyzer {
	return &Analyzer{provider: provider, tmpl: tmpl}
}

// sessionExport is the JSON shape handed to the model.
type sessionExport struct {
	Category string `json:"category"`
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	Minutes  int    `json:"minutes"`
	Status   string `json:"status"`
}

// Analyze summarizes the given sessions per the user's instruction.
func (a *Analyzer) Analyze(ctx context.Context, sessions []models.Session, instruction string, now time.Time) (string, error) {
	prompt, err := a.buildPrompt(sessions, instruction, now)
	if err != nil {
		return "", err
	}
	return a.provider.GenerateText(ctx, prompt)
}

func (a *Analyzer) buildPrompt(sessions []models.Session, instruction string, now time.Time) (string, error) {
	exports := make([]sessionExport, 0, len(sessions))
	totalMinutes := 0
	for _, s := range sessions {
		e := sessionExport{
			Category: s.Category,
			Start:    timeutil.FormatISO(s.StartTime),
			Minutes:  timeutil.WholeMinutes(s.Duration(now)),
			Status:   s.Status(),
		}
		if s.EndTime != nil {
			e.End = timeutil.FormatISO(*s.EndTime)
		}
		totalMinutes += e.Minutes
		exports = append(exports, e)
	}

	sessionsJSON, err := json.MarshalIndent(exports, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode sessions: %w", err)
	}

	if instruction == "" {
		instruction = "Summarize how this time was spent and point out anything notable."
	}

	prompt, err := mustache.Render(a.tmpl, map[string]interface{}{
		"sessions_json": string(sessionsJSON),
		"session_count": len(sessions),
		"total_minutes": totalMinutes,
		"instruction":   instruction,
	})
	if err != nil {
		// Fall back to a plain prompt if the template fails
		prompt = fmt.Sprintf("Time-tracking sessions:\n%s\n\n%s", sessionsJSON, instruction)
	}
	return prompt, nil
}
