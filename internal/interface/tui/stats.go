package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/punchcard-dev/punchcard/internal/core/aggregate"
)

const maxBarWidth = 40

func (m Model) statsViewContent() string {
	var b strings.Builder

	title := fmt.Sprintf("Stats · %s", m.report.Granularity)
	b.WriteString(m.styles.title.Render(title))
	b.WriteString("\n\n")

	if m.report.TotalMinutes() == 0 {
		b.WriteString(m.styles.dimmed.Render("  no sessions in this window"))
		b.WriteString("\n")
		return b.String()
	}

	max := 0
	for _, bucket := range m.report.Buckets {
		if bucket.TotalMinutes > max {
			max = bucket.TotalMinutes
		}
	}

	for _, bucket := range m.report.Buckets {
		bar := renderBucketBar(bucket, max)
		b.WriteString(fmt.Sprintf("  %-8s %s %s\n",
			m.styles.barLabel.Render(bucket.Label),
			bar,
			m.styles.dimmed.Render(formatMinutesShort(bucket.TotalMinutes))))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.title.Render("By category"))
	b.WriteString("\n\n")

	names := make([]string, 0, len(m.report.Pie))
	for name := range m.report.Pie {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if m.report.Pie[names[i]] != m.report.Pie[names[j]] {
			return m.report.Pie[names[i]] > m.report.Pie[names[j]]
		}
		return names[i] < names[j]
	})

	total := m.report.TotalMinutes()
	for _, name := range names {
		minutes := m.report.Pie[name]
		pct := float64(minutes) / float64(total) * 100
		swatch := lipgloss.NewStyle().
			Foreground(lipgloss.Color(aggregate.CategoryColor(name))).
			Render("■")
		b.WriteString(fmt.Sprintf("  %s %-20s %5.1f%%  %s\n",
			swatch, name, pct, m.styles.dimmed.Render(formatMinutesShort(minutes))))
	}

	return b.String()
}

// renderBucketBar draws a bar segmented by category color, scaled to
// the busiest bucket in the window.
func renderBucketBar(bucket aggregate.Bucket, max int) string {
	if bucket.TotalMinutes == 0 || max == 0 {
		return ""
	}
	width := bucket.TotalMinutes * maxBarWidth / max
	if width == 0 {
		width = 1
	}

	names := make([]string, 0, len(bucket.ByCategory))
	for name := range bucket.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	var bar strings.Builder
	drawn := 0
	for _, name := range names {
		segment := bucket.ByCategory[name] * width / bucket.TotalMinutes
		if segment == 0 && bucket.ByCategory[name] > 0 {
			segment = 1
		}
		if drawn+segment > width {
			segment = width - drawn
		}
		if segment <= 0 {
			continue
		}
		bar.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(aggregate.CategoryColor(name))).
			Render(strings.Repeat("█", segment)))
		drawn += segment
	}
	return bar.String()
}

func formatMinutesShort(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
