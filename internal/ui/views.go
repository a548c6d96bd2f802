// SPDX-License-Identifier: EPL-2.0

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 40

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	recStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Width(60)
)

func renderRecording(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("audmood - voice emotion"))
	b.WriteString("\n\n")

	var content strings.Builder
	content.WriteString(recStyle.Render("● REC"))
	content.WriteString("  ")
	content.WriteString(formatDuration(m.Elapsed))
	if m.MaxDuration > 0 {
		content.WriteString(" / ")
		content.WriteString(formatDuration(m.MaxDuration))
		content.WriteString("\n")
		content.WriteString(renderProgressBar(progress(m.Elapsed, m.MaxDuration), barWidth))
	}
	b.WriteString(boxStyle.Render(content.String()))
	b.WriteString("\n\n")

	b.WriteString(hintStyle.Render("enter: stop and classify • q: cancel"))
	b.WriteString("\n")

	return b.String()
}

func renderDone(m Model) string {
	switch m.Outcome {
	case OutcomeCanceled:
		return hintStyle.Render("Recording discarded.") + "\n"
	case OutcomeFull:
		return fmt.Sprintf("Reached the %s limit, classifying...\n", formatDuration(m.MaxDuration))
	default:
		return fmt.Sprintf("Recorded %s, classifying...\n", formatDuration(m.Elapsed))
	}
}

func progress(elapsed, limit time.Duration) float64 {
	if limit <= 0 {
		return 0
	}
	return min(float64(elapsed)/float64(limit), 1)
}

// renderProgressBar renders a progress bar
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	percentage := int(progress * 100)

	return fmt.Sprintf("%s %d%%", bar, percentage)
}

func formatDuration(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	return fmt.Sprintf("%02d:%04.1f", int(d.Minutes()), d.Seconds()-60*float64(int(d.Minutes())))
}
