// SPDX-License-Identifier: EPL-2.0

// Package ui provides the Bubbletea recording screen.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 100 * time.Millisecond

// Recorder is the part of capture.Session the screen needs.
type Recorder interface {
	Duration() time.Duration
	Full() <-chan struct{}
}

// Outcome is how the recording screen was left.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeStopped         // user asked to classify
	OutcomeFull            // cap reached
	OutcomeCanceled        // user quit without classifying
)

// Model is the Bubbletea model for the recording screen.
type Model struct {
	rec         Recorder
	MaxDuration time.Duration
	Elapsed     time.Duration
	Outcome     Outcome

	Width  int
	Height int
}

// NewModel returns a screen that tracks rec. limit is the recording cap;
// zero means none.
func NewModel(rec Recorder, limit time.Duration) Model {
	return Model{rec: rec, MaxDuration: limit}
}

// Init starts the clock and waits for the cap.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), waitFull(m.rec.Full()))
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", " ", "s":
			m.Outcome = OutcomeStopped
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.Outcome = OutcomeCanceled
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		if m.Outcome != OutcomePending {
			return m, nil
		}
		m.Elapsed = m.rec.Duration()
		return m, tick()

	case FullMsg:
		m.Elapsed = m.rec.Duration()
		m.Outcome = OutcomeFull
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Outcome != OutcomePending {
		return renderDone(m)
	}
	return renderRecording(m)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func waitFull(full <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-full
		return FullMsg{}
	}
}
