// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/batchwriter/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/batchwriter/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// Level is the severity of the status message.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Bar displays the job state, the latest message and keybinding hints.
type Bar struct {
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	state         domain.OrchestratorState
	outcome       domain.JobOutcome
	message       string
	level         Level
	errorSelected bool
	width         int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  domain.StateIdle,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	if s.message != "" {
		switch s.level {
		case LevelSuccess:
			return s.styles.Success.Render(s.message)
		case LevelWarning:
			return s.styles.Warning.Render(s.message)
		case LevelError:
			return s.styles.Error.Render(s.message)
		case LevelInfo:
			return s.styles.Normal.Render(s.message)
		}
	}

	switch s.state {
	case domain.StateSubmitting:
		return s.styles.Muted.Render("Submitting...")
	case domain.StatePolling:
		return s.styles.Normal.Render("Generating...")
	case domain.StateIdle:
	}
	switch s.outcome {
	case domain.OutcomeCompleted:
		return s.styles.Success.Render("Completed")
	case domain.OutcomeLost:
		return s.styles.Error.Render("Job lost")
	case domain.OutcomeNone:
	}
	return s.styles.Muted.Render("Idle")
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp(s.errorSelected)
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// SetState sets the orchestrator state and last outcome.
func (s *Bar) SetState(state domain.OrchestratorState, outcome domain.JobOutcome) {
	s.state = state
	s.outcome = outcome
}

// State returns the current orchestrator state.
func (s *Bar) State() domain.OrchestratorState {
	return s.state
}

// SetMessage sets the message shown instead of the state.
func (s *Bar) SetMessage(level Level, message string) {
	s.level = level
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// Level returns the severity of the current message.
func (s *Bar) Level() Level {
	return s.level
}

// SetErrorSelected switches the hints to the error row actions.
func (s *Bar) SetErrorSelected(selected bool) {
	s.errorSelected = selected
}

// ErrorSelected reports whether the error row hints are shown.
func (s *Bar) ErrorSelected() bool {
	return s.errorSelected
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear removes the message.
func (s *Bar) Clear() {
	s.message = ""
	s.level = LevelInfo
}
