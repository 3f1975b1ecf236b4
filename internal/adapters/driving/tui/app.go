package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/batchwriter/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/batchwriter/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/batchwriter/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/batchwriter/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/batchwriter/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// maxBarWidth caps the progress bar.
const maxBarWidth = 40

// App is the job progress view following the Elm architecture.
// Calls that may publish events run as commands, never inside Update,
// since publishing blocks until Update has returned.
type App struct {
	ports *Ports
	ctx   context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	spinner   spinner.Model
	list      *list.ResultList
	statusBar *status.Bar

	ledger   domain.LedgerView
	state    domain.OrchestratorState
	outcome  domain.JobOutcome
	showHelp bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the progress view.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Title))

	a := &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		spinner:   sp,
		list:      list.NewResultList(s),
		statusBar: status.NewBar(s, km),
	}
	a.sync()
	return a, nil
}

// WithContext sets the context for retry requests.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("batchwriter"),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.JobEvent:
		a.handleEvent(msg.Event)
		return a, nil

	case messages.RetryFinished:
		a.sync()
		if msg.Err != nil {
			a.statusBar.SetMessage(status.LevelError, fmt.Sprintf("Retry of %q failed: %v", msg.Topic, msg.Err))
		}
		return a, nil

	case messages.ErrorOccurred:
		a.statusBar.SetMessage(status.LevelError, msg.Err.Error())
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleEvent(event domain.JobEvent) {
	a.sync()

	switch event.Kind {
	case domain.EventSubmitted:
		a.statusBar.SetMessage(status.LevelInfo, "Job "+event.JobID+" submitted")
	case domain.EventProgress:
		if a.statusBar.Level() == status.LevelWarning {
			a.statusBar.Clear()
		}
	case domain.EventCompleted:
		a.statusBar.SetMessage(status.LevelSuccess,
			fmt.Sprintf("Completed: %d generated, %d failed", len(a.ledger.Results), len(a.ledger.Errors)))
	case domain.EventLost:
		a.statusBar.SetMessage(status.LevelError, "Job lost: the server no longer knows it. Submit again.")
	case domain.EventPollError:
		a.statusBar.SetMessage(status.LevelWarning, fmt.Sprintf("Status check failed, retrying: %v", event.Err))
	case domain.EventRetryPending:
		a.statusBar.SetMessage(status.LevelInfo, fmt.Sprintf("Retrying %q...", event.Topic))
	case domain.EventRetryQueued:
		a.statusBar.SetMessage(status.LevelInfo, fmt.Sprintf("Retry of %q queued", event.Topic))
	case domain.EventRetryFailed:
		a.statusBar.SetMessage(status.LevelError, fmt.Sprintf("Retry of %q failed: %v", event.Topic, event.Err))
	}
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return tea.Quit

	case key.Matches(msg, a.keymap.Help):
		a.showHelp = !a.showHelp

	case key.Matches(msg, a.keymap.Up):
		a.list.MoveUp()

	case key.Matches(msg, a.keymap.Down):
		a.list.MoveDown()

	case key.Matches(msg, a.keymap.Retry):
		row, ok := a.list.Selected()
		if !ok || row.Kind != list.RowError || row.Pending {
			return nil
		}
		return a.retry(row.Topic)

	case key.Matches(msg, a.keymap.Discard):
		row, ok := a.list.Selected()
		if !ok || row.Kind != list.RowError {
			return nil
		}
		if a.ports.Orchestrator.DiscardError(row.Topic) {
			a.statusBar.SetMessage(status.LevelInfo, fmt.Sprintf("Discarded error for %q", row.Topic))
		}
		a.sync()
	}

	a.updateHints()
	return nil
}

// retry runs the retry request off the update loop.
func (a *App) retry(topic string) tea.Cmd {
	orch := a.ports.Orchestrator
	ctx := a.ctx
	return func() tea.Msg {
		err := orch.RetryTopic(ctx, topic)
		if errors.Is(err, domain.ErrRetryInProgress) {
			err = nil
		}
		return messages.RetryFinished{Topic: topic, Err: err}
	}
}

// sync pulls the current ledger and state from the orchestrator.
func (a *App) sync() {
	orch := a.ports.Orchestrator
	a.ledger = orch.Ledger()
	a.state = orch.State()
	a.outcome = orch.LastOutcome()
	a.list.SetLedger(a.ledger, orch.RetryPending)
	a.statusBar.SetState(a.state, a.outcome)
	a.updateHints()
}

func (a *App) updateHints() {
	row, ok := a.list.Selected()
	a.statusBar.SetErrorSelected(ok && row.Kind == list.RowError)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(a.renderProgress())
	b.WriteString("\n\n")
	b.WriteString(a.list.View())
	b.WriteString("\n\n")
	if a.showHelp {
		b.WriteString(a.renderHelp())
		b.WriteString("\n")
	}
	b.WriteString(a.statusBar.View())
	return b.String()
}

func (a *App) renderHeader() string {
	title := a.styles.Title.Render("batchwriter")
	if a.ledger.JobID == "" {
		return title + a.styles.Muted.Render("  no job")
	}
	header := title + a.styles.Muted.Render("  job "+a.ledger.JobID)
	if a.state == domain.StatePolling || a.state == domain.StateSubmitting {
		header = a.spinner.View() + " " + header
	}
	return header
}

func (a *App) renderProgress() string {
	barWidth := a.width - 24
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	if barWidth < 10 {
		barWidth = 10
	}
	filled := barWidth * a.ledger.RoundedPercent() / 100

	bar := a.styles.ProgressFilled.Render(strings.Repeat("█", filled)) +
		a.styles.ProgressEmpty.Render(strings.Repeat("░", barWidth-filled))
	counts := fmt.Sprintf(" %3d%%  %d/%d", a.ledger.RoundedPercent(), a.ledger.CompletedCount, a.ledger.Total)
	return bar + a.styles.Normal.Render(counts)
}

func (a *App) renderHelp() string {
	groups := a.keymap.FullHelp()
	lines := make([]string, 0, len(groups))
	for _, group := range groups {
		parts := make([]string, 0, len(group))
		for _, b := range group {
			h := b.Help()
			parts = append(parts, fmt.Sprintf("%-5s %s", h.Key, h.Desc))
		}
		lines = append(lines, "  "+strings.Join(parts, "    "))
	}
	return a.styles.Help.Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.statusBar.SetWidth(width)
	// header, progress, spacing and status bar
	a.list.SetSize(width, height-8)
}

// Run starts the program and routes orchestrator events into it until
// the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	if a.ports.Events != nil {
		a.ports.Events.SetEventSink(NewEventSink(p))
		defer a.ports.Events.SetEventSink(nil)
	}
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// Ledger returns the ledger as last synced.
func (a *App) Ledger() domain.LedgerView {
	return a.ledger
}

// StatusMessage returns the status bar message.
func (a *App) StatusMessage() string {
	return a.statusBar.Message()
}

// SelectedRow returns the selected ledger row.
func (a *App) SelectedRow() (list.Row, bool) {
	return a.list.Selected()
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}
