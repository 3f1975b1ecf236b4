// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/batchwriter/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// RowKind distinguishes generated articles from failed topics.
type RowKind int

const (
	RowResult RowKind = iota
	RowError
)

// Row is one line of the ledger list.
type Row struct {
	Kind  RowKind
	Topic string

	// Detail is the article title and filename, or the error message.
	Detail string

	// Pending is set while a retry for the topic is in flight.
	Pending bool
}

// ResultList displays the results and errors of a job.
// Results come first, then errors, both in server order.
type ResultList struct {
	rows     []Row
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 20,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// SetLedger rebuilds the rows from a ledger view. The selection follows
// the previously selected row when it still exists.
func (r *ResultList) SetLedger(view domain.LedgerView, pending func(topic string) bool) {
	prev, hadPrev := r.Selected()

	rows := make([]Row, 0, len(view.Results)+len(view.Errors))
	for _, res := range view.Results {
		detail := res.Filename
		if res.ArticleTitle != "" {
			detail = fmt.Sprintf("%s (%s)", res.ArticleTitle, res.Filename)
		}
		rows = append(rows, Row{Kind: RowResult, Topic: res.Topic, Detail: detail})
	}
	for _, e := range view.Errors {
		row := Row{Kind: RowError, Topic: e.Topic, Detail: e.ErrorMessage}
		if pending != nil {
			row.Pending = pending(e.Topic)
		}
		rows = append(rows, row)
	}
	r.rows = rows

	if hadPrev {
		for i, row := range rows {
			if row.Kind == prev.Kind && row.Topic == prev.Topic {
				r.selected = i
				return
			}
		}
	}
	r.clampSelection()
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.rows) == 0 {
		return r.styles.Muted.Render("No results yet")
	}

	visible := r.height
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.rows) {
		end = len(r.rows)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i, r.rows[i]))
	}
	return strings.Join(lines, "\n")
}

func (r *ResultList) renderRow(index int, row Row) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	var mark, detail string
	switch {
	case row.Kind == RowResult:
		mark = r.styles.Success.Render("✓")
		detail = r.styles.Muted.Render(row.Detail)
	case row.Pending:
		mark = r.styles.Warning.Render("↻")
		detail = r.styles.Warning.Render("retrying...")
	default:
		mark = r.styles.Error.Render("✗")
		detail = r.styles.Error.Render(row.Detail)
	}

	topic := truncate(row.Topic, r.width/2)
	if index == r.selected {
		topic = r.styles.Selected.Render(topic)
	} else {
		topic = r.styles.Normal.Render(topic)
	}
	return fmt.Sprintf("%s%s %s  %s", indicator, mark, topic, detail)
}

func truncate(s string, limit int) string {
	if limit < 10 {
		limit = 10
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.rows)-1 {
		r.selected++
	}
}

// Selected returns the selected row.
func (r *ResultList) Selected() (Row, bool) {
	if r.selected < 0 || r.selected >= len(r.rows) {
		return Row{}, false
	}
	return r.rows[r.selected], true
}

// SelectedIndex returns the selected position.
func (r *ResultList) SelectedIndex() int {
	return r.selected
}

// Rows returns the current rows.
func (r *ResultList) Rows() []Row {
	return r.rows
}

// SetSize sets the list dimensions. Height is in rows.
func (r *ResultList) SetSize(width, height int) {
	r.width = width
	r.height = height
}

func (r *ResultList) clampSelection() {
	if r.selected >= len(r.rows) {
		r.selected = len(r.rows) - 1
	}
	if r.selected < 0 {
		r.selected = 0
	}
}
