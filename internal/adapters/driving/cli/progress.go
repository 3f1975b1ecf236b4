package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
)

// Ensure progressPrinter implements the interface.
var _ driven.EventSink = (*progressPrinter)(nil)

// progressPrinter writes orchestrator events to the terminal. On a terminal
// the progress line is redrawn in place; otherwise a line is written each time
// another topic finishes.
type progressPrinter struct {
	mu       sync.Mutex
	out      io.Writer
	inPlace  bool
	lastDone int
	open     bool
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	inPlace := false
	if f, ok := out.(*os.File); ok {
		inPlace = term.IsTerminal(int(f.Fd()))
	}
	return &progressPrinter{out: out, inPlace: inPlace, lastDone: -1}
}

func attachPrinter(cmd *cobra.Command) *progressPrinter {
	printer := newProgressPrinter(cmd.OutOrStdout())
	if eventSource != nil {
		eventSource.SetEventSink(printer)
	}
	return printer
}

func detachPrinter() {
	if eventSource != nil {
		eventSource.SetEventSink(nil)
	}
}

// Publish implements driven.EventSink.
func (p *progressPrinter) Publish(event domain.JobEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch event.Kind {
	case domain.EventSubmitted:
		total := 0
		if event.Job != nil {
			total = event.Job.Total
		}
		p.line("Submitted job %s with %d topics", event.JobID, total)
	case domain.EventProgress:
		p.progress(event.Job)
	case domain.EventCompleted:
		p.line("Job %s completed", event.JobID)
	case domain.EventLost:
		p.line("Job %s is no longer known to the server", event.JobID)
	case domain.EventRetryPending:
		p.line("Retrying %q...", event.Topic)
	case domain.EventRetryQueued:
		p.line("Retry of %q accepted", event.Topic)
	case domain.EventRetryFailed:
		p.line("Retry of %q failed: %v", event.Topic, event.Err)
	}
}

func (p *progressPrinter) progress(job *domain.Job) {
	if job == nil {
		return
	}
	var view domain.ResultLedger
	view.Replace(job)
	v := view.View()
	text := fmt.Sprintf("Progress: %3d%% (%d/%d)", v.RoundedPercent(), v.CompletedCount, v.Total)

	if p.inPlace {
		fmt.Fprintf(p.out, "\r%s", text)
		p.open = true
		return
	}
	if v.CompletedCount != p.lastDone {
		p.lastDone = v.CompletedCount
		fmt.Fprintln(p.out, text)
	}
}

// line ends a pending in-place progress line before writing.
func (p *progressPrinter) line(format string, args ...any) {
	p.endLine()
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *progressPrinter) endLine() {
	if p.open {
		fmt.Fprintln(p.out)
		p.open = false
	}
}

// finish terminates a pending progress line.
func (p *progressPrinter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endLine()
}
