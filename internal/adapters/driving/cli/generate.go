package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/batchwriter/internal/adapters/driving/tui"
	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Submit the topics as one batch and follow the job",
	Long: `Submit all non-empty topics as one generation job and follow it until every
topic has an article or an error.

Only images that were uploaded or loaded successfully are sent with their
topic. Interrupting with Ctrl-C stops following the job but does not cancel
it on the server; run 'batchwriter resume' to pick it up again.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Follow the job started by an earlier generate",
	Args:  cobra.NoArgs,
	RunE:  runResume,
}

var retryCmd = &cobra.Command{
	Use:   "retry <topic>",
	Short: "Ask the server to write a failed topic again",
	Long: `Ask the server to write one failed topic of the current job again and follow
the job until the retried topic settles.

Without --job the job in progress is used, or else the most recent job in the
local history.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetry,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the progress of the current job",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	generateCmd.Flags().Bool("no-follow", false, "submit and return without waiting")
	generateCmd.Flags().Bool("tui", false, "follow the job in the interactive view")
	resumeCmd.Flags().Bool("tui", false, "follow the job in the interactive view")
	retryCmd.Flags().String("job", "", "job ID to retry in")
	retryCmd.Flags().Bool("no-follow", false, "send the retry and return without waiting")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(retryCmd)
	rootCmd.AddCommand(statusCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if err := requireOrchestrator(); err != nil {
		return err
	}
	noFollow, _ := cmd.Flags().GetBool("no-follow")
	useTUI, _ := cmd.Flags().GetBool("tui")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := settlePrevious(ctx, cmd); err != nil {
		return err
	}

	var printer *progressPrinter
	if !useTUI {
		printer = attachPrinter(cmd)
		defer detachPrinter()
	}

	jobID, err := jobOrchestrator.Submit(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoTopics) {
			return fmt.Errorf("%w; add some with 'batchwriter topics add'", err)
		}
		return err
	}

	if noFollow {
		jobOrchestrator.Stop()
		cmd.Printf("Job %s submitted. Follow it with 'batchwriter resume'.\n", jobID)
		return nil
	}
	if useTUI {
		return followTUI(ctx, cmd)
	}
	return follow(ctx, cmd, printer)
}

// settlePrevious resolves the job saved by an earlier run before a new
// submission replaces its handle. A job still running on the server blocks
// the submission.
func settlePrevious(ctx context.Context, cmd *cobra.Command) error {
	outcome, err := jobOrchestrator.Resume(ctx)
	if err != nil {
		return fmt.Errorf("checking the previous job: %w", err)
	}

	switch outcome {
	case domain.ResumePolling:
		jobID := jobOrchestrator.Ledger().JobID
		jobOrchestrator.Stop()
		return fmt.Errorf("%w: job %s is still running; follow it with 'batchwriter resume'",
			domain.ErrSubmissionInProgress, jobID)
	case domain.ResumeCompleted:
		cmd.Println("The previous job finished while you were away:")
		printSummary(cmd, jobOrchestrator.Ledger())
		cmd.Println()
	case domain.ResumeLost:
		cmd.Println("The previous job is no longer known to the server.")
	}
	return nil
}

func runResume(cmd *cobra.Command, _ []string) error {
	if err := requireOrchestrator(); err != nil {
		return err
	}
	useTUI, _ := cmd.Flags().GetBool("tui")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var printer *progressPrinter
	if !useTUI {
		printer = attachPrinter(cmd)
		defer detachPrinter()
	}

	outcome, err := jobOrchestrator.Resume(ctx)
	if err != nil {
		return err
	}

	switch outcome {
	case domain.ResumeNone:
		cmd.Println("No job to resume.")
		return nil
	case domain.ResumeLost:
		cmd.Println("The previous job is no longer known to the server. Submit the topics again with 'batchwriter generate'.")
		return nil
	case domain.ResumeCompleted:
		if printer != nil {
			printer.finish()
		}
		printSummary(cmd, jobOrchestrator.Ledger())
		return nil
	}

	if useTUI {
		return followTUI(ctx, cmd)
	}
	return follow(ctx, cmd, printer)
}

func runRetry(cmd *cobra.Command, args []string) error {
	if err := requireOrchestrator(); err != nil {
		return err
	}
	topic := strings.TrimSpace(args[0])
	jobID, _ := cmd.Flags().GetString("job")
	noFollow, _ := cmd.Flags().GetBool("no-follow")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := adoptJob(ctx, jobID); err != nil {
		return err
	}

	view := jobOrchestrator.Ledger()
	if !hasError(view, topic) {
		jobOrchestrator.Stop()
		return fmt.Errorf("%w: topic %q has no error in job %s", domain.ErrInvalidInput, topic, view.JobID)
	}

	printer := attachPrinter(cmd)
	defer detachPrinter()

	if err := jobOrchestrator.RetryTopic(ctx, topic); err != nil {
		jobOrchestrator.Stop()
		return err
	}
	if noFollow {
		jobOrchestrator.Stop()
		return nil
	}
	return follow(ctx, cmd, printer)
}

// adoptJob makes jobID, the persisted job or the most recent recorded job the
// orchestrator's current one.
func adoptJob(ctx context.Context, jobID string) error {
	if jobID != "" {
		return jobOrchestrator.Track(ctx, jobID)
	}

	outcome, err := jobOrchestrator.Resume(ctx)
	if err != nil {
		return err
	}
	if outcome == domain.ResumePolling || outcome == domain.ResumeCompleted {
		return nil
	}

	if historyService == nil {
		return fmt.Errorf("%w: pass --job", domain.ErrNoJob)
	}
	records, err := historyService.Recent(ctx, 1)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: no recent job, pass --job", domain.ErrNoJob)
	}
	return jobOrchestrator.Track(ctx, records[0].JobID)
}

func hasError(view domain.LedgerView, topic string) bool {
	for _, e := range view.Errors {
		if e.Topic == topic {
			return true
		}
	}
	return false
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := requireOrchestrator(); err != nil {
		return err
	}
	ctx := cmd.Context()

	outcome, err := jobOrchestrator.Resume(ctx)
	if err != nil {
		return err
	}
	defer jobOrchestrator.Stop()

	switch outcome {
	case domain.ResumeNone:
		cmd.Println("No job in progress.")
		printLastJob(ctx, cmd)
	case domain.ResumeLost:
		cmd.Println("The previous job is no longer known to the server.")
	case domain.ResumeCompleted:
		printSummary(cmd, jobOrchestrator.Ledger())
	default:
		view := jobOrchestrator.Ledger()
		cmd.Printf("Job %s is running: %d%% (%d/%d)\n",
			view.JobID, view.RoundedPercent(), view.CompletedCount, view.Total)
		printResults(cmd, view)
	}
	return nil
}

func printLastJob(ctx context.Context, cmd *cobra.Command) {
	if historyService == nil {
		return
	}
	records, err := historyService.Recent(ctx, 1)
	if err != nil || len(records) == 0 {
		return
	}
	r := records[0]
	cmd.Printf("Last job %s %s %s: %d written, %d failed\n",
		r.JobID, r.Outcome, r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Succeeded, r.Failed)
}

// follow waits for the current job and prints its summary. Interrupting
// only stops observing; the job handle stays saved.
func follow(ctx context.Context, cmd *cobra.Command, printer *progressPrinter) error {
	err := jobOrchestrator.Wait(ctx)
	if printer != nil {
		printer.finish()
	}

	switch {
	case err == nil:
		printSummary(cmd, jobOrchestrator.Ledger())
		return nil
	case errors.Is(err, domain.ErrJobLost):
		return fmt.Errorf("job %s: %w; submit the topics again with 'batchwriter generate'",
			jobOrchestrator.Ledger().JobID, err)
	case ctx.Err() != nil:
		jobOrchestrator.Stop()
		printStopped(cmd)
		return nil
	default:
		return err
	}
}

func followTUI(ctx context.Context, cmd *cobra.Command) error {
	app, err := tui.NewApp(&tui.Ports{Orchestrator: jobOrchestrator, Events: eventSource})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if err := app.WithContext(ctx).Run(); err != nil {
		return err
	}

	if jobOrchestrator.State() != domain.StateIdle {
		jobOrchestrator.Stop()
		printStopped(cmd)
		return nil
	}
	if jobOrchestrator.LastOutcome() == domain.OutcomeLost {
		return fmt.Errorf("job %s: %w", jobOrchestrator.Ledger().JobID, domain.ErrJobLost)
	}
	printSummary(cmd, jobOrchestrator.Ledger())
	return nil
}

func printStopped(cmd *cobra.Command) {
	cmd.Printf("Stopped following job %s. It keeps running on the server; run 'batchwriter resume' to follow it again.\n",
		jobOrchestrator.Ledger().JobID)
}

func printSummary(cmd *cobra.Command, view domain.LedgerView) {
	cmd.Printf("Job %s: %d of %d topics written, %d failed\n",
		view.JobID, len(view.Results), view.Total, len(view.Errors))
	printResults(cmd, view)
	if len(view.Errors) > 0 {
		cmd.Println("Retry a failed topic with: batchwriter retry \"<topic>\"")
	}
	if len(view.Results) > 0 {
		cmd.Println("Download an article with: batchwriter download <filename>")
	}
}

func printResults(cmd *cobra.Command, view domain.LedgerView) {
	for _, r := range view.Results {
		if r.ArticleTitle != "" && r.ArticleTitle != r.Topic {
			cmd.Printf("  ✓ %s: %s (%s)\n", r.Topic, r.Filename, r.ArticleTitle)
			continue
		}
		cmd.Printf("  ✓ %s: %s\n", r.Topic, r.Filename)
	}
	for _, e := range view.Errors {
		cmd.Printf("  ✗ %s: %s\n", e.Topic, e.ErrorMessage)
	}
}
