package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently finished jobs",
	Long: `List jobs that completed or were lost, newest first.

Only jobs followed from this machine are recorded.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "number of jobs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	records, err := historyService.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cmd.Println("No jobs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tFINISHED\tOUTCOME\tWRITTEN\tFAILED\tTOTAL")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			r.JobID, r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Outcome, r.Succeeded, r.Failed, r.Total)
	}
	return w.Flush()
}
