package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List the articles held by the server",
	Long: `List the documents the server's output directory still holds, newest first.
Use the file name with 'batchwriter read' or 'batchwriter download'.`,
	Args: cobra.NoArgs,
	RunE: runArticles,
}

func init() {
	articlesCmd.Flags().IntP("limit", "n", 20, "maximum number of articles to show (0 for all)")
	rootCmd.AddCommand(articlesCmd)
}

func runArticles(cmd *cobra.Command, _ []string) error {
	if artifactService == nil {
		return errors.New("artifact service not configured")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	infos, err := artifactService.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		cmd.Println("No articles on the server.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tTITLE\tSIZE\tCREATED")
	for _, info := range infos {
		created := "-"
		if !info.CreatedAt.IsZero() {
			created = info.CreatedAt.Format("2006-01-02 15:04")
		}
		title := info.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Filename, title, humanize.Bytes(uint64(info.Size)), created)
	}
	return w.Flush()
}
