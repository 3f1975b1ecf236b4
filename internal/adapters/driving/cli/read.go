package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <filename>",
	Short: "Print the text of a generated article",
	Long: `Fetch a generated article by the file name shown in the job summary and
print its text. Nothing is saved; use 'batchwriter download' to keep the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	readCmd.Flags().Bool("stats", false, "print only the title and word count")
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	if artifactService == nil {
		return errors.New("artifact service not configured")
	}
	stats, _ := cmd.Flags().GetBool("stats")

	article, err := artifactService.Read(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if stats {
		cmd.Printf("%s: %d paragraphs, %d words\n", article.Title, len(article.Paragraphs), article.WordCount())
		return nil
	}

	cmd.Println(article.Title)
	cmd.Println(strings.Repeat("=", len([]rune(article.Title))))
	cmd.Println()
	if text := article.Text(); text != "" {
		cmd.Println(text)
	}
	return nil
}
