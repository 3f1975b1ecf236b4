package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <filename>",
	Short: "Download a generated article",
	Long: `Download a generated article by the file name shown in the job summary.

The file is written to the current directory unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringP("output", "o", ".", "directory to save into")
	downloadCmd.Flags().Bool("open", false, "open the file with the default application")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	if artifactService == nil {
		return errors.New("artifact service not configured")
	}
	dir, _ := cmd.Flags().GetString("output")
	open, _ := cmd.Flags().GetBool("open")

	ctx := cmd.Context()
	path, err := artifactService.Download(ctx, args[0], dir)
	if err != nil {
		return err
	}
	cmd.Printf("Saved %s\n", path)

	if open {
		return artifactService.Open(ctx, path)
	}
	return nil
}
