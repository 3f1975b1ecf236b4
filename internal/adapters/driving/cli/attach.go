package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Pair a topic with an image",
	Long: `Pair a topic with an image from a file, the clipboard or a URL.

A topic holds at most one image; attaching another replaces it. File and
clipboard images are uploaded to the server straight away and URLs are checked
for a loadable image. An image that could not be uploaded or loaded stays on
the topic but is left out of the submission until attached again.`,
}

var attachFileCmd = &cobra.Command{
	Use:   "file <n> <path>",
	Short: "Attach an image file",
	Args:  cobra.ExactArgs(2),
	RunE:  runAttachFile,
}

var attachClipboardCmd = &cobra.Command{
	Use:   "clipboard <n> [path|-]",
	Short: "Attach a pasted image",
	Long: `Attach a pasted image. Without a path the image is read from the system
clipboard. With "-" the image bytes are read from stdin, so a screenshot tool
can be piped in directly.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAttachClipboard,
}

var attachURLCmd = &cobra.Command{
	Use:   "url <n> <url>",
	Short: "Attach an image by URL",
	Args:  cobra.ExactArgs(2),
	RunE:  runAttachURL,
}

var detachCmd = &cobra.Command{
	Use:   "detach <n>",
	Short: "Remove the image of a topic",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetach,
}

func init() {
	attachCmd.AddCommand(attachFileCmd)
	attachCmd.AddCommand(attachClipboardCmd)
	attachCmd.AddCommand(attachURLCmd)
	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(detachCmd)
}

func requireResolver() error {
	if err := requireWorkspace(); err != nil {
		return err
	}
	if attachmentResolver == nil {
		return errors.New("attachment resolver not configured")
	}
	return nil
}

func runAttachFile(cmd *cobra.Command, args []string) error {
	if err := requireResolver(); err != nil {
		return err
	}
	slot, err := slotAt(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := attachmentResolver.StageFile(ctx, slot.Index, args[1]); err != nil {
		return err
	}
	return resolveAttachment(ctx, cmd, args[0], slot.Index)
}

func runAttachClipboard(cmd *cobra.Command, args []string) error {
	if err := requireResolver(); err != nil {
		return err
	}
	slot, err := slotAt(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if len(args) == 1 {
		if _, err := attachmentResolver.PasteClipboard(ctx, slot.Index); err != nil {
			return err
		}
		return resolveAttachment(ctx, cmd, args[0], slot.Index)
	}

	var data []byte
	if args[1] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[1])
	}
	if err != nil {
		return fmt.Errorf("reading pasted image: %w", err)
	}
	if _, err := attachmentResolver.StageClipboard(ctx, slot.Index, data); err != nil {
		return err
	}
	return resolveAttachment(ctx, cmd, args[0], slot.Index)
}

func runAttachURL(cmd *cobra.Command, args []string) error {
	if err := requireResolver(); err != nil {
		return err
	}
	slot, err := slotAt(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := attachmentResolver.StageURL(ctx, slot.Index, args[1]); err != nil {
		return err
	}
	return resolveAttachment(ctx, cmd, args[0], slot.Index)
}

// resolveAttachment uploads or probes the staged image. On failure the
// attachment stays staged on the topic.
func resolveAttachment(ctx context.Context, cmd *cobra.Command, pos string, index int) error {
	a, err := attachmentResolver.Resolve(ctx, index)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUploadFailed):
			cmd.PrintErrf("Topic %s: image kept but not uploaded; attach it again to retry.\n", pos)
		case errors.Is(err, domain.ErrUnreachableImage):
			cmd.PrintErrf("Topic %s: image kept but could not be loaded; attach it again to retry.\n", pos)
		}
		return err
	}
	cmd.Printf("Topic %s: attached %s\n", pos, describeAttachment(a))
	return nil
}

func runDetach(cmd *cobra.Command, args []string) error {
	if err := requireResolver(); err != nil {
		return err
	}
	slot, err := slotAt(args[0])
	if err != nil {
		return err
	}
	if err := attachmentResolver.Clear(cmd.Context(), slot.Index); err != nil {
		return err
	}
	cmd.Printf("Topic %s: image removed\n", args[0])
	return nil
}
