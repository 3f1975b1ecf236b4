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

	"github.com/custodia-labs/batchwriter/internal/adapters/driving/topicfile"
	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Edit the list of topics",
	Long: `Manage the topics of the next batch.

Topics are numbered from 1 in the order they will be submitted. Empty topics
are kept in the list but left out of the submission.`,
	RunE: runTopicsList,
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topics and their images",
	Args:  cobra.NoArgs,
	RunE:  runTopicsList,
}

var topicsAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a topic",
	Long: `Add a topic at the end of the list. If the last topic is still blank it is
filled in instead of adding another one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTopicsAdd,
}

var topicsSetCmd = &cobra.Command{
	Use:   "set <n> <text>",
	Short: "Replace the text of a topic",
	Args:  cobra.ExactArgs(2),
	RunE:  runTopicsSet,
}

var topicsRemoveCmd = &cobra.Command{
	Use:   "remove <n>",
	Short: "Remove a topic and its image",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicsRemove,
}

var topicsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all topics",
	Args:  cobra.NoArgs,
	RunE:  runTopicsClear,
}

var topicsImagesCmd = &cobra.Command{
	Use:       "images <on|off>",
	Short:     "Turn image generation on or off for the batch",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runTopicsImages,
}

var topicsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the topics with the contents of a YAML file",
	Long: `Replace the topics with the contents of a YAML file.

Example file:

  enable_image: true
  topics:
    - Why Go channels are not queues
    - text: Tuning the garbage collector
      image: ./gc.png
    - text: Release notes
      image: https://example.com/cover.jpg

With --watch the file is imported again every time it is saved, until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runTopicsImport,
}

func init() {
	topicsImportCmd.Flags().Bool("watch", false, "re-import whenever the file changes")

	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsAddCmd)
	topicsCmd.AddCommand(topicsSetCmd)
	topicsCmd.AddCommand(topicsRemoveCmd)
	topicsClearCmd.Flags().Bool("purge", false, "also delete the saved topics and image setting")
	topicsCmd.AddCommand(topicsClearCmd)
	topicsCmd.AddCommand(topicsImagesCmd)
	topicsCmd.AddCommand(topicsImportCmd)
	rootCmd.AddCommand(topicsCmd)
}

func runTopicsList(cmd *cobra.Command, _ []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}

	slots := topicWorkspace.Slots()
	images := "off"
	if topicWorkspace.EnableImage() {
		images = "on"
	}
	cmd.Printf("Topics (%d/%d), image generation %s\n", len(slots), topicWorkspace.Capacity(), images)
	for i, slot := range slots {
		text := slot.Topic()
		if text == "" {
			text = "(empty)"
		}
		cmd.Printf("  %d. %s\n", i+1, text)
		if slot.Attachment != nil {
			cmd.Printf("     image: %s\n", describeAttachment(slot.Attachment))
		}
	}
	return nil
}

func runTopicsAdd(cmd *cobra.Command, args []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}
	ctx := cmd.Context()

	slots := topicWorkspace.Slots()
	last := slots[len(slots)-1]
	index := last.Index
	if !last.IsEmpty() || last.Attachment != nil {
		var err error
		if index, err = topicWorkspace.AddSlot(ctx); err != nil {
			return err
		}
	}

	if len(args) > 0 {
		if err := topicWorkspace.SetText(ctx, index, args[0]); err != nil {
			return err
		}
	}
	cmd.Printf("Added topic %d\n", len(topicWorkspace.Slots()))
	return nil
}

func runTopicsSet(cmd *cobra.Command, args []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}
	slot, err := slotAt(args[0])
	if err != nil {
		return err
	}
	if err := topicWorkspace.SetText(cmd.Context(), slot.Index, args[1]); err != nil {
		return err
	}
	cmd.Printf("Topic %s set to %q\n", args[0], strings.TrimSpace(args[1]))
	return nil
}

func runTopicsRemove(cmd *cobra.Command, args []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}
	slot, err := slotAt(args[0])
	if err != nil {
		return err
	}
	if err := topicWorkspace.RemoveSlot(cmd.Context(), slot.Index); err != nil {
		return err
	}
	cmd.Printf("Removed topic %s\n", args[0])
	return nil
}

func runTopicsClear(cmd *cobra.Command, _ []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}
	purge, _ := cmd.Flags().GetBool("purge")
	if purge {
		if err := topicWorkspace.Reset(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("All topics cleared and the saved copy deleted.")
		return nil
	}
	topicWorkspace.ClearAll(cmd.Context())
	cmd.Println("All topics cleared.")
	return nil
}

func runTopicsImages(cmd *cobra.Command, args []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}

	var enabled bool
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes":
		enabled = true
	case "off", "false", "no":
		enabled = false
	default:
		return fmt.Errorf("%w: expected on or off, got %q", domain.ErrInvalidInput, args[0])
	}

	topicWorkspace.SetEnableImage(cmd.Context(), enabled)
	if enabled {
		cmd.Println("Image generation enabled.")
	} else {
		cmd.Println("Image generation disabled.")
	}
	return nil
}

func runTopicsImport(cmd *cobra.Command, args []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}
	if attachmentResolver == nil {
		return errors.New("attachment resolver not configured")
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		f, err := topicfile.Load(args[0])
		if err != nil {
			return err
		}
		return importFile(cmd.Context(), cmd, f)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchFile(ctx, cmd, args[0])
}

func watchFile(ctx context.Context, cmd *cobra.Command, path string) error {
	f, err := topicfile.Load(path)
	if err != nil {
		return err
	}
	if err := importFile(ctx, cmd, f); err != nil {
		return err
	}

	w, err := topicfile.NewWatcher(path)
	if err != nil {
		return err
	}
	defer w.Close()

	updates, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s for changes (Ctrl-C to stop)\n", w.Path())

	for update := range updates {
		if update.Err != nil {
			cmd.PrintErrf("Not imported: %v\n", update.Err)
			continue
		}
		if err := importFile(ctx, cmd, update.File); err != nil {
			cmd.PrintErrf("Not imported: %v\n", err)
		}
	}
	return nil
}

func importFile(ctx context.Context, cmd *cobra.Command, f *topicfile.File) error {
	warnings, err := topicfile.Apply(ctx, f, topicWorkspace, attachmentResolver)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		cmd.PrintErrf("Warning: %v\n", w)
	}
	cmd.Printf("Imported %d topics\n", len(f.Topics))
	return nil
}

func describeAttachment(a *domain.Attachment) string {
	name := a.Filename
	if a.Kind == domain.AttachmentURL {
		name = a.URL
	}

	state := "staged"
	switch {
	case a.IsResolved():
		state = "ready"
	case a.Kind == domain.AttachmentURL && a.URLStatus == domain.URLStatusUnreachable:
		state = "unreachable"
	case a.Kind.IsBytes():
		state = "not uploaded"
	}
	return fmt.Sprintf("%s %s (%s)", a.Kind, name, state)
}
