// Package cli is the cobra command-line adapter for batchwriter.
package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/batchwriter/internal/adapters/driving/tui"
	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driving"
	"github.com/custodia-labs/batchwriter/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// annotationStandalone marks commands that run without the service graph.
const annotationStandalone = "batchwriter/standalone"

// Options are the global flags handed to the bootstrap function.
type Options struct {
	ServerURL string
	DataDir   string
	ConfigDir string
	Verbose   bool
	Ephemeral bool
}

// Services is the wired application graph the commands run against.
type Services struct {
	Workspace    driving.TopicWorkspace
	Resolver     driving.AttachmentResolver
	Orchestrator driving.JobOrchestrator
	History      driving.HistoryService
	Settings     driving.SettingsService
	Artifacts    driving.ArtifactService
	Events       tui.EventSource

	// Close releases storage handles. May be nil.
	Close func() error
}

var (
	options   Options
	bootstrap func(Options) (*Services, error)
	closer    func() error

	topicWorkspace     driving.TopicWorkspace
	attachmentResolver driving.AttachmentResolver
	jobOrchestrator    driving.JobOrchestrator
	historyService     driving.HistoryService
	settingsService    driving.SettingsService
	artifactService    driving.ArtifactService
	eventSource        tui.EventSource
)

var rootCmd = &cobra.Command{
	Use:   "batchwriter",
	Short: "Generate articles in batches from a list of topics",
	Long: `batchwriter prepares a list of topics, optionally pairs each with an image,
submits them to an article generation server as one batch job and follows the
job until every topic has an article or an error.

Topics and the job in progress are kept between runs, so an interrupted
generate can be picked up again with 'batchwriter resume'.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.ServerURL, "server", "", "generation server URL (overrides server.url)")
	flags.StringVar(&options.DataDir, "data-dir", "", "directory for saved state (default ~/.batchwriter/data)")
	flags.StringVar(&options.ConfigDir, "config-dir", "", "directory holding config.toml (default ~/.batchwriter)")
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "print debug logging to stderr")
	flags.BoolVar(&options.Ephemeral, "ephemeral", false, "keep state and config changes in memory for this run only")
}

// SetBootstrap sets the function that builds the services from the global flags.
func SetBootstrap(fn func(Options) (*Services, error)) {
	bootstrap = fn
}

// SetServices installs already wired services. Commands run against these
// directly and the bootstrap function is not called.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	topicWorkspace = s.Workspace
	attachmentResolver = s.Resolver
	jobOrchestrator = s.Orchestrator
	historyService = s.History
	settingsService = s.Settings
	artifactService = s.Artifacts
	eventSource = s.Events
	closer = s.Close
}

// Execute runs the root command and releases the services afterwards.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := teardown(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(options.Verbose)
	if cmd.Annotations[annotationStandalone] != "" || bootstrap == nil {
		return nil
	}

	services, err := bootstrap(options)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func teardown() error {
	if closer == nil {
		return nil
	}
	fn := closer
	closer = nil
	if err := fn(); err != nil {
		return fmt.Errorf("closing storage: %w", err)
	}
	return nil
}

func requireWorkspace() error {
	if topicWorkspace == nil {
		return errors.New("topic workspace not configured")
	}
	return nil
}

func requireOrchestrator() error {
	if jobOrchestrator == nil {
		return errors.New("job orchestrator not configured")
	}
	return nil
}

// slotAt maps a 1-based position as shown by 'topics list' to a slot.
func slotAt(arg string) (domain.TopicSlot, error) {
	pos, err := strconv.Atoi(arg)
	if err != nil {
		return domain.TopicSlot{}, fmt.Errorf("%w: topic number %q", domain.ErrInvalidInput, arg)
	}
	slots := topicWorkspace.Slots()
	if pos < 1 || pos > len(slots) {
		return domain.TopicSlot{}, fmt.Errorf("%w: topic %d (have %d)", domain.ErrNotFound, pos, len(slots))
	}
	return slots[pos-1], nil
}
