// Command batchwriter is a command-line client for a batch article
// generation server.
package main

import (
	"context"
	"os"

	"github.com/custodia-labs/batchwriter/internal/adapters/driven/backend/httpapi"
	"github.com/custodia-labs/batchwriter/internal/adapters/driven/clipboard"
	"github.com/custodia-labs/batchwriter/internal/adapters/driven/config/file"
	"github.com/custodia-labs/batchwriter/internal/adapters/driven/imageprobe"
	"github.com/custodia-labs/batchwriter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/batchwriter/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/batchwriter/internal/adapters/driving/cli"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
	"github.com/custodia-labs/batchwriter/internal/core/services"
	"github.com/custodia-labs/batchwriter/internal/logger"
	"github.com/custodia-labs/batchwriter/internal/normalisers/docx"
)

func main() {
	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the adapters and services for one invocation.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	fileStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	var configStore driven.ConfigStore = fileStore
	if opts.Ephemeral {
		configStore = memory.NewConfigStoreFrom(fileStore)
	}
	settingsService := services.NewSettingsService(configStore)

	// Invalid settings must not lock the user out of 'config set'.
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("%v; using defaults", err)
		settings = settingsService.GetDefaults()
	}
	if opts.ServerURL != "" {
		settings.ServerURL = opts.ServerURL
	}

	var (
		snapshots driven.SnapshotStore
		history   driven.JobHistoryStore
		closeFn   func() error
	)
	if opts.Ephemeral {
		snapshots = memory.NewSnapshotStore()
		history = memory.NewHistoryStore()
	} else {
		store, err := sqlite.NewStore(opts.DataDir)
		if err != nil {
			return nil, err
		}
		snapshots = store.SnapshotStore()
		history = store.JobHistoryStore()
		closeFn = store.Close
	}

	backend := httpapi.NewClient(httpapi.Config{
		BaseURL:           settings.ServerURL,
		Timeout:           settings.HTTPTimeout,
		RequestsPerSecond: settings.RequestRate,
	})
	prober := imageprobe.New(imageprobe.Config{Timeout: settings.ProbeTimeout})

	persistence := services.NewPersistence(snapshots, settings.FreshnessWindow)
	workspace := services.NewWorkspace(persistence, settings.MaxTopics)

	report, err := workspace.Restore(context.Background())
	if err != nil {
		logger.Warn("could not restore saved topics: %v", err)
	}
	if n := len(report.DroppedAttachments); n > 0 {
		logger.Warn("%d image(s) had not finished uploading before the last exit and were dropped", n)
	}

	resolver := services.NewResolver(workspace, backend, prober, settings.ProbeTimeout)
	resolver.SetClipboard(clipboard.New())

	orchestrator := services.NewOrchestrator(backend, workspace, persistence, settings.PollInterval)
	orchestrator.SetHistoryStore(history)

	artifacts := services.NewArtifactService(backend)
	artifacts.SetNormaliser(docx.New())

	logger.Debug("server %s, poll every %s", backend.BaseURL(), settings.PollInterval)

	return &cli.Services{
		Workspace:    workspace,
		Resolver:     resolver,
		Orchestrator: orchestrator,
		History:      services.NewHistory(history),
		Settings:     settingsService,
		Artifacts:    artifacts,
		Events:       orchestrator,
		Close:        closeFn,
	}, nil
}
