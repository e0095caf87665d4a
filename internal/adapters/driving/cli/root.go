// Package cli provides the cobra command tree for the docmon binary.
// Commands are thin wrappers over the core services; all pipeline
// behaviour lives behind the driving ports.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docmon-labs/docmon-cli/internal/adapters/driven/ai"
	"github.com/docmon-labs/docmon-cli/internal/adapters/driven/config/file"
	"github.com/docmon-labs/docmon-cli/internal/adapters/driven/fetch/web"
	"github.com/docmon-labs/docmon-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docmon-labs/docmon-cli/internal/chunker"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driving"
	"github.com/docmon-labs/docmon-cli/internal/core/services"
	"github.com/docmon-labs/docmon-cli/internal/diff"
	"github.com/docmon-labs/docmon-cli/internal/logger"
)

// version is the docmon release version.
var version = "0.1.0"

// Persistent flag values.
var (
	verbose   bool
	configDir string
	dataDir   string
)

// Wired services, populated by initServices. Tests inject mocks here.
var (
	configStore      driven.ConfigStore
	store            *sqlite.Store
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	monitorService   driving.MonitorService
	trackerService   driving.ChangeTracker
	retrievalService driving.RetrievalService
)

var rootCmd = &cobra.Command{
	Use:   "docmon",
	Short: "Monitor documentation for changes and search it",
	Long: `docmon watches documentation URLs for content changes, keeps a
versioned index of their content and serves hybrid keyword and
semantic retrieval over it, both from the command line and as an
MCP server for AI assistants.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if skipServiceInit(cmd) {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.docmon)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.docmon/data)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// skipServiceInit reports whether the command runs without the full
// service stack.
func skipServiceInit(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return false
}

// initServices wires config, storage, fetcher, AI services and the
// core pipeline. Tests pre-populate the service variables to bypass it.
func initServices() error {
	if monitorService != nil {
		return nil
	}

	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cfg

	dir := dataDir
	if dir == "" {
		dir = cfg.GetString("storage.data_dir")
	}
	s, err := sqlite.NewStore(dir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	store = s

	// AI services are optional: without them retrieval degrades to
	// keyword search and chunks are stored without embeddings.
	embedSettings := ai.LoadEmbeddingSettings(cfg)
	embeddingService, err = ai.CreateAndValidateEmbeddingService(&embedSettings)
	if err != nil {
		logger.Warn("embedding service unavailable: %v", err)
		embeddingService = nil
	}

	llmSettings := ai.LoadLLMSettings(cfg)
	llmService, err = ai.CreateAndValidateLLMService(&llmSettings)
	if err != nil {
		logger.Warn("LLM service unavailable: %v", err)
		llmService = nil
	}

	fetcher := web.New(web.Config{
		RequestsPerSecond: cfg.GetFloat("fetch.requests_per_second"),
		Concurrency:       cfg.GetInt("fetch.concurrency"),
		UserAgent:         cfg.GetString("fetch.user_agent"),
	})

	chunkCfg := chunkerConfig(cfg)
	docs := s.DocumentStore()
	monitors := s.MonitorStore()

	ingestor := services.NewIngestor(docs, embeddingService, llmService, chunkCfg)
	differ := diff.NewProvider(docs)

	monitorService = services.NewMonitorManager(fetcher, docs, monitors, ingestor, chunkCfg)
	trackerService = services.NewTrackerService(fetcher, docs, monitors, differ, ingestor, chunkCfg)
	retrievalService = services.NewRetriever(docs, embeddingService)

	return nil
}

// chunkerConfig reads chunking overrides from the config store.
func chunkerConfig(cfg driven.ConfigStore) chunker.Config {
	c := chunker.DefaultConfig()
	if v := cfg.GetInt("chunker.max_chunk_size"); v > 0 {
		c.MaxChunkSize = v
	}
	if v := cfg.GetInt("chunker.min_chunk_size"); v > 0 {
		c.MinChunkSize = v
	}
	if v := cfg.GetInt("chunker.overlap_size"); v > 0 {
		c.OverlapSize = v
	}
	return c
}

// closeServices releases resources opened by initServices.
func closeServices() {
	if store != nil {
		store.Close() //nolint:errcheck
		store = nil
	}
	if embeddingService != nil {
		embeddingService.Close() //nolint:errcheck
		embeddingService = nil
	}
	if llmService != nil {
		llmService.Close() //nolint:errcheck
		llmService = nil
	}
}
