package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"facelink/hermes/pkg/avatar"
	"facelink/hermes/pkg/avatar/reconciler"
	"facelink/hermes/pkg/bridge"
	"facelink/hermes/pkg/cli"
	"facelink/hermes/pkg/config"
	"facelink/hermes/pkg/journal"
	"facelink/hermes/pkg/rules/repository"
	"facelink/hermes/pkg/telemetry/health"
	"facelink/hermes/pkg/telemetry/logging"
	"facelink/hermes/pkg/telemetry/metrics"
	"facelink/hermes/pkg/tracking"
)

var runFlags struct {
	rulesPath string
	logLevel  string
	dryRun    bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bridge",
	Long: `Start the bridge with the specified configuration.

The bridge listens for tracking frames on the configured UDP address,
connects to the avatar endpoint over websocket, and keeps the
endpoint's parameters reconciled with the rule file.

Examples:
  # Start with default config
  hermes run

  # Start with custom config
  hermes run --config /etc/hermes/config.yaml

  # Override the rule file
  hermes run --rules ./my-rules.json

  # Validate config without starting the bridge
  hermes run --dry-run`,
	RunE: runBridge,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.rulesPath, "rules", "r", "", "override rule file path")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the bridge")
}

func runBridge(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.rulesPath != "" {
		cfg.Rules.Path = runFlags.rulesPath
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.Setup(cfg.Logging)
	if err != nil {
		return cli.NewConfigError("logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Hermes v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)

	// Cancelled on SIGINT/SIGTERM; everything below shuts down with it.
	ctx, cancel := context.WithCancel(cli.SetupSignalHandler())
	defer cancel()

	// Metrics and health endpoints share one listener
	checker := health.New(0)
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics)
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		health.Mount(mux, checker, Version, GitCommit, BuildDate)
		metricsServer := &http.Server{Addr: cfg.Metrics.ListenAddress, Handler: mux}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer metricsServer.Close()
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Metrics.ListenAddress)
	}

	// Tracking receiver
	receiver, err := tracking.Listen(cfg.Tracking.ListenAddress, logger)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("tracking listener: %w", err))
	}
	defer receiver.Close()
	fmt.Printf("✓ Tracking receiver listening on %s\n", receiver.Addr())

	checker.Register("tracking", func(ctx context.Context) error {
		if receiver.Stale(cfg.Tracking.StaleAfter) {
			return fmt.Errorf("no tracking frames in the last %s", cfg.Tracking.StaleAfter)
		}
		return nil
	})

	// Avatar endpoint connection
	client, err := avatar.Dial(ctx, avatar.Config{
		URL:              cfg.Avatar.URL,
		PluginName:       cfg.Avatar.PluginName,
		PluginDeveloper:  cfg.Avatar.PluginDeveloper,
		AuthToken:        cfg.Avatar.AuthToken,
		RequestTimeout:   cfg.Avatar.RequestTimeout,
		HandshakeTimeout: cfg.Avatar.HandshakeTimeout,
	}, logger)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("avatar endpoint: %w", err))
	}
	defer client.Close()

	if _, err := client.Authenticate(ctx); err != nil {
		return cli.NewCommandError("run", fmt.Errorf("avatar authentication: %w", err))
	}
	fmt.Printf("✓ Connected to avatar endpoint at %s\n", cfg.Avatar.URL)

	// Sync journal
	var recorder bridge.Recorder
	if cfg.Journal.Enabled {
		store, err := journal.Open(journal.Config{Path: cfg.Journal.Path}, logger)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("journal: %w", err))
		}
		defer store.Close()
		recorder = store
		checker.Register("journal", store.Ping)
		fmt.Printf("✓ Journal at %s\n", cfg.Journal.Path)
	}

	// Rule repository with optional file watching
	var repo *repository.Repository
	watcher := repository.Watcher(nil)
	if cfg.Rules.Watch {
		fw, err := repository.NewFileWatcher(cfg.Rules.DebounceInterval, func(path string) {
			repo.OnFileChanged(path)
		}, logger)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("file watcher: %w", err))
		}
		watcher = fw
	}
	repo = repository.New(watcher, logger)
	defer repo.Close()

	checker.Register("rules", func(ctx context.Context) error {
		if !repo.State().IsUpToDate {
			return fmt.Errorf("rule snapshot is stale")
		}
		return nil
	})

	engine, err := bridge.New(bridge.Config{
		RulesPath:          cfg.Rules.Path,
		SyncInterval:       cfg.Sync.Interval,
		FullResyncSchedule: cfg.Sync.FullResyncSchedule,
		StaleAfter:         cfg.Tracking.StaleAfter,
	}, bridge.Dependencies{
		Rules:      repo,
		Reconciler: reconciler.New(client, logger),
		Tracking:   receiver,
		Journal:    recorder,
		Metrics:    collector,
	}, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- engine.Run(ctx)
	}()

	fmt.Printf("✓ Bridge running (rules: %s)\n", cfg.Rules.Path)
	fmt.Println("\nPress Ctrl+C to stop")

	err = <-errChan
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nReceived shutdown signal, shutting down gracefully...")
		fmt.Println("✓ Bridge stopped")
		return nil
	}
	return cli.NewCommandError("run", err)
}
