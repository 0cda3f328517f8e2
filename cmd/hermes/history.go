package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"facelink/hermes/pkg/cli"
	"facelink/hermes/pkg/config"
	"facelink/hermes/pkg/journal"
)

var historyFlags struct {
	limit  int
	output string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent synchronization cycles",
	Long: `Show the most recent synchronization cycles recorded in the journal,
newest first.

Examples:
  # Show the last 20 cycles
  hermes history

  # Show the last 5 cycles as JSON
  hermes history --limit 5 --output json`,
	RunE: showHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum number of cycles to show")
	historyCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "text", "output format (text, json)")
}

func showHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if !cfg.Journal.Enabled {
		return cli.NewCommandError("history", fmt.Errorf("journal is disabled in %s", cfgFile))
	}

	store, err := journal.Open(journal.Config{Path: cfg.Journal.Path}, nil)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), historyFlags.limit)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if historyFlags.output == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, entries)
	}

	if len(entries) == 0 {
		fmt.Println("no recorded cycles")
		return nil
	}

	for _, entry := range entries {
		status := "ok"
		if entry.Error != "" {
			status = "failed: " + entry.Error
		}
		fmt.Printf("%s  desired=%d created=%d updated=%d  %s  (%s)\n",
			entry.StartedAt.Format("2006-01-02 15:04:05"),
			entry.Desired, entry.Created, entry.Updated,
			entry.Duration.Round(time.Millisecond), status)
	}
	return nil
}
