package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hermes",
	Short: "Hermes - motion-capture to avatar bridge",
	Long: `Hermes bridges a mobile motion-capture client and a desktop avatar
endpoint.

It receives live tracking values over UDP, evaluates user-defined
transformation rules against them, and keeps the endpoint's parameter
set reconciled with the rule file:
  - Named arithmetic rules with bounds and default values
  - Hot reload of the rule file on change
  - Additive create-or-update reconciliation over websocket
  - Synchronization history in a local journal`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
