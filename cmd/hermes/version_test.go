package main

import (
	"strings"
	"testing"
)

func TestVersionCommandExists(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd is nil")
	}
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
}

func TestRootCommandWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"run", "rules", "history", "version"} {
		if !names[want] {
			t.Errorf("root command is missing subcommand %q", want)
		}
	}
}

func TestRootCommandMentionsBridge(t *testing.T) {
	if !strings.Contains(rootCmd.Long, "avatar") {
		t.Error("root command description should mention the avatar endpoint")
	}
}
