package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"facelink/hermes/pkg/cli"
	"facelink/hermes/pkg/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Work with transformation rule files",
}

var validateFlags struct {
	file   string
	output string
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a rule file without starting the bridge",
	Long: `Parse and validate a transformation rule file, reporting every rule
that would be rejected at load time.

Examples:
  # Validate the default rule file
  hermes rules validate

  # Validate a specific file with JSON output
  hermes rules validate --file my-rules.json --output json`,
	RunE: validateRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesValidateCmd)

	rulesValidateCmd.Flags().StringVarP(&validateFlags.file, "file", "f", "rules.json", "rule file to validate")
	rulesValidateCmd.Flags().StringVarP(&validateFlags.output, "output", "o", "text", "output format (text, json)")
}

// validationReport is the machine-readable result of a validate run.
type validationReport struct {
	File    string              `json:"file"`
	Valid   []string            `json:"valid"`
	Invalid []rules.InvalidRule `json:"invalid"`
}

func validateRules(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(validateFlags.file)
	if err != nil {
		return cli.NewCommandError("rules validate", fmt.Errorf("rules file not found: %w", err))
	}

	entries, err := rules.Decode(data)
	if err != nil {
		return cli.NewCommandError("rules validate", err)
	}

	valid, invalid := rules.ValidateAll(entries)

	report := validationReport{
		File:    validateFlags.file,
		Valid:   make([]string, 0, len(valid)),
		Invalid: invalid,
	}
	for _, rule := range valid {
		report.Valid = append(report.Valid, rule.Name)
	}

	if validateFlags.output == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, report); err != nil {
			return err
		}
	} else {
		fmt.Printf("%s: %d valid, %d invalid\n", report.File, len(report.Valid), len(report.Invalid))
		for _, name := range report.Valid {
			fmt.Printf("  ✓ %s\n", name)
		}
		for _, rejected := range report.Invalid {
			fmt.Printf("  ✗ %s: %s\n", rejected.Name, rejected.Err)
		}
	}

	if len(invalid) > 0 {
		return cli.NewCommandError("rules validate", fmt.Errorf("%d invalid rules", len(invalid)))
	}
	return nil
}
