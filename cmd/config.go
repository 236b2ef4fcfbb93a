package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spigell/job-ranker/internal/config"
	"github.com/spigell/job-ranker/internal/filtering"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the scoring configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved mode, weights and rule counts",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		resolved, err := config.LoadAll(cfg.Paths())
		if err != nil {
			return err
		}

		filterCfg := &filtering.Config{
			CompanyBlacklist: resolved.Profile.CompanyBlacklist,
			ExcludeFile:      cfg.ExcludeFile,
			MinimumScore:     cfg.MinimumScore,
			Workers:          cfg.Workers,
		}
		steps := filtering.Default()
		for _, step := range steps {
			if err := step.Validate(filterCfg); err != nil {
				return fmt.Errorf("%s: %w", step.Name(), err)
			}
		}

		return printJSON(struct {
			Active  config.ActiveConfig `json:"active"`
			Filters []filtering.Status  `json:"filters"`
		}{
			Active:  resolved.Summary(),
			Filters: filtering.Describe(steps),
		})
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate each configuration document",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		report := config.ValidateFiles(cfg.Paths())
		for _, status := range report {
			switch {
			case status.Skipped:
				fmt.Printf("%-8s skipped\n", status.Document)
			case status.Valid:
				fmt.Printf("%-8s ok %s\n", status.Document, status.Path)
			default:
				fmt.Printf("%-8s invalid: %s\n", status.Document, status.Error)
			}
		}

		if !config.Valid(report) {
			cmd.SilenceUsage = true
			return fmt.Errorf("configuration is invalid")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configValidateCmd)
}

func printJSON(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
