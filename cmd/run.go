package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"cmdprobe/pkg/config"
	"cmdprobe/pkg/harness"
	"cmdprobe/pkg/log"
	"cmdprobe/pkg/scenario"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <suite.yaml>...",
	Short: "Runs scenario suites",
	Long: `The run command loads one or more YAML suites, runs every scenario as an
isolated test unit and prints a report. It fails when any scenario failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cmd.Context().Value("logger").(log.Logger)
		r := activeRunner(logger)

		reports := []*scenario.Report{}
		for _, path := range args {
			suite, err := config.LoadSuite(path, logger)
			if err != nil {
				return fmt.Errorf("loading suite %s: %w", path, err)
			}
			reports = append(reports, scenario.Execute(cmd.Context(), suite, r, logger, harness.WithStripANSI(cfg.ShouldStripANSI())))
		}

		if jsonOutput {
			jsonBytes, err := json.MarshalIndent(reports, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal report to JSON: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(jsonBytes))
		} else {
			printReports(cmd, reports)
		}

		failed := 0
		for _, report := range reports {
			failed += report.FailedCount()
		}
		if failed > 0 {
			return fmt.Errorf("%d scenario(s) failed", failed)
		}
		return nil
	},
}

func printReports(cmd *cobra.Command, reports []*scenario.Report) {
	out := cmd.OutOrStdout()
	total, failed := 0, 0
	for _, report := range reports {
		fmt.Fprintf(out, "Suite %s\n", report.Suite)
		for _, sc := range report.Scenarios {
			total++
			if sc.Passed {
				fmt.Fprintf(out, "  PASS %s\n", sc.Name)
				continue
			}
			failed++
			fmt.Fprintf(out, "  FAIL %s\n", sc.Name)
			last := sc.Steps[len(sc.Steps)-1]
			fmt.Fprintf(out, "     - %s\n", last.Description)
			for _, failure := range last.Failures {
				fmt.Fprintf(out, "       %s\n", strings.ReplaceAll(failure, "\n", "\n       "))
			}
		}
	}
	fmt.Fprintf(out, "%d scenarios, %d failed\n", total, failed)
}

func init() {
	rootCmd.AddCommand(runCmd)
}
