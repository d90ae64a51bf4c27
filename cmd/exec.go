package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"cmdprobe/pkg/harness"
	"cmdprobe/pkg/log"
	"cmdprobe/pkg/model"
	"cmdprobe/pkg/scenario"

	"github.com/spf13/cobra"
)

var (
	execInput        []string
	execAllowFailure bool
	execExpect       struct {
		contains    []string
		notContains []string
		matches     []string
		exitCode    int
		exitCodeNot int
		output      string
	}
)

// cliReporter keeps failures for printing once the command has finished.
type cliReporter struct {
	failures []string
}

func (r *cliReporter) Errorf(format string, args ...any) {
	r.failures = append(r.failures, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// execCmd represents the exec command
var execCmd = &cobra.Command{
	Use:   "exec [flags] -- <command>",
	Short: "Runs one command and checks its output",
	Long: `The exec command runs a shell command line, optionally writing --input lines
to its standard input, prints the combined output and checks the --expect-* flags.
A nonzero exit status is a failure unless --allow-failure is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cmd.Context().Value("logger").(log.Logger)
		command := strings.Join(args, " ")

		reporter := &cliReporter{}
		h := harness.New(reporter,
			harness.WithRunner(activeRunner(logger)),
			harness.WithLogger(logger),
			harness.WithStripANSI(cfg.ShouldStripANSI()),
		)

		runOpts := []harness.RunOption{harness.WithContext(cmd.Context())}
		if len(execInput) > 0 {
			runOpts = append(runOpts, harness.WithInput(execInput...))
		}
		if execAllowFailure {
			runOpts = append(runOpts, harness.AllowFailure())
		}

		if err := h.Run(command, runOpts...); err == nil {
			scenario.Check(h, expectFromFlags(cmd))
		}

		result := execResultForJSON{Command: command, Output: h.LastOutput(), Failures: reporter.failures}
		if h.Record().HasExitCode() {
			code := h.LastExitCode()
			result.ExitCode = &code
		}

		if jsonOutput {
			jsonBytes, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal result to JSON: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(jsonBytes))
		} else {
			if result.Output != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Output)
			}
			if result.ExitCode != nil {
				logger.Info("Command exited", "command", command, "exit_code", *result.ExitCode)
			}
			for _, failure := range result.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", failure)
			}
		}

		if len(result.Failures) > 0 {
			return fmt.Errorf("%d check(s) failed for `%s`", len(result.Failures), command)
		}
		return nil
	},
}

// expectFromFlags collects the --expect-* flags that were set.
func expectFromFlags(cmd *cobra.Command) model.Expect {
	expect := model.Expect{
		Contains:    execExpect.contains,
		NotContains: execExpect.notContains,
		Matches:     execExpect.matches,
	}
	if cmd.Flags().Changed("expect-exit") {
		code := execExpect.exitCode
		expect.ExitCode = &code
	}
	if cmd.Flags().Changed("expect-exit-not") {
		code := execExpect.exitCodeNot
		expect.ExitCodeNot = &code
	}
	if cmd.Flags().Changed("expect-output") {
		output := execExpect.output
		expect.Output = &output
	}
	return expect
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().StringArrayVarP(&execInput, "input", "i", nil, "Line to write to the command's standard input (repeatable)")
	execCmd.Flags().BoolVar(&execAllowFailure, "allow-failure", false, "Do not fail on a nonzero exit status")
	execCmd.Flags().StringArrayVar(&execExpect.contains, "expect-contains", nil, "Text the output must contain (repeatable)")
	execCmd.Flags().StringArrayVar(&execExpect.notContains, "expect-not-contains", nil, "Text the output must not contain (repeatable)")
	execCmd.Flags().StringArrayVar(&execExpect.matches, "expect-match", nil, "Regular expression the output must match (repeatable)")
	execCmd.Flags().IntVar(&execExpect.exitCode, "expect-exit", 0, "Expected exit status")
	execCmd.Flags().IntVar(&execExpect.exitCodeNot, "expect-exit-not", 0, "Exit status the command must not return")
	execCmd.Flags().StringVar(&execExpect.output, "expect-output", "", "Exact expected output")
}
