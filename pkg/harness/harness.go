// Package harness drives command-line programs as black boxes from tests.
//
// A Harness owns one execution record for one test unit. Run executes a shell
// command, optionally feeding it input lines, and stores the combined output and
// exit status; the Assert methods check that record and report mismatches to the
// Reporter, which is usually the *testing.T of the running test:
//
//	h := harness.New(t)
//	h.Run("echo hello")
//	h.AssertOutputContains("hell")
//	h.AssertExitCodeIs(0)
//
//	h.Run("cat", harness.WithInput("line1", "line2"))
//	h.AssertOutputEquals("line1\nline2")
//
// A Harness is not safe for concurrent use; parallel tests each create their own.
package harness

import (
	"context"

	"cmdprobe/pkg/log"
	"cmdprobe/pkg/model"
	"cmdprobe/pkg/runner"
	"cmdprobe/pkg/system"

	"github.com/stretchr/testify/assert"
)

// Reporter receives failure reports. *testing.T satisfies it, as does any testify assert.TestingT.
type Reporter = assert.TestingT

type tHelper interface {
	Helper()
}

// Harness runs commands for one test unit and asserts over their results.
type Harness struct {
	reporter  Reporter
	runner    runner.CommandRunner
	logger    log.Logger
	record    *model.ExecutionRecord
	stripANSI bool
}

// New creates a Harness reporting to reporter. Without options it runs commands
// through the host shell and discards its debug log.
func New(reporter Reporter, opts ...Option) *Harness {
	h := &Harness{
		reporter:  reporter,
		logger:    log.NewNopLogger(),
		record:    model.NewExecutionRecord(),
		stripANSI: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.runner == nil {
		// The runner stays quiet; the harness writes the one sink line per run.
		h.runner = &system.LiveCommandRunner{Logger: log.NewNopLogger()}
	}
	return h
}

// Run executes command and stores its output and exit code in the record.
// Failures are reported to the Reporter and also returned: a command that could
// not be spawned, unreadable output, or a nonzero exit unless AllowFailure is given.
func (h *Harness) Run(command string, opts ...RunOption) error {
	if th, ok := h.reporter.(tHelper); ok {
		th.Helper()
	}

	cfg := runConfig{
		ctx:           context.Background(),
		failOnNonzero: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	result, err := h.runner.Run(cfg.ctx, command, cfg.input)
	if err == nil && result == nil {
		err = &runner.UnreadableOutputError{Command: command}
	}
	if err != nil {
		h.record.MarkFailed()
		h.logger.Error("Command could not be executed", "command", command, "error", err)
		h.report(err)
		return err
	}

	h.record.Store(result.Output, result.ExitCode)
	h.logOutput(command, result)

	if result.ExitCode != 0 && cfg.failOnNonzero {
		err := &runner.NonzeroExitError{
			Command:  command,
			ExitCode: result.ExitCode,
			Output:   result.Output,
		}
		h.report(err)
		return err
	}
	return nil
}

// report hands a runner-level failure to the reporter as is, so the captured
// output stays a verbatim substring of the message.
func (h *Harness) report(err error) {
	if th, ok := h.reporter.(tHelper); ok {
		th.Helper()
	}
	h.reporter.Errorf("%s", err)
}

// logOutput sends the output of a completed run to the debug log, once.
func (h *Harness) logOutput(command string, result *runner.Result) {
	output := result.Output
	if h.stripANSI {
		output = log.StripANSI(output)
	}
	h.logger.Debug("Command output",
		"run_id", result.RunID,
		"command", command,
		"exit_code", result.ExitCode,
		"output", output)
}

// LastOutput returns the output of the last run verbatim.
func (h *Harness) LastOutput() string {
	return h.record.Output()
}

// LastExitCode returns the exit code of the last completed run.
// It panics if no command has completed yet.
func (h *Harness) LastExitCode() int {
	return h.record.ExitCode()
}

// Reset clears the recorded output at the start of a test unit.
func (h *Harness) Reset() {
	h.record.Reset()
}

// Record exposes the execution record backing the Harness.
func (h *Harness) Record() *model.ExecutionRecord {
	return h.record
}
