package harness

import (
	"context"

	"cmdprobe/pkg/log"
	"cmdprobe/pkg/model"
	"cmdprobe/pkg/runner"
)

// Option configures a Harness at creation time.
type Option func(*Harness)

// WithRunner replaces the host-shell runner, e.g. with a configured
// system.LiveCommandRunner or a mock.
func WithRunner(r runner.CommandRunner) Option {
	return func(h *Harness) {
		h.runner = r
	}
}

// WithLogger sets the debug sink that receives the output of every run.
// A nil logger discards everything.
func WithLogger(logger log.Logger) Option {
	return func(h *Harness) {
		if logger == nil {
			logger = log.NewNopLogger()
		}
		h.logger = logger
	}
}

// WithStripANSI controls whether escape sequences are removed from logged output.
// The recorded output is never modified.
func WithStripANSI(strip bool) Option {
	return func(h *Harness) {
		h.stripANSI = strip
	}
}

// WithRecord makes the Harness store results into an existing record.
func WithRecord(record *model.ExecutionRecord) Option {
	return func(h *Harness) {
		h.record = record
	}
}

type runConfig struct {
	ctx           context.Context
	input         []string
	failOnNonzero bool
}

// RunOption configures a single Run.
type RunOption func(*runConfig)

// WithInput writes lines, each followed by a newline, to the command's standard input.
func WithInput(lines ...string) RunOption {
	return func(c *runConfig) {
		c.input = append(c.input, lines...)
	}
}

// AllowFailure keeps a nonzero exit code from being reported as a failure.
func AllowFailure() RunOption {
	return func(c *runConfig) {
		c.failOnNonzero = false
	}
}

// WithContext bounds the run by ctx. The default context never expires.
func WithContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		c.ctx = ctx
	}
}
