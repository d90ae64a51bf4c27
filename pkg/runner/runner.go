// Package runner defines interfaces and error types for command execution.
// This package exists to break import cycles between testing and system packages.
package runner

import "context"

// CommandRunner runs a shell command line, optionally feeding it input lines,
// and returns its combined output and exit status.
// This allows for mocking in tests.
type CommandRunner interface {
	Run(ctx context.Context, command string, input []string) (*Result, error)
}

// Result is the normalized outcome of one command.
type Result struct {
	// RunID correlates the log lines of one execution.
	RunID string

	// Output is every captured line joined with "\n".
	Output string

	// ExitCode is the exit status of the command.
	ExitCode int
}
