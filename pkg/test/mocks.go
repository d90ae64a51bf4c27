package test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cmdprobe/pkg/runner"
)

// MockCommandRunner is a shared mock implementation of runner.CommandRunner for testing.
// It tracks executed commands and allows setting up results and errors.
type MockCommandRunner struct {
	Commands []string              // Track executed commands
	Inputs   map[string][][]string // Input lines passed, per command, per call
	Results  map[string]*runner.Result
	Errors   map[string]error
}

// NewMockCommandRunner creates a new MockCommandRunner with initialized maps.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		Commands: []string{},
		Inputs:   make(map[string][][]string),
		Results:  make(map[string]*runner.Result),
		Errors:   make(map[string]error),
	}
}

// Run simulates running a command and returns the configured result or error.
// Commands without a configured result succeed with no output.
func (r *MockCommandRunner) Run(ctx context.Context, command string, input []string) (*runner.Result, error) {
	r.Commands = append(r.Commands, command)
	r.Inputs[command] = append(r.Inputs[command], input)

	if err, ok := r.Errors[command]; ok {
		return nil, err
	}
	if res, ok := r.Results[command]; ok {
		copied := *res
		return &copied, nil
	}
	return &runner.Result{RunID: fmt.Sprintf("mock-%d", len(r.Commands))}, nil
}

// SetResponse configures the output and exit code of a command.
func (r *MockCommandRunner) SetResponse(command, output string, exitCode int) {
	r.Results[command] = &runner.Result{RunID: "mock", Output: output, ExitCode: exitCode}
}

// SetError configures an error for a command.
func (r *MockCommandRunner) SetError(command string, err error) {
	r.Errors[command] = err
}

// Reset clears all tracked commands and configurations.
func (r *MockCommandRunner) Reset() {
	r.Commands = []string{}
	r.Inputs = make(map[string][][]string)
	r.Results = make(map[string]*runner.Result)
	r.Errors = make(map[string]error)
}

// MockReporter is a test double for the failure reporting facility.
// It satisfies testify's assert.TestingT.
type MockReporter struct {
	Failures []string
}

func NewMockReporter() *MockReporter {
	return &MockReporter{Failures: []string{}}
}

// Errorf records a failure instead of failing the running test.
func (r *MockReporter) Errorf(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// Failed reports whether any failure was recorded.
func (r *MockReporter) Failed() bool {
	return len(r.Failures) > 0
}

// HasFailure checks if any recorded failure contains the given substring.
func (r *MockReporter) HasFailure(substring string) bool {
	for _, f := range r.Failures {
		if strings.Contains(f, substring) {
			return true
		}
	}
	return false
}

// MockLogger is a shared mock implementation of log.Logger for testing.
// It captures logged messages for verification.
type MockLogger struct {
	Messages []string
	Level    slog.Level
}

// NewMockLogger creates a new MockLogger with the specified level.
func NewMockLogger(level slog.Level) *MockLogger {
	return &MockLogger{
		Messages: []string{},
		Level:    level,
	}
}

// Debug captures debug messages.
func (l *MockLogger) Debug(msg string, args ...any) {
	if l.Level <= slog.LevelDebug {
		l.captureMessage("DEBUG", msg, args...)
	}
}

// Info captures info messages.
func (l *MockLogger) Info(msg string, args ...any) {
	if l.Level <= slog.LevelInfo {
		l.captureMessage("INFO", msg, args...)
	}
}

// Warn captures warn messages.
func (l *MockLogger) Warn(msg string, args ...any) {
	if l.Level <= slog.LevelWarn {
		l.captureMessage("WARN", msg, args...)
	}
}

// Error captures error messages.
func (l *MockLogger) Error(msg string, args ...any) {
	if l.Level <= slog.LevelError {
		l.captureMessage("ERROR", msg, args...)
	}
}

func (l *MockLogger) captureMessage(level, msg string, args ...any) {
	// key=value pairs, in the order given
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "%s: %s", level, msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(buf, " %v=%v", args[i], args[i+1])
	}
	l.Messages = append(l.Messages, buf.String())
}

// Reset clears all captured messages.
func (l *MockLogger) Reset() {
	l.Messages = []string{}
}

// HasMessage checks if any captured message contains the given substring.
func (l *MockLogger) HasMessage(substring string) bool {
	for _, msg := range l.Messages {
		if strings.Contains(msg, substring) {
			return true
		}
	}
	return false
}
