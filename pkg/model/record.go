package model

// ExecutionRecord holds the result of the most recently run command of a test unit.
// It is owned by a single test unit and is not safe for concurrent use.
type ExecutionRecord struct {
	output      string
	exitCode    int
	hasExitCode bool
	failed      bool
}

// NewExecutionRecord returns an empty record.
func NewExecutionRecord() *ExecutionRecord {
	return &ExecutionRecord{}
}

// Output returns the captured output verbatim.
func (r *ExecutionRecord) Output() string {
	return r.output
}

// ExitCode returns the exit status of the last completed run.
// Calling it before any command ran, or after a failed spawn, is a programming error.
func (r *ExecutionRecord) ExitCode() int {
	if !r.hasExitCode {
		panic("model: exit code read before a command completed")
	}
	return r.exitCode
}

// HasExitCode reports whether a completed run populated the exit code.
func (r *ExecutionRecord) HasExitCode() bool {
	return r.hasExitCode
}

// Failed reports whether the last run could not be executed.
func (r *ExecutionRecord) Failed() bool {
	return r.failed
}

// Store records the result of one completed command.
func (r *ExecutionRecord) Store(output string, exitCode int) {
	r.output = output
	r.exitCode = exitCode
	r.hasExitCode = true
	r.failed = false
}

// MarkFailed leaves the record in the failed state after a command could not be run.
func (r *ExecutionRecord) MarkFailed() {
	r.output = ""
	r.exitCode = 0
	r.hasExitCode = false
	r.failed = true
}

// Reset clears the output at a test-unit boundary. The exit code is kept
// until the next run overwrites it.
func (r *ExecutionRecord) Reset() {
	r.output = ""
}
