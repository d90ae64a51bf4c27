package runner

import "fmt"

// Stage names the resource that could not be created for a command.
type Stage string

const (
	StageInputStream  Stage = "input stream"
	StageOutputStream Stage = "output stream"
	StageProcess      Stage = "process"
)

// SpawnError means the process or one of its I/O channels could not be created.
// No execution record is produced.
type SpawnError struct {
	Command string
	Stage   Stage
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("unable to create %s for command `%s`: %v", e.Stage, e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// UnreadableOutputError means the output stream failed in a way that is
// distinct from the command legitimately printing nothing.
type UnreadableOutputError struct {
	Command string
	Err     error
}

func (e *UnreadableOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("`%s` can't be executed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("`%s` can't be executed", e.Command)
}

func (e *UnreadableOutputError) Unwrap() error {
	return e.Err
}

// NonzeroExitError is reported when a command exits with a nonzero status
// and the caller asked for that to be a failure.
type NonzeroExitError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *NonzeroExitError) Error() string {
	return fmt.Sprintf("command `%s` failed with exit code %d, output:\n%s", e.Command, e.ExitCode, e.Output)
}
