package system

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"cmdprobe/pkg/log"
	"cmdprobe/pkg/runner"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultShell interprets command lines when LiveCommandRunner.Shell is empty.
const DefaultShell = "sh"

// CommandRunner defines an interface for running commands.
// Re-exported from pkg/runner to maintain a single import for callers.
type CommandRunner = runner.CommandRunner

// LiveCommandRunner is an implementation of CommandRunner that runs commands on the live system
// through the host shell. Standard error is merged into the captured output on both paths.
type LiveCommandRunner struct {
	Shell   string        // defaults to DefaultShell
	Dir     string        // working directory, empty for the current one
	Env     []string      // KEY=VALUE pairs appended to the inherited environment
	Timeout time.Duration // zero waits for the command forever
	Logger  log.Logger
}

// Run executes command with "<shell> -c". When input is empty the command's standard
// input is left untouched; otherwise every line is written to it followed by a newline
// and the stream is closed. Run returns only after the output has been drained and the
// process has exited. A nonzero exit status is not an error.
func (r *LiveCommandRunner) Run(ctx context.Context, command string, input []string) (*runner.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	logger := r.logger()
	runID := uuid.New().String()
	cmd := r.command(ctx, command)

	var (
		lines    []string
		exitCode int
		err      error
	)
	if len(input) == 0 {
		lines, exitCode, err = r.runSimple(cmd, command)
	} else {
		lines, exitCode, err = r.runInteractive(cmd, command, input, runID)
	}
	if err != nil {
		logger.Debug("Command could not be executed", "run_id", runID, "command", command, "error", err)
		return nil, err
	}

	logger.Debug("Command finished", "run_id", runID, "command", command, "exit_code", exitCode, "lines", len(lines))
	return &runner.Result{
		RunID:    runID,
		Output:   joinLines(lines),
		ExitCode: exitCode,
	}, nil
}

func (r *LiveCommandRunner) command(ctx context.Context, command string) *exec.Cmd {
	shell := r.Shell
	if shell == "" {
		shell = DefaultShell
	}
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	if r.Timeout > 0 {
		// Kill the whole process group so grandchildren holding the output pipe die too.
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		cmd.Cancel = func() error {
			return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		cmd.WaitDelay = time.Second
	}
	return cmd
}

// runSimple runs a command that needs no input and collects its combined output.
func (r *LiveCommandRunner) runSimple(cmd *exec.Cmd, command string) ([]string, int, error) {
	raw, runErr := cmd.CombinedOutput()
	if runErr != nil && cmd.ProcessState == nil {
		return nil, 0, &runner.SpawnError{Command: command, Stage: runner.StageProcess, Err: runErr}
	}

	exitCode, err := exitStatus(runErr)
	if err != nil {
		return nil, 0, &runner.UnreadableOutputError{Command: command, Err: err}
	}

	lines, err := readLines(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, &runner.UnreadableOutputError{Command: command, Err: err}
	}
	return lines, exitCode, nil
}

// runInteractive feeds input to the command while draining its output. The output
// pipe is read to the end before the process is waited on, so a child that fills the
// pipe buffer cannot block against us.
func (r *LiveCommandRunner) runInteractive(cmd *exec.Cmd, command string, input []string, runID string) ([]string, int, error) {
	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, 0, &runner.SpawnError{Command: command, Stage: runner.StageOutputStream, Err: err}
	}
	defer outR.Close()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		outW.Close()
		return nil, 0, &runner.SpawnError{Command: command, Stage: runner.StageInputStream, Err: err}
	}

	cmd.Stdout = outW
	cmd.Stderr = outW
	if err := cmd.Start(); err != nil {
		outW.Close()
		return nil, 0, &runner.SpawnError{Command: command, Stage: runner.StageProcess, Err: err}
	}
	// The child owns its copy of the write end; ours must go so EOF can arrive.
	outW.Close()

	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		w := bufio.NewWriter(stdin)
		for _, line := range input {
			if _, err := w.WriteString(line + "\n"); err != nil {
				return err
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
		return stdin.Close()
	})

	lines, readErr := readLines(outR)
	outR.Close()

	if writeErr := g.Wait(); writeErr != nil {
		// The child stopped reading; its output and status still stand.
		r.logger().Debug("Input not fully delivered", "run_id", runID, "command", command, "error", writeErr)
	}

	exitCode, waitErr := exitStatus(cmd.Wait())
	if readErr != nil {
		return nil, 0, &runner.UnreadableOutputError{Command: command, Err: readErr}
	}
	if waitErr != nil {
		return nil, 0, &runner.UnreadableOutputError{Command: command, Err: waitErr}
	}
	return lines, exitCode, nil
}

func (r *LiveCommandRunner) logger() log.Logger {
	if r.Logger == nil {
		return log.NewNopLogger()
	}
	return r.Logger
}

// exitStatus turns the error of a finished command into its exit code.
// Errors other than a nonzero exit are returned unchanged.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}
