package harness

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"cmdprobe/pkg/model"
	"cmdprobe/pkg/runner"
	"cmdprobe/pkg/system"
	"cmdprobe/pkg/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockHarness(opts ...Option) (*Harness, *test.MockCommandRunner, *test.MockReporter, *test.MockLogger) {
	mockRunner := test.NewMockCommandRunner()
	reporter := test.NewMockReporter()
	logger := test.NewMockLogger(slog.LevelDebug)
	opts = append([]Option{WithRunner(mockRunner), WithLogger(logger)}, opts...)
	return New(reporter, opts...), mockRunner, reporter, logger
}

func TestRun_StoresResult(t *testing.T) {
	h, mockRunner, reporter, _ := newMockHarness()
	mockRunner.SetResponse("echo hello", "hello", 0)

	err := h.Run("echo hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", h.LastOutput())
	assert.Equal(t, 0, h.LastExitCode())
	test.AssertCommandExecuted(t, mockRunner, "echo hello")
	test.AssertNothingReported(t, reporter)
	assert.Equal(t, [][]string{nil}, mockRunner.Inputs["echo hello"])
}

func TestRun_PassesInput(t *testing.T) {
	h, mockRunner, _, _ := newMockHarness()

	require.NoError(t, h.Run("cat", WithInput("a", "b"), WithInput("c")))

	assert.Equal(t, [][]string{{"a", "b", "c"}}, mockRunner.Inputs["cat"])
}

func TestRun_NonzeroExitReported(t *testing.T) {
	h, mockRunner, reporter, _ := newMockHarness()
	mockRunner.SetResponse("make test", "FAIL: widget\nsecond line", 2)

	err := h.Run("make test")

	var exitErr *runner.NonzeroExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.ExitCode)
	test.AssertReported(t, reporter, "exit code 2")
	test.AssertReported(t, reporter, "FAIL: widget\nsecond line")

	// The record is populated even though the run failed.
	assert.Equal(t, 2, h.LastExitCode())
	assert.Equal(t, "FAIL: widget\nsecond line", h.LastOutput())
}

func TestRun_FailureMessageIsVerbatim(t *testing.T) {
	h, mockRunner, reporter, _ := newMockHarness()
	mockRunner.SetResponse("build", "step 1\n\tindented\nstep 3", 1)

	err := h.Run("build")
	require.Error(t, err)

	require.Len(t, reporter.Failures, 1)
	assert.Equal(t, err.Error(), reporter.Failures[0])
	assert.NotContains(t, reporter.Failures[0], "Error Trace")
}

func TestRun_AllowFailure(t *testing.T) {
	h, mockRunner, reporter, _ := newMockHarness()
	mockRunner.SetResponse("exit 3", "", 3)

	err := h.Run("exit 3", AllowFailure())
	require.NoError(t, err)

	assert.Equal(t, 3, h.LastExitCode())
	test.AssertNothingReported(t, reporter)
}

func TestRun_SpawnErrorLeavesFailedRecord(t *testing.T) {
	h, mockRunner, reporter, logger := newMockHarness()
	mockRunner.SetResponse("echo before", "before", 0)
	spawnErr := &runner.SpawnError{Command: "broken", Stage: runner.StageProcess, Err: os.ErrPermission}
	mockRunner.SetError("broken", spawnErr)

	require.NoError(t, h.Run("echo before"))
	err := h.Run("broken")

	assert.ErrorIs(t, err, os.ErrPermission)
	assert.True(t, h.Record().Failed())
	assert.False(t, h.Record().HasExitCode())
	assert.Equal(t, "", h.LastOutput())
	assert.Panics(t, func() { h.LastExitCode() })
	test.AssertReported(t, reporter, "unable to create process for command `broken`")
	test.AssertLogContains(t, logger, "Command could not be executed")
}

func TestRun_MissingResultIsUnreadable(t *testing.T) {
	reporter := test.NewMockReporter()
	h := New(reporter, WithRunner(nilRunner{}))

	err := h.Run("ghost")

	var unreadable *runner.UnreadableOutputError
	require.True(t, errors.As(err, &unreadable))
	test.AssertReported(t, reporter, "`ghost` can't be executed")
	assert.True(t, h.Record().Failed())
}

type nilRunner struct{}

func (nilRunner) Run(ctx context.Context, command string, input []string) (*runner.Result, error) {
	return nil, nil
}

func TestRun_LogsOutputOncePerRun(t *testing.T) {
	h, mockRunner, _, logger := newMockHarness()
	mockRunner.SetResponse("colors", "\x1b[32mgreen\x1b[0m", 0)

	require.NoError(t, h.Run("colors"))

	count := 0
	for _, msg := range logger.Messages {
		if strings.Contains(msg, "Command output") && strings.Contains(msg, "output=green") {
			count++
		}
	}
	assert.Equal(t, 1, count, "messages: %v", logger.Messages)
	// The record keeps the raw bytes.
	assert.Equal(t, "\x1b[32mgreen\x1b[0m", h.LastOutput())
}

func TestRun_LogsRawOutputWithoutStripping(t *testing.T) {
	h, mockRunner, _, logger := newMockHarness(WithStripANSI(false))
	mockRunner.SetResponse("colors", "\x1b[32mgreen\x1b[0m", 0)

	require.NoError(t, h.Run("colors"))

	test.AssertLogContains(t, logger, "output=\x1b[32mgreen\x1b[0m")
}

func TestReset(t *testing.T) {
	h, mockRunner, _, _ := newMockHarness()
	mockRunner.SetResponse("echo hello", "hello", 0)

	h.Reset()
	assert.Equal(t, "", h.LastOutput())

	require.NoError(t, h.Run("echo hello"))
	h.Reset()
	h.Reset()
	assert.Equal(t, "", h.LastOutput())
	// The exit code survives until the next run.
	assert.Equal(t, 0, h.LastExitCode())
}

func TestWithRecord(t *testing.T) {
	record := model.NewExecutionRecord()
	h, mockRunner, _, _ := newMockHarness(WithRecord(record))
	mockRunner.SetResponse("id", "uid=0", 0)

	require.NoError(t, h.Run("id"))

	assert.Same(t, record, h.Record())
	assert.Equal(t, "uid=0", record.Output())
}

func TestWithLogger_Nil(t *testing.T) {
	reporter := test.NewMockReporter()
	mockRunner := test.NewMockCommandRunner()
	mockRunner.SetResponse("echo hello", "hello", 0)
	mockRunner.SetError("broken", &runner.SpawnError{Command: "broken", Stage: runner.StageProcess, Err: os.ErrNotExist})
	h := New(reporter, WithRunner(mockRunner), WithLogger(nil))

	assert.NotPanics(t, func() {
		_ = h.Run("echo hello")
		_ = h.Run("broken")
		h.AssertOutputNotContains("x")
	})
	test.AssertReported(t, reporter, "unable to create process")
}

func TestNew_DefaultRunnerLogsOncePerRun(t *testing.T) {
	logger := test.NewMockLogger(slog.LevelDebug)
	h := New(t, WithLogger(logger))

	require.NoError(t, h.Run("echo hi"))
	require.NoError(t, h.Run("cat", WithInput("a")))

	debug := 0
	for _, msg := range logger.Messages {
		if strings.HasPrefix(msg, "DEBUG:") {
			debug++
		}
	}
	assert.Equal(t, 2, debug, "messages: %v", logger.Messages)
}

func TestNew_DefaultsToLiveRunner(t *testing.T) {
	h := New(t)

	_, ok := h.runner.(*system.LiveCommandRunner)
	assert.True(t, ok)
	assert.True(t, h.stripANSI)
}
