package harness

import (
	"testing"

	"cmdprobe/pkg/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertions_Pass(t *testing.T) {
	h, mockRunner, reporter, _ := newMockHarness()
	mockRunner.SetResponse("echo hello", "hello", 0)
	require.NoError(t, h.Run("echo hello"))

	assert.True(t, h.AssertOutputContains("hell"))
	assert.True(t, h.AssertOutputNotContains("xyz"))
	assert.True(t, h.AssertOutputMatches("^hel+o$"))
	assert.True(t, h.AssertOutputEquals("hello"))
	assert.True(t, h.AssertExitCodeIs(0))
	assert.True(t, h.AssertExitCodeIsNot(1))

	test.AssertNothingReported(t, reporter)
}

func TestAssertions_Fail(t *testing.T) {
	tests := []struct {
		name     string
		check    func(h *Harness) bool
		reported string
	}{
		{"contains", func(h *Harness) bool { return h.AssertOutputContains("bye") }, "does not contain"},
		{"not contains", func(h *Harness) bool { return h.AssertOutputNotContains("ell") }, "should not contain"},
		{"matches", func(h *Harness) bool { return h.AssertOutputMatches("^bye") }, "^bye"},
		{"invalid pattern", func(h *Harness) bool { return h.AssertOutputMatches("(") }, "invalid pattern"},
		{"equals", func(h *Harness) bool { return h.AssertOutputEquals("help") }, "[-p-]{+lo+}"},
		{"exit code is", func(h *Harness) bool { return h.AssertExitCodeIs(1) }, "exit code of the last command"},
		{"exit code is not", func(h *Harness) bool { return h.AssertExitCodeIsNot(0) }, "exit code of the last command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockRunner, reporter, _ := newMockHarness()
			mockRunner.SetResponse("echo hello", "hello", 0)
			require.NoError(t, h.Run("echo hello"))

			assert.False(t, tt.check(h))
			test.AssertReported(t, reporter, tt.reported)
		})
	}
}

func TestAssertOutputNotContains_LogsOutput(t *testing.T) {
	h, mockRunner, _, logger := newMockHarness()
	mockRunner.SetResponse("ls", "a.txt b.txt", 0)
	require.NoError(t, h.Run("ls"))
	logger.Reset()

	h.AssertOutputNotContains("c.txt")

	test.AssertLogContains(t, logger, "output=a.txt b.txt")
}

func TestAssertExitCode_BeforeAnyRun(t *testing.T) {
	h, _, reporter, _ := newMockHarness()

	assert.False(t, h.AssertExitCodeIs(0))
	assert.False(t, h.AssertExitCodeIsNot(0))
	test.AssertReported(t, reporter, "exit code is unavailable")
}

func TestOutputDiff(t *testing.T) {
	assert.Equal(t, "same", OutputDiff("same", "same"))
	assert.Equal(t, "line1\n[-old-]{+new+}\nline3", OutputDiff("line1\nold\nline3", "line1\nnew\nline3"))
	assert.Equal(t, "{+added+}", OutputDiff("", "added"))
}
