package harness

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
)

// AssertOutputContains checks that the last output contains text.
func (h *Harness) AssertOutputContains(text string) bool {
	if th, ok := h.reporter.(tHelper); ok {
		th.Helper()
	}
	return assert.Contains(h.reporter, h.LastOutput(), text, "output of the last command")
}

// AssertOutputNotContains checks that the last output does not contain text.
// The output is logged first so a failure can be diagnosed from the log alone.
func (h *Harness) AssertOutputNotContains(text string) bool {
	if th, ok := h.reporter.(tHelper); ok {
		th.Helper()
	}
	h.logger.Info("Checking output", "output", h.LastOutput(), "not_contains", text)
	return assert.NotContains(h.reporter, h.LastOutput(), text, "output of the last command")
}

// AssertOutputMatches checks that pattern matches anywhere in the last output.
func (h *Harness) AssertOutputMatches(pattern string) bool {
	if th, ok := h.reporter.(tHelper); ok {
		th.Helper()
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return assert.Fail(h.reporter, fmt.Sprintf("invalid pattern %q: %v", pattern, err))
	}
	return assert.Regexp(h.reporter, re, h.LastOutput(), "output of the last command")
}

// AssertOutputEquals checks the whole last output, reporting a diff on mismatch.
func (h *Harness) AssertOutputEquals(expected string) bool {
	if th, ok := h.reporter.(tHelper); ok {
		th.Helper()
	}
	actual := h.LastOutput()
	if actual == expected {
		return true
	}
	return assert.Fail(h.reporter, "output of the last command differs", "diff ([-expected-] {+actual+}):\n%s", OutputDiff(expected, actual))
}

// AssertExitCodeIs checks the exit code of the last completed run.
func (h *Harness) AssertExitCodeIs(code int) bool {
	if th, ok := h.reporter.(tHelper); ok {
		th.Helper()
	}
	if !h.record.HasExitCode() {
		return assert.Fail(h.reporter, "no command has completed, exit code is unavailable")
	}
	return assert.Equal(h.reporter, code, h.record.ExitCode(), "exit code of the last command, output:\n%s", h.LastOutput())
}

// AssertExitCodeIsNot checks that the last completed run did not exit with code.
func (h *Harness) AssertExitCodeIsNot(code int) bool {
	if th, ok := h.reporter.(tHelper); ok {
		th.Helper()
	}
	if !h.record.HasExitCode() {
		return assert.Fail(h.reporter, "no command has completed, exit code is unavailable")
	}
	return assert.NotEqual(h.reporter, code, h.record.ExitCode(), "exit code of the last command, output:\n%s", h.LastOutput())
}

// OutputDiff renders a character diff of two outputs, marking deletions with
// [-...-] and insertions with {+...+}.
func OutputDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(expected, actual, false))

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}
