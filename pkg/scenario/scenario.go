// Package scenario runs YAML command suites through a harness and collects a report.
package scenario

import (
	"context"
	"fmt"
	"strings"

	"cmdprobe/pkg/harness"
	"cmdprobe/pkg/log"
	"cmdprobe/pkg/model"
	"cmdprobe/pkg/runner"
)

// Report is the outcome of one suite.
type Report struct {
	Suite     string           `json:"suite"`
	Scenarios []ScenarioResult `json:"scenarios"`
}

type ScenarioResult struct {
	Name   string       `json:"name"`
	Passed bool         `json:"passed"`
	Steps  []StepResult `json:"steps"`
}

type StepResult struct {
	Description string   `json:"description"`
	ExitCode    *int     `json:"exit_code,omitempty"`
	Output      string   `json:"output"`
	Failures    []string `json:"failures,omitempty"`
}

// Passed reports whether every scenario passed.
func (r *Report) Passed() bool {
	return r.FailedCount() == 0
}

// FailedCount returns the number of failed scenarios.
func (r *Report) FailedCount() int {
	n := 0
	for _, sc := range r.Scenarios {
		if !sc.Passed {
			n++
		}
	}
	return n
}

// collector is the reporter of a suite run; it keeps failures instead of aborting.
type collector struct {
	failures []string
}

func (c *collector) Errorf(format string, args ...any) {
	c.failures = append(c.failures, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Describe returns a one-line description of a step.
func Describe(step model.Step) string {
	desc := fmt.Sprintf("run `%s`", step.Run)
	switch len(step.Input) {
	case 0:
	case 1:
		desc += " with 1 input line"
	default:
		desc += fmt.Sprintf(" with %d input lines", len(step.Input))
	}
	if step.AllowFailure {
		desc += " (failure allowed)"
	}
	return desc
}

// Execute runs every scenario of suite in order. Each scenario is one test unit:
// the record is reset before its first step, and its first failing step ends it.
func Execute(ctx context.Context, suite *model.Suite, r runner.CommandRunner, logger log.Logger, opts ...harness.Option) *Report {
	c := &collector{}
	opts = append([]harness.Option{harness.WithRunner(r), harness.WithLogger(logger)}, opts...)
	h := harness.New(c, opts...)

	report := &Report{Suite: suite.Name}
	for _, sc := range suite.Scenarios {
		logger.Info(fmt.Sprintf("=> %s", sc.Name))
		h.Reset()
		c.failures = nil

		result := ScenarioResult{Name: sc.Name, Passed: true}
		for _, step := range sc.Steps {
			stepResult := executeStep(ctx, h, c, step)
			result.Steps = append(result.Steps, stepResult)
			if len(stepResult.Failures) > 0 {
				result.Passed = false
				logger.Error("Scenario failed", "scenario", sc.Name, "step", stepResult.Description)
				break
			}
		}
		report.Scenarios = append(report.Scenarios, result)
	}

	logger.Info("Suite complete.", "suite", suite.Name, "scenarios", len(report.Scenarios), "failed", report.FailedCount())
	return report
}

func executeStep(ctx context.Context, h *harness.Harness, c *collector, step model.Step) StepResult {
	start := len(c.failures)
	result := StepResult{Description: Describe(step)}

	runOpts := []harness.RunOption{harness.WithContext(ctx)}
	if len(step.Input) > 0 {
		runOpts = append(runOpts, harness.WithInput(step.Input...))
	}
	if step.AllowFailure {
		runOpts = append(runOpts, harness.AllowFailure())
	}

	err := h.Run(step.Run, runOpts...)
	if h.Record().HasExitCode() && !h.Record().Failed() {
		code := h.LastExitCode()
		result.ExitCode = &code
		result.Output = h.LastOutput()
	}
	if err == nil {
		Check(h, step.Expect)
	}

	result.Failures = append([]string(nil), c.failures[start:]...)
	return result
}

// Check evaluates expect against the last run of h; mismatches go to its reporter.
func Check(h *harness.Harness, expect model.Expect) {
	if expect.IsEmpty() {
		return
	}
	for _, text := range expect.Contains {
		h.AssertOutputContains(text)
	}
	for _, text := range expect.NotContains {
		h.AssertOutputNotContains(text)
	}
	for _, pattern := range expect.Matches {
		h.AssertOutputMatches(pattern)
	}
	if expect.ExitCode != nil {
		h.AssertExitCodeIs(*expect.ExitCode)
	}
	if expect.ExitCodeNot != nil {
		h.AssertExitCodeIsNot(*expect.ExitCodeNot)
	}
	if expect.Output != nil {
		h.AssertOutputEquals(*expect.Output)
	}
}
