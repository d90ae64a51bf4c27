package config

import (
	"log/slog"
	"testing"

	"cmdprobe/pkg/model"
	"cmdprobe/pkg/system"
	"cmdprobe/pkg/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSuite(t *testing.T) {
	logger := test.NewMockLogger(slog.LevelInfo)
	system.AppFs = test.SetupMockFilesystem(t)
	test.CreateTestFile(t, system.AppFs, "/suites/sample.yaml", test.SampleSuiteYAML())

	suite, err := LoadSuite("/suites/sample.yaml", logger)
	require.NoError(t, err)

	assert.Equal(t, "sample", suite.Name)
	require.Len(t, suite.Scenarios, 3)

	greeting := suite.Scenarios[0]
	assert.Equal(t, "greeting", greeting.Name)
	require.Len(t, greeting.Steps, 1)
	assert.Equal(t, "echo hello", greeting.Steps[0].Run)
	assert.Equal(t, []string{"hell"}, greeting.Steps[0].Expect.Contains)
	require.NotNil(t, greeting.Steps[0].Expect.ExitCode)
	assert.Equal(t, 0, *greeting.Steps[0].Expect.ExitCode)

	failing := suite.Scenarios[1]
	assert.True(t, failing.Steps[0].AllowFailure)
	assert.Equal(t, 3, *failing.Steps[0].Expect.ExitCode)

	interactive := suite.Scenarios[2]
	assert.Equal(t, []string{"line1", "line2"}, interactive.Steps[0].Input)
	assert.Equal(t, "line1\nline2", *interactive.Steps[0].Expect.Output)
}

func TestLoadSuite_DefaultsNameToFile(t *testing.T) {
	logger := test.NewMockLogger(slog.LevelInfo)
	system.AppFs = test.SetupMockFilesystem(t)
	test.CreateTestFile(t, system.AppFs, "/smoke.yaml", "scenarios:\n  - name: a\n    steps:\n      - run: echo ok\n")

	suite, err := LoadSuite("/smoke.yaml", logger)
	require.NoError(t, err)
	assert.Equal(t, "smoke.yaml", suite.Name)
}

func TestLoadSuite_Includes(t *testing.T) {
	t.Run("merges included scenarios before its own", func(t *testing.T) {
		logger := test.NewMockLogger(slog.LevelInfo)
		system.AppFs = test.SetupMockFilesystem(t)
		test.CreateTestFile(t, system.AppFs, "/suites/common/base.yaml", `
scenarios:
  - name: version
    steps:
      - run: tool --version
  - name: help
    steps:
      - run: tool --help
`)
		test.CreateTestFile(t, system.AppFs, "/suites/main.yaml", `
name: main
includes:
  - common/base.yaml
scenarios:
  - name: help
    steps:
      - run: tool -h
  - name: run
    steps:
      - run: tool run
`)

		suite, err := LoadSuite("/suites/main.yaml", logger)
		require.NoError(t, err)

		assert.Equal(t, "main", suite.Name)
		assert.Empty(t, suite.Includes)
		names := []string{}
		for _, sc := range suite.Scenarios {
			names = append(names, sc.Name)
		}
		assert.Equal(t, []string{"version", "help", "run"}, names)
		assert.Equal(t, "tool -h", suite.Scenarios[1].Steps[0].Run)
		test.AssertLogContains(t, logger, "Scenario overridden")
	})

	t.Run("nested includes", func(t *testing.T) {
		logger := test.NewMockLogger(slog.LevelInfo)
		system.AppFs = test.SetupMockFilesystem(t)
		test.CreateTestFile(t, system.AppFs, "/a.yaml", "includes: [b.yaml]\nscenarios:\n  - name: a\n    steps:\n      - run: echo a\n")
		test.CreateTestFile(t, system.AppFs, "/b.yaml", "includes: [/c.yaml]\nscenarios:\n  - name: b\n    steps:\n      - run: echo b\n")
		test.CreateTestFile(t, system.AppFs, "/c.yaml", "scenarios:\n  - name: c\n    steps:\n      - run: echo c\n")

		suite, err := LoadSuite("/a.yaml", logger)
		require.NoError(t, err)
		require.Len(t, suite.Scenarios, 3)
		assert.Equal(t, "c", suite.Scenarios[0].Name)
		assert.Equal(t, "b", suite.Scenarios[1].Name)
		assert.Equal(t, "a", suite.Scenarios[2].Name)
	})

	t.Run("detects circular includes", func(t *testing.T) {
		logger := test.NewMockLogger(slog.LevelInfo)
		system.AppFs = test.SetupMockFilesystem(t)
		test.CreateTestFile(t, system.AppFs, "/a.yaml", "includes: [b.yaml]\nscenarios: []\n")
		test.CreateTestFile(t, system.AppFs, "/b.yaml", "includes: [a.yaml]\nscenarios: []\n")

		_, err := LoadSuite("/a.yaml", logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "circular include detected")
	})

	t.Run("missing include", func(t *testing.T) {
		logger := test.NewMockLogger(slog.LevelInfo)
		system.AppFs = test.SetupMockFilesystem(t)
		test.CreateTestFile(t, system.AppFs, "/a.yaml", "includes: [nope.yaml]\nscenarios: []\n")

		_, err := LoadSuite("/a.yaml", logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load include 'nope.yaml'")
	})

	t.Run("empty include path", func(t *testing.T) {
		logger := test.NewMockLogger(slog.LevelInfo)
		system.AppFs = test.SetupMockFilesystem(t)
		test.CreateTestFile(t, system.AppFs, "/a.yaml", "includes: ['']\nscenarios: []\n")

		_, err := LoadSuite("/a.yaml", logger)
		var errs model.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "includes[0]", errs[0].Field)
	})
}

func TestLoadSuite_Invalid(t *testing.T) {
	logger := test.NewMockLogger(slog.LevelInfo)
	system.AppFs = test.SetupMockFilesystem(t)
	test.CreateTestFile(t, system.AppFs, "/bad.yaml", "scenarios:\n  - name: bad\n    steps:\n      - expect:\n          matches: ['(']\n")

	_, err := LoadSuite("/bad.yaml", logger)
	var errs model.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
}
