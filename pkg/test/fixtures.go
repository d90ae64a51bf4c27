package test

import (
	"cmdprobe/pkg/model"
)

// SampleSuite returns a small suite exercising every kind of expectation.
func SampleSuite() *model.Suite {
	zero := 0
	hello := "hello"
	return &model.Suite{
		Name: "sample",
		Scenarios: []model.Scenario{
			{
				Name: "greeting",
				Steps: []model.Step{
					{
						Run: "echo hello",
						Expect: model.Expect{
							Contains:    []string{"hell"},
							NotContains: []string{"xyz"},
							Matches:     []string{"^hel+o$"},
							ExitCode:    &zero,
							Output:      &hello,
						},
					},
				},
			},
			{
				Name: "interactive",
				Steps: []model.Step{
					{
						Run:    "cat",
						Input:  []string{"line1", "line2"},
						Expect: model.Expect{Contains: []string{"line1\nline2"}},
					},
				},
			},
		},
	}
}

// SampleSuiteYAML returns the YAML form of a suite.
func SampleSuiteYAML() string {
	return `name: sample
scenarios:
  - name: greeting
    steps:
      - run: echo hello
        expect:
          contains: [hell]
          not_contains: [xyz]
          matches: ["^hel+o$"]
          exit_code: 0
          output: hello
  - name: failing-exit
    steps:
      - run: exit 3
        allow_failure: true
        expect:
          exit_code: 3
          exit_code_not: 0
  - name: interactive
    steps:
      - run: cat
        input: [line1, line2]
        expect:
          output: "line1\nline2"
`
}

// SampleConfigYAML returns a sample configuration file.
func SampleConfigYAML() string {
	return `shell: sh
timeout: 30s
strip_ansi: false
log_level: debug
env:
  - CMDPROBE_MODE=test
`
}
