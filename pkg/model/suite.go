package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Suite is a YAML file of command scenarios.
type Suite struct {
	Name      string     `yaml:"name"`
	Includes  []string   `yaml:"includes,omitempty"` // Other suite files merged before this one
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario is one test unit: its steps share a single execution record.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Run          string   `yaml:"run"`
	Input        []string `yaml:"input,omitempty"`
	AllowFailure bool     `yaml:"allow_failure,omitempty"`
	Expect       Expect   `yaml:"expect,omitempty"`
}

type Expect struct {
	Contains    []string `yaml:"contains,omitempty"`
	NotContains []string `yaml:"not_contains,omitempty"`
	Matches     []string `yaml:"matches,omitempty"`
	ExitCode    *int     `yaml:"exit_code,omitempty"`
	ExitCodeNot *int     `yaml:"exit_code_not,omitempty"`
	Output      *string  `yaml:"output,omitempty"`
}

// IsEmpty reports whether the step asserts nothing beyond running.
func (e Expect) IsEmpty() bool {
	return len(e.Contains) == 0 && len(e.NotContains) == 0 && len(e.Matches) == 0 &&
		e.ExitCode == nil && e.ExitCodeNot == nil && e.Output == nil
}

func (s *Suite) Validate() ValidationErrors {
	var errs ValidationErrors

	for i, include := range s.Includes {
		if strings.TrimSpace(include) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("includes[%d]", i), Message: "include path cannot be empty"})
		}
	}

	seen := make(map[string]bool)
	for i, sc := range s.Scenarios {
		if strings.TrimSpace(sc.Name) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("scenarios[%d].name", i), Message: "scenario name cannot be empty"})
		} else if seen[sc.Name] {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("scenarios[%d].name", i), Message: fmt.Sprintf("duplicate scenario name '%s'", sc.Name)})
		}
		seen[sc.Name] = true

		if len(sc.Steps) == 0 {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("scenarios[%d].steps", i), Message: "scenario must have at least one step"})
		}
		for j, step := range sc.Steps {
			field := fmt.Sprintf("scenarios[%d].steps[%d]", i, j)
			if strings.TrimSpace(step.Run) == "" {
				errs = append(errs, ValidationError{Field: field + ".run", Message: "command cannot be empty"})
			}
			for k, pattern := range step.Expect.Matches {
				if _, err := regexp.Compile(pattern); err != nil {
					errs = append(errs, ValidationError{Field: fmt.Sprintf("%s.expect.matches[%d]", field, k), Message: fmt.Sprintf("invalid regular expression: %v", err)})
				}
			}
			for k, line := range step.Input {
				if strings.Contains(line, "\n") {
					errs = append(errs, ValidationError{Field: fmt.Sprintf("%s.input[%d]", field, k), Message: "input line cannot contain a newline"})
				}
			}
		}
	}

	return errs
}
