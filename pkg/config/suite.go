package config

import (
	"fmt"
	"path/filepath"

	"cmdprobe/pkg/log"
	"cmdprobe/pkg/model"
	"cmdprobe/pkg/system"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// LoadSuite reads a scenario suite, merges its includes and validates the result.
func LoadSuite(filename string, logger log.Logger) (*model.Suite, error) {
	suite, err := loadSuiteFile(filename)
	if err != nil {
		return nil, err
	}

	if len(suite.Includes) > 0 {
		if err := validate(&model.Suite{Includes: suite.Includes}); err != nil {
			return nil, err
		}
		suite, err = processIncludes(suite, filename, make(map[string]bool), logger)
		if err != nil {
			return nil, err
		}
	}

	if err := validate(&suite); err != nil {
		return nil, err
	}

	return &suite, nil
}

func loadSuiteFile(filename string) (model.Suite, error) {
	f, err := afero.ReadFile(system.AppFs, filename)
	if err != nil {
		return model.Suite{}, err
	}

	var suite model.Suite
	if err := yaml.Unmarshal(f, &suite); err != nil {
		return model.Suite{}, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if suite.Name == "" {
		suite.Name = filepath.Base(filename)
	}
	return suite, nil
}

// processIncludes merges the included suites in order, then the including suite
// itself, which has the highest priority.
func processIncludes(suite model.Suite, baseFile string, visited map[string]bool, logger log.Logger) (model.Suite, error) {
	absBase, err := filepath.Abs(baseFile)
	if err != nil {
		return model.Suite{}, fmt.Errorf("failed to resolve absolute path for %s: %w", baseFile, err)
	}
	if visited[absBase] {
		return model.Suite{}, fmt.Errorf("circular include detected: %s", baseFile)
	}
	visited[absBase] = true
	defer delete(visited, absBase)

	var scenarios []model.Scenario
	for _, includePath := range suite.Includes {
		resolvedPath := resolveIncludePath(baseFile, includePath)

		included, err := loadSuiteFile(resolvedPath)
		if err != nil {
			return model.Suite{}, fmt.Errorf("failed to load include '%s': %w", includePath, err)
		}

		if len(included.Includes) > 0 {
			included, err = processIncludes(included, resolvedPath, visited, logger)
			if err != nil {
				return model.Suite{}, err
			}
		}

		scenarios = mergeScenarios(scenarios, included.Scenarios, logger)
	}

	return model.Suite{
		Name:      suite.Name,
		Scenarios: mergeScenarios(scenarios, suite.Scenarios, logger),
	}, nil
}

func resolveIncludePath(baseFile, includePath string) string {
	if filepath.IsAbs(includePath) {
		return includePath
	}
	return filepath.Join(filepath.Dir(baseFile), includePath)
}

// mergeScenarios appends override to base. A scenario whose name already exists
// replaces the earlier one in place.
func mergeScenarios(base, override []model.Scenario, logger log.Logger) []model.Scenario {
	result := append([]model.Scenario{}, base...)
	index := make(map[string]int)
	for i, sc := range result {
		index[sc.Name] = i
	}

	for _, sc := range override {
		if i, exists := index[sc.Name]; exists {
			logger.Warn("Scenario overridden", "scenario", sc.Name)
			result[i] = sc
			continue
		}
		index[sc.Name] = len(result)
		result = append(result, sc)
	}

	return result
}
