// Package testutil provides shared test helpers for JSL Go tests.
package testutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ScenariosDir is the relative path from the module root to the scenarios.
const ScenariosDir = "testdata/scenarios"

// Scenario represents a test scenario loaded from a scenario.yaml file.
type Scenario struct {
	// Mode is run, check or fmt.
	Mode     string         `yaml:"mode"`
	File     string         `yaml:"file"`
	MaxSteps int64          `yaml:"maxSteps,omitempty"`
	Meta     *ScenarioMeta  `yaml:"meta,omitempty"`
	Expect   ExpectedResult `yaml:"expect"`

	// Dir is the directory the scenario was loaded from.
	Dir string `yaml:"-"`
}

// ScenarioMeta holds optional scenario metadata.
type ScenarioMeta struct {
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// ExpectedResult describes the expected outcome of running a scenario.
type ExpectedResult struct {
	ExitCode       int      `yaml:"exitCode"`
	Stdout         *string  `yaml:"stdout,omitempty"`
	StdoutContains string   `yaml:"stdoutContains,omitempty"`
	Stderr         *string  `yaml:"stderr,omitempty"`
	Code           string   `yaml:"code,omitempty"`
	Stack          []string `yaml:"stack,omitempty"`
}

// LoadScenario loads a scenario from a directory containing scenario.yaml.
func LoadScenario(dir string) (*Scenario, error) {
	f, err := os.Open(filepath.Join(dir, "scenario.yaml"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := Scenario{Mode: "run", File: "main.jsl"}
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("scenario: parse %s: %w", dir, err)
	}
	switch s.Mode {
	case "run", "check", "fmt":
	default:
		return nil, fmt.Errorf("scenario: %s: unknown mode %q", dir, s.Mode)
	}
	s.Dir = dir
	return &s, nil
}

// ListScenarios returns all scenario directories under the given root, sorted.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			scenarioPath := filepath.Join(root, e.Name(), "scenario.yaml")
			if _, err := os.Stat(scenarioPath); err == nil {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ReadProgram reads the program file referenced by the scenario.
func (s *Scenario) ReadProgram() (source, filename string, err error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, s.File))
	if err != nil {
		return "", "", err
	}
	return string(data), s.File, nil
}
