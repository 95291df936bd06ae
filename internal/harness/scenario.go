package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pointflow/internal/point"
)

// Scenario defines a conformance test scenario for one proc.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Proc is the registered proc name. Exactly one of Proc and Program is set.
	Proc string `yaml:"proc,omitempty"`

	// Options are passed to the proc when Proc is set.
	Options map[string]any `yaml:"options,omitempty"`

	// Program is a CUE program path, relative to the scenario file.
	Program string `yaml:"program,omitempty"`

	// Epsilon flags every normalized input time.
	Epsilon bool `yaml:"epsilon,omitempty"`

	// Input is the single batch handed to the proc.
	Input []*point.Point `yaml:"input"`

	// Expect describes the outcome.
	Expect Expect `yaml:"expect"`
}

// Expect is a scenario's expected outcome.
type Expect struct {
	// Output is the expected emitted batch, in external form and order.
	Output []*point.Point `yaml:"output"`

	// Warnings are the expected warning events, in order.
	Warnings []ExpectedWarning `yaml:"warnings,omitempty"`

	// Error is the expected construction error code. When set, no output
	// is expected.
	Error string `yaml:"error,omitempty"`
}

// ExpectedWarning matches one warning event.
type ExpectedWarning struct {
	Code  string `yaml:"code"`
	Field string `yaml:"field,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. The program path, if
// any, is resolved against the file's directory.
// Unknown fields are rejected to catch typos.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Program != "" && !filepath.IsAbs(scenario.Program) {
		scenario.Program = filepath.Join(filepath.Dir(path), scenario.Program)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if (s.Proc == "") == (s.Program == "") {
		return fmt.Errorf("exactly one of proc and program is required")
	}

	if s.Program != "" && len(s.Options) > 0 {
		return fmt.Errorf("options cannot be combined with program")
	}

	if s.Expect.Error != "" && len(s.Expect.Output) > 0 {
		return fmt.Errorf("expect.output cannot be combined with expect.error")
	}

	for i, w := range s.Expect.Warnings {
		if w.Code == "" {
			return fmt.Errorf("expect.warnings[%d]: code is required", i)
		}
	}

	return nil
}
