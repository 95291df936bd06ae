package harness

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Golden files sit in a golden directory next to the scenarios directory and
// are named after the scenario:
//
//	testdata/scenarios/split_basic.yaml  (name: split_basic)
//	testdata/golden/split_basic.golden
const (
	goldenDirName = "golden"
	goldenSuffix  = ".golden"
	goldenFixture = "testdata/" + goldenDirName
)

// GoldenPath returns the golden file of the scenario loaded from
// scenarioFile.
func GoldenPath(scenarioFile string, scenario *Scenario) string {
	scenariosDir := filepath.Dir(scenarioFile)
	return filepath.Join(filepath.Dir(scenariosDir), goldenDirName, scenario.Name+goldenSuffix)
}

// Snapshot renders a result as golden-file text: one line per output point,
// then one "warning " line per warning holding its serialized error.
func Snapshot(result *Result) ([]byte, error) {
	var buf bytes.Buffer
	for _, p := range result.Output {
		data, err := p.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	for _, w := range result.Warnings {
		data, err := json.Marshal(w)
		if err != nil {
			return nil, err
		}
		buf.WriteString("warning ")
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// Returns error if the scenario could not be executed.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(goldenFixture),
		goldie.WithNameSuffix(goldenSuffix),
	)
	g.Assert(t, name, snapshot)
	return nil
}
