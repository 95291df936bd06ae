package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
)

// Check compares result against the scenario's expectations and records
// every mismatch on result.
func Check(scenario *Scenario, result *Result) {
	want := scenario.Expect

	if result.BuildError != nil {
		got := errs.CodeOf(result.BuildError)
		if want.Error == "" {
			result.AddError(fmt.Sprintf("build failed: %v", result.BuildError))
		} else if got != want.Error {
			result.AddError(fmt.Sprintf("build error: expected %s, got %s (%v)", want.Error, got, result.BuildError))
		}
		return
	}
	if want.Error != "" {
		result.AddError(fmt.Sprintf("build error: expected %s, proc was built", want.Error))
		return
	}

	assertOutput(want.Output, result)
	assertWarnings(want.Warnings, result)
}

// assertOutput compares batches point by point in JSON form, which checks
// values and field order together.
func assertOutput(expected []*point.Point, result *Result) {
	if len(expected) != len(result.Output) {
		result.AddError(fmt.Sprintf("output: expected %d points, got %d\n%s",
			len(expected), len(result.Output), describe(result.Output)))
		return
	}
	for i := range expected {
		exp, got := expected[i].String(), result.Output[i].String()
		if exp != got {
			result.AddError(fmt.Sprintf("output[%d]:\n  Expected: %s\n  Actual:   %s", i, exp, got))
		}
	}
}

func assertWarnings(expected []ExpectedWarning, result *Result) {
	if len(expected) != len(result.Warnings) {
		result.AddError(fmt.Sprintf("warnings: expected %d, got %d", len(expected), len(result.Warnings)))
		return
	}
	for i, w := range expected {
		got := result.Warnings[i]
		if got.Code != w.Code {
			result.AddError(fmt.Sprintf("warnings[%d]: expected code %s, got %s", i, w.Code, got.Code))
			continue
		}
		if w.Field != "" && got.Info["field"] != w.Field {
			result.AddError(fmt.Sprintf("warnings[%d]: expected field %q, got %v", i, w.Field, got.Info["field"]))
		}
	}
}

func describe(points []*point.Point) string {
	var b strings.Builder
	for _, p := range points {
		fmt.Fprintf(&b, "  %s\n", p)
	}
	return b.String()
}
