// Package harness runs proc conformance scenarios.
//
// A scenario is a YAML file naming a proc (directly or through a CUE
// program), its options, one input batch and the expected output batch and
// warnings. Run feeds the batch through a freshly built proc exactly the way
// a host would: time fields are normalized first, the proc processes the
// batch once, and the emitted points are denormalized for comparison.
//
// Expected output is compared in JSON form, so field order matters.
//
// Golden files under testdata/golden hold the full output of a scenario;
// regenerate them with:
//
//	go test ./internal/harness -update
package harness
