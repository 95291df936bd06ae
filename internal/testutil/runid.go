// Package testutil holds helpers shared by tests across packages.
package testutil

// DefaultRunID is used by FixedRunIDGenerator when no id is given.
const DefaultRunID = "test-run-default"

// FixedRunIDGenerator returns the same run id every time, so logs and
// golden output of repeated runs are byte-identical.
//
// Implements proc.RunIDGenerator. Stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator returns a generator for id, or DefaultRunID when id
// is empty.
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run id.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
