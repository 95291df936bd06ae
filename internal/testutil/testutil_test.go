package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/pointflow/internal/proc"
)

var _ proc.RunIDGenerator = (*FixedRunIDGenerator)(nil)

func TestFixedRunIDGenerator(t *testing.T) {
	assert.Equal(t, DefaultRunID, NewFixedRunIDGenerator("").Generate())

	gen := NewFixedRunIDGenerator("run-1")
	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-1", gen.Generate())
}

func TestPointsAndJSONLines(t *testing.T) {
	in := "{\"b\":1,\"a\":[1,2]}\n{\"c\":\"x\"}\n"

	assert.Equal(t, in, JSONLines(Points(t, in)))
}
