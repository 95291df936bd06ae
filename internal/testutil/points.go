package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pointflow/internal/point"
	"github.com/roach88/pointflow/internal/pointio"
)

// Points decodes newline-delimited JSON into points, failing the test on
// malformed input. Field order follows the JSON text.
func Points(t testing.TB, jsonl string) []*point.Point {
	t.Helper()
	points, err := pointio.NewDecoder(nil).Decode(strings.NewReader(jsonl))
	require.NoError(t, err)
	return points
}

// JSONLines renders points one JSON object per line, for comparisons that
// must respect field order.
func JSONLines(points []*point.Point) string {
	var b strings.Builder
	for _, p := range points {
		b.WriteString(p.String())
		b.WriteByte('\n')
	}
	return b.String()
}
