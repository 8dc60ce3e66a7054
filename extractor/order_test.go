/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package extractor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortReadingOrderSingleColumnTopToBottom(t *testing.T) {
	cfg := DefaultConfig()
	// Wide spans so the occupancy histogram sees dense, near-full-width
	// coverage: its only gutters are the page margins, leaving one column.
	spans := []TextSpan{
		{Text: "third", X: 50, Y: 100, Width: 500},
		{Text: "first", X: 50, Y: 700, Width: 500},
		{Text: "second", X: 50, Y: 400, Width: 500},
	}
	out := sortReadingOrder(spans, 612, cfg)
	require.Equal(t, []string{"first", "second", "third"}, textsOf(out))
}

func TestSortReadingOrderSameLineLeftToRight(t *testing.T) {
	cfg := DefaultConfig()
	spans := []TextSpan{
		{Text: "b", X: 200, Y: 100, Width: 400},
		{Text: "a", X: 50, Y: 100, Width: 400},
	}
	out := sortReadingOrder(spans, 612, cfg)
	require.Equal(t, []string{"a", "b"}, textsOf(out))
}

func TestSortReadingOrderTwoColumnsLeftColumnFirst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ColumnBins = 20
	pageWidth := 600.0

	var spans []TextSpan
	// Left column: x in [40, 240], dense coverage.
	for y := 700.0; y >= 0; y -= 100 {
		spans = append(spans, TextSpan{Text: "L", X: 40, Y: y, Width: 200})
	}
	// Right column: x in [360, 560], dense coverage.
	for y := 700.0; y >= 0; y -= 100 {
		spans = append(spans, TextSpan{Text: "R", X: 360, Y: y, Width: 200})
	}

	out := sortReadingOrder(spans, pageWidth, cfg)
	require.Len(t, out, 16)
	for i := 0; i < 8; i++ {
		require.Equal(t, "L", out[i].Text)
	}
	for i := 8; i < 16; i++ {
		require.Equal(t, "R", out[i].Text)
	}
}

func textsOf(spans []TextSpan) []string {
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.Text
	}
	return out
}
