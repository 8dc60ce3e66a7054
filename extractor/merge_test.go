/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package extractor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDedupSpansDropsOverprintedDuplicate(t *testing.T) {
	cfg := DefaultConfig()
	spans := []TextSpan{
		{Text: "Bold", X: 100, Y: 200, Width: 40},
		{Text: "Bold", X: 100.3, Y: 200, Width: 40},
		{Text: "Next", X: 150, Y: 200, Width: 30},
	}
	out := dedupSpans(spans, cfg)
	require.Len(t, out, 2)
	require.Equal(t, "Bold", out[0].Text)
	require.Equal(t, "Next", out[1].Text)
}

func TestDedupSpansKeepsDistinctXPositions(t *testing.T) {
	cfg := DefaultConfig()
	spans := []TextSpan{
		{Text: "A", X: 100, Y: 200, Width: 10},
		{Text: "B", X: 150, Y: 200, Width: 10},
	}
	out := dedupSpans(spans, cfg)
	require.Len(t, out, 2)
}

func TestMergeSpansJoinsTightGapWithoutSpace(t *testing.T) {
	cfg := DefaultConfig()
	spans := []TextSpan{
		{Text: "hel", X: 100, Y: 200, Width: 15, FontSize: 12},
		{Text: "lo", X: 115, Y: 200, Width: 10, FontSize: 12},
	}
	out := mergeSpans(spans, cfg)
	require.Len(t, out, 1)
	require.Equal(t, "hello", out[0].Text)
}

func TestMergeSpansInsertsSpaceOnWordGap(t *testing.T) {
	cfg := DefaultConfig()
	spans := []TextSpan{
		{Text: "hello", X: 100, Y: 200, Width: 30, FontSize: 12},
		{Text: "world", X: 131.5, Y: 200, Width: 30, FontSize: 12}, // gap = 1.5, within merge range but > 0.1
	}
	out := mergeSpans(spans, cfg)
	require.Len(t, out, 1)
	require.Equal(t, "hello world", out[0].Text)
}

func TestMergeSpansSplitsOnDifferentBaseline(t *testing.T) {
	cfg := DefaultConfig()
	spans := []TextSpan{
		{Text: "line1", X: 100, Y: 200, Width: 30, FontSize: 12},
		{Text: "line2", X: 100, Y: 180, Width: 30, FontSize: 12},
	}
	out := mergeSpans(spans, cfg)
	require.Len(t, out, 2)
}

func TestMergeSpansSplitsOnColumnLikeGap(t *testing.T) {
	cfg := DefaultConfig()
	spans := []TextSpan{
		{Text: "left", X: 100, Y: 200, Width: 20, FontSize: 12},
		{Text: "right", X: 300, Y: 200, Width: 20, FontSize: 12},
	}
	out := mergeSpans(spans, cfg)
	require.Len(t, out, 2)
}

func TestTransitionNeedsSpaceLowerToUpper(t *testing.T) {
	require.True(t, transitionNeedsSpace("end", "Start"))
}

func TestTransitionNeedsSpaceAcronymNotSplit(t *testing.T) {
	require.False(t, transitionNeedsSpace("USa", "IT"))
}

func TestTransitionNeedsSpaceDigitLetterBoundary(t *testing.T) {
	require.True(t, transitionNeedsSpace("page1", "of2"))
}
