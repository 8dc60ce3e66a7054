/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package extractor

import (
	"math"
	"sort"
)

// sortReadingOrder orders spans for natural reading: top-to-bottom within a
// single column, or column-by-column left-to-right when the page's
// X-occupancy histogram reveals one or more gutters.
func sortReadingOrder(spans []TextSpan, pageWidth float64, cfg Config) []TextSpan {
	if len(spans) < 2 || pageWidth <= 0 {
		return spans
	}

	gutters := findGutters(spans, pageWidth, cfg)
	if len(gutters) == 0 {
		sorted := append([]TextSpan(nil), spans...)
		sort.Slice(sorted, func(i, j int) bool { return readingOrderLess(sorted[i], sorted[j]) })
		return sorted
	}

	columns := columnRanges(gutters, pageWidth)
	buckets := make([][]TextSpan, len(columns))
	for _, s := range spans {
		mid := s.X + s.Width/2
		idx := columnFor(mid, columns)
		buckets[idx] = append(buckets[idx], s)
	}

	out := make([]TextSpan, 0, len(spans))
	for _, col := range buckets {
		sort.Slice(col, func(i, j int) bool { return readingOrderLess(col[i], col[j]) })
		out = append(out, col...)
	}
	return out
}

// readingOrderLess orders two spans within the same column: y descending
// (rounded to an integer for stable comparison), then x ascending, then Seq
// as the final tie-breaker so equal-position spans keep emission order.
func readingOrderLess(a, b TextSpan) bool {
	ya, yb := math.Round(a.Y), math.Round(b.Y)
	if ya != yb {
		return ya > yb
	}
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Seq < b.Seq
}

type binRange struct {
	lo, hi float64
}

// findGutters builds a ColumnBins-wide occupancy histogram of span coverage
// across the page width and returns the bin ranges whose density falls below
// ColumnGutterDensityFraction of the mean and whose combined width reaches at
// least ColumnGutterMinWidthFraction of the page.
func findGutters(spans []TextSpan, pageWidth float64, cfg Config) []binRange {
	bins := make([]float64, cfg.ColumnBins)
	binWidth := pageWidth / float64(cfg.ColumnBins)
	if binWidth <= 0 {
		return nil
	}

	for _, s := range spans {
		lo := clampBin(s.X/binWidth, cfg.ColumnBins)
		hi := clampBin((s.X+s.Width)/binWidth, cfg.ColumnBins)
		for b := lo; b <= hi; b++ {
			bins[b]++
		}
	}

	mean := 0.0
	for _, v := range bins {
		mean += v
	}
	mean /= float64(cfg.ColumnBins)
	if mean == 0 {
		return nil
	}

	minGutterBins := int(math.Ceil(cfg.ColumnGutterMinWidthFraction * float64(cfg.ColumnBins)))
	var gutters []binRange
	start := -1
	for b := 0; b <= cfg.ColumnBins; b++ {
		isGutter := b < cfg.ColumnBins && bins[b] < cfg.ColumnGutterDensityFraction*mean
		if isGutter {
			if start == -1 {
				start = b
			}
			continue
		}
		if start != -1 {
			if b-start >= minGutterBins {
				gutters = append(gutters, binRange{lo: float64(start) * binWidth, hi: float64(b) * binWidth})
			}
			start = -1
		}
	}
	return gutters
}

func clampBin(b float64, n int) int {
	i := int(b)
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// columnRanges turns the gutter boundaries into the complementary column
// ranges that span the full page width.
func columnRanges(gutters []binRange, pageWidth float64) []binRange {
	sort.Slice(gutters, func(i, j int) bool { return gutters[i].lo < gutters[j].lo })
	var cols []binRange
	prev := 0.0
	for _, g := range gutters {
		if g.lo > prev {
			cols = append(cols, binRange{lo: prev, hi: g.lo})
		}
		prev = g.hi
	}
	if prev < pageWidth {
		cols = append(cols, binRange{lo: prev, hi: pageWidth})
	}
	if len(cols) == 0 {
		cols = append(cols, binRange{lo: 0, hi: pageWidth})
	}
	return cols
}

func columnFor(x float64, columns []binRange) int {
	for i, c := range columns {
		if x >= c.lo && x < c.hi {
			return i
		}
	}
	if x < columns[0].lo {
		return 0
	}
	return len(columns) - 1
}
