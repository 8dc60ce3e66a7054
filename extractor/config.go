/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package extractor

import (
	"github.com/go-playground/validator/v10"
)

// Config tunes the heuristics §4.H applies on top of the literal operator
// execution: the word-boundary threshold inside TJ, the adjacent-span merge
// thresholds, and the column-detection histogram.
type Config struct {
	// TJWordBoundaryThreshold is the most negative a TJ position adjustment
	// (in thousandths of em) can be before it is treated as a word break
	// rather than ordinary kerning. Must be negative.
	TJWordBoundaryThreshold float64 `validate:"lt=0"`

	// MergeMaxGap is a cutoff, in user-space units: two spans whose
	// horizontal gap exceeds it are never merged. The merge pass also
	// requires the gap to lie in [-0.5, 3), so values above 3 do not widen
	// what can be merged.
	MergeMaxGap float64 `validate:"gt=0"`

	// MergeWordSpaceFraction is the fraction of font size above which a
	// merge gap is treated as a word boundary and gets a separating space.
	MergeWordSpaceFraction float64 `validate:"gt=0"`

	// DedupMaxXDelta is the largest x-position difference, in user-space
	// units, between consecutive same-line spans that counts as an
	// overprint duplicate.
	DedupMaxXDelta float64 `validate:"gt=0"`

	// ColumnBins is the number of histogram bins the column detector
	// divides the page width into.
	ColumnBins int `validate:"gt=0"`

	// ColumnGutterDensityFraction is the fraction of the mean bin density
	// below which a bin is considered part of a gutter.
	ColumnGutterDensityFraction float64 `validate:"gt=0,lt=1"`

	// ColumnGutterMinWidthFraction is the minimum width of a gutter,
	// expressed as a fraction of the page width.
	ColumnGutterMinWidthFraction float64 `validate:"gt=0,lt=1"`
}

// DefaultConfig returns the thresholds named in §4.H.
func DefaultConfig() Config {
	return Config{
		TJWordBoundaryThreshold:      -120,
		MergeMaxGap:                  5,
		MergeWordSpaceFraction:       0.25,
		DedupMaxXDelta:               2,
		ColumnBins:                   100,
		ColumnGutterDensityFraction:  0.20,
		ColumnGutterMinWidthFraction: 0.05,
	}
}

var configValidator = validator.New()

// Validate reports whether c's fields are within the ranges the extraction
// algorithm assumes.
func (c Config) Validate() error {
	return configValidator.Struct(c)
}
