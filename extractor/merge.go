/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package extractor

import (
	"math"
	"unicode"
)

// dedupSpans removes consecutive spans at the same rounded y whose x
// positions differ by less than cfg.DedupMaxXDelta: PDFs that overprint the
// same text for a bold/shadow effect, keeping only the first occurrence.
func dedupSpans(spans []TextSpan, cfg Config) []TextSpan {
	if len(spans) < 2 {
		return spans
	}
	out := make([]TextSpan, 0, len(spans))
	for _, s := range spans {
		if n := len(out); n > 0 {
			prev := out[n-1]
			if math.Round(prev.Y) == math.Round(s.Y) && math.Abs(prev.X-s.X) < cfg.DedupMaxXDelta {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// mergeSpans folds adjacent same-baseline spans together, inserting a
// separating space where the gap or a character-class transition calls for
// one.
func mergeSpans(spans []TextSpan, cfg Config) []TextSpan {
	if len(spans) < 2 {
		return spans
	}
	out := make([]TextSpan, 0, len(spans))
	out = append(out, spans[0])

	for _, b := range spans[1:] {
		a := &out[len(out)-1]
		if !canMerge(*a, b, cfg) {
			out = append(out, b)
			continue
		}
		sep := needsSeparator(*a, b, cfg)
		if sep {
			a.Text += " "
		}
		a.Text += b.Text
		a.Width = (b.X + b.Width) - a.X
	}
	return out
}

func canMerge(a, b TextSpan, cfg Config) bool {
	if math.Abs(a.Y-b.Y) >= 1 {
		return false
	}
	gap := b.X - (a.X + a.Width)
	if gap < -0.5 || gap >= 3 {
		return false
	}
	return gap <= cfg.MergeMaxGap
}

func needsSeparator(a, b TextSpan, cfg Config) bool {
	gap := b.X - (a.X + a.Width)
	if gap >= cfg.MergeWordSpaceFraction*a.FontSize {
		return true
	}
	if gap > 0.1 {
		return true
	}
	return transitionNeedsSpace(a.Text, b.Text)
}

// transitionNeedsSpace fires the character-transition heuristic: a
// lowercase-to-uppercase boundary (unless the preceding run ends in an
// acronym, i.e. its penultimate character is itself uppercase), or a
// digit/letter boundary.
func transitionNeedsSpace(aText, bText string) bool {
	aRunes := []rune(aText)
	bRunes := []rune(bText)
	if len(aRunes) == 0 || len(bRunes) == 0 {
		return false
	}
	last := aRunes[len(aRunes)-1]
	first := bRunes[0]

	if unicode.IsLower(last) && unicode.IsUpper(first) {
		if len(aRunes) >= 2 && unicode.IsUpper(aRunes[len(aRunes)-2]) {
			return false
		}
		return true
	}
	if (unicode.IsDigit(last) && unicode.IsLetter(first)) || (unicode.IsLetter(last) && unicode.IsDigit(first)) {
		return true
	}
	return false
}
