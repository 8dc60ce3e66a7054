/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package textencoding

// differencesEncoding overlays a base encoding with glyph-name substitutions
// from a font's /Differences array: build a 256-entry table starting from
// the base encoding, then apply the differences in order.
type differencesEncoding struct {
	base  TextEncoder
	table map[byte]rune
}

func (e *differencesEncoding) CharcodeToRune(code CharCode) (rune, bool) {
	if code <= 0xff {
		if r, ok := e.table[byte(code)]; ok {
			return r, true
		}
	}
	return e.base.CharcodeToRune(code)
}

// ApplyDifferences builds the 256-entry custom table described by §4.E step
// 5: starting from base, each entry in differences (code -> glyph name, in
// ascending code order) overrides that one code, resolving the glyph name
// through the Adobe Glyph List (including uniXXXX/uXXXX hex forms).
func ApplyDifferences(base TextEncoder, differences map[CharCode]GlyphName) TextEncoder {
	if len(differences) == 0 {
		return base
	}
	table := make(map[byte]rune, len(differences))
	for code, glyph := range differences {
		if code > 0xff {
			continue
		}
		if r, ok := GlyphToRune(glyph); ok {
			table[byte(code)] = r
		}
	}
	return &differencesEncoding{base: base, table: table}
}
