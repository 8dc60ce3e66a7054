/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package textencoding resolves single-byte PDF character codes to Unicode
// runes: the named standard encodings (WinAnsi, MacRoman, MacExpert,
// StandardEncoding, PDFDocEncoding), the Symbol/ZapfDingbats built-ins, and
// custom encodings built from a base plus a /Differences overlay. It is the
// byte-to-rune half of the font subsystem; glyph-name resolution goes
// through the Adobe Glyph List subset in glyphlist.go.
package textencoding

// CharCode is a raw character code read from a content stream string, before
// any encoding is applied. For simple fonts it is always a single byte.
type CharCode uint32

// GlyphName is a PDF glyph name, as it appears in a /Differences array or an
// encoding's base table (e.g. "space", "uni0041", "afii10017").
type GlyphName string

// MissingCodeRune is substituted when no mapping can be produced for a code.
const MissingCodeRune = '�'

// TextEncoder maps single-byte character codes to Unicode runes.
type TextEncoder interface {
	CharcodeToRune(code CharCode) (rune, bool)
}

// byteEncoding is a TextEncoder backed by a 256-entry byte->rune table.
type byteEncoding struct {
	name  string
	table map[byte]rune
}

func (e *byteEncoding) CharcodeToRune(code CharCode) (rune, bool) {
	if code > 0xff {
		return MissingCodeRune, false
	}
	r, ok := e.table[byte(code)]
	if !ok || r == 0 {
		return MissingCodeRune, false
	}
	return r, true
}

func (e *byteEncoding) String() string { return e.name }

// ByName returns the named standard/built-in encoding, or nil if unknown.
func ByName(name string) TextEncoder {
	switch name {
	case "WinAnsiEncoding":
		return winAnsiEncoding
	case "MacRomanEncoding":
		return macRomanEncoding
	case "MacExpertEncoding":
		return macExpertEncoding
	case "StandardEncoding":
		return standardEncoding
	case "PDFDocEncoding":
		return pdfDocEncoding
	case "Symbol":
		return symbolEncoding
	case "ZapfDingbats":
		return zapfDingbatsEncoding
	}
	return nil
}
