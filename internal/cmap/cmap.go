/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package cmap resolves character codes read from a content-stream string to
// Unicode: parsing embedded ToUnicode CMaps (bfchar/bfrange) and serving the
// predefined Adobe CJK Identity/UCS2-H CMaps from built-in CID tables.
package cmap

import "errors"

// ErrBadCMap reports a CMap stream this parser could not make sense of.
var ErrBadCMap = errors.New("pdftext/cmap: malformed CMap stream")

// CMap maps character codes to Unicode destination strings, plus the byte
// width used to read codes out of a content-stream string.
type CMap struct {
	// codespaceWidths holds the byte width of each declared codespace
	// range, in declaration order; used only to pick how many bytes make up
	// one code when it is not fixed by the font's composite-ness
	// (Identity-H etc. are always 2).
	codespaceWidths []int
	entries         map[uint32]string
}

// NewCMap returns an empty CMap with entries pre-sized for n expected codes.
func NewCMap(n int) *CMap {
	return &CMap{entries: make(map[uint32]string, n)}
}

// Lookup returns the Unicode destination for code, if mapped. Per §4.E,
// missing or U+FFFD destinations are treated as "no mapping" so callers fall
// through to the next resolution step.
func (m *CMap) Lookup(code uint32) (string, bool) {
	if m == nil {
		return "", false
	}
	s, ok := m.entries[code]
	if !ok || s == "" || (len([]rune(s)) == 1 && []rune(s)[0] == 0xFFFD) {
		return "", false
	}
	return s, true
}

// CodeLength reports the byte width of codes in this CMap, derived from its
// codespace ranges, defaulting to 1 if none were declared.
func (m *CMap) CodeLength() int {
	if m == nil || len(m.codespaceWidths) == 0 {
		return 1
	}
	width := m.codespaceWidths[0]
	for _, w := range m.codespaceWidths[1:] {
		if w != width {
			// Mixed-width codespaces: the first declared range's width
			// is returned; the other widths are not reported.
			return width
		}
	}
	return width
}

// predefinedNames maps the Adobe CJK Identity/UCS2-H CMap names this core
// ships built-in CID tables for to their backing table.
var predefinedNames = map[string]map[uint32]rune{
	"UniGB-UCS2-H":  gb1Map,
	"UniGB-UCS2-V":  gb1Map,
	"UniJIS-UCS2-H": japan1Map,
	"UniJIS-UCS2-V": japan1Map,
	"UniCNS-UCS2-H": cns1Map,
	"UniCNS-UCS2-V": cns1Map,
	"UniKS-UCS2-H":  korea1Map,
	"UniKS-UCS2-V":  korea1Map,
}

// IsPredefinedName reports whether name is one of the predefined CMaps this
// core resolves (the Identity encodings plus the four Unicode CJK CMaps).
func IsPredefinedName(name string) bool {
	if name == "Identity-H" || name == "Identity-V" {
		return true
	}
	_, ok := predefinedNames[name]
	return ok
}

// LookupPredefined resolves code through the predefined CMap named name.
// Identity-H/V return the code itself when it falls in a valid Unicode
// range; the Uni*-UCS2-* CMaps consult their CID table.
func LookupPredefined(name string, code uint32) (rune, bool) {
	if name == "Identity-H" || name == "Identity-V" {
		if code == 0 || (code >= 0xD800 && code <= 0xDFFF) || code > 0x10FFFF {
			return 0, false
		}
		return rune(code), true
	}
	table, ok := predefinedNames[name]
	if !ok {
		return 0, false
	}
	r, ok := table[code]
	return r, ok
}
