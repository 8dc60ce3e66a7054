/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package textencoding

import "golang.org/x/text/encoding/charmap"

// WinAnsiEncoding and MacRomanEncoding are derived from golang.org/x/text's
// Windows-1252 and Macintosh charmaps rather than hand-transcribed 256-entry
// tables - both are byte-for-byte identical to the PDF-spec encodings of the
// same name over the printable range.
var (
	winAnsiEncoding  = &byteEncoding{name: "WinAnsiEncoding", table: fromCharmap(charmap.Windows1252)}
	macRomanEncoding = &byteEncoding{name: "MacRomanEncoding", table: fromCharmap(charmap.Macintosh)}
)

func fromCharmap(cm *charmap.Charmap) map[byte]rune {
	table := make(map[byte]rune, 256)
	dec := cm.NewDecoder()
	for b := 0; b < 256; b++ {
		out, err := dec.Bytes([]byte{byte(b)})
		if err != nil || len(out) == 0 {
			continue
		}
		r := []rune(string(out))[0]
		if r != 0 {
			table[byte(b)] = r
		}
	}
	return table
}

// asciiPassthrough fills the printable ASCII range 0x20-0x7E identically,
// the common starting point for StandardEncoding and PDFDocEncoding.
func asciiPassthrough() map[byte]rune {
	table := make(map[byte]rune, 256)
	for b := 0x20; b <= 0x7E; b++ {
		table[byte(b)] = rune(b)
	}
	return table
}

// standardEncoding implements Appendix D's StandardEncoding: ASCII over the
// printable range (with quoteleft/quoteright at the grave/apostrophe slots)
// plus the named upper-half glyphs in common use.
var standardEncoding = &byteEncoding{name: "StandardEncoding", table: func() map[byte]rune {
	t := asciiPassthrough()
	t[0x27] = 0x2019 // quoteright
	t[0x60] = 0x2018 // quoteleft
	upper := map[byte]rune{
		0xA1: 0x00A1, // exclamdown
		0xA2: 0x00A2, // cent
		0xA3: 0x00A3, // sterling
		0xA4: 0x2044, // fraction
		0xA5: 0x00A5, // yen
		0xA6: 0x0192, // florin
		0xA7: 0x00A7, // section
		0xA8: 0x00A4, // currency
		0xA9: 0x0027, // quotesingle
		0xAA: 0x201C, // quotedblleft
		0xAB: 0x00AB, // guillemotleft
		0xAC: 0x2039, // guilsinglleft
		0xAD: 0x203A, // guilsinglright
		0xAE: 0xFB01, // fi
		0xAF: 0xFB02, // fl
		0xB1: 0x2013, // endash
		0xB2: 0x2020, // dagger
		0xB3: 0x2021, // daggerdbl
		0xB4: 0x00B7, // periodcentered
		0xB6: 0x00B6, // paragraph
		0xB7: 0x2022, // bullet
		0xB8: 0x201A, // quotesinglbase
		0xB9: 0x201E, // quotedblbase
		0xBA: 0x201D, // quotedblright
		0xBB: 0x00BB, // guillemotright
		0xBC: 0x2026, // ellipsis
		0xBD: 0x2030, // perthousand
		0xBF: 0x00BF, // questiondown
		0xC1: 0x0060, // grave
		0xC2: 0x00B4, // acute
		0xC3: 0x02C6, // circumflex
		0xC4: 0x02DC, // tilde
		0xC5: 0x00AF, // macron
		0xC6: 0x02D8, // breve
		0xC7: 0x02D9, // dotaccent
		0xC8: 0x00A8, // dieresis
		0xCA: 0x02DA, // ring
		0xCB: 0x00B8, // cedilla
		0xCD: 0x02DD, // hungarumlaut
		0xCE: 0x02DB, // ogonek
		0xCF: 0x02C7, // caron
		0xD0: 0x2014, // emdash
		0xE1: 0x00C6, // AE
		0xE3: 0x00AA, // ordfeminine
		0xE8: 0x0141, // Lslash
		0xE9: 0x00D8, // Oslash
		0xEA: 0x0152, // OE
		0xEB: 0x00BA, // ordmasculine
		0xF1: 0x00E6, // ae
		0xF5: 0x0131, // dotlessi
		0xF8: 0x0142, // lslash
		0xF9: 0x00F8, // oslash
		0xFA: 0x0153, // oe
		0xFB: 0x00DF, // germandbls
	}
	for b, r := range upper {
		t[b] = r
	}
	return t
}()}

// pdfDocEncoding approximates PDFDocEncoding (ISO 32000-1 Annex D.3) as
// WinAnsi's printable range plus its distinguishing glyphs: the accents it
// places in the 0x18-0x1F control range and the bullet/dagger/dash glyphs
// it places at 0x80-0x87; the
// rest of the upper half matches WinAnsi closely enough for extraction
// purposes (both derive from the same Latin-1-adjacent lineage).
var pdfDocEncoding = &byteEncoding{name: "PDFDocEncoding", table: func() map[byte]rune {
	t := make(map[byte]rune, len(winAnsiEncoding.table))
	for b, r := range winAnsiEncoding.table {
		t[b] = r
	}
	t[0x18] = 0x02D8 // breve
	t[0x19] = 0x02C7 // caron
	t[0x1A] = 0x02C6 // circumflex
	t[0x1B] = 0x02D9 // dotaccent
	t[0x1C] = 0x02DD // hungarumlaut
	t[0x1D] = 0x02DB // ogonek
	t[0x1E] = 0x02DA // ring
	t[0x1F] = 0x02DC // tilde
	t[0x80] = 0x2022 // bullet
	t[0x81] = 0x2020 // dagger
	t[0x82] = 0x2021 // daggerdbl
	t[0x83] = 0x2026 // ellipsis
	t[0x84] = 0x2014 // emdash
	t[0x85] = 0x2013 // endash
	t[0x86] = 0x0192 // florin
	t[0x87] = 0x2044 // fraction
	return t
}()}

// macExpertEncoding is intentionally partial: MacExpertEncoding names
// small-caps/old-style-figure glyph variants that have no distinct Unicode
// codepoints of their own, and the encoding is essentially unused outside
// legacy PostScript Expert-set fonts. Only the printable ASCII range is
// mapped; anything else falls through to the font's common fallback table
// and then "?", same as any other unmapped code.
var macExpertEncoding = &byteEncoding{name: "MacExpertEncoding", table: asciiPassthrough()}

// symbolEncoding covers Adobe Symbol's Latin-row digits/punctuation and
// Greek letters, the overwhelming majority of Symbol-font text encountered
// in scientific/mathematical PDFs.
var symbolEncoding = &byteEncoding{name: "Symbol", table: map[byte]rune{
	0x20: ' ', 0x21: '!', 0x23: '#', 0x25: '%', 0x26: '&', 0x28: '(', 0x29: ')',
	0x2B: '+', 0x2C: ',', 0x2E: '.', 0x2F: '/',
	0x30: '0', 0x31: '1', 0x32: '2', 0x33: '3', 0x34: '4',
	0x35: '5', 0x36: '6', 0x37: '7', 0x38: '8', 0x39: '9',
	0x3A: ':', 0x3B: ';', 0x3C: '<', 0x3D: '=', 0x3E: '>', 0x3F: '?',
	0x41: 0x0391, 0x42: 0x0392, 0x43: 0x03A7, 0x44: 0x0394, 0x45: 0x0395,
	0x46: 0x03A6, 0x47: 0x0393, 0x48: 0x0397, 0x49: 0x0399, 0x4B: 0x039A,
	0x4C: 0x039B, 0x4D: 0x039C, 0x4E: 0x039D, 0x4F: 0x039F, 0x50: 0x03A0,
	0x51: 0x0398, 0x52: 0x03A1, 0x53: 0x03A3, 0x54: 0x03A4, 0x55: 0x03A5,
	0x57: 0x03A9, 0x58: 0x039E, 0x59: 0x03A8, 0x5A: 0x0396,
	0x61: 0x03B1, 0x62: 0x03B2, 0x63: 0x03C7, 0x64: 0x03B4, 0x65: 0x03B5,
	0x66: 0x03C6, 0x67: 0x03B3, 0x68: 0x03B7, 0x69: 0x03B9, 0x6B: 0x03BA,
	0x6C: 0x03BB, 0x6D: 0x03BC, 0x6E: 0x03BD, 0x6F: 0x03BF, 0x70: 0x03C0,
	0x71: 0x03B8, 0x72: 0x03C1, 0x73: 0x03C3, 0x74: 0x03C4, 0x75: 0x03C5,
	0x77: 0x03C9, 0x78: 0x03BE, 0x79: 0x03C8, 0x7A: 0x03B6,
	0xD7: 0x00D7, // multiply, commonly mapped by content writers to this slot
}}

// zapfDingbatsEncoding maps only the space code; dingbat glyphs are
// ornamental and carry no meaningful one-to-one Unicode text equivalent, so
// every other code falls through to the font's common fallback table and
// then the standard "?" substitution.
var zapfDingbatsEncoding = &byteEncoding{name: "ZapfDingbats", table: map[byte]rune{0x20: ' '}}
