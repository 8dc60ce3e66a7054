/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package textencoding

import "strconv"

// GlyphToRune resolves a PDF glyph name to its Unicode rune, per §4.E step 5:
// first the uniXXXX/uXXXX… hex forms, then the Adobe Glyph List.
func GlyphToRune(name GlyphName) (rune, bool) {
	s := string(name)
	if r, ok := decodeUniHex(s); ok {
		return r, true
	}
	if r, ok := adobeGlyphList[s]; ok {
		return r, true
	}
	// Glyph-name variants sometimes carry a dotted suffix (e.g. "A.sc",
	// "one.oldstyle"); retry on the base name before giving up.
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			if r, ok := adobeGlyphList[s[:i]]; ok {
				return r, true
			}
			break
		}
	}
	return MissingCodeRune, false
}

// decodeUniHex recognizes "uniXXXX" (exactly 4 hex digits, one BMP
// codepoint) and "uXXXX" through "uXXXXXX" (4-6 hex digits).
func decodeUniHex(s string) (rune, bool) {
	if len(s) == 7 && s[:3] == "uni" {
		if v, err := strconv.ParseUint(s[3:], 16, 32); err == nil {
			return rune(v), true
		}
		return 0, false
	}
	if len(s) >= 5 && len(s) <= 7 && s[0] == 'u' {
		if v, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			return rune(v), true
		}
	}
	return 0, false
}

// adobeGlyphList is a working subset of the Adobe Glyph List: ASCII, the
// common Latin-1 accented letters, and the typographic punctuation/ligature
// names that show up routinely in /Differences arrays. A /Differences name
// absent here leaves its code mapped by the base encoding.
var adobeGlyphList = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "minus": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=', "greater": '>',
	"question": '?', "at": '@',
	"A": 'A', "B": 'B', "C": 'C', "D": 'D', "E": 'E', "F": 'F', "G": 'G',
	"H": 'H', "I": 'I', "J": 'J', "K": 'K', "L": 'L', "M": 'M', "N": 'N',
	"O": 'O', "P": 'P', "Q": 'Q', "R": 'R', "S": 'S', "T": 'T', "U": 'U',
	"V": 'V', "W": 'W', "X": 'X', "Y": 'Y', "Z": 'Z',
	"bracketleft": '[', "backslash": '\\', "bracketright": ']',
	"asciicircum": '^', "underscore": '_', "grave": '`',
	"a": 'a', "b": 'b', "c": 'c', "d": 'd', "e": 'e', "f": 'f', "g": 'g',
	"h": 'h', "i": 'i', "j": 'j', "k": 'k', "l": 'l', "m": 'm', "n": 'n',
	"o": 'o', "p": 'p', "q": 'q', "r": 'r', "s": 's', "t": 't', "u": 'u',
	"v": 'v', "w": 'w', "x": 'x', "y": 'y', "z": 'z',
	"braceleft": '{', "bar": '|', "braceright": '}', "asciitilde": '~',

	"Agrave": 0x00C0, "Aacute": 0x00C1, "Acircumflex": 0x00C2, "Atilde": 0x00C3,
	"Adieresis": 0x00C4, "Aring": 0x00C5, "AE": 0x00C6, "Ccedilla": 0x00C7,
	"Egrave": 0x00C8, "Eacute": 0x00C9, "Ecircumflex": 0x00CA, "Edieresis": 0x00CB,
	"Igrave": 0x00CC, "Iacute": 0x00CD, "Icircumflex": 0x00CE, "Idieresis": 0x00CF,
	"Ntilde": 0x00D1, "Ograve": 0x00D2, "Oacute": 0x00D3, "Ocircumflex": 0x00D4,
	"Otilde": 0x00D5, "Odieresis": 0x00D6, "Oslash": 0x00D8,
	"Ugrave": 0x00D9, "Uacute": 0x00DA, "Ucircumflex": 0x00DB, "Udieresis": 0x00DC,
	"Yacute": 0x00DD, "Thorn": 0x00DE, "germandbls": 0x00DF,
	"agrave": 0x00E0, "aacute": 0x00E1, "acircumflex": 0x00E2, "atilde": 0x00E3,
	"adieresis": 0x00E4, "aring": 0x00E5, "ae": 0x00E6, "ccedilla": 0x00E7,
	"egrave": 0x00E8, "eacute": 0x00E9, "ecircumflex": 0x00EA, "edieresis": 0x00EB,
	"igrave": 0x00EC, "iacute": 0x00ED, "icircumflex": 0x00EE, "idieresis": 0x00EF,
	"ntilde": 0x00F1, "ograve": 0x00F2, "oacute": 0x00F3, "ocircumflex": 0x00F4,
	"otilde": 0x00F5, "odieresis": 0x00F6, "oslash": 0x00F8,
	"ugrave": 0x00F9, "uacute": 0x00FA, "ucircumflex": 0x00FB, "udieresis": 0x00FC,
	"yacute": 0x00FD, "thorn": 0x00FE, "ydieresis": 0x00FF,

	"quoteleft": 0x2018, "quoteright": 0x2019, "quotedblleft": 0x201C,
	"quotedblright": 0x201D, "quotesinglbase": 0x201A, "quotedblbase": 0x201E,
	"endash": 0x2013, "emdash": 0x2014, "bullet": 0x2022, "ellipsis": 0x2026,
	"trademark": 0x2122, "copyright": 0x00A9, "registered": 0x00AE,
	"degree": 0x00B0, "plusminus": 0x00B1, "section": 0x00A7, "paragraph": 0x00B6,
	"dagger": 0x2020, "daggerdbl": 0x2021, "periodcentered": 0x00B7,
	"guillemotleft": 0x00AB, "guillemotright": 0x00BB,
	"guilsinglleft": 0x2039, "guilsinglright": 0x203A,
	"fi": 0xFB01, "fl": 0xFB02, "ff": 0xFB00, "ffi": 0xFB03, "ffl": 0xFB04,
	"florin": 0x0192, "currency": 0x00A4, "yen": 0x00A5, "cent": 0x00A2,
	"sterling": 0x00A3, "fraction": 0x2044, "perthousand": 0x2030,
	"exclamdown": 0x00A1, "questiondown": 0x00BF,
	"dotlessi": 0x0131, "circumflex": 0x02C6, "tilde": 0x02DC,
	"macron": 0x00AF, "breve": 0x02D8, "dotaccent": 0x02D9,
	"ring": 0x02DA, "cedilla": 0x00B8, "hungarumlaut": 0x02DD,
	"ogonek": 0x02DB, "caron": 0x02C7, "Lslash": 0x0141, "lslash": 0x0142,
	"OE": 0x0152, "oe": 0x0153, "ordfeminine": 0x00AA, "ordmasculine": 0x00BA,

	"alpha": 0x03B1, "beta": 0x03B2, "gamma": 0x03B3, "delta": 0x03B4,
	"epsilon": 0x03B5, "zeta": 0x03B6, "eta": 0x03B7, "theta": 0x03B8,
	"iota": 0x03B9, "kappa": 0x03BA, "lambda": 0x03BB, "mu": 0x03BC,
	"nu": 0x03BD, "xi": 0x03BE, "omicron": 0x03BF, "pi": 0x03C0,
	"rho": 0x03C1, "sigma": 0x03C3, "tau": 0x03C4, "upsilon": 0x03C5,
	"phi": 0x03C6, "chi": 0x03C7, "psi": 0x03C8, "omega": 0x03C9,
	"Alpha": 0x0391, "Beta": 0x0392, "Gamma": 0x0393, "Delta": 0x0394,
	"Epsilon": 0x0395, "Zeta": 0x0396, "Eta": 0x0397, "Theta": 0x0398,
	"Iota": 0x0399, "Kappa": 0x039A, "Lambda": 0x039B, "Mu": 0x039C,
	"Nu": 0x039D, "Xi": 0x039E, "Omicron": 0x039F, "Pi": 0x03A0,
	"Rho": 0x03A1, "Sigma": 0x03A3, "Tau": 0x03A4, "Upsilon": 0x03A5,
	"Phi": 0x03A6, "Chi": 0x03A7, "Psi": 0x03A8, "Omega": 0x03A9,
}
