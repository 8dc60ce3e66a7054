/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package textencoding

// ligatures expands the Unicode Alphabetic Presentation Forms ligatures
// (U+FB00-FB04) to their ASCII constituent sequences, per §4.E step 6.
var ligatures = map[rune]string{
	0xFB00: "ff",
	0xFB01: "fi",
	0xFB02: "fl",
	0xFB03: "ffi",
	0xFB04: "ffl",
}

// ExpandLigature returns the ASCII expansion of r if it is one of the
// ligature presentation forms, and false otherwise.
func ExpandLigature(r rune) (string, bool) {
	s, ok := ligatures[r]
	return s, ok
}

// ExpandLigatures applies ExpandLigature to every rune in s, leaving
// non-ligature runes untouched.
func ExpandLigatures(s string) string {
	hasLigature := false
	for _, r := range s {
		if _, ok := ligatures[r]; ok {
			hasLigature = true
			break
		}
	}
	if !hasLigature {
		return s
	}
	var b []rune
	for _, r := range s {
		if exp, ok := ligatures[r]; ok {
			b = append(b, []rune(exp)...)
			continue
		}
		b = append(b, r)
	}
	return string(b)
}
