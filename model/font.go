/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package model builds the document-level view on top of core: fonts, color
// spaces, the page tree, and resource dictionaries, all addressed through a
// core.Document.
package model

import (
	"strings"

	"github.com/docsurface/pdftext/core"
	"github.com/docsurface/pdftext/internal/cmap"
	"github.com/docsurface/pdftext/internal/textencoding"
)

// Descriptor flag bits, ISO 32000-1:2008 table 123 (bit n -> 1<<(n-1)).
const (
	flagFixedPitch  = 1 << 0
	flagSerif       = 1 << 1
	flagSymbolic    = 1 << 2
	flagScript      = 1 << 3
	flagNonsymbolic = 1 << 5
	flagItalic      = 1 << 6
	flagAllCap      = 1 << 16
	flagSmallCap    = 1 << 17
	flagForceBold   = 1 << 18
)

// FontDescriptor carries the subset of /FontDescriptor this core needs to
// infer weight, italic slant, and a default glyph width.
type FontDescriptor struct {
	Flags        int
	StemV        float64
	HasStemV     bool
	FontWeight   float64
	HasWeight    bool
	ItalicAngle  float64
	MissingWidth float64
	HasMissing   bool
}

// CIDSystemInfo identifies the character collection a composite font's CIDs
// are drawn from (e.g. Adobe-Japan1-6).
type CIDSystemInfo struct {
	Registry   string
	Ordering   string
	Supplement int
}

// Font is the read-only view of a PDF font resource needed to turn content
// stream codes into Unicode text and advance widths. It never writes a font
// back out; see §4.E for the resolution order CodeToUnicode implements.
type Font struct {
	BaseFont string
	Subtype  string

	composite bool
	codeLen   int

	descriptor *FontDescriptor
	cidInfo    *CIDSystemInfo

	toUnicode *cmap.CMap

	// encodingName is the composite font's CMap name (Identity-H, Identity-V,
	// UniGB-UCS2-H, ...); empty when the encoding is an embedded, non
	// predefined CMap stream this core does not interpret (falls back to
	// Identity semantics, a documented simplification).
	encodingName string

	encoder textencoding.TextEncoder

	firstChar, lastChar int
	widths              map[int]float64
	cidWidths           map[int]float64
	defaultWidth        float64

	Weight string
	Italic bool
}

// UnknownFont is substituted when a content stream's Tf operator names a
// font absent from the current resource dictionary. It has no encoding of its
// own: codes resolve through commonFallback (WinAnsi, then Symbol), which
// agrees with a Latin-1 identity mapping except at 0x80-0x9F, and then "?".
func UnknownFont() *Font {
	return &Font{
		BaseFont:     "Unknown",
		Subtype:      "Type1",
		codeLen:      1,
		defaultWidth: 500,
		Weight:       "Regular",
	}
}

// LoadFont builds a Font from a /Type /Font dictionary.
func LoadFont(doc *core.Document, dict *core.Dictionary) (*Font, error) {
	f := &Font{defaultWidth: 500, Weight: "Regular"}

	f.Subtype, _ = core.GetNameVal(dict.Get("Subtype"))
	f.BaseFont, _ = core.GetNameVal(dict.Get("BaseFont"))
	f.composite = f.Subtype == "Type0"

	descriptorDict, cidDict := f.findDescriptorDict(doc, dict)
	if descriptorDict != nil {
		f.descriptor = parseFontDescriptor(descriptorDict)
	}

	if f.composite {
		f.codeLen = 2
		if name, ok := core.GetNameVal(dict.Get("Encoding")); ok {
			f.encodingName = name
		}
		if cidDict != nil {
			f.cidInfo = parseCIDSystemInfo(doc, cidDict)
			f.cidWidths, f.defaultWidth = parseCIDWidths(doc, cidDict)
		}
	} else {
		f.codeLen = 1
		f.firstChar, _ = core.GetInt(dict.Get("FirstChar"))
		f.lastChar, _ = core.GetInt(dict.Get("LastChar"))
		f.widths = parseSimpleWidths(doc, dict, f.firstChar, f.lastChar)
		f.defaultWidth = defaultWidthFor(f.descriptor)
		f.encoder = resolveSimpleEncoding(doc, dict, f.descriptor, f.BaseFont)
	}

	if tu := dict.Get("ToUnicode"); tu != nil {
		if stream, ok := resolveStream(doc, tu); ok {
			if decoded, err := core.DecodeStream(stream); err == nil {
				if m, err := cmap.ParseToUnicode(decoded); err == nil {
					f.toUnicode = m
				}
			}
		}
	}

	f.Weight = inferWeight(f.descriptor, f.BaseFont)
	f.Italic = inferItalic(f.descriptor, f.BaseFont)

	return f, nil
}

// findDescriptorDict returns (fontDescriptor, descendantFontDict). For
// simple fonts the descriptor hangs directly off dict; for Type0 fonts it is
// one level down, on the sole entry of /DescendantFonts.
func (f *Font) findDescriptorDict(doc *core.Document, dict *core.Dictionary) (*core.Dictionary, *core.Dictionary) {
	if f.Subtype != "Type0" {
		d, _ := resolveDict(doc, dict.Get("FontDescriptor"))
		return d, nil
	}
	arr, ok := resolveArray(doc, dict.Get("DescendantFonts"))
	if !ok || arr.Len() == 0 {
		return nil, nil
	}
	descendant, ok := resolveDict(doc, arr.Get(0))
	if !ok {
		return nil, nil
	}
	fd, _ := resolveDict(doc, descendant.Get("FontDescriptor"))
	return fd, descendant
}

func parseFontDescriptor(d *core.Dictionary) *FontDescriptor {
	fd := &FontDescriptor{}
	fd.Flags, _ = core.GetInt(d.Get("Flags"))
	if v, ok := core.GetFloatVal(d.Get("StemV")); ok {
		fd.StemV, fd.HasStemV = v, true
	}
	if v, ok := core.GetFloatVal(d.Get("FontWeight")); ok {
		fd.FontWeight, fd.HasWeight = v, true
	}
	if v, ok := core.GetFloatVal(d.Get("ItalicAngle")); ok {
		fd.ItalicAngle = v
	}
	if v, ok := core.GetFloatVal(d.Get("MissingWidth")); ok {
		fd.MissingWidth, fd.HasMissing = v, true
	}
	return fd
}

func parseCIDSystemInfo(doc *core.Document, descendant *core.Dictionary) *CIDSystemInfo {
	d, ok := resolveDict(doc, descendant.Get("CIDSystemInfo"))
	if !ok {
		return nil
	}
	info := &CIDSystemInfo{}
	info.Registry, _ = core.GetStringVal(d.Get("Registry"))
	info.Ordering, _ = core.GetStringVal(d.Get("Ordering"))
	info.Supplement, _ = core.GetInt(d.Get("Supplement"))
	return info
}

// parseSimpleWidths reads /Widths into a map keyed by absolute character
// code, covering [firstChar, lastChar].
func parseSimpleWidths(doc *core.Document, dict *core.Dictionary, first, last int) map[int]float64 {
	arr, ok := resolveArray(doc, dict.Get("Widths"))
	if !ok {
		return nil
	}
	widths := make(map[int]float64, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		code := first + i
		if code > last && last != 0 {
			break
		}
		if w, ok := core.GetFloatVal(arr.Get(i)); ok {
			widths[code] = w
		}
	}
	return widths
}

// parseCIDWidths reads a /DescendantFonts entry's /W array, which alternates
// between "c [w1 w2 ... wn]" (explicit per-CID widths starting at c) and
// "cFirst cLast w" (one width for an inclusive CID range). /DW supplies the
// default, defaulting to 1000 per ISO 32000-1:2008 9.7.4.3 when absent.
func parseCIDWidths(doc *core.Document, descendant *core.Dictionary) (map[int]float64, float64) {
	dw := 1000.0
	if v, ok := core.GetFloatVal(descendant.Get("DW")); ok {
		dw = v
	}
	arr, ok := resolveArray(doc, descendant.Get("W"))
	if !ok {
		return nil, dw
	}
	widths := map[int]float64{}
	elems := arr.Elements()
	i := 0
	for i < len(elems) {
		first, ok := core.GetInt(elems[i])
		if !ok {
			break
		}
		i++
		if i >= len(elems) {
			break
		}
		if sub, ok := core.GetArray(core.Direct(elems[i])); ok {
			for j := 0; j < sub.Len(); j++ {
				if w, ok := core.GetFloatVal(sub.Get(j)); ok {
					widths[first+j] = w
				}
			}
			i++
			continue
		}
		last, ok := core.GetInt(elems[i])
		if !ok || i+1 >= len(elems) {
			break
		}
		w, ok := core.GetFloatVal(elems[i+1])
		if !ok {
			break
		}
		for c := first; c <= last; c++ {
			widths[c] = w
		}
		i += 2
	}
	return widths, dw
}

// defaultWidthFor implements the fallback cascade: an explicit
// /MissingWidth wins, else the fixed-pitch descriptor flag selects 600,
// else 500; with no descriptor at all (malformed/embedded-font-less fonts)
// fall back to 550.
func defaultWidthFor(fd *FontDescriptor) float64 {
	if fd == nil {
		return 550
	}
	if fd.HasMissing {
		return fd.MissingWidth
	}
	if fd.Flags&flagFixedPitch != 0 {
		return 600
	}
	return 500
}

// resolveSimpleEncoding implements §4.E steps 3-5 for simple fonts: symbolic
// Symbol and ZapfDingbats fonts use their built-in table regardless of
// /Encoding; other symbolic fonts use StandardEncoding, with a /Differences
// overlay still applied when /Encoding is a dictionary; nonsymbolic fonts
// start from a named base encoding (StandardEncoding if unspecified) and
// apply a /Differences overlay when /Encoding is a dictionary.
func resolveSimpleEncoding(doc *core.Document, dict *core.Dictionary, fd *FontDescriptor, baseFont string) textencoding.TextEncoder {
	symbolic := fd != nil && fd.Flags&flagSymbolic != 0 && fd.Flags&flagNonsymbolic == 0

	encodingObj := resolve(doc, dict.Get("Encoding"))

	if symbolic {
		switch {
		case strings.Contains(baseFont, "ZapfDingbats") || strings.Contains(baseFont, "Dingbats"):
			return textencoding.ByName("ZapfDingbats")
		case strings.Contains(baseFont, "Symbol"):
			return textencoding.ByName("Symbol")
		}
		// No embedded-font program to recover a true built-in encoding from;
		// StandardEncoding is the closest stand-in and still resolves ASCII.
		base := textencoding.ByName("StandardEncoding")
		if diffTable, ok := differencesFrom(encodingObj); ok {
			return textencoding.ApplyDifferences(base, diffTable)
		}
		return base
	}

	baseName := "StandardEncoding"
	var encodingDict *core.Dictionary
	switch t := encodingObj.(type) {
	case *core.Name:
		baseName = string(*t)
	case *core.Dictionary:
		encodingDict = t
		if n, ok := core.GetNameVal(t.Get("BaseEncoding")); ok {
			baseName = n
		}
	}
	base := textencoding.ByName(baseName)
	if base == nil {
		base = textencoding.ByName("StandardEncoding")
	}
	if encodingDict != nil {
		if diffArr, ok := resolveArray(doc, encodingDict.Get("Differences")); ok {
			return textencoding.ApplyDifferences(base, parseDifferencesArray(diffArr))
		}
	}
	return base
}

func differencesFrom(encodingObj core.Object) (map[textencoding.CharCode]textencoding.GlyphName, bool) {
	d, ok := encodingObj.(*core.Dictionary)
	if !ok {
		return nil, false
	}
	arr, ok := core.GetArray(d.Get("Differences"))
	if !ok {
		return nil, false
	}
	return parseDifferencesArray(arr), true
}

// parseDifferencesArray reads the PDF /Differences array convention: an
// Integer sets the "current code", and every following Name up to the next
// Integer is assigned sequential codes starting there.
func parseDifferencesArray(arr *core.Array) map[textencoding.CharCode]textencoding.GlyphName {
	table := map[textencoding.CharCode]textencoding.GlyphName{}
	code := 0
	for _, e := range arr.Elements() {
		switch t := core.Direct(e).(type) {
		case *core.Integer:
			code = int(*t)
		case *core.Name:
			table[textencoding.CharCode(code)] = textencoding.GlyphName(string(*t))
			code++
		}
	}
	return table
}

// CodeLength reports the byte width of one character code for this font:
// 1 for simple fonts, 2 for composite fonts (this core does not interpret
// embedded non-predefined encoding CMaps with non-uniform codespaces).
func (f *Font) CodeLength() int {
	if f.codeLen == 0 {
		return 1
	}
	return f.codeLen
}

// CodeToUnicode resolves a raw character code to text, per §4.E's
// resolution order: embedded ToUnicode CMap, then predefined CJK CMap for
// composite fonts or the built-in/named/Differences encoding for simple
// fonts, then ligature expansion, then a small fallback table of common
// punctuation/math/Greek/currency, and finally "?".
func (f *Font) CodeToUnicode(code uint32) string {
	if s, ok := f.toUnicode.Lookup(code); ok {
		return textencoding.ExpandLigatures(s)
	}

	if f.composite {
		if f.encodingName != "" {
			if r, ok := cmap.LookupPredefined(f.encodingName, code); ok {
				return expandOrString(r)
			}
		} else if r, ok := cmap.LookupPredefined("Identity-H", code); ok {
			return expandOrString(r)
		}
	} else if f.encoder != nil {
		if r, ok := f.encoder.CharcodeToRune(textencoding.CharCode(code)); ok {
			return expandOrString(r)
		}
	}

	if r, ok := commonFallback(code); ok {
		return expandOrString(r)
	}
	return "?"
}

func expandOrString(r rune) string {
	if s, ok := textencoding.ExpandLigature(r); ok {
		return s
	}
	return string(r)
}

// commonFallback covers the common punctuation/math/Greek/currency glyphs
// that show up even when a font's own encoding chain fails to resolve a
// code, by trying the two encodings most likely to agree with it.
func commonFallback(code uint32) (rune, bool) {
	if code > 0xff {
		return 0, false
	}
	if r, ok := textencoding.ByName("WinAnsiEncoding").CharcodeToRune(textencoding.CharCode(code)); ok {
		return r, true
	}
	if r, ok := textencoding.ByName("Symbol").CharcodeToRune(textencoding.CharCode(code)); ok {
		return r, true
	}
	return 0, false
}

// Width returns the glyph advance width (in 1/1000 text-space units) for
// code, falling back to the font's default width when code has no explicit
// entry.
func (f *Font) Width(code uint32) float64 {
	if f.composite {
		if w, ok := f.cidWidths[int(code)]; ok {
			return w
		}
		return f.defaultWidth
	}
	if w, ok := f.widths[int(code)]; ok {
		return w
	}
	return f.defaultWidth
}

var weightClasses = []struct {
	threshold float64
	name      string
}{
	{150, "Thin"}, {250, "ExtraLight"}, {350, "Light"}, {450, "Regular"},
	{550, "Medium"}, {650, "SemiBold"}, {750, "Bold"}, {850, "ExtraBold"},
	{1000, "Black"},
}

func weightNameFromNumber(v float64) string {
	for _, c := range weightClasses {
		if v < c.threshold {
			return c.name
		}
	}
	return "Black"
}

var weightSubstrings = []string{
	"Black", "Heavy", "ExtraBold", "Bold", "SemiBold", "Medium",
	"ExtraLight", "Light", "Thin",
}

// inferWeight implements the cascade: explicit /FontWeight, then the
// ForceBold descriptor flag, then a name substring, then /StemV thresholds,
// stopping at the first definite result.
func inferWeight(fd *FontDescriptor, baseFont string) string {
	if fd != nil && fd.HasWeight {
		return weightNameFromNumber(fd.FontWeight)
	}
	if fd != nil && fd.Flags&flagForceBold != 0 {
		return "Bold"
	}
	for _, w := range weightSubstrings {
		if strings.Contains(baseFont, w) {
			return w
		}
	}
	if fd != nil && fd.HasStemV {
		switch {
		case fd.StemV > 110:
			return "Bold"
		case fd.StemV >= 80:
			return "Medium"
		default:
			return "Regular"
		}
	}
	return "Regular"
}

func inferItalic(fd *FontDescriptor, baseFont string) bool {
	if strings.Contains(baseFont, "Italic") || strings.Contains(baseFont, "Oblique") {
		return true
	}
	if fd == nil {
		return false
	}
	if fd.Flags&flagItalic != 0 {
		return true
	}
	return fd.ItalicAngle != 0
}
