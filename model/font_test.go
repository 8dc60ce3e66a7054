/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docsurface/pdftext/model"
)

func TestSimpleFontWinAnsiEncoding(t *testing.T) {
	dict := parseDict(t, `<<
		/Type /Font
		/Subtype /Type1
		/BaseFont /Helvetica
		/Encoding /WinAnsiEncoding
		/FirstChar 65
		/LastChar 67
		/Widths [ 667 667 722 ]
	>>`)

	f, err := model.LoadFont(nil, dict)
	require.NoError(t, err)
	require.Equal(t, 1, f.CodeLength())
	require.Equal(t, "A", f.CodeToUnicode('A'))
	require.Equal(t, float64(667), f.Width('A'))
	require.Equal(t, float64(722), f.Width('C'))
}

func TestSimpleFontDefaultsToStandardEncoding(t *testing.T) {
	dict := parseDict(t, `<<
		/Type /Font
		/Subtype /Type1
		/BaseFont /Times-Roman
	>>`)

	f, err := model.LoadFont(nil, dict)
	require.NoError(t, err)
	require.Equal(t, "A", f.CodeToUnicode('A'))
	require.Equal(t, float64(550), f.Width('A')) // no descriptor at all
}

func TestSimpleFontDifferencesOverlay(t *testing.T) {
	dict := parseDict(t, `<<
		/Type /Font
		/Subtype /Type1
		/BaseFont /Custom
		/Encoding << /BaseEncoding /WinAnsiEncoding /Differences [ 65 /bullet 66 /degree ] >>
	>>`)

	f, err := model.LoadFont(nil, dict)
	require.NoError(t, err)
	require.Equal(t, "•", f.CodeToUnicode('A'))
	require.Equal(t, "°", f.CodeToUnicode('B'))
	require.Equal(t, "C", f.CodeToUnicode('C'))
}

func TestSymbolicFontBuiltinTable(t *testing.T) {
	dict := parseDict(t, `<<
		/Type /Font
		/Subtype /Type1
		/BaseFont /Symbol
		/FontDescriptor << /Flags 4 >>
	>>`)

	f, err := model.LoadFont(nil, dict)
	require.NoError(t, err)
	require.Equal(t, "α", f.CodeToUnicode('a'))
}

func TestWeightAndItalicInference(t *testing.T) {
	dict := parseDict(t, `<<
		/Type /Font
		/Subtype /Type1
		/BaseFont /Arial-BoldItalic
	>>`)
	f, err := model.LoadFont(nil, dict)
	require.NoError(t, err)
	require.Equal(t, "Bold", f.Weight)
	require.True(t, f.Italic)

	dict2 := parseDict(t, `<<
		/Type /Font
		/Subtype /Type1
		/BaseFont /Custom
		/FontDescriptor << /Flags 0 /StemV 120 >>
	>>`)
	f2, err := model.LoadFont(nil, dict2)
	require.NoError(t, err)
	require.Equal(t, "Bold", f2.Weight)
	require.False(t, f2.Italic)
}

func TestForceBoldFlagWins(t *testing.T) {
	dict := parseDict(t, `<<
		/Type /Font
		/Subtype /Type1
		/BaseFont /Light-Custom
		/FontDescriptor << /Flags 262144 /StemV 50 >>
	>>`)
	f, err := model.LoadFont(nil, dict)
	require.NoError(t, err)
	require.Equal(t, "Bold", f.Weight)
}

func TestCompositeFontIdentityH(t *testing.T) {
	dict := parseDict(t, `<<
		/Type /Font
		/Subtype /Type0
		/BaseFont /Custom-Identity-H
		/Encoding /Identity-H
		/DescendantFonts [ <<
			/Type /Font
			/Subtype /CIDFontType2
			/CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >>
			/DW 1000
			/W [ 3 [ 500 600 700 ] ]
		>> ]
	>>`)

	f, err := model.LoadFont(nil, dict)
	require.NoError(t, err)
	require.Equal(t, 2, f.CodeLength())
	require.Equal(t, "A", f.CodeToUnicode(0x41))
	require.Equal(t, float64(600), f.Width(4))
	require.Equal(t, float64(1000), f.Width(99))
}

func TestCompositePredefinedCJKCMap(t *testing.T) {
	dict := parseDict(t, `<<
		/Type /Font
		/Subtype /Type0
		/BaseFont /Custom-GB
		/Encoding /UniGB-UCS2-H
		/DescendantFonts [ << /Type /Font /Subtype /CIDFontType0 >> ]
	>>`)

	f, err := model.LoadFont(nil, dict)
	require.NoError(t, err)
	require.Equal(t, " ", f.CodeToUnicode(1))
}

func TestToUnicodeTakesPriority(t *testing.T) {
	cmapStream := "<< /Length 86 >>\nstream\n" +
		"1 begincodespacerange <00> <FF> endcodespacerange\n" +
		"1 beginbfchar <41> <0058> endbfchar\n" +
		"endstream"
	dict := parseDict(t, `<<
		/Type /Font
		/Subtype /Type1
		/BaseFont /Helvetica
		/Encoding /WinAnsiEncoding
		/ToUnicode `+cmapStream+`
	>>`)

	f, err := model.LoadFont(nil, dict)
	require.NoError(t, err)
	require.Equal(t, "X", f.CodeToUnicode('A'))
}

func TestUnknownFontIdentityFallback(t *testing.T) {
	f := model.UnknownFont()
	require.Equal(t, 1, f.CodeLength())
	require.Equal(t, "Unknown", f.BaseFont)
	require.Equal(t, "A", f.CodeToUnicode('A'))
}
