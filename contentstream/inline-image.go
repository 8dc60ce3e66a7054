/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package contentstream

import (
	"github.com/docsurface/pdftext/core"
)

// InlineImage is everything between a BI and the matching EI: a parameter
// dictionary (using the same keys as an XObject image's, some abbreviated:
// BPC/CS/D/DP/F/H/IM/I/W) and the raw, still-encoded sample data.
type InlineImage struct {
	Dict *core.Dictionary
	Data []byte
}

// parseInlineImage parses the dictionary and sample data of an inline image.
// pos must point just past the "BI" keyword. It returns the image and the
// position just past the matching "EI".
//
// Inline images carry no text and are never decoded by this core: extraction
// only needs to skip past them correctly, so the sample data is kept as the
// raw bytes between ID and EI without running it through a filter pipeline.
func parseInlineImage(buf []byte, pos int) (*InlineImage, int, error) {
	lex := core.NewLexer(buf, int64(pos))
	dict := core.MakeDict()

	for {
		skipInlineSpace(lex, buf)
		p := int(lex.Pos())
		if p+2 <= len(buf) && buf[p] == 'I' && buf[p+1] == 'D' &&
			(p+2 == len(buf) || core.IsWhiteSpace(buf[p+2]) || core.IsDelimiter(buf[p+2])) {
			pos = p + 2
			break
		}

		key, err := lex.ParseObject()
		if err != nil {
			return nil, len(buf), err
		}
		name, ok := core.GetNameVal(key)
		if !ok {
			return nil, len(buf), &core.ParseError{Offset: lex.Pos(), Reason: "inline image key not a name"}
		}

		val, err := lex.ParseObject()
		if err != nil {
			return nil, len(buf), err
		}
		dict.Set(core.Name(expandInlineKey(name)), val)
	}

	// A single whitespace byte (conventionally a space) separates ID from
	// the sample data; skip exactly one if present.
	if pos < len(buf) && core.IsWhiteSpace(buf[pos]) {
		pos++
	}

	eiAt := findEI(buf, pos)
	if eiAt < 0 {
		return nil, len(buf), &core.ParseError{Offset: int64(pos), Reason: "unterminated inline image"}
	}

	// The whitespace byte before EI belongs to the terminator, not the data.
	dataEnd := eiAt
	if dataEnd > pos && core.IsWhiteSpace(buf[dataEnd-1]) {
		dataEnd--
	}
	data := buf[pos:dataEnd]
	end := eiAt + 2
	return &InlineImage{Dict: dict, Data: data}, end, nil
}

func skipInlineSpace(lex *core.Lexer, buf []byte) {
	p := int(lex.Pos())
	for p < len(buf) && core.IsWhiteSpace(buf[p]) {
		p++
	}
	lex.SetPos(int64(p))
}

// findEI returns the index of the "EI" that ends the image's sample data (or
// -1 when there is none): it must be
// preceded by whitespace and followed by whitespace, EOF, or a delimiter, so
// an "EI" byte pair occurring inside binary sample data is not mistaken for
// the terminator.
func findEI(buf []byte, from int) int {
	for i := from; i+1 < len(buf); i++ {
		if buf[i] != 'E' || buf[i+1] != 'I' {
			continue
		}
		if i > from && !core.IsWhiteSpace(buf[i-1]) {
			continue
		}
		after := i + 2
		if after < len(buf) && !core.IsWhiteSpace(buf[after]) && !core.IsDelimiter(buf[after]) {
			continue
		}
		return i
	}
	return -1
}

// expandInlineKey maps an inline image's abbreviated dictionary keys to
// their full XObject-image equivalents, so downstream code (the Do handler,
// color-space resolution) needs only one set of key names.
func expandInlineKey(abbrev string) string {
	switch abbrev {
	case "BPC":
		return "BitsPerComponent"
	case "CS":
		return "ColorSpace"
	case "D":
		return "Decode"
	case "DP":
		return "DecodeParms"
	case "F":
		return "Filter"
	case "H":
		return "Height"
	case "IM":
		return "ImageMask"
	case "I":
		return "Interpolate"
	case "W":
		return "Width"
	default:
		return abbrev
	}
}
