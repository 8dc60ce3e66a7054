/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package contentstream

import (
	"github.com/docsurface/pdftext/core"
)

// Operator is one parsed content-stream instruction: a keyword together with
// the operands accumulated on the stack since the previous operator.
type Operator struct {
	Name     string
	Operands []core.Object

	// InlineImage is set only for a synthetic "BI" operator, carrying the
	// image dictionary and raw sample data between ID and EI.
	InlineImage *InlineImage
}

// operatorSet is the subset of ISO 32000-1:2008 content-stream operators
// this core recognizes. Anything else is silently skipped.
var operatorSet = map[string]bool{
	"q": true, "Q": true, "cm": true, "w": true, "J": true, "j": true,
	"M": true, "d": true, "ri": true, "i": true, "gs": true,

	"BT": true, "ET": true,

	"Tc": true, "Tw": true, "Tz": true, "TL": true, "Tf": true, "Tr": true, "Ts": true,

	"Td": true, "TD": true, "Tm": true, "T*": true,

	"Tj": true, "TJ": true, "'": true, "\"": true,

	"CS": true, "cs": true, "SC": true, "SCN": true, "sc": true, "scn": true,
	"G": true, "g": true, "RG": true, "rg": true, "K": true, "k": true,

	"m": true, "l": true, "c": true, "v": true, "y": true, "re": true, "h": true,
	"S": true, "s": true, "f": true, "F": true, "f*": true,
	"B": true, "B*": true, "b": true, "b*": true, "n": true, "W": true, "W*": true,

	"Do": true, "sh": true,

	"BMC": true, "BDC": true, "EMC": true, "MP": true, "DP": true,
}

// Parser tokenizes a decoded content stream into a sequence of Operators.
// Operand-shaped tokens (numbers, strings, names, arrays, dictionaries,
// booleans, null) are parsed through core.Lexer, which already knows the
// object grammar; bare keywords, which core.Lexer rejects as "unrecognized
// token" since they are not objects, are read directly off the buffer here.
type Parser struct {
	buf []byte
	lex *core.Lexer
}

// NewParser returns a Parser reading from a decoded content-stream buffer.
func NewParser(data []byte) *Parser {
	return &Parser{buf: data, lex: core.NewLexer(data, 0)}
}

// Parse consumes the entire stream, returning the recognized operators in
// order. Parse errors on individual operands are recorded but do not abort
// the stream: the parser resynchronizes at the next whitespace/delimiter
// boundary and continues.
func (p *Parser) Parse() ([]*Operator, []error) {
	var ops []*Operator
	var errs []error
	var operands []core.Object

	for {
		p.skipSpace()
		if p.atEnd() {
			break
		}

		start := p.lex.Pos()
		obj, err := p.lex.ParseObject()
		if err == nil {
			operands = append(operands, obj)
			continue
		}

		name, end, ok := p.readKeyword(int(start))
		if !ok {
			// Not a name we could make sense of (stray delimiter byte):
			// record the error, skip one byte, and resynchronize.
			errs = append(errs, err)
			p.lex.SetPos(start + 1)
			operands = nil
			continue
		}
		p.lex.SetPos(int64(end))

		// A one-byte delimiter "keyword" is an operand that failed to parse
		// at its opening byte (an unterminated string, a bad array element).
		if len(name) == 1 && core.IsDelimiter(name[0]) {
			errs = append(errs, err)
		}

		if name == "BI" {
			img, newPos, ierr := parseInlineImage(p.buf, end)
			if ierr != nil {
				errs = append(errs, ierr)
			} else {
				ops = append(ops, &Operator{Name: "BI", InlineImage: img})
			}
			p.lex.SetPos(int64(newPos))
			operands = nil
			continue
		}

		if operatorSet[name] {
			ops = append(ops, &Operator{Name: name, Operands: operands})
		}
		operands = nil
	}

	return ops, errs
}

func (p *Parser) atEnd() bool { return int(p.lex.Pos()) >= len(p.buf) }

// skipSpace advances past whitespace and %-comments, mirroring the rule
// core.Lexer applies internally before every object it parses, so that a
// subsequent readKeyword call starts exactly where ParseObject left off.
func (p *Parser) skipSpace() {
	pos := int(p.lex.Pos())
	for pos < len(p.buf) {
		b := p.buf[pos]
		if core.IsWhiteSpace(b) {
			pos++
			continue
		}
		if b == '%' {
			for pos < len(p.buf) && p.buf[pos] != '\n' && p.buf[pos] != '\r' {
				pos++
			}
			continue
		}
		break
	}
	p.lex.SetPos(int64(pos))
}

// readKeyword reads a bare operator token starting at start, which must
// already be positioned past leading whitespace. Returns the token text, the
// position just past it, and false if start does not point at a usable
// keyword byte at all (EOF or a stray closing delimiter).
func (p *Parser) readKeyword(start int) (string, int, bool) {
	if start >= len(p.buf) {
		return "", start, false
	}
	b := p.buf[start]
	if core.IsWhiteSpace(b) {
		return "", start, false
	}
	switch b {
	case ']', '>', ')', '}':
		return "", start, false
	}

	end := start
	for end < len(p.buf) && !core.IsWhiteSpace(p.buf[end]) && !core.IsDelimiter(p.buf[end]) {
		end++
	}
	if end == start {
		// A lone delimiter byte: a stray '{', or an object-opening '(', '<',
		// '[' or '/' whose object core.Lexer failed to parse.
		end = start + 1
	}
	return string(p.buf[start:end]), end, true
}
