/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"strconv"
	"strings"
)

// Lexer tokenizes and parses PDF atomic objects out of an in-memory byte
// slice. It implements §4.A of the document access stack: given a starting
// offset it returns a parsed Object and the offset immediately after it.
type Lexer struct {
	buf []byte
	pos int64
}

// NewLexer returns a Lexer reading from buf starting at offset.
func NewLexer(buf []byte, offset int64) *Lexer {
	return &Lexer{buf: buf, pos: offset}
}

// Pos returns the lexer's current offset into buf.
func (l *Lexer) Pos() int64 { return l.pos }

// SetPos repositions the lexer.
func (l *Lexer) SetPos(p int64) { l.pos = p }

func (l *Lexer) eof() bool { return l.pos >= int64(len(l.buf)) }

func (l *Lexer) peek() (byte, bool) {
	if l.eof() {
		return 0, false
	}
	return l.buf[l.pos], true
}

func (l *Lexer) peekAt(off int) (byte, bool) {
	p := l.pos + int64(off)
	if p < 0 || p >= int64(len(l.buf)) {
		return 0, false
	}
	return l.buf[p], true
}

func (l *Lexer) advance() { l.pos++ }

// IsWhiteSpace reports whether b is PDF whitespace (Table 1, ISO 32000-1).
func IsWhiteSpace(b byte) bool {
	switch b {
	case 0x00, 0x09, 0x0A, 0x0C, 0x0D, 0x20:
		return true
	}
	return false
}

// IsDelimiter reports whether b is a PDF delimiter character.
func IsDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// IsPrintable reports whether b is an ASCII printable character.
func IsPrintable(b byte) bool { return b >= 0x21 && b <= 0x7E }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// skipWhiteSpaceAndComments advances past runs of whitespace and '%' comments.
func (l *Lexer) skipWhiteSpaceAndComments() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		if IsWhiteSpace(b) {
			l.advance()
			continue
		}
		if b == '%' {
			for {
				b, ok := l.peek()
				if !ok || b == '\n' || b == '\r' {
					break
				}
				l.advance()
			}
			continue
		}
		return
	}
}

// ParseObject parses a single PDF object starting at the lexer's current
// position, returning the parsed Object and advancing past it.
func (l *Lexer) ParseObject() (Object, error) {
	l.skipWhiteSpaceAndComments()
	b, ok := l.peek()
	if !ok {
		return nil, &ParseError{Offset: l.pos, Reason: "unexpected EOF"}
	}

	switch {
	case b == '/':
		return l.parseName()
	case b == '(':
		return l.parseLiteralString()
	case b == '<':
		if nb, ok := l.peekAt(1); ok && nb == '<' {
			return l.parseDictOrStream()
		}
		return l.parseHexString()
	case b == '[':
		return l.parseArray()
	case b == ']', b == '>', b == ')', b == '}':
		return nil, &ParseError{Offset: l.pos, Reason: "unexpected delimiter"}
	case b == 't' || b == 'f' || b == 'n':
		return l.parseKeyword()
	case isDigit(b) || b == '+' || b == '-' || b == '.':
		return l.parseNumberOrReference()
	default:
		return nil, &ParseError{Offset: l.pos, Reason: "unrecognized token"}
	}
}

func (l *Lexer) parseKeyword() (Object, error) {
	start := l.pos
	for {
		b, ok := l.peek()
		if !ok || IsWhiteSpace(b) || IsDelimiter(b) {
			break
		}
		l.advance()
	}
	kw := string(l.buf[start:l.pos])
	switch kw {
	case "true":
		return MakeBool(true), nil
	case "false":
		return MakeBool(false), nil
	case "null":
		return MakeNull(), nil
	}
	return nil, &ParseError{Offset: start, Reason: "unknown keyword " + kw}
}

// parseName decodes a /Name token, applying #xx hex escapes.
func (l *Lexer) parseName() (Object, error) {
	start := l.pos
	l.advance() // '/'
	var b strings.Builder
	for {
		c, ok := l.peek()
		if !ok || IsWhiteSpace(c) || IsDelimiter(c) {
			break
		}
		if c == '#' {
			h1, ok1 := l.peekAt(1)
			h2, ok2 := l.peekAt(2)
			if ok1 && ok2 && isHexDigit(h1) && isHexDigit(h2) {
				v, err := strconv.ParseUint(string([]byte{h1, h2}), 16, 8)
				if err == nil {
					b.WriteByte(byte(v))
					l.pos += 3
					continue
				}
			}
		}
		b.WriteByte(c)
		l.advance()
	}
	if b.Len() == 0 && l.pos == start+1 {
		// Bare "/" with nothing following is a valid (empty) name.
	}
	n := Name(b.String())
	return &n, nil
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// parseLiteralString parses a balanced (...) string with backslash escapes.
func (l *Lexer) parseLiteralString() (Object, error) {
	l.advance() // '('
	var out []byte
	depth := 1
	for {
		c, ok := l.peek()
		if !ok {
			return nil, &ParseError{Offset: l.pos, Reason: "unterminated literal string"}
		}
		l.advance()
		switch c {
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return MakeStringFromBytes(out), nil
			}
			out = append(out, c)
		case '\\':
			esc, ok := l.peek()
			if !ok {
				return nil, &ParseError{Offset: l.pos, Reason: "unterminated escape"}
			}
			switch esc {
			case 'n':
				out = append(out, '\n')
				l.advance()
			case 'r':
				out = append(out, '\r')
				l.advance()
			case 't':
				out = append(out, '\t')
				l.advance()
			case 'b':
				out = append(out, '\b')
				l.advance()
			case 'f':
				out = append(out, '\f')
				l.advance()
			case '(', ')', '\\':
				out = append(out, esc)
				l.advance()
			case '\r':
				l.advance()
				if nb, ok := l.peek(); ok && nb == '\n' {
					l.advance()
				}
			case '\n':
				l.advance()
			default:
				if isDigit(esc) {
					// up to 3 octal digits.
					n := 0
					val := 0
					for n < 3 {
						d, ok := l.peek()
						if !ok || d < '0' || d > '7' {
							break
						}
						val = val*8 + int(d-'0')
						l.advance()
						n++
					}
					out = append(out, byte(val))
				} else {
					out = append(out, esc)
					l.advance()
				}
			}
		default:
			out = append(out, c)
		}
	}
}

// parseHexString parses a <...> string, padding an odd trailing nibble with '0'.
func (l *Lexer) parseHexString() (Object, error) {
	l.advance() // '<'
	var hexDigits []byte
	for {
		c, ok := l.peek()
		if !ok {
			return nil, &ParseError{Offset: l.pos, Reason: "unterminated hex string"}
		}
		l.advance()
		if c == '>' {
			break
		}
		if IsWhiteSpace(c) {
			continue
		}
		hexDigits = append(hexDigits, c)
	}
	if len(hexDigits)%2 != 0 {
		hexDigits = append(hexDigits, '0')
	}
	out := make([]byte, len(hexDigits)/2)
	for i := 0; i < len(out); i++ {
		v, err := strconv.ParseUint(string(hexDigits[i*2:i*2+2]), 16, 8)
		if err != nil {
			v = 0
		}
		out[i] = byte(v)
	}
	return MakeHexString(string(out)), nil
}

func (l *Lexer) parseArray() (Object, error) {
	l.advance() // '['
	arr := MakeArray()
	for {
		l.skipWhiteSpaceAndComments()
		b, ok := l.peek()
		if !ok {
			return nil, &ParseError{Offset: l.pos, Reason: "unterminated array"}
		}
		if b == ']' {
			l.advance()
			return arr, nil
		}
		obj, err := l.ParseObject()
		if err != nil {
			return nil, err
		}
		arr.Append(obj)
	}
}

// parseDictOrStream parses "<< ... >>" and, if immediately followed by the
// "stream" keyword, continues into the raw stream payload.
func (l *Lexer) parseDictOrStream() (Object, error) {
	l.pos += 2 // '<<'
	d := MakeDict()
	for {
		l.skipWhiteSpaceAndComments()
		b, ok := l.peek()
		if !ok {
			return nil, &ParseError{Offset: l.pos, Reason: "unterminated dictionary"}
		}
		if b == '>' {
			if nb, ok := l.peekAt(1); ok && nb == '>' {
				l.pos += 2
				break
			}
		}
		keyObj, err := l.ParseObject()
		if err != nil {
			return nil, err
		}
		key, ok := keyObj.(*Name)
		if !ok {
			return nil, &ParseError{Offset: l.pos, Reason: "dictionary key not a name"}
		}
		l.skipWhiteSpaceAndComments()
		val, err := l.ParseObject()
		if err != nil {
			return nil, err
		}
		d.Set(*key, val)
	}

	save := l.pos
	l.skipWhiteSpaceAndComments()
	if l.matchKeyword("stream") {
		return l.parseStreamBody(d)
	}
	l.pos = save
	return d, nil
}

func (l *Lexer) matchKeyword(kw string) bool {
	end := l.pos + int64(len(kw))
	if end > int64(len(l.buf)) {
		return false
	}
	if string(l.buf[l.pos:end]) != kw {
		return false
	}
	l.pos = end
	return true
}

// parseStreamBody reads exactly /Length bytes after "stream" keyword,
// tolerating the common EOL variance ("\n", "\r\n", or a bare "\r").
func (l *Lexer) parseStreamBody(d *Dictionary) (Object, error) {
	if b, ok := l.peek(); ok && b == '\r' {
		l.advance()
		if nb, ok := l.peek(); ok && nb == '\n' {
			l.advance()
		}
	} else if ok && b == '\n' {
		l.advance()
	}

	length := -1
	if lenObj, ok := GetInt(d.Get("Length")); ok {
		length = lenObj
	}

	start := l.pos
	if length >= 0 {
		end := start + int64(length)
		if end > int64(len(l.buf)) {
			end = int64(len(l.buf))
		}
		raw := append([]byte{}, l.buf[start:end]...)
		l.pos = end
		l.skipWhiteSpaceAndComments()
		l.matchKeyword("endstream")
		return &Stream{Dictionary: d, Raw: raw}, nil
	}

	// No resolvable /Length (commonly an indirect reference the lexer can't
	// chase): fall back to scanning for the next "endstream" keyword.
	idx := indexOf(l.buf[start:], []byte("endstream"))
	if idx < 0 {
		return nil, &ParseError{Offset: start, Reason: "stream missing endstream and unresolved /Length"}
	}
	raw := trimStreamTrailingEOL(l.buf[start : start+int64(idx)])
	l.pos = start + int64(idx)
	l.matchKeyword("endstream")
	return &Stream{Dictionary: d, Raw: raw}, nil
}

func trimStreamTrailingEOL(b []byte) []byte {
	if n := len(b); n >= 2 && b[n-2] == '\r' && b[n-1] == '\n' {
		return b[:n-2]
	}
	if n := len(b); n >= 1 && (b[n-1] == '\n' || b[n-1] == '\r') {
		return b[:n-1]
	}
	return b
}

func indexOf(haystack, needle []byte) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == string(needle) {
			return i
		}
	}
	return -1
}

// parseNumberOrReference parses a number, then looks ahead for "G R" to
// decide whether this is actually an indirect reference. If the lookahead
// fails, position is rewound and the number alone is returned.
func (l *Lexer) parseNumberOrReference() (Object, error) {
	save := l.pos
	first, isInt, err := l.parseNumberToken()
	if err != nil {
		return nil, err
	}
	if !isInt {
		return MakeFloat(first), nil
	}

	afterFirst := l.pos
	l.skipWhiteSpaceAndComments()
	if b, ok := l.peek(); ok && isDigit(b) {
		second, isInt2, err := l.parseNumberToken()
		if err == nil && isInt2 {
			afterSecond := l.pos
			l.skipWhiteSpaceAndComments()
			if b, ok := l.peek(); ok && b == 'R' {
				if nb, ok := l.peekAt(1); !ok || IsWhiteSpace(nb) || IsDelimiter(nb) {
					l.advance()
					return MakeReference(int64(first), int64(second)), nil
				}
			}
			l.pos = afterSecond
		}
	}
	l.pos = afterFirst
	_ = save
	return MakeInteger(int64(first)), nil
}

// parseNumberToken parses a signed integer or real literal, tolerating the
// occasional exponential form some writers emit though the spec disallows it.
func (l *Lexer) parseNumberToken() (value float64, isInt bool, err error) {
	start := l.pos
	if b, ok := l.peek(); ok && (b == '+' || b == '-') {
		l.advance()
	}
	sawDigit := false
	sawDot := false
	for {
		b, ok := l.peek()
		if !ok {
			break
		}
		if isDigit(b) {
			sawDigit = true
			l.advance()
			continue
		}
		if b == '.' && !sawDot {
			sawDot = true
			l.advance()
			continue
		}
		if (b == 'e' || b == 'E') && sawDigit {
			l.advance()
			if b2, ok := l.peek(); ok && (b2 == '+' || b2 == '-') {
				l.advance()
			}
			continue
		}
		break
	}
	if !sawDigit {
		return 0, false, &ParseError{Offset: start, Reason: "invalid number"}
	}
	tok := string(l.buf[start:l.pos])
	if !sawDot && !strings.ContainsAny(tok, "eE") {
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			// Overflow or malformed sign-only token; fall through to float.
			f, ferr := strconv.ParseFloat(tok, 64)
			if ferr != nil {
				return 0, false, &ParseError{Offset: start, Reason: "invalid number " + tok}
			}
			return f, false, nil
		}
		return float64(n), true, nil
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false, &ParseError{Offset: start, Reason: "invalid number " + tok}
	}
	return f, false, nil
}
