/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

// Implements §4.B: parse the trailer plus classic xref tables and/or xref
// streams (PDF 1.5+), chaining through /Prev, with a linear-scan recovery
// path when the structured parse fails.

import (
	"regexp"
	"strconv"

	"github.com/docsurface/pdftext/common"
)

// XrefKind distinguishes the three entry variants of §3's XrefEntry.
type XrefKind int

const (
	XrefFree XrefKind = iota
	XrefInUse
	XrefCompressed
)

// XrefEntry is one (object_number, generation) -> location mapping.
type XrefEntry struct {
	Kind       XrefKind
	ObjNum     int
	Gen        int
	Offset     int64 // valid when Kind == XrefInUse
	StreamObj  int   // valid when Kind == XrefCompressed: enclosing ObjStm object number
	StreamIdx  int   // valid when Kind == XrefCompressed: index within the ObjStm
}

// XrefTable indexes every object in the file by object number.
type XrefTable struct {
	Entries map[int]XrefEntry
}

func newXrefTable() *XrefTable { return &XrefTable{Entries: map[int]XrefEntry{}} }

// merge applies entries from an older (chained via /Prev) table without
// overriding entries this table already has - classic xref chains walk from
// the newest section first, so the first assignment for an object number
// wins.
func (t *XrefTable) merge(older *XrefTable) {
	for num, e := range older.Entries {
		if _, exists := t.Entries[num]; !exists {
			t.Entries[num] = e
		}
	}
}

var (
	reStartXref  = regexp.MustCompile(`startxref\s+(\d+)`)
	rePdfVersion = regexp.MustCompile(`%PDF-(\d)\.(\d)`)
	reObjHeader  = regexp.MustCompile(`(?m)(\d+)\s+(\d+)\s+obj\b`)
)

// findStartXref scans backward from EOF (within the last 1024 bytes, per
// §6) for the "startxref" keyword and returns the offset it names.
func findStartXref(data []byte) (int64, bool) {
	tail := data
	if len(tail) > 1024 {
		tail = tail[len(tail)-1024:]
	}
	matches := reStartXref.FindAllSubmatch(tail, -1)
	if len(matches) == 0 {
		return 0, false
	}
	last := matches[len(matches)-1]
	off, err := strconv.ParseInt(string(last[1]), 10, 64)
	if err != nil {
		return 0, false
	}
	return off, true
}

// parseVersion reads the "%PDF-M.N" header within the first 1024 bytes.
func parseVersion(data []byte) (major, minor int, ok bool) {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	m := rePdfVersion.FindSubmatch(head)
	if m == nil {
		return 0, 0, false
	}
	maj, _ := strconv.Atoi(string(m[1]))
	min, _ := strconv.Atoi(string(m[2]))
	return maj, min, true
}

// loadXref parses the xref/trailer chain starting at offset, following
// /Prev links; an entry already set by a newer section is kept over an older
// section's entry for the same object number.
// decode is used to filter-decode xref stream payloads (it needs the
// filter pipeline, which has no dependency on xref itself).
func loadXref(data []byte, offset int64, decode func(*Stream) ([]byte, error)) (*XrefTable, *Dictionary, error) {
	visited := map[int64]bool{}
	table := newXrefTable()
	var trailer *Dictionary

	for offset != 0 {
		if visited[offset] {
			break // /Prev cycle guard.
		}
		visited[offset] = true

		section, sectionTrailer, prev, err := parseXrefSection(data, offset, decode)
		if err != nil {
			return nil, nil, err
		}
		table.merge(section)
		if trailer == nil {
			trailer = sectionTrailer
		} else {
			trailer.Merge(sectionTrailer)
		}
		offset = prev
	}
	if trailer == nil {
		return table, MakeDict(), nil
	}
	return table, trailer, nil
}

// Merge merges in key/values from another dictionary without overwriting
// keys already set - used for trailer chaining where the newest section's
// keys take precedence.
func (d *Dictionary) Merge(other *Dictionary) *Dictionary {
	if other == nil {
		return d
	}
	for _, k := range other.Keys() {
		if d.Get(k) == nil {
			d.Set(k, other.Get(k))
		}
	}
	return d
}

// parseXrefSection parses one xref section (classic table+trailer, or an
// xref stream object) at offset, returning its entries, trailer dict, and
// the /Prev offset to continue the chain (0 if none).
func parseXrefSection(data []byte, offset int64, decode func(*Stream) ([]byte, error)) (*XrefTable, *Dictionary, int64, error) {
	if offset < 0 || offset >= int64(len(data)) {
		return nil, nil, 0, &InvalidXrefError{Offset: offset}
	}
	lex := NewLexer(data, offset)
	lex.skipWhiteSpaceAndComments()

	if lex.matchKeyword("xref") {
		return parseClassicXref(data, lex)
	}

	// Otherwise this should be an "N G obj" header introducing an xref
	// stream object.
	obj, err := parseIndirectAt(data, offset)
	if err != nil {
		return nil, nil, 0, &InvalidXrefError{Offset: offset}
	}
	stream, ok := obj.Object.(*Stream)
	if !ok {
		return nil, nil, 0, &InvalidXrefError{Offset: offset}
	}
	return parseXrefStream(stream, decode)
}

func parseClassicXref(data []byte, lex *Lexer) (*XrefTable, *Dictionary, int64, error) {
	table := newXrefTable()
	for {
		lex.skipWhiteSpaceAndComments()
		if lex.matchKeyword("trailer") {
			break
		}
		startObj, ok1 := parseIntToken(lex)
		count, ok2 := parseIntToken(lex)
		if !ok1 || !ok2 {
			return nil, nil, 0, &InvalidXrefError{Offset: lex.Pos()}
		}
		for i := 0; i < count; i++ {
			lex.skipWhiteSpaceAndComments()
			entry, err := parseClassicXrefEntry(lex)
			if err != nil {
				return nil, nil, 0, err
			}
			objNum := startObj + i
			if entry.Kind == XrefFree {
				continue
			}
			entry.ObjNum = objNum
			if _, exists := table.Entries[objNum]; !exists {
				table.Entries[objNum] = entry
			}
		}
	}
	lex.skipWhiteSpaceAndComments()
	trailerObj, err := lex.ParseObject()
	if err != nil {
		return nil, nil, 0, &InvalidXrefError{Offset: lex.Pos()}
	}
	trailer, ok := trailerObj.(*Dictionary)
	if !ok {
		return nil, nil, 0, &InvalidXrefError{Offset: lex.Pos()}
	}
	var prev int64
	if v, ok := GetInt(trailer.Get("Prev")); ok {
		prev = int64(v)
	}
	// Hybrid-reference files point /XRefStm at a supplemental xref stream
	// covering compressed objects; fold it in if present.
	if v, ok := GetInt(trailer.Get("XRefStm")); ok {
		supStream, sTrailer, _, err := parseXrefSection(data, int64(v), decodeViaFilters)
		if err == nil {
			table.merge(supStream)
			trailer.Merge(sTrailer)
		}
	}
	return table, trailer, prev, nil
}

func parseIntToken(lex *Lexer) (int, bool) {
	lex.skipWhiteSpaceAndComments()
	obj, err := lex.ParseObject()
	if err != nil {
		return 0, false
	}
	n, ok := GetInt(obj)
	return n, ok
}

var reXrefEntryLine = regexp.MustCompile(`(\d{10})\s(\d{5})\s([nf])`)

func parseClassicXrefEntry(lex *Lexer) (XrefEntry, error) {
	// Entries are exactly 20 bytes: 10-digit offset, space, 5-digit gen,
	// space, 'n'/'f', 2-byte EOL - but many writers are sloppy about the
	// EOL, so read by regex over a fixed-ish window instead of by strict
	// byte count.
	start := lex.pos
	end := start + 20
	if end > int64(len(lex.buf)) {
		end = int64(len(lex.buf))
	}
	window := lex.buf[start:end]
	m := reXrefEntryLine.FindSubmatch(window)
	if m == nil {
		return XrefEntry{}, &InvalidXrefError{Offset: start}
	}
	off, _ := strconv.ParseInt(string(m[1]), 10, 64)
	gen, _ := strconv.Atoi(string(m[2]))
	lex.pos = start + int64(len(m[0]))
	lex.skipWhiteSpaceAndComments()
	if string(m[3]) == "f" {
		return XrefEntry{Kind: XrefFree, Gen: gen}, nil
	}
	return XrefEntry{Kind: XrefInUse, Offset: off, Gen: gen}, nil
}

// parseXrefStream decodes an xref-stream object (/Type /XRef) per its /W
// field widths and /Index subsections.
func parseXrefStream(s *Stream, decode func(*Stream) ([]byte, error)) (*XrefTable, *Dictionary, int64, error) {
	decoded, err := decode(s)
	if err != nil {
		return nil, nil, 0, &InvalidStreamError{Stage: "xref", Cause: err}
	}
	wArr, ok := GetArray(s.Get("W"))
	if !ok || wArr.Len() != 3 {
		return nil, nil, 0, &InvalidXrefError{}
	}
	widths, err := wArr.ToIntSlice()
	if err != nil {
		return nil, nil, 0, &InvalidXrefError{}
	}

	size, _ := GetInt(s.Get("Size"))
	var index []int
	if idxArr, ok := GetArray(s.Get("Index")); ok {
		index, _ = idxArr.ToIntSlice()
	} else {
		index = []int{0, size}
	}

	table := newXrefTable()
	pos := 0
	rowLen := widths[0] + widths[1] + widths[2]
	for sub := 0; sub+1 < len(index); sub += 2 {
		first, count := index[sub], index[sub+1]
		for i := 0; i < count; i++ {
			if pos+rowLen > len(decoded) {
				break
			}
			row := decoded[pos : pos+rowLen]
			pos += rowLen
			objNum := first + i

			typ := 1
			if widths[0] > 0 {
				typ = int(beUint(row[:widths[0]]))
			}
			f2 := beUint(row[widths[0] : widths[0]+widths[1]])
			f3 := beUint(row[widths[0]+widths[1] : rowLen])

			var entry XrefEntry
			switch typ {
			case 0:
				entry = XrefEntry{Kind: XrefFree}
			case 1:
				entry = XrefEntry{Kind: XrefInUse, Offset: int64(f2), Gen: int(f3)}
			case 2:
				entry = XrefEntry{Kind: XrefCompressed, StreamObj: int(f2), StreamIdx: int(f3)}
			default:
				continue
			}
			entry.ObjNum = objNum
			if entry.Kind != XrefFree {
				if _, exists := table.Entries[objNum]; !exists {
					table.Entries[objNum] = entry
				}
			}
		}
	}

	var prev int64
	if v, ok := GetInt(s.Get("Prev")); ok {
		prev = int64(v)
	}
	return table, s.Dictionary, prev, nil
}

func beUint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// parseIndirectAt parses an "N G obj ... endobj" header at offset.
func parseIndirectAt(data []byte, offset int64) (*Indirect, error) {
	lex := NewLexer(data, offset)
	lex.skipWhiteSpaceAndComments()
	numObj, err := lex.ParseObject()
	if err != nil {
		return nil, err
	}
	num, ok := GetInt(numObj)
	if !ok {
		return nil, &ParseError{Offset: offset, Reason: "expected object number"}
	}
	lex.skipWhiteSpaceAndComments()
	genObj, err := lex.ParseObject()
	if err != nil {
		return nil, err
	}
	gen, ok := GetInt(genObj)
	if !ok {
		return nil, &ParseError{Offset: offset, Reason: "expected generation number"}
	}
	lex.skipWhiteSpaceAndComments()
	if !lex.matchKeyword("obj") {
		return nil, &ParseError{Offset: lex.Pos(), Reason: "expected 'obj' keyword"}
	}
	body, err := lex.ParseObject()
	if err != nil {
		return nil, err
	}
	if stream, ok := body.(*Stream); ok {
		stream.ObjectNumber = int64(num)
		stream.GenerationNumber = int64(gen)
	}
	return &Indirect{ObjectNumber: int64(num), GenerationNumber: int64(gen), Object: body}, nil
}

// recoverXref implements the fallback recovery path of §4.B: a linear scan
// for every "N G obj" header, rebuilding an in-use table from scratch, and
// reconstructing the trailer from the discovered catalog (or the highest
// object shaped like a trailer, i.e. carrying /Root and /Size).
func recoverXref(data []byte) (*XrefTable, *Dictionary, error) {
	table := newXrefTable()
	matches := reObjHeader.FindAllSubmatchIndex(data, -1)
	for _, m := range matches {
		objNum, _ := strconv.Atoi(string(data[m[2]:m[3]]))
		gen, _ := strconv.Atoi(string(data[m[4]:m[5]]))
		offset := int64(m[0])
		// Last physical occurrence of an object number wins (incremental
		// updates append new bodies at larger offsets).
		if existing, ok := table.Entries[objNum]; !ok || offset > existing.Offset {
			table.Entries[objNum] = XrefEntry{Kind: XrefInUse, ObjNum: objNum, Gen: gen, Offset: offset}
		}
	}

	var catalogRef *Reference
	var bestTrailerShape *Dictionary
	bestTrailerNum := -1
	for num, e := range table.Entries {
		ind, err := parseIndirectAt(data, e.Offset)
		if err != nil {
			continue
		}
		d, ok := GetDict(ind.Object)
		if !ok {
			continue
		}
		if name, ok := GetNameVal(d.Get("Type")); ok && name == "Catalog" {
			catalogRef = MakeReference(int64(num), int64(e.Gen))
		}
		if d.Get("Root") != nil && d.Get("Size") != nil && num > bestTrailerNum {
			bestTrailerShape = d
			bestTrailerNum = num
		}
	}

	if catalogRef == nil && bestTrailerShape == nil {
		return nil, nil, &InvalidXrefError{}
	}

	trailer := MakeDict()
	if bestTrailerShape != nil {
		trailer = bestTrailerShape
	}
	if trailer.Get("Root") == nil && catalogRef != nil {
		trailer.Set("Root", catalogRef)
	}
	if trailer.Get("Size") == nil {
		maxNum := 0
		for n := range table.Entries {
			if n > maxNum {
				maxNum = n
			}
		}
		trailer.Set("Size", MakeInteger(int64(maxNum+1)))
	}
	common.Log.Warning("xref recovery: rebuilt xref table from %d linear-scanned objects", len(table.Entries))
	return table, trailer, nil
}

func decodeViaFilters(s *Stream) ([]byte, error) { return DecodeStream(s) }
