/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

// Implements §4.D: the lazy object loader/cache built on top of the xref
// resolver (xref.go) and filter pipeline (filters.go), plus the §6 Producer
// Interface operations that belong at the object-graph layer: open,
// version, load_object, catalog.

import (
	"fmt"

	"github.com/docsurface/pdftext/common"
)

// DecryptHook is the implementor-supplied callback installed via
// Document.SetDecryptHook. It receives the enclosing indirect object's
// number and generation plus the cipher bytes, and returns plaintext.
type DecryptHook func(objNum, gen int64, ciphertext []byte) ([]byte, error)

// Document owns a PDF file's bytes, its resolved cross-reference table and
// trailer, and a growing cache of loaded objects. It is not safe for
// concurrent use by multiple goroutines; distinct Documents are independent.
type Document struct {
	data    []byte
	xref    *XrefTable
	trailer *Dictionary

	versionMajor int
	versionMinor int

	cache map[int64]Object

	decrypt   DecryptHook
	encrypted bool

	diagnostics []string
}

// Open parses data's xref/trailer chain (falling back to linear-scan
// recovery on failure) and returns a ready-to-query Document. Open does no
// page-tree work; it only establishes the object graph's entry points.
func Open(data []byte) (*Document, error) {
	doc := &Document{data: data, cache: map[int64]Object{}}

	if major, minor, ok := parseVersion(data); ok {
		doc.versionMajor, doc.versionMinor = major, minor
	} else {
		doc.versionMajor, doc.versionMinor = 1, 4
		doc.warn("no %%PDF-M.N header found in first 1024 bytes, assuming 1.4")
	}

	table, trailer, err := doc.parseXrefChain(data)
	if err != nil || !xrefOffsetsValid(data, table) {
		doc.warn("structured xref parse failed (%v), falling back to linear-scan recovery", err)
		table, trailer, err = recoverXref(data)
		if err != nil {
			return nil, err
		}
	}
	if trailer.Get("Root") == nil {
		return nil, &InvalidXrefError{}
	}

	doc.xref = table
	doc.trailer = trailer
	doc.encrypted = trailer.Get("Encrypt") != nil
	return doc, nil
}

func (doc *Document) parseXrefChain(data []byte) (*XrefTable, *Dictionary, error) {
	offset, ok := findStartXref(data)
	if !ok {
		return nil, nil, &InvalidXrefError{}
	}
	return loadXref(data, offset, decodeViaFilters)
}

func xrefOffsetsValid(data []byte, table *XrefTable) bool {
	if table == nil {
		return false
	}
	for _, e := range table.Entries {
		if e.Kind != XrefInUse {
			continue
		}
		if e.Offset < 0 || e.Offset >= int64(len(data)) {
			return false
		}
	}
	return true
}

func (doc *Document) warn(format string, args ...interface{}) {
	common.Log.Warning(format, args...)
	doc.diagnostics = append(doc.diagnostics, fmt.Sprintf(format, args...))
}

// Diagnostics returns warnings accumulated during xref recovery, cycle
// detection, and per-object load failures tolerated elsewhere in the core.
func (doc *Document) Diagnostics() []string { return doc.diagnostics }

// Version returns the document's declared (major, minor) PDF version.
func (doc *Document) Version() (int, int) { return doc.versionMajor, doc.versionMinor }

// Trailer returns the resolved trailer dictionary.
func (doc *Document) Trailer() *Dictionary { return doc.trailer }

// Catalog resolves and returns the document catalog named by the trailer's
// /Root entry.
func (doc *Document) Catalog() (Object, error) {
	root := doc.trailer.Get("Root")
	ref, ok := root.(*Reference)
	if !ok {
		// Some malformed/recovered trailers store the catalog directly.
		if d, ok := GetDict(root); ok {
			return d, nil
		}
		return nil, &InvalidXrefError{}
	}
	return doc.Load(ref)
}

// SetDecryptHook installs the callback used to decrypt strings and streams
// when the trailer carries /Encrypt. Access to strings/streams before a hook
// is installed on an encrypted document fails with EncryptionRequiredError;
// xref and dictionary-structure access is unaffected.
func (doc *Document) SetDecryptHook(hook DecryptHook) { doc.decrypt = hook }

// Load resolves ref to its direct Object, following classic in-use entries,
// compressed (object-stream) entries, and decrypting strings/streams when
// required. The null reference (0,0) returns Null without a lookup.
func (doc *Document) Load(ref *Reference) (Object, error) {
	if ref == nil || ref.IsNullRef() {
		return MakeNull(), nil
	}
	return doc.load(ref, map[int64]bool{})
}

func (doc *Document) load(ref *Reference, visited map[int64]bool) (Object, error) {
	if cached, ok := doc.cache[ref.ObjectNumber]; ok {
		return cached, nil
	}
	if visited[ref.ObjectNumber] {
		doc.warn("reference cycle detected at %d %d R, substituting null", ref.ObjectNumber, ref.GenerationNumber)
		return MakeNull(), nil
	}
	visited[ref.ObjectNumber] = true

	entry, ok := doc.xref.Entries[int(ref.ObjectNumber)]
	if !ok {
		return nil, &MissingObjectError{Ref: *ref}
	}

	var obj Object
	var err error
	switch entry.Kind {
	case XrefInUse:
		obj, err = doc.loadInUse(entry)
		if err == nil {
			obj, err = doc.decryptObject(obj, ref.ObjectNumber, int64(entry.Gen))
		}
	case XrefCompressed:
		obj, err = doc.loadCompressed(entry, visited)
	default:
		return nil, &MissingObjectError{Ref: *ref}
	}
	if err != nil {
		return nil, err
	}

	doc.cache[ref.ObjectNumber] = obj
	return obj, nil
}

func (doc *Document) loadInUse(entry XrefEntry) (Object, error) {
	ind, err := parseIndirectAt(doc.data, entry.Offset)
	if err != nil {
		return nil, err
	}
	return ind.Object, nil
}

func (doc *Document) loadCompressed(entry XrefEntry, visited map[int64]bool) (Object, error) {
	streamRef := &Reference{ObjectNumber: int64(entry.StreamObj)}
	if se, ok := doc.xref.Entries[entry.StreamObj]; ok {
		streamRef.GenerationNumber = int64(se.Gen)
	}
	streamObj, err := doc.load(streamRef, visited)
	if err != nil {
		return nil, err
	}
	stream, ok := streamObj.(*Stream)
	if !ok {
		return nil, &MissingObjectError{Ref: *streamRef}
	}
	if err := doc.parseObjStm(stream); err != nil {
		return nil, err
	}
	member, ok := doc.cache[int64(entry.ObjNum)]
	if !ok {
		return nil, &MissingObjectError{Ref: Reference{ObjectNumber: int64(entry.ObjNum)}}
	}
	return member, nil
}

// parseObjStm decodes stream (a /Type /ObjStm object) once, parsing its
// N-pairs header and caching each constituent object by number. Subsequent
// lookups into the same object stream are served entirely from the cache.
func (doc *Document) parseObjStm(stream *Stream) error {
	n, _ := GetInt(stream.Get("N"))
	first, _ := GetInt(stream.Get("First"))

	decoded, err := DecodeStream(stream)
	if err != nil {
		return &InvalidStreamError{
			Ref:   Reference{ObjectNumber: stream.ObjectNumber, GenerationNumber: stream.GenerationNumber},
			Stage: "objstm",
			Cause: err,
		}
	}

	header := NewLexer(decoded, 0)
	type objStmPair struct{ num, off int }
	pairs := make([]objStmPair, 0, n)
	for i := 0; i < n; i++ {
		header.skipWhiteSpaceAndComments()
		numObj, err := header.ParseObject()
		if err != nil {
			break
		}
		num, ok := GetInt(numObj)
		if !ok {
			break
		}
		header.skipWhiteSpaceAndComments()
		offObj, err := header.ParseObject()
		if err != nil {
			break
		}
		off, ok := GetInt(offObj)
		if !ok {
			break
		}
		pairs = append(pairs, objStmPair{num, off})
	}

	for _, p := range pairs {
		if _, exists := doc.cache[int64(p.num)]; exists {
			continue
		}
		body := NewLexer(decoded, int64(first+p.off))
		obj, err := body.ParseObject()
		if err != nil {
			doc.warn("objstm %d: failed to parse member %d at offset %d: %v", stream.ObjectNumber, p.num, p.off, err)
			continue
		}
		doc.cache[int64(p.num)] = obj
	}
	return nil
}

// decryptObject applies doc.decrypt recursively to every String leaf and,
// for a Stream, its Raw payload, using (objNum, gen) as the encryption key
// context. A document with no /Encrypt entry is a no-op; a document that is
// encrypted but has no hook installed fails with EncryptionRequiredError.
func (doc *Document) decryptObject(obj Object, objNum, gen int64) (Object, error) {
	if !doc.encrypted {
		return obj, nil
	}
	if doc.decrypt == nil {
		return nil, &EncryptionRequiredError{Ref: Reference{ObjectNumber: objNum, GenerationNumber: gen}}
	}
	return doc.decryptWalk(obj, objNum, gen)
}

func (doc *Document) decryptWalk(obj Object, objNum, gen int64) (Object, error) {
	switch t := obj.(type) {
	case *String:
		plain, err := doc.decrypt(objNum, gen, t.Bytes())
		if err != nil {
			return nil, err
		}
		if t.IsHex() {
			return MakeHexString(string(plain)), nil
		}
		return MakeStringFromBytes(plain), nil
	case *Array:
		for i, e := range t.elems {
			d, err := doc.decryptWalk(e, objNum, gen)
			if err != nil {
				return nil, err
			}
			t.elems[i] = d
		}
		return t, nil
	case *Dictionary:
		for _, k := range t.keys {
			d, err := doc.decryptWalk(t.m[k], objNum, gen)
			if err != nil {
				return nil, err
			}
			t.m[k] = d
		}
		return t, nil
	case *Stream:
		if _, err := doc.decryptWalk(t.Dictionary, objNum, gen); err != nil {
			return nil, err
		}
		plain, err := doc.decrypt(objNum, gen, t.Raw)
		if err != nil {
			return nil, err
		}
		t.Raw = plain
		return t, nil
	}
	return obj, nil
}

