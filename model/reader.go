/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import "github.com/docsurface/pdftext/core"

// Reader is the producer-interface frontend (spec §6) over a Document: open,
// version, page_count, load_object, catalog. extract_spans is exposed by
// package extractor, which takes a *Reader's Page values as input.
type Reader struct {
	Doc *core.Document
}

// NewReader opens data as a PDF document and returns a Reader over it. It
// performs no page-tree work; page_count/GetPage walk the tree lazily on
// demand, per spec.
func NewReader(data []byte) (*Reader, error) {
	doc, err := core.Open(data)
	if err != nil {
		return nil, err
	}
	return &Reader{Doc: doc}, nil
}

// Version returns the document's declared (major, minor) PDF version.
func (r *Reader) Version() (int, int) { return r.Doc.Version() }

// Catalog resolves and returns the document catalog dictionary.
func (r *Reader) Catalog() (*core.Dictionary, error) {
	obj, err := r.Doc.Catalog()
	if err != nil {
		return nil, err
	}
	dict, ok := core.GetDict(obj)
	if !ok {
		return nil, &core.InvalidXrefError{}
	}
	return dict, nil
}

// PageCount walks the page tree lazily, summing /Count.
func (r *Reader) PageCount() (int, error) { return PageCount(r.Doc) }

// Page returns the 0-indexed page at index.
func (r *Reader) Page(index int) (*Page, error) { return GetPage(r.Doc, index) }

// LoadObject resolves ref, exposed for external collaborators (exporters)
// beyond the text-extraction path; results are served from the document's
// own cache.
func (r *Reader) LoadObject(ref *core.Reference) (core.Object, error) { return r.Doc.Load(ref) }

// SetDecryptHook installs the callback used to decrypt strings and streams
// when the document is encrypted.
func (r *Reader) SetDecryptHook(hook core.DecryptHook) { r.Doc.SetDecryptHook(hook) }

// Diagnostics returns warnings accumulated during xref recovery and
// per-object load failures tolerated by the document layer.
func (r *Reader) Diagnostics() []string { return r.Doc.Diagnostics() }
