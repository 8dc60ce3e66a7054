/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"bytes"

	"github.com/docsurface/pdftext/core"
)

// Page is one leaf of the page tree (ISO 32000-1:2008 7.7.3.3), with the
// inheritable attributes (Resources, MediaBox, CropBox, Rotate) already
// resolved from its Pages-node ancestors.
type Page struct {
	Dict *core.Dictionary

	Resources *Resources
	MediaBox  *PdfRectangle
	CropBox   *PdfRectangle
	Rotate    int

	doc *core.Document
}

// inherited carries the page-tree attributes a Pages node may pass down to
// its Kids, each overridden by a Kid's own entry of the same name if present.
type inherited struct {
	resources *core.Dictionary
	mediaBox  *PdfRectangle
	cropBox   *PdfRectangle
	rotate    int
}

func (in inherited) override(doc *core.Document, node *core.Dictionary) inherited {
	out := in
	if d, ok := resolveDict(doc, node.Get("Resources")); ok {
		out.resources = d
	}
	if r, ok := NewPdfRectangle(doc, node.Get("MediaBox")); ok {
		out.mediaBox = r
	}
	if r, ok := NewPdfRectangle(doc, node.Get("CropBox")); ok {
		out.cropBox = r
	}
	if n, ok := core.GetInt(node.Get("Rotate")); ok {
		out.rotate = normalizeRotation(n)
	}
	return out
}

func normalizeRotation(n int) int {
	n %= 360
	if n < 0 {
		n += 360
	}
	return n
}

func isPagesNode(d *core.Dictionary) bool {
	switch t, _ := core.GetNameVal(d.Get("Type")); t {
	case "Pages":
		return true
	case "Page":
		return false
	}
	// Some malformed producers omit /Type; the presence of /Kids is the
	// distinguishing structural signal in that case.
	return d.Get("Kids") != nil
}

// pagesRoot resolves the catalog's /Pages entry.
func pagesRoot(doc *core.Document) (*core.Dictionary, error) {
	catObj, err := doc.Catalog()
	if err != nil {
		return nil, err
	}
	cat, ok := core.GetDict(catObj)
	if !ok {
		return nil, &core.InvalidXrefError{}
	}
	root, ok := resolveDict(doc, cat.Get("Pages"))
	if !ok {
		return nil, &core.InvalidXrefError{}
	}
	return root, nil
}

// PageCount walks the page tree lazily, summing /Count at Pages nodes rather
// than visiting every leaf, per spec.
func PageCount(doc *core.Document) (int, error) {
	root, err := pagesRoot(doc)
	if err != nil {
		return 0, err
	}
	return countSubtree(doc, root, map[*core.Dictionary]bool{})
}

func countSubtree(doc *core.Document, node *core.Dictionary, visited map[*core.Dictionary]bool) (int, error) {
	if n, ok := core.GetInt(node.Get("Count")); ok {
		return n, nil
	}
	if visited[node] {
		return 0, nil
	}
	visited[node] = true
	kids, _ := resolveArray(doc, node.Get("Kids"))
	total := 0
	for _, k := range kids.Elements() {
		kd, ok := resolveDict(doc, k)
		if !ok {
			continue
		}
		if isPagesNode(kd) {
			n, err := countSubtree(doc, kd, visited)
			if err != nil {
				return 0, err
			}
			total += n
		} else {
			total++
		}
	}
	return total, nil
}

// GetPage returns the 0-indexed page at index, descending through Pages
// nodes and using their /Count to skip whole sibling subtrees without
// visiting every leaf.
func GetPage(doc *core.Document, index int) (*Page, error) {
	if index < 0 {
		total, _ := PageCount(doc)
		return nil, &core.PageOutOfRangeError{Got: index, Total: total}
	}
	root, err := pagesRoot(doc)
	if err != nil {
		return nil, err
	}
	remaining := index
	page, err := findPageAt(doc, root, &remaining, inherited{rotate: 0})
	if err != nil {
		return nil, err
	}
	if page == nil {
		total, _ := PageCount(doc)
		return nil, &core.PageOutOfRangeError{Got: index, Total: total}
	}
	return page, nil
}

func findPageAt(doc *core.Document, node *core.Dictionary, remaining *int, parent inherited) (*Page, error) {
	inh := parent.override(doc, node)
	kids, _ := resolveArray(doc, node.Get("Kids"))
	for _, k := range kids.Elements() {
		kd, ok := resolveDict(doc, k)
		if !ok {
			continue
		}
		if isPagesNode(kd) {
			if n, ok := core.GetInt(kd.Get("Count")); ok {
				if *remaining >= n {
					*remaining -= n
					continue
				}
			}
			page, err := findPageAt(doc, kd, remaining, inh)
			if err != nil {
				return nil, err
			}
			if page != nil {
				return page, nil
			}
			continue
		}
		if *remaining == 0 {
			return buildPage(doc, kd, inh), nil
		}
		*remaining--
	}
	return nil, nil
}

func buildPage(doc *core.Document, dict *core.Dictionary, inh inherited) *Page {
	inh = inh.override(doc, dict)
	cropBox := inh.cropBox
	if cropBox == nil {
		cropBox = inh.mediaBox
	}
	return &Page{
		Dict:      dict,
		Resources: NewResources(doc, inh.resources),
		MediaBox:  inh.mediaBox,
		CropBox:   cropBox,
		Rotate:    inh.rotate,
		doc:       doc,
	}
}

// ContentBytes concatenates the page's /Contents stream(s) (a single stream
// or an array of streams, per ISO 32000-1:2008 7.8.2) into one decoded
// buffer, separated by a newline so adjacent streams never fuse tokens.
func (p *Page) ContentBytes() ([]byte, error) {
	obj := resolve(p.doc, p.Dict.Get("Contents"))
	switch t := obj.(type) {
	case *core.Stream:
		return core.DecodeStream(t)
	case *core.Array:
		var buf bytes.Buffer
		for _, e := range t.Elements() {
			s, ok := resolveStream(p.doc, e)
			if !ok {
				continue
			}
			decoded, err := core.DecodeStream(s)
			if err != nil {
				return nil, err
			}
			buf.Write(decoded)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil
	default:
		return nil, nil
	}
}
