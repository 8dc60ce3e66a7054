/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import "github.com/docsurface/pdftext/core"

// Resources is a page or Form XObject's resource dictionary, giving the
// content-stream processor typed lookups for the named resources an
// operator references (Tf font names, scn/SCN/cs/CS color space names, Do
// XObject names, gs ExtGState names).
type Resources struct {
	doc  *core.Document
	dict *core.Dictionary

	fonts map[string]*Font
}

// NewResources wraps dict (a page or Form XObject's /Resources entry,
// already resolved). dict may be nil, in which case every lookup misses.
func NewResources(doc *core.Document, dict *core.Dictionary) *Resources {
	return &Resources{doc: doc, dict: dict}
}

func (r *Resources) subDict(name core.Name) (*core.Dictionary, bool) {
	if r == nil || r.dict == nil {
		return nil, false
	}
	return resolveDict(r.doc, r.dict.Get(name))
}

// Font returns the font named by a Tf operand, loading and caching it on
// first use.
func (r *Resources) Font(name string) (*Font, bool) {
	if r == nil {
		return nil, false
	}
	if f, ok := r.fonts[name]; ok {
		return f, true
	}
	fonts, ok := r.subDict("Font")
	if !ok {
		return nil, false
	}
	dict, ok := resolveDict(r.doc, fonts.Get(core.Name(name)))
	if !ok {
		return nil, false
	}
	f, err := LoadFont(r.doc, dict)
	if err != nil {
		return nil, false
	}
	if r.fonts == nil {
		r.fonts = map[string]*Font{}
	}
	r.fonts[name] = f
	return f, true
}

// ColorSpace returns the color space named by a cs/CS operand. The device
// and Pattern names are recognized without a resource-dictionary lookup, per
// ISO 32000-1:2008 8.6.5.2; any other name is looked up in /ColorSpace.
func (r *Resources) ColorSpace(name string) (*ColorSpace, bool) {
	switch name {
	case "DeviceGray", "DeviceRGB", "DeviceCMYK", "Pattern":
		return colorSpaceByName(name), true
	}
	spaces, ok := r.subDict("ColorSpace")
	if !ok {
		return nil, false
	}
	obj := spaces.Get(core.Name(name))
	if obj == nil {
		return nil, false
	}
	cs, err := LoadColorSpace(r.doc, obj)
	if err != nil {
		return nil, false
	}
	return cs, true
}

// ExtGState returns the graphics-state parameter dictionary named by a gs
// operand.
func (r *Resources) ExtGState(name string) (*core.Dictionary, bool) {
	states, ok := r.subDict("ExtGState")
	if !ok {
		return nil, false
	}
	return resolveDict(r.doc, states.Get(core.Name(name)))
}

// XObject returns the stream named by a Do operand, along with its Subtype
// ("Image" or "Form").
func (r *Resources) XObject(name string) (stream *core.Stream, subtype string, ok bool) {
	xobjs, okSub := r.subDict("XObject")
	if !okSub {
		return nil, "", false
	}
	stream, ok = resolveStream(r.doc, xobjs.Get(core.Name(name)))
	if !ok {
		return nil, "", false
	}
	subtype, _ = core.GetNameVal(stream.Get("Subtype"))
	return stream, subtype, true
}
