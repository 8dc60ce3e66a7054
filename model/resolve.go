/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import "github.com/docsurface/pdftext/core"

// resolve dereferences obj through doc if it is a Reference, then unwraps any
// Indirect wrapper. Every accessor in this package that reads a dictionary
// entry which might legally be an indirect reference goes through this
// first, matching the loader's own lazy-resolution contract.
func resolve(doc *core.Document, obj core.Object) core.Object {
	if obj == nil {
		return nil
	}
	if ref, ok := obj.(*core.Reference); ok {
		loaded, err := doc.Load(ref)
		if err != nil {
			return nil
		}
		return core.Direct(loaded)
	}
	return core.Direct(obj)
}

// resolveDict returns the dictionary obj resolves to, if any.
func resolveDict(doc *core.Document, obj core.Object) (*core.Dictionary, bool) {
	return core.GetDict(resolve(doc, obj))
}

// resolveArray returns the array obj resolves to, if any.
func resolveArray(doc *core.Document, obj core.Object) (*core.Array, bool) {
	return core.GetArray(resolve(doc, obj))
}

// resolveStream returns the stream obj resolves to, if any.
func resolveStream(doc *core.Document, obj core.Object) (*core.Stream, bool) {
	s, ok := resolve(doc, obj).(*core.Stream)
	return s, ok
}
