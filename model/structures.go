/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"math"

	"github.com/docsurface/pdftext/core"
)

// PdfRectangle is a PDF rectangle, [llx lly urx ury] per ISO 32000-1:2008
// 7.9.5, used for MediaBox/CropBox/BBox entries.
type PdfRectangle struct {
	Llx, Lly, Urx, Ury float64
}

// NewPdfRectangle parses obj as a 4-element numeric array. ok is false if obj
// does not resolve to such an array.
func NewPdfRectangle(doc *core.Document, obj core.Object) (rect *PdfRectangle, ok bool) {
	arr, isArr := resolveArray(doc, obj)
	if !isArr || arr.Len() != 4 {
		return nil, false
	}
	vals, err := arr.ToFloat64Slice()
	if err != nil {
		return nil, false
	}
	return &PdfRectangle{Llx: vals[0], Lly: vals[1], Urx: vals[2], Ury: vals[3]}, true
}

// Width returns the rectangle's width, independent of corner ordering.
func (r *PdfRectangle) Width() float64 { return math.Abs(r.Urx - r.Llx) }

// Height returns the rectangle's height, independent of corner ordering.
func (r *PdfRectangle) Height() float64 { return math.Abs(r.Ury - r.Lly) }
