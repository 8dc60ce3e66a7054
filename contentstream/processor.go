/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package contentstream

import (
	"github.com/docsurface/pdftext/common"
	"github.com/docsurface/pdftext/core"
	"github.com/docsurface/pdftext/model"
)

// Handler receives the events a Processor cannot resolve on its own: text
// showing (which needs font metrics), XObjects and inline images (which need
// the document to decode and, for Forms, recurse), and the points at which
// any buffered text run must be flushed. Operands have already been turned
// into GraphicsState changes by the time these are called.
type Handler interface {
	Flush(gs *GraphicsState) error
	ShowText(s string, gs *GraphicsState) error
	ShowTextArray(elems []core.Object, gs *GraphicsState) error
	Do(name string, gs *GraphicsState) error
	InlineImage(img *InlineImage, gs *GraphicsState) error
}

// Processor walks a parsed operator sequence, maintaining a GraphicsStateStack
// and dispatching the operators a generic consumer cannot interpret itself to
// a Handler. It implements the q/Q/cm/color/text-state machinery of
// ISO 32000-1:2008 8.2 and 9.3, leaving geometry (path construction/painting)
// untouched since this core never rasterizes.
type Processor struct {
	stack     *GraphicsStateStack
	resources *model.Resources
	handler   Handler
}

// NewProcessor returns a Processor starting from a single default graphics
// state, resolving named resources (fonts, color spaces, XObjects,
// ExtGStates) against resources.
func NewProcessor(resources *model.Resources, handler Handler) *Processor {
	return &Processor{stack: NewGraphicsStateStack(), resources: resources, handler: handler}
}

// Stack returns the live graphics-state stack, so a Handler driving Form
// XObject recursion can execute the Form's operators against the same stack
// (scoped with an implicit q/Q, per the Do contract).
func (p *Processor) Stack() *GraphicsStateStack { return p.stack }

// flushBefore is the set of operators that must flush any buffered text run
// before taking effect: position-changing operators and anything that
// changes a span attribute (font, size, color, spacing, matrix).
var flushBefore = map[string]bool{
	"Tm": true, "Td": true, "TD": true, "T*": true, "'": true, "\"": true,
	"Tf": true, "Tc": true, "Tw": true, "Tz": true, "TL": true, "Ts": true,
	"CS": true, "cs": true, "SC": true, "SCN": true, "sc": true, "scn": true,
	"G": true, "g": true, "RG": true, "rg": true, "K": true, "k": true,
	"cm": true, "gs": true, "BT": true, "ET": true,
}

// Execute runs every operator in sequence. A malformed individual operator is
// skipped (per §4.F, parse/operand errors never abort the stream).
func (p *Processor) Execute(ops []*Operator) error {
	for _, op := range ops {
		if flushBefore[op.Name] && p.handler != nil {
			if err := p.handler.Flush(p.Current()); err != nil {
				return err
			}
		}
		p.execOne(op)
	}
	return nil
}

// Current returns the active graphics state.
func (p *Processor) Current() *GraphicsState { return p.stack.Current() }

func (p *Processor) execOne(op *Operator) {
	gs := p.Current()
	switch op.Name {
	case "q":
		p.stack.Save()
	case "Q":
		p.stack.Restore()
	case "cm":
		if m, ok := matrixOperand(op.Operands); ok {
			gs.CTM = gs.CTM.Multiply(m)
		} else {
			common.Log.Debug("cm: %v", ErrInvalidOperand)
		}
	case "w":
		gs.LineWidth = floatAt(op.Operands, 0)
	case "J":
		gs.LineCap = intAt(op.Operands, 0)
	case "j":
		gs.LineJoin = intAt(op.Operands, 0)
	case "M":
		gs.MiterLimit = floatAt(op.Operands, 0)
	case "d":
		p.execDash(op, gs)
	case "ri":
		if name, ok := nameAt(op.Operands, 0); ok {
			gs.RenderingIntent = name
		}
	case "i":
		gs.Flatness = floatAt(op.Operands, 0)
	case "gs":
		p.execExtGState(op, gs)

	case "BT":
		gs.TextMatrix = IdentityMatrix()
		gs.TextLineMatrix = IdentityMatrix()
	case "ET":
		// ET is in flushBefore, so Execute has already flushed the buffered
		// run before reaching here; ET carries no state of its own.

	case "Tc":
		gs.CharSpace = floatAt(op.Operands, 0)
	case "Tw":
		gs.WordSpace = floatAt(op.Operands, 0)
	case "Tz":
		gs.HorizontalScaling = floatAt(op.Operands, 0)
	case "TL":
		gs.Leading = floatAt(op.Operands, 0)
	case "Tf":
		if name, ok := nameAt(op.Operands, 0); ok {
			gs.FontName = name
		}
		gs.FontSize = floatAt(op.Operands, 1)
	case "Tr":
		gs.RenderMode = intAt(op.Operands, 0)
	case "Ts":
		gs.TextRise = floatAt(op.Operands, 0)

	case "Td":
		tx, ty := floatAt(op.Operands, 0), floatAt(op.Operands, 1)
		gs.TextLineMatrix = gs.TextLineMatrix.Multiply(TranslationMatrix(tx, ty))
		gs.TextMatrix = gs.TextLineMatrix
	case "TD":
		ty := floatAt(op.Operands, 1)
		gs.Leading = -ty
		tx := floatAt(op.Operands, 0)
		gs.TextLineMatrix = gs.TextLineMatrix.Multiply(TranslationMatrix(tx, ty))
		gs.TextMatrix = gs.TextLineMatrix
	case "Tm":
		if m, ok := matrixOperand(op.Operands); ok {
			gs.TextMatrix = m
			gs.TextLineMatrix = m
		} else {
			common.Log.Debug("Tm: %v", ErrInvalidOperand)
		}
	case "T*":
		gs.TextLineMatrix = gs.TextLineMatrix.Multiply(TranslationMatrix(0, -gs.Leading))
		gs.TextMatrix = gs.TextLineMatrix

	case "Tj":
		if s, ok := stringAt(op.Operands, 0); ok && p.handler != nil {
			p.handler.ShowText(s, gs)
		}
	case "TJ":
		if arr, ok := core.GetArray(firstOperand(op.Operands)); ok && p.handler != nil {
			p.handler.ShowTextArray(arr.Elements(), gs)
		}
	case "'":
		gs.TextLineMatrix = gs.TextLineMatrix.Multiply(TranslationMatrix(0, -gs.Leading))
		gs.TextMatrix = gs.TextLineMatrix
		if s, ok := stringAt(op.Operands, 0); ok && p.handler != nil {
			p.handler.ShowText(s, gs)
		}
	case "\"":
		gs.WordSpace = floatAt(op.Operands, 0)
		gs.CharSpace = floatAt(op.Operands, 1)
		gs.TextLineMatrix = gs.TextLineMatrix.Multiply(TranslationMatrix(0, -gs.Leading))
		gs.TextMatrix = gs.TextLineMatrix
		if s, ok := stringAt(op.Operands, 2); ok && p.handler != nil {
			p.handler.ShowText(s, gs)
		}

	case "CS":
		if name, ok := nameAt(op.Operands, 0); ok {
			if cs, ok := p.resources.ColorSpace(name); ok {
				gs.StrokeColorSpace = cs
			}
		}
	case "cs":
		if name, ok := nameAt(op.Operands, 0); ok {
			if cs, ok := p.resources.ColorSpace(name); ok {
				gs.FillColorSpace = cs
			}
		}
	case "SC", "SCN":
		gs.StrokeColor = gs.StrokeColorSpace.ColorToRGB(floatsOf(op.Operands))
	case "sc", "scn":
		gs.FillColor = gs.FillColorSpace.ColorToRGB(floatsOf(op.Operands))
	case "G":
		gs.StrokeColorSpace = model.DeviceGray()
		gs.StrokeColor = gs.StrokeColorSpace.ColorToRGB(floatsOf(op.Operands))
	case "g":
		gs.FillColorSpace = model.DeviceGray()
		gs.FillColor = gs.FillColorSpace.ColorToRGB(floatsOf(op.Operands))
	case "RG":
		gs.StrokeColorSpace = model.DeviceRGBSpace()
		gs.StrokeColor = gs.StrokeColorSpace.ColorToRGB(floatsOf(op.Operands))
	case "rg":
		gs.FillColorSpace = model.DeviceRGBSpace()
		gs.FillColor = gs.FillColorSpace.ColorToRGB(floatsOf(op.Operands))
	case "K":
		gs.StrokeColorSpace = model.DeviceCMYKSpace()
		gs.StrokeColor = gs.StrokeColorSpace.ColorToRGB(floatsOf(op.Operands))
	case "k":
		gs.FillColorSpace = model.DeviceCMYKSpace()
		gs.FillColor = gs.FillColorSpace.ColorToRGB(floatsOf(op.Operands))

	case "BDC":
		p.execBDC(op, gs)
	case "EMC":
		gs.MarkedContentID = nil
	case "BMC", "MP", "DP":
		// No text-extraction-relevant effect; structural-tree consumption
		// lives outside this core.

	case "Do":
		if name, ok := nameAt(op.Operands, 0); ok && p.handler != nil {
			p.handler.Do(name, gs)
		}
	case "BI":
		if op.InlineImage != nil && p.handler != nil {
			p.handler.InlineImage(op.InlineImage, gs)
		}
	case "sh":
		// Shadings paint, they never produce text.
	}
}

func (p *Processor) execDash(op *Operator, gs *GraphicsState) {
	if len(op.Operands) < 1 {
		return
	}
	arr, ok := core.GetArray(op.Operands[0])
	if !ok {
		return
	}
	if vals, err := arr.ToFloat64Slice(); err == nil {
		gs.DashArray = vals
	}
	gs.DashPhase = floatAt(op.Operands, 1)
}

func (p *Processor) execExtGState(op *Operator, gs *GraphicsState) {
	name, ok := nameAt(op.Operands, 0)
	if !ok || p.resources == nil {
		return
	}
	dict, ok := p.resources.ExtGState(name)
	if !ok {
		return
	}
	if v, ok := core.GetFloatVal(dict.Get("ca")); ok {
		gs.FillAlpha = v
	}
	if v, ok := core.GetFloatVal(dict.Get("CA")); ok {
		gs.StrokeAlpha = v
	}
	if bm, ok := core.GetNameVal(dict.Get("BM")); ok {
		gs.BlendMode = bm
	}
	if fontEntry, ok := core.GetArray(dict.Get("Font")); ok && fontEntry.Len() == 2 {
		gs.FontSize = floatAtObj(fontEntry.Get(1))
	}
}

func (p *Processor) execBDC(op *Operator, gs *GraphicsState) {
	if len(op.Operands) < 2 {
		return
	}
	dict, ok := core.GetDict(op.Operands[1])
	if !ok {
		return
	}
	if n, ok := core.GetInt(dict.Get("MCID")); ok {
		id := n
		gs.MarkedContentID = &id
	}
}

func matrixOperand(operands []core.Object) (Matrix, bool) {
	if len(operands) < 6 {
		return Matrix{}, false
	}
	return Matrix{
		A: floatAt(operands, 0), B: floatAt(operands, 1),
		C: floatAt(operands, 2), D: floatAt(operands, 3),
		E: floatAt(operands, 4), F: floatAt(operands, 5),
	}, true
}

func floatAt(operands []core.Object, i int) float64 {
	if i < 0 || i >= len(operands) {
		return 0
	}
	return floatAtObj(operands[i])
}

func floatAtObj(obj core.Object) float64 {
	v, _ := core.ToFloat(obj)
	return v
}

func intAt(operands []core.Object, i int) int {
	return int(floatAt(operands, i))
}

func nameAt(operands []core.Object, i int) (string, bool) {
	if i < 0 || i >= len(operands) {
		return "", false
	}
	return core.GetNameVal(operands[i])
}

func stringAt(operands []core.Object, i int) (string, bool) {
	if i < 0 || i >= len(operands) {
		return "", false
	}
	return core.GetStringVal(operands[i])
}

func firstOperand(operands []core.Object) core.Object {
	if len(operands) == 0 {
		return nil
	}
	return operands[0]
}

// floatsOf converts every operand to a float, stopping at (and excluding) a
// trailing Pattern name operand some SCN/scn calls carry.
func floatsOf(operands []core.Object) []float64 {
	out := make([]float64, 0, len(operands))
	for _, o := range operands {
		if _, ok := o.(*core.Name); ok {
			break
		}
		out = append(out, floatAtObj(o))
	}
	return out
}
