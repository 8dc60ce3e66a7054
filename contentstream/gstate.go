/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package contentstream

import (
	"math"

	"github.com/docsurface/pdftext/model"
)

// Matrix is a PDF affine transformation matrix:
//
//	[ a b 0 ]
//	[ c d 0 ]
//	[ e f 1 ]
//
// (a,b,c,d) carry scaling/rotation/skew; (e,f) carry translation.
type Matrix struct {
	A, B, C, D, E, F float64
}

// IdentityMatrix returns the matrix representing no transformation.
func IdentityMatrix() Matrix { return Matrix{A: 1, D: 1} }

// TranslationMatrix returns a matrix translating by (tx, ty).
func TranslationMatrix(tx, ty float64) Matrix { return Matrix{A: 1, D: 1, E: tx, F: ty} }

// ScalingMatrix returns a matrix scaling by (sx, sy).
func ScalingMatrix(sx, sy float64) Matrix { return Matrix{A: sx, D: sy} }

// Multiply returns the matrix representing "first apply other, then self" -
// the composition order cm operands accumulate in (new CTM = operand matrix
// multiplied onto the current CTM).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: other.A*m.A + other.B*m.C,
		B: other.A*m.B + other.B*m.D,
		C: other.C*m.A + other.D*m.C,
		D: other.C*m.B + other.D*m.D,
		E: other.E*m.A + other.F*m.C + m.E,
		F: other.E*m.B + other.F*m.D + m.F,
	}
}

// TransformPoint applies the matrix to (x, y).
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Determinant returns ad - bc.
func (m Matrix) Determinant() float64 { return m.A*m.D - m.B*m.C }

// IsInvertible reports whether the matrix has a non-zero determinant.
func (m Matrix) IsInvertible() bool { return math.Abs(m.Determinant()) > 1e-12 }

// GraphicsState is the full set of parameters ISO 32000-1:2008 8.4 tracks
// while executing a content stream: the coordinate-space matrices, text
// state, color, and the line/rendering parameters a q/Q pair saves and
// restores together.
type GraphicsState struct {
	CTM            Matrix
	TextMatrix     Matrix
	TextLineMatrix Matrix

	CharSpace         float64
	WordSpace         float64
	HorizontalScaling float64
	Leading           float64
	FontName          string
	FontSize          float64
	TextRise          float64
	RenderMode        int

	FillColorSpace   *model.ColorSpace
	StrokeColorSpace *model.ColorSpace
	FillColor        model.RGB
	StrokeColor      model.RGB

	LineWidth      float64
	DashArray      []float64
	DashPhase      float64
	LineCap        int
	LineJoin       int
	MiterLimit     float64
	RenderingIntent string
	Flatness       float64

	FillAlpha   float64
	StrokeAlpha float64
	BlendMode   string

	// MarkedContentID is the innermost BDC/BMC id in effect, or nil outside
	// any marked-content sequence.
	MarkedContentID *int
}

// NewGraphicsState returns a state with the defaults ISO 32000-1:2008
// mandates at the start of a content stream.
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{
		CTM:               IdentityMatrix(),
		TextMatrix:        IdentityMatrix(),
		TextLineMatrix:    IdentityMatrix(),
		HorizontalScaling: 100,
		FontSize:          12,
		FillColorSpace:    model.DeviceGray(),
		StrokeColorSpace:  model.DeviceGray(),
		LineWidth:         1,
		MiterLimit:        10,
		RenderingIntent:   "RelativeColorimetric",
		Flatness:          1,
		FillAlpha:         1,
		StrokeAlpha:       1,
		BlendMode:         "Normal",
	}
}

// IsDashed reports whether the current line style is anything but solid.
func (g *GraphicsState) IsDashed() bool { return len(g.DashArray) > 0 }

// IsDotted reports whether the dash pattern looks like a dotted line: short,
// roughly equal on/off segments.
func (g *GraphicsState) IsDotted() bool {
	if len(g.DashArray) < 2 {
		return false
	}
	on, off := g.DashArray[0], g.DashArray[1]
	return on < 5 && off < 5 && math.Abs(on-off) < 2
}

// clone returns a deep-enough copy for q: matrices and scalars copy by
// value, the dash array is copied so mutating the pushed state's slice
// cannot alias the saved one, color spaces/RGB values are immutable once
// built so a shallow copy is safe.
func (g *GraphicsState) clone() *GraphicsState {
	cp := *g
	cp.DashArray = append([]float64(nil), g.DashArray...)
	if g.MarkedContentID != nil {
		id := *g.MarkedContentID
		cp.MarkedContentID = &id
	}
	return &cp
}

// GraphicsStateStack is the q/Q save/restore stack. It always has depth ≥ 1;
// Restore at depth 1 is a no-op, per spec.
type GraphicsStateStack struct {
	stack []*GraphicsState
}

// NewGraphicsStateStack returns a stack holding one default state.
func NewGraphicsStateStack() *GraphicsStateStack {
	return &GraphicsStateStack{stack: []*GraphicsState{NewGraphicsState()}}
}

// Current returns the active graphics state.
func (s *GraphicsStateStack) Current() *GraphicsState {
	return s.stack[len(s.stack)-1]
}

// Save pushes a copy of the current state (the q operator).
func (s *GraphicsStateStack) Save() {
	s.stack = append(s.stack, s.Current().clone())
}

// Restore pops the current state (the Q operator). A no-op at depth 1.
func (s *GraphicsStateStack) Restore() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Depth returns the number of states on the stack.
func (s *GraphicsStateStack) Depth() int { return len(s.stack) }
