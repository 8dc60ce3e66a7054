/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package contentstream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docsurface/pdftext/contentstream"
	"github.com/docsurface/pdftext/model"
)

func TestMatrixIdentityAndTranslation(t *testing.T) {
	id := contentstream.IdentityMatrix()
	x, y := id.TransformPoint(5, 10)
	require.Equal(t, float64(5), x)
	require.Equal(t, float64(10), y)

	tr := contentstream.TranslationMatrix(10, 20)
	x, y = tr.TransformPoint(5, 10)
	require.Equal(t, float64(15), x)
	require.Equal(t, float64(30), y)
}

func TestMatrixMultiplyComposesCTM(t *testing.T) {
	translate := contentstream.TranslationMatrix(10, 0)
	scale := contentstream.ScalingMatrix(2, 2)
	composed := translate.Multiply(scale)
	// First scale, then translate: (1,1) -> (2,2) -> (12,2).
	x, y := composed.TransformPoint(1, 1)
	require.Equal(t, float64(12), x)
	require.Equal(t, float64(2), y)
}

func TestMatrixInvertibility(t *testing.T) {
	require.True(t, contentstream.IdentityMatrix().IsInvertible())
	degenerate := contentstream.Matrix{A: 1, B: 2, C: 2, D: 4}
	require.False(t, degenerate.IsInvertible())
}

func TestGraphicsStateDefaults(t *testing.T) {
	g := contentstream.NewGraphicsState()
	require.Equal(t, float64(12), g.FontSize)
	require.Equal(t, float64(100), g.HorizontalScaling)
	require.Equal(t, float64(1), g.LineWidth)
	require.Equal(t, float64(10), g.MiterLimit)
	require.Equal(t, model.CSDeviceGray, g.FillColorSpace.Family)
	require.False(t, g.IsDashed())
}

func TestGraphicsStateStackSaveRestore(t *testing.T) {
	s := contentstream.NewGraphicsStateStack()
	require.Equal(t, 1, s.Depth())

	s.Current().FontSize = 24
	s.Save()
	require.Equal(t, 2, s.Depth())
	require.Equal(t, float64(24), s.Current().FontSize)

	s.Current().FontSize = 36
	s.Restore()
	require.Equal(t, 1, s.Depth())
	require.Equal(t, float64(24), s.Current().FontSize) // mutation after save didn't leak down

	s.Restore() // no-op at depth 1
	require.Equal(t, 1, s.Depth())
}

func TestDashPatternClassification(t *testing.T) {
	g := contentstream.NewGraphicsState()
	g.DashArray = []float64{3, 3}
	require.True(t, g.IsDashed())
	require.True(t, g.IsDotted())

	g.DashArray = []float64{20, 5}
	require.True(t, g.IsDashed())
	require.False(t, g.IsDotted())
}
