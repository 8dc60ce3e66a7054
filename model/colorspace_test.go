/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docsurface/pdftext/model"
)

func loadColorSpaceFromSrc(t *testing.T, src string) *model.ColorSpace {
	t.Helper()
	l := parseLexerObject(t, src)
	cs, err := model.LoadColorSpace(nil, l)
	require.NoError(t, err)
	return cs
}

func TestCMYKtoRGBCorners(t *testing.T) {
	cs := loadColorSpaceFromSrc(t, "/DeviceCMYK")

	white := cs.ColorToRGB([]float64{0, 0, 0, 0})
	require.InDelta(t, 1, white.R, 1e-9)
	require.InDelta(t, 1, white.G, 1e-9)
	require.InDelta(t, 1, white.B, 1e-9)

	black := cs.ColorToRGB([]float64{0, 0, 0, 1})
	require.InDelta(t, 0, black.R, 1e-9)
	require.InDelta(t, 0, black.G, 1e-9)
	require.InDelta(t, 0, black.B, 1e-9)
}

func TestDeviceGrayAndRGB(t *testing.T) {
	gray := loadColorSpaceFromSrc(t, "/DeviceGray")
	c := gray.ColorToRGB([]float64{0.5})
	require.InDelta(t, 0.5, c.R, 1e-9)
	require.InDelta(t, 0.5, c.G, 1e-9)
	require.InDelta(t, 0.5, c.B, 1e-9)

	rgb := loadColorSpaceFromSrc(t, "/DeviceRGB")
	c2 := rgb.ColorToRGB([]float64{0.1, 0.2, 0.3})
	require.InDelta(t, 0.1, c2.R, 1e-9)
	require.InDelta(t, 0.2, c2.G, 1e-9)
	require.InDelta(t, 0.3, c2.B, 1e-9)
}

func TestICCBasedSelectsByComponentCount(t *testing.T) {
	cs := loadColorSpaceFromSrc(t, "[ /ICCBased << /N 4 >> ]")
	require.Equal(t, 4, cs.Components)
	c := cs.ColorToRGB([]float64{0, 0, 0, 1})
	require.InDelta(t, 0, c.R, 1e-9)
}

func TestSeparationSimplifiesToGrayscale(t *testing.T) {
	cs := loadColorSpaceFromSrc(t, "[ /Separation /Spot /DeviceCMYK << >> ]")
	full := cs.ColorToRGB([]float64{1})
	require.InDelta(t, 0, full.R, 1e-9)
	none := cs.ColorToRGB([]float64{0})
	require.InDelta(t, 1, none.R, 1e-9)
}

func TestIndexedColorSpace(t *testing.T) {
	// Palette: index 0 = red (255,0,0), index 1 = green (0,255,0).
	cs := loadColorSpaceFromSrc(t, "[ /Indexed /DeviceRGB 1 <FF0000 00FF00> ]")
	c0 := cs.ColorToRGB([]float64{0})
	require.InDelta(t, 1, c0.R, 1e-9)
	require.InDelta(t, 0, c0.G, 1e-9)
	c1 := cs.ColorToRGB([]float64{1})
	require.InDelta(t, 0, c1.R, 1e-9)
	require.InDelta(t, 1, c1.G, 1e-9)
}
