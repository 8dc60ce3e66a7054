/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import "github.com/docsurface/pdftext/core"

// ColorSpaceFamily names the color space families this core recognizes, per
// the simplified color model: no CIE-accurate conversion, no ICC profile
// interpretation, no tint-transform function evaluation.
type ColorSpaceFamily string

const (
	CSDeviceGray ColorSpaceFamily = "DeviceGray"
	CSDeviceRGB  ColorSpaceFamily = "DeviceRGB"
	CSDeviceCMYK ColorSpaceFamily = "DeviceCMYK"
	CSCalGray    ColorSpaceFamily = "CalGray"
	CSCalRGB     ColorSpaceFamily = "CalRGB"
	CSLab        ColorSpaceFamily = "Lab"
	CSICCBased   ColorSpaceFamily = "ICCBased"
	CSIndexed    ColorSpaceFamily = "Indexed"
	CSSeparation ColorSpaceFamily = "Separation"
	CSDeviceN    ColorSpaceFamily = "DeviceN"
	CSPattern    ColorSpaceFamily = "Pattern"
)

// RGB is a color already converted to the [0,1]^3 device RGB cube.
type RGB struct {
	R, G, B float64
}

// ColorSpace is the reduced color-space model this core needs to turn SCN/scn
// operands into an RGB color for a TextSpan: how many numeric operands the
// space consumes, and how to fold those operands down to RGB.
type ColorSpace struct {
	Family     ColorSpaceFamily
	Components int

	base    *ColorSpace // Indexed's base space; ICCBased's inferred alternate
	palette []byte      // Indexed's lookup table, base.Components bytes/entry
}

func deviceGray() *ColorSpace { return &ColorSpace{Family: CSDeviceGray, Components: 1} }
func deviceRGB() *ColorSpace  { return &ColorSpace{Family: CSDeviceRGB, Components: 3} }
func deviceCMYK() *ColorSpace { return &ColorSpace{Family: CSDeviceCMYK, Components: 4} }

// DeviceGray returns the DeviceGray color space, the default fill/stroke
// space a graphics state starts in per ISO 32000-1:2008 8.4.4.
func DeviceGray() *ColorSpace { return deviceGray() }

// DeviceRGBSpace returns the DeviceRGB color space, for the RG/rg operators
// that imply a color space rather than naming one.
func DeviceRGBSpace() *ColorSpace { return deviceRGB() }

// DeviceCMYKSpace returns the DeviceCMYK color space, for the K/k operators.
func DeviceCMYKSpace() *ColorSpace { return deviceCMYK() }

// LoadColorSpace parses obj (a Name or an Array per ISO 32000-1:2008 8.6) into
// a ColorSpace. obj is assumed already resolved to its value within a
// resource dictionary's /ColorSpace entries (name lookups against that
// dictionary happen in resources.go, not here).
func LoadColorSpace(doc *core.Document, obj core.Object) (*ColorSpace, error) {
	obj = resolve(doc, obj)
	switch t := obj.(type) {
	case *core.Name:
		return colorSpaceByName(string(*t)), nil
	case *core.Array:
		return loadColorSpaceArray(doc, t)
	}
	return deviceGray(), nil
}

func colorSpaceByName(name string) *ColorSpace {
	switch name {
	case "DeviceRGB", "RGB", "CalRGB":
		return deviceRGB()
	case "DeviceCMYK", "CMYK":
		return deviceCMYK()
	case "Pattern":
		return &ColorSpace{Family: CSPattern, Components: 0}
	default: // DeviceGray, CalGray, G, and anything unrecognized
		return deviceGray()
	}
}

func loadColorSpaceArray(doc *core.Document, arr *core.Array) (*ColorSpace, error) {
	if arr.Len() == 0 {
		return deviceGray(), nil
	}
	family, _ := core.GetNameVal(arr.Get(0))
	switch family {
	case "CalGray":
		return &ColorSpace{Family: CSCalGray, Components: 1}, nil
	case "CalRGB":
		return &ColorSpace{Family: CSCalRGB, Components: 3}, nil
	case "Lab":
		// True Lab arity is 3 (L,a,b); the simplified color model folds the
		// result down to grayscale using L alone (see ColorToRGB).
		return &ColorSpace{Family: CSLab, Components: 3}, nil
	case "ICCBased":
		n, base := iccAlternate(doc, arr.Get(1))
		return &ColorSpace{Family: CSICCBased, Components: n, base: base}, nil
	case "Indexed":
		return loadIndexed(doc, arr)
	case "Separation":
		return &ColorSpace{Family: CSSeparation, Components: 1}, nil
	case "DeviceN":
		n := 1
		if names, ok := core.GetArray(arr.Get(1)); ok {
			n = names.Len()
		}
		return &ColorSpace{Family: CSDeviceN, Components: n}, nil
	case "Pattern":
		cs := &ColorSpace{Family: CSPattern, Components: 0}
		if arr.Len() > 1 {
			if b, err := LoadColorSpace(doc, arr.Get(1)); err == nil {
				cs.base = b
			}
		}
		return cs, nil
	}
	return deviceGray(), nil
}

// iccAlternate returns an ICCBased stream's component count (from /N) and the
// device color space that count implies, per the simplified rule of
// component-count selecting Gray/RGB/CMYK rather than parsing the profile.
func iccAlternate(doc *core.Document, obj core.Object) (int, *ColorSpace) {
	dict, ok := resolveDict(doc, obj)
	if !ok {
		return 1, deviceGray()
	}
	n, _ := core.GetInt(dict.Get("N"))
	switch n {
	case 3:
		return 3, deviceRGB()
	case 4:
		return 4, deviceCMYK()
	default:
		return 1, deviceGray()
	}
}

// loadIndexed parses [/Indexed base hival lookup]: the lookup table is a
// string or stream of (hival+1)*base.Components bytes, one base-space color
// per palette entry.
func loadIndexed(doc *core.Document, arr *core.Array) (*ColorSpace, error) {
	if arr.Len() < 4 {
		return deviceRGB(), nil
	}
	base, err := LoadColorSpace(doc, arr.Get(1))
	if err != nil {
		return nil, err
	}
	var palette []byte
	lookup := resolve(doc, arr.Get(3))
	switch t := lookup.(type) {
	case *core.String:
		palette = t.Bytes()
	case *core.Stream:
		if decoded, err := core.DecodeStream(t); err == nil {
			palette = decoded
		}
	}
	return &ColorSpace{Family: CSIndexed, Components: 1, base: base, palette: palette}, nil
}

// ColorToRGB folds components (raw SCN/scn operands, already divided by
// their natural range where applicable) down to device RGB.
func (cs *ColorSpace) ColorToRGB(components []float64) RGB {
	if cs == nil {
		return RGB{}
	}
	switch cs.Family {
	case CSDeviceGray, CSCalGray:
		g := comp(components, 0)
		return RGB{g, g, g}
	case CSDeviceRGB, CSCalRGB:
		return RGB{comp(components, 0), comp(components, 1), comp(components, 2)}
	case CSDeviceCMYK:
		c, m, y, k := comp(components, 0), comp(components, 1), comp(components, 2), comp(components, 3)
		return RGB{
			R: 1 - minf(1, c*(1-k)+k),
			G: 1 - minf(1, m*(1-k)+k),
			B: 1 - minf(1, y*(1-k)+k),
		}
	case CSLab:
		// Simplification: L channel (0-100) only, ignoring a/b chroma.
		g := comp(components, 0) / 100
		return RGB{g, g, g}
	case CSSeparation:
		// Simplification: tint 0 = no ink = white, 1 = full colorant = black.
		g := 1 - comp(components, 0)
		return RGB{g, g, g}
	case CSDeviceN:
		sum := 0.0
		for _, v := range components {
			sum += v
		}
		g := 1.0
		if len(components) > 0 {
			g = 1 - sum/float64(len(components))
		}
		return RGB{g, g, g}
	case CSICCBased:
		if cs.base != nil {
			return cs.base.ColorToRGB(components)
		}
		g := comp(components, 0)
		return RGB{g, g, g}
	case CSIndexed:
		return cs.indexedColor(int(comp(components, 0)))
	case CSPattern:
		// No rasterization: a pattern fill is reported as black, the same
		// stand-in used when no color has been set at all.
		return RGB{}
	}
	return RGB{}
}

func (cs *ColorSpace) indexedColor(index int) RGB {
	base := cs.base
	if base == nil {
		base = deviceRGB()
	}
	n := base.Components
	start := index * n
	if start < 0 || start+n > len(cs.palette) {
		return RGB{}
	}
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = float64(cs.palette[start+i]) / 255
	}
	return base.ColorToRGB(vals)
}

func comp(components []float64, i int) float64 {
	if i < 0 || i >= len(components) {
		return 0
	}
	return components[i]
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
