/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docsurface/pdftext/core"
)

func mustDict(t *testing.T, src string) *core.Dictionary {
	t.Helper()
	l := core.NewLexer([]byte(src), 0)
	obj, err := l.ParseObject()
	require.NoError(t, err)
	d, ok := core.GetDict(obj)
	require.True(t, ok)
	return d
}

func buildPageTree(t *testing.T) *core.Dictionary {
	pageA := mustDict(t, `<< /Type /Page /MediaBox [ 0 0 600 800 ] /Rotate 90 >>`)
	pageB := mustDict(t, `<< /Type /Page >>`)
	pageC := mustDict(t, `<< /Type /Page /Rotate 450 >>`)

	subPages := core.MakeDict()
	subPages.Set("Type", core.MakeName("Pages"))
	subPages.Set("Count", core.MakeInteger(2))
	subPages.Set("Resources", mustDict(t, `<< /Font << /F1 << /BaseFont /Helvetica >> >> >>`))
	subPages.Set("Kids", core.MakeArray(pageB, pageC))

	root := core.MakeDict()
	root.Set("Type", core.MakeName("Pages"))
	root.Set("Kids", core.MakeArray(pageA, subPages))
	return root
}

func TestCountSubtreeSumsAcrossMixedKids(t *testing.T) {
	root := buildPageTree(t)
	n, err := countSubtree(nil, root, map[*core.Dictionary]bool{})
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestFindPageAtDescendsAndSkipsSubtrees(t *testing.T) {
	root := buildPageTree(t)

	remaining := 0
	page, err := findPageAt(nil, root, &remaining, inherited{})
	require.NoError(t, err)
	require.NotNil(t, page)
	require.Equal(t, 90, page.Rotate)
	require.Equal(t, float64(600), page.MediaBox.Width())

	remaining = 2
	page2, err := findPageAt(nil, root, &remaining, inherited{})
	require.NoError(t, err)
	require.NotNil(t, page2)
	require.Equal(t, 90, page2.Rotate) // 450 mod 360
	_, hasFont := page2.Resources.Font("F1")
	require.True(t, hasFont) // inherited from subPages

	remaining = 99
	page3, err := findPageAt(nil, root, &remaining, inherited{})
	require.NoError(t, err)
	require.Nil(t, page3)
}

func TestNormalizeRotation(t *testing.T) {
	require.Equal(t, 90, normalizeRotation(450))
	require.Equal(t, 270, normalizeRotation(-90))
	require.Equal(t, 0, normalizeRotation(360))
}
