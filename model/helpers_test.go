/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docsurface/pdftext/core"
)

func parseLexerObject(t *testing.T, src string) core.Object {
	t.Helper()
	l := core.NewLexer([]byte(src), 0)
	obj, err := l.ParseObject()
	require.NoError(t, err)
	return obj
}

func parseDict(t *testing.T, src string) *core.Dictionary {
	t.Helper()
	d, ok := core.GetDict(parseLexerObject(t, src))
	require.True(t, ok)
	return d
}
