/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package contentstream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docsurface/pdftext/contentstream"
	"github.com/docsurface/pdftext/core"
)

func TestParserBasicOperators(t *testing.T) {
	src := "q 1 0 0 1 100 200 cm BT /F1 12 Tf (Hi) Tj ET Q"
	ops, errs := contentstream.NewParser([]byte(src)).Parse()
	require.Empty(t, errs)

	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	require.Equal(t, []string{"q", "cm", "BT", "Tf", "Tj", "ET", "Q"}, names)

	cm := ops[1]
	require.Len(t, cm.Operands, 6)
	v, ok := core.GetFloatVal(cm.Operands[4])
	require.True(t, ok)
	require.Equal(t, float64(100), v)

	tj := ops[4]
	require.Len(t, tj.Operands, 1)
	s, ok := core.GetStringVal(tj.Operands[0])
	require.True(t, ok)
	require.Equal(t, "Hi", s)
}

func TestParserTJArrayOperand(t *testing.T) {
	src := "[(A)-120(B)] TJ"
	ops, errs := contentstream.NewParser([]byte(src)).Parse()
	require.Empty(t, errs)
	require.Len(t, ops, 1)
	require.Equal(t, "TJ", ops[0].Name)

	arr, ok := core.GetArray(ops[0].Operands[0])
	require.True(t, ok)
	require.Equal(t, 3, arr.Len())
}

func TestParserUnknownOperatorClearsOperandStack(t *testing.T) {
	src := "1 2 zzz 3 Tz"
	ops, errs := contentstream.NewParser([]byte(src)).Parse()
	require.Empty(t, errs)
	require.Len(t, ops, 1)
	require.Equal(t, "Tz", ops[0].Name)
	require.Len(t, ops[0].Operands, 1) // the "1 2" operands were dropped with "zzz"
}

func TestParserQuoteOperators(t *testing.T) {
	src := "(line) ' (line2) 10 20 \""
	ops, errs := contentstream.NewParser([]byte(src)).Parse()
	require.Empty(t, errs)
	require.Len(t, ops, 2)
	require.Equal(t, "'", ops[0].Name)
	require.Equal(t, "\"", ops[1].Name)
	require.Len(t, ops[1].Operands, 3)
}

func TestParserStarOperators(t *testing.T) {
	src := "T* f* B* b* W*"
	ops, errs := contentstream.NewParser([]byte(src)).Parse()
	require.Empty(t, errs)
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	require.Equal(t, []string{"T*", "f*", "B*", "b*", "W*"}, names)
}

func TestParserInlineImage(t *testing.T) {
	src := "BI /W 2 /H 2 /BPC 8 /CS /G ID \x00\xff\xff\x00 EI Q"
	ops, errs := contentstream.NewParser([]byte(src)).Parse()
	require.Empty(t, errs)
	require.Len(t, ops, 2)
	require.Equal(t, "BI", ops[0].Name)
	require.NotNil(t, ops[0].InlineImage)

	w, ok := core.GetInt(ops[0].InlineImage.Dict.Get("Width"))
	require.True(t, ok)
	require.Equal(t, 2, w)
	require.Equal(t, []byte{0x00, 0xff, 0xff, 0x00}, ops[0].InlineImage.Data)
	require.Equal(t, "Q", ops[1].Name)
}

func TestParserResynchronizesAfterBadToken(t *testing.T) {
	src := "1 2 } 3 Tz"
	ops, _ := contentstream.NewParser([]byte(src)).Parse()
	require.Len(t, ops, 1)
	require.Equal(t, "Tz", ops[0].Name)
}
