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

type recordingHandler struct {
	flushes   int
	shown     []string
	dos       []string
	flushedGS []*contentstream.GraphicsState
}

func (h *recordingHandler) Flush(gs *contentstream.GraphicsState) error {
	h.flushes++
	h.flushedGS = append(h.flushedGS, gs)
	return nil
}
func (h *recordingHandler) ShowText(s string, gs *contentstream.GraphicsState) error {
	h.shown = append(h.shown, s)
	return nil
}
func (h *recordingHandler) ShowTextArray(elems []core.Object, gs *contentstream.GraphicsState) error {
	for _, e := range elems {
		if s, ok := core.GetStringVal(e); ok {
			h.shown = append(h.shown, s)
		}
	}
	return nil
}
func (h *recordingHandler) Do(name string, gs *contentstream.GraphicsState) error {
	h.dos = append(h.dos, name)
	return nil
}
func (h *recordingHandler) InlineImage(img *contentstream.InlineImage, gs *contentstream.GraphicsState) error {
	return nil
}

func TestProcessorCTMAndSaveRestore(t *testing.T) {
	ops, errs := contentstream.NewParser([]byte("q 1 0 0 1 10 20 cm 2 0 0 2 0 0 cm Q")).Parse()
	require.Empty(t, errs)

	proc := contentstream.NewProcessor(nil, &recordingHandler{})
	require.NoError(t, proc.Execute(ops))
	require.Equal(t, 1, proc.Stack().Depth())
	require.Equal(t, contentstream.IdentityMatrix(), proc.Current().CTM)
}

func TestProcessorCTMCompositionPersistsWithoutQ(t *testing.T) {
	ops, _ := contentstream.NewParser([]byte("1 0 0 1 10 20 cm 2 0 0 2 0 0 cm")).Parse()
	proc := contentstream.NewProcessor(nil, &recordingHandler{})
	require.NoError(t, proc.Execute(ops))
	x, y := proc.Current().CTM.TransformPoint(1, 1)
	require.Equal(t, float64(12), x)
	require.Equal(t, float64(22), y)
}

func TestProcessorTextShowingAndFlush(t *testing.T) {
	src := "BT /F1 12 Tf 1 0 0 1 100 700 Tm (Hello) Tj T* (World) Tj ET"
	ops, _ := contentstream.NewParser([]byte(src)).Parse()
	h := &recordingHandler{}
	proc := contentstream.NewProcessor(nil, h)
	require.NoError(t, proc.Execute(ops))
	require.Equal(t, []string{"Hello", "World"}, h.shown)
	require.GreaterOrEqual(t, h.flushes, 2) // Tf and Tm each flush before taking effect
}

func TestProcessorDeviceColorOperators(t *testing.T) {
	ops, _ := contentstream.NewParser([]byte("1 0 0 rg 0.5 g")).Parse()
	proc := contentstream.NewProcessor(nil, &recordingHandler{})
	require.NoError(t, proc.Execute(ops))
	gs := proc.Current()
	require.Equal(t, 0.5, gs.FillColor.R)
	require.Equal(t, 0.5, gs.FillColor.G)
	require.Equal(t, 0.5, gs.FillColor.B)
}

func TestProcessorBDCSetsMCIDAndEMCClears(t *testing.T) {
	ops, errs := contentstream.NewParser([]byte("/P << /MCID 3 >> BDC (x) Tj EMC")).Parse()
	require.Empty(t, errs)
	h := &recordingHandler{}
	proc := contentstream.NewProcessor(nil, h)

	// Drive one operator at a time so we can observe MCID between BDC and EMC.
	for _, op := range ops {
		if op.Name == "Tj" {
			require.NotNil(t, proc.Current().MarkedContentID)
			require.Equal(t, 3, *proc.Current().MarkedContentID)
		}
		require.NoError(t, proc.Execute([]*contentstream.Operator{op}))
	}
	require.Nil(t, proc.Current().MarkedContentID)
}

func TestProcessorDoDispatchesToHandler(t *testing.T) {
	ops, _ := contentstream.NewParser([]byte("/Fm1 Do")).Parse()
	h := &recordingHandler{}
	proc := contentstream.NewProcessor(nil, h)
	require.NoError(t, proc.Execute(ops))
	require.Equal(t, []string{"Fm1"}, h.dos)
}
