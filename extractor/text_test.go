/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package extractor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docsurface/pdftext/model"
)

// buildPDF assembles a tiny single-page classic-xref PDF with one Type1 font
// and the given content stream body, computing each object's byte offset as
// it goes so the xref table stays consistent with the body above it.
func buildPDF(t *testing.T, content string) []byte {
	t.Helper()
	return buildPDFWithFont(t, "Helvetica", content)
}

func buildPDFWithFont(t *testing.T, baseFont, content string) []byte {
	t.Helper()

	var buf strings.Builder
	offsets := make([]int, 6)

	buf.WriteString("%PDF-1.4\n")
	write := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	write(1, "<< /Type /Catalog /Pages 2 0 R >>")
	write(2, "<< /Type /Pages /Kids [ 3 0 R ] /Count 1 >>")
	write(3, "<< /Type /Page /Parent 2 0 R /MediaBox [ 0 0 612 792 ] "+
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	write(4, fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s >>", baseFont))

	offsets[5] = buf.Len()
	fmt.Fprintf(&buf, "5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(content), content)

	xrefOffset := buf.Len()
	buf.WriteString("xref\n0 6\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&buf, "%010d %05d n \n", offsets[i], 0)
	}
	buf.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF", xrefOffset)

	return []byte(buf.String())
}

func extractSpans(t *testing.T, content string) []TextSpan {
	t.Helper()
	r, err := model.NewReader(buildPDF(t, content))
	require.NoError(t, err)
	page, err := r.Page(0)
	require.NoError(t, err)

	ex := NewExtractor(r.Doc, DefaultConfig())
	spans, err := ex.ExtractPage(page)
	require.NoError(t, err)
	return spans
}

func TestExtractPageSingleRun(t *testing.T) {
	spans := extractSpans(t, "BT /F1 12 Tf 1 0 0 1 100 700 Tm (Hello) Tj ET")
	require.Len(t, spans, 1)
	require.Equal(t, "Hello", spans[0].Text)
	require.Equal(t, float64(100), spans[0].X)
	require.Equal(t, float64(700), spans[0].Y)
}

func TestExtractPageTwoLinesOrderedTopDown(t *testing.T) {
	spans := extractSpans(t, "BT /F1 12 Tf 1 0 0 1 100 700 Tm (First) Tj "+
		"1 0 0 1 100 680 Tm (Second) Tj ET")
	require.Len(t, spans, 2)
	require.Equal(t, "First", spans[0].Text)
	require.Equal(t, "Second", spans[1].Text)
}

func TestExtractPageTJArrayConcatenatesAdjacentRuns(t *testing.T) {
	spans := extractSpans(t, "BT /F1 12 Tf 1 0 0 1 100 700 Tm [(Hel)(lo)] TJ ET")
	require.Len(t, spans, 1)
	require.Equal(t, "Hello", spans[0].Text)
}

func TestExtractPageTJLargeNegativeAdjustmentBreaksWord(t *testing.T) {
	spans := extractSpans(t, "BT /F1 12 Tf 1 0 0 1 100 700 Tm [(Hello)-300(World)] TJ ET")
	require.GreaterOrEqual(t, len(spans), 2)
	require.Equal(t, "Hello", spans[0].Text)
}

func TestExtractPageNoTextProducesNoSpans(t *testing.T) {
	spans := extractSpans(t, "q 1 0 0 1 0 0 cm Q")
	require.Empty(t, spans)
}

func TestExtractPageSpanCarriesFontWeight(t *testing.T) {
	r, err := model.NewReader(buildPDFWithFont(t, "Helvetica-Bold", "BT /F1 12 Tf 1 0 0 1 100 700 Tm (Hi) Tj ET"))
	require.NoError(t, err)
	page, err := r.Page(0)
	require.NoError(t, err)

	ex := NewExtractor(r.Doc, DefaultConfig())
	spans, err := ex.ExtractPage(page)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	require.Equal(t, "Bold", spans[0].Weight)
}

func TestExtractPageSpanSequenceNumbersAssignedInEmissionOrder(t *testing.T) {
	spans := extractSpans(t, "BT /F1 12 Tf 1 0 0 1 100 700 Tm (First) Tj "+
		"1 0 0 1 100 680 Tm (Second) Tj ET")
	require.Len(t, spans, 2)
	require.Equal(t, 0, spans[0].Seq)
	require.Equal(t, 1, spans[1].Seq)
}

func TestExtractPageIsIdempotentAcrossCalls(t *testing.T) {
	r, err := model.NewReader(buildPDF(t, "BT /F1 12 Tf 1 0 0 1 100 700 Tm (First) Tj "+
		"1 0 0 1 100 680 Tm (Second) Tj ET"))
	require.NoError(t, err)
	page, err := r.Page(0)
	require.NoError(t, err)

	ex := NewExtractor(r.Doc, DefaultConfig())
	first, err := ex.ExtractPage(page)
	require.NoError(t, err)
	second, err := ex.ExtractPage(page)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 0, second[0].Seq)
}
