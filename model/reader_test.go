/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docsurface/pdftext/core"
	"github.com/docsurface/pdftext/model"
)

// buildMinimalPDF assembles a tiny single-page classic-xref PDF at test
// time, computing each object's byte offset as it is appended, so the xref
// table it emits is always consistent with the body above it.
func buildMinimalPDF(t *testing.T) []byte {
	t.Helper()

	var buf strings.Builder
	offsets := make([]int, 6) // index 0 unused (the free-list head)

	buf.WriteString("%PDF-1.4\n")

	write := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	write(1, "<< /Type /Catalog /Pages 2 0 R >>")
	write(2, "<< /Type /Pages /Kids [ 3 0 R ] /Count 1 >>")
	write(3, "<< /Type /Page /Parent 2 0 R /MediaBox [ 0 0 612 792 ] "+
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	write(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	content := "BT /F1 12 Tf (Hi) Tj ET"
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

func TestReaderOpenAndPageCount(t *testing.T) {
	r, err := model.NewReader(buildMinimalPDF(t))
	require.NoError(t, err)

	major, minor := r.Version()
	require.Equal(t, 1, major)
	require.Equal(t, 4, minor)

	n, err := r.PageCount()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestReaderGetPageResourcesAndContent(t *testing.T) {
	r, err := model.NewReader(buildMinimalPDF(t))
	require.NoError(t, err)

	page, err := r.Page(0)
	require.NoError(t, err)
	require.Equal(t, float64(612), page.MediaBox.Width())
	require.Equal(t, float64(792), page.MediaBox.Height())

	f, ok := page.Resources.Font("F1")
	require.True(t, ok)
	require.Equal(t, "Helvetica", f.BaseFont)

	content, err := page.ContentBytes()
	require.NoError(t, err)
	require.Equal(t, "BT /F1 12 Tf (Hi) Tj ET", string(content))
}

func TestReaderPageOutOfRange(t *testing.T) {
	r, err := model.NewReader(buildMinimalPDF(t))
	require.NoError(t, err)

	_, err = r.Page(5)
	require.Error(t, err)
}

func TestReaderCatalog(t *testing.T) {
	r, err := model.NewReader(buildMinimalPDF(t))
	require.NoError(t, err)

	cat, err := r.Catalog()
	require.NoError(t, err)
	name, ok := core.GetNameVal(cat.Get("Type"))
	require.True(t, ok)
	require.Equal(t, "Catalog", name)
}
