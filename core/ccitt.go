/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"bytes"
	"io"

	"golang.org/x/image/ccitt"

	"github.com/docsurface/pdftext/common"
)

// ccittDecode attempts a real Group 4 (/K < 0) bitmap decode via
// golang.org/x/image/ccitt, packing rows to 1-bit-per-pixel consistent with
// /BlackIs1. Group 3 streams, and any stream whose parameters this core
// cannot confidently interpret, pass through unchanged: §4.C explicitly
// allows CCITTFax to be pass-through for text-extraction purposes, and
// nothing downstream of the filter pipeline looks at image samples.
func ccittDecode(data []byte, parms *Dictionary) ([]byte, error) {
	if parms == nil {
		return data, nil
	}
	k := 0
	if v, ok := GetInt(parms.Get("K")); ok {
		k = v
	}
	if k >= 0 {
		// Group 3 (1D or mixed 2D); not decoded, pass through.
		return data, nil
	}
	columns := 1728
	if v, ok := GetInt(parms.Get("Columns")); ok {
		columns = v
	}
	rows := 0
	if v, ok := GetInt(parms.Get("Rows")); ok {
		rows = v
	}
	blackIs1 := false
	if v, ok := GetBool(parms.Get("BlackIs1")); ok {
		blackIs1 = v
	}

	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, ccitt.Group4, columns, rows, &ccitt.Options{
		Invert: !blackIs1,
	})
	out, err := io.ReadAll(r)
	if err != nil {
		common.Log.Debug("CCITTFaxDecode: Group4 decode failed, passing through raw bytes: %v", err)
		return data, nil
	}
	return out, nil
}
