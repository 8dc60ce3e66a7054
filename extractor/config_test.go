/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docsurface/pdftext/extractor"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, extractor.DefaultConfig().Validate())
}

func TestConfigRejectsPositiveWordBoundaryThreshold(t *testing.T) {
	cfg := extractor.DefaultConfig()
	cfg.TJWordBoundaryThreshold = 10
	require.Error(t, cfg.Validate())
}

func TestConfigRejectsZeroMergeMaxGap(t *testing.T) {
	cfg := extractor.DefaultConfig()
	cfg.MergeMaxGap = 0
	require.Error(t, cfg.Validate())
}

func TestConfigRejectsOutOfRangeGutterFraction(t *testing.T) {
	cfg := extractor.DefaultConfig()
	cfg.ColumnGutterDensityFraction = 1.5
	require.Error(t, cfg.Validate())
}
