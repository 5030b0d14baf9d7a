package dataset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ollawv/dataset"
)

func TestParse_ParsesLabelsAndFeatures(t *testing.T) {
	input := "cat 0:1.5 2:-0.5\n# a comment\n\ndog 1:3.0\n"
	records, err := dataset.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "cat", records[0].Label)
	assert.Equal(t, []dataset.Feature{{ID: 0, Value: 1.5}, {ID: 2, Value: -0.5}}, records[0].Features)

	assert.Equal(t, "dog", records[1].Label)
	assert.Equal(t, []dataset.Feature{{ID: 1, Value: 3.0}}, records[1].Features)
}

func TestParse_RejectsMalformedRows(t *testing.T) {
	cases := []string{
		"cat 0-1.5",     // missing ':'
		"cat x:1.5",     // non-numeric id
		"cat 0:notanum", // non-numeric value
		"cat 0:1 0:2",   // duplicate feature id
		"cat -1:1",      // negative id
	}
	for _, c := range cases {
		_, err := dataset.Parse(strings.NewReader(c))
		assert.ErrorIs(t, err, dataset.ErrInputMalformed, "input: %q", c)
	}
}

func TestOpen_MissingFileWrapsErrInputMissing(t *testing.T) {
	_, err := dataset.Open("/nonexistent/path/does-not-exist.libsvm")
	assert.ErrorIs(t, err, dataset.ErrInputMissing)
}
