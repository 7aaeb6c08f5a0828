package spec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSentence(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		toks    []string
	}{
		{
			caption: "tokens separated by white spaces",
			src:     "id + id * id\n",
			toks:    []string{"id", "+", "id", "*", "id"},
		},
		{
			caption: "a sentence without white spaces is split into characters",
			src:     "abc",
			toks:    []string{"a", "b", "c"},
		},
		{
			caption: "an empty sentence",
			src:     "  \n",
			toks:    []string{},
		},
		{
			caption: "a BOM is skipped",
			src:     "\xef\xbb\xbfab",
			toks:    []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			toks, err := ParseSentence(strings.NewReader(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.toks, toks)
		})
	}
}
