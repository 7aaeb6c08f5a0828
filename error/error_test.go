package error

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecError_Error(t *testing.T) {
	cause := errors.New("undefined symbol")

	tests := []struct {
		caption string
		err     *SpecError
		msg     string
	}{
		{
			caption: "cause only",
			err: &SpecError{
				Cause: cause,
			},
			msg: "error: undefined symbol",
		},
		{
			caption: "with a row, a column, and a detail",
			err: &SpecError{
				Cause:  cause,
				Detail: "X",
				Row:    3,
				Col:    7,
			},
			msg: "3:7: error: undefined symbol: X",
		},
		{
			caption: "with a source name and a row",
			err: &SpecError{
				Cause:      cause,
				SourceName: "g.txt",
				Row:        2,
			},
			msg: "g.txt: 2: error: undefined symbol",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			assert.Equal(t, tt.msg, tt.err.Error())
			assert.True(t, errors.Is(tt.err, cause))
		})
	}
}

func TestSpecError_QuotesTheSourceLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.txt")
	err := os.WriteFile(path, []byte("S : a A\nA : b B\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	specErr := &SpecError{
		Cause:    errors.New("undefined symbol"),
		FilePath: path,
		Row:      2,
	}
	assert.Equal(t, "2: error: undefined symbol\n    A : b B", specErr.Error())
}

func TestSpecErrors_Error(t *testing.T) {
	errs := SpecErrors{
		{Cause: errors.New("a"), Row: 1},
		{Cause: errors.New("b"), Row: 2},
	}
	assert.Equal(t, "1: error: a\n2: error: b", errs.Error())
	assert.Equal(t, "", SpecErrors{}.Error())
}
