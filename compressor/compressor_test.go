package compressor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressor_Compress(t *testing.T) {
	x := 0 // an empty value

	allCompressors := func() []Compressor {
		return []Compressor{
			NewUniqueRowsTable(),
			NewRowDisplacementTable(x),
		}
	}

	tests := []struct {
		caption  string
		original []int
		rowCount int
		colCount int
	}{
		{
			caption: "all cells are filled",
			original: []int{
				1, 1, 1, 1, 1,
				1, 1, 1, 1, 1,
				1, 1, 1, 1, 1,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			caption: "all cells are empty",
			original: []int{
				x, x, x, x, x,
				x, x, x, x, x,
				x, x, x, x, x,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			caption: "an empty row between filled rows",
			original: []int{
				1, 1, 1, 1, 1,
				x, x, x, x, x,
				1, 1, 1, 1, 1,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			// Shifts are negative states and reductions are positive production numbers.
			caption: "an ACTION table",
			original: []int{
				-5, x, x, -4, x, x,
				x, -6, x, x, x, 2147483647,
				x, 2, -7, x, 2, 2,
				x, 4, 4, x, 4, 4,
				-5, x, x, -4, x, x,
				x, 6, 6, x, 6, 6,
			},
			rowCount: 6,
			colCount: 6,
		},
		{
			caption:  "a single cell",
			original: []int{3},
			rowCount: 1,
			colCount: 1,
		},
	}
	for _, tt := range tests {
		for _, comp := range allCompressors() {
			t.Run(fmt.Sprintf("%T/%v", comp, tt.caption), func(t *testing.T) {
				dup := make([]int, len(tt.original))
				copy(dup, tt.original)

				orig, err := NewTable(tt.original, tt.colCount)
				require.NoError(t, err)
				require.NoError(t, comp.Compress(orig))

				for i := 0; i < tt.rowCount; i++ {
					for j := 0; j < tt.colCount; j++ {
						v, err := comp.Lookup(i, j)
						require.NoError(t, err)
						want := tt.original[i*tt.colCount+j]
						if v != want {
							t.Fatalf("unexpected entry (%v, %v); want: %v, got: %v", i, j, want, v)
						}
					}
				}

				// Calling with out-of-range indexes should be an error.
				for _, idx := range [][2]int{{0, -1}, {-1, 0}, {tt.rowCount - 1, tt.colCount}, {tt.rowCount, tt.colCount - 1}} {
					_, err := comp.Lookup(idx[0], idx[1])
					assert.Error(t, err, "(%v, %v)", idx[0], idx[1])
				}

				// The compressor must not break the original table.
				assert.Equal(t, dup, tt.original)
			})
		}
	}
}

func TestUniqueRowsTable_Size(t *testing.T) {
	x := 0
	orig, err := NewTable([]int{
		-5, x, x, -4,
		x, 4, 4, x,
		-5, x, x, -4,
		x, 4, 4, x,
		x, 4, 4, x,
	}, 4)
	require.NoError(t, err)
	assert.Equal(t, 20, orig.Size())

	tab := NewUniqueRowsTable()
	require.NoError(t, tab.Compress(orig))
	assert.Equal(t, []int{0, 1, 0, 1, 1}, tab.RowNums)
	assert.Equal(t, 2*4+5, tab.Size())

	unique, err := tab.Unique()
	require.NoError(t, err)
	assert.Equal(t, 8, unique.Size())
}

func TestRowDisplacementTable_Size(t *testing.T) {
	x := 0
	orig, err := NewTable([]int{
		1, x, x, x,
		x, 2, x, x,
		x, x, 3, x,
		x, x, x, 4,
	}, 4)
	require.NoError(t, err)

	tab := NewRowDisplacementTable(x)
	require.NoError(t, tab.Compress(orig))
	// Each row is placed at the next displacement, so the diagonal takes every other slot.
	assert.Equal(t, []int{0, 1, 2, 3}, tab.Displacement)
	assert.Equal(t, []int{1, x, 2, x, 3, x, 4}, tab.Entries)
	assert.Equal(t, 7+7+4, tab.Size())
}

func TestNewTable(t *testing.T) {
	_, err := NewTable(nil, 1)
	assert.Error(t, err)
	_, err = NewTable([]int{1, 2, 3}, 0)
	assert.Error(t, err)
	_, err = NewTable([]int{1, 2, 3}, 2)
	assert.Error(t, err)

	tab, err := NewTable([]int{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	v, err := tab.Lookup(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}
