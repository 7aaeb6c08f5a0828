package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Table is a dense table of ints in row-major order.
type Table struct {
	entries  []int
	rowCount int
	colCount int
}

func NewTable(entries []int, colCount int) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("a table needs at least one entry")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("a table needs at least one column")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("%v entries cannot be divided into rows of %v columns", len(entries), colCount)
	}

	return &Table{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (t *Table) Lookup(row, col int) (int, error) {
	if row < 0 || row >= t.rowCount || col < 0 || col >= t.colCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return t.entries[row*t.colCount+col], nil
}

// Size returns the number of ints the table holds.
func (t *Table) Size() int {
	return len(t.entries)
}

// Compressor packs a table into fewer ints and still answers lookups of the original table.
type Compressor interface {
	Compress(orig *Table) error
	Lookup(row, col int) (int, error)
	Size() int
}

var (
	_ Compressor = &UniqueRowsTable{}
	_ Compressor = &RowDisplacementTable{}
)

// UniqueRowsTable shares rows having the same entries. LR tables have many such rows because
// states that only reduce by one production have identical ACTION rows.
type UniqueRowsTable struct {
	UniqueRows []int
	RowNums    []int
	RowCount   int
	ColCount   int
}

func NewUniqueRowsTable() *UniqueRowsTable {
	return &UniqueRowsTable{}
}

func (tab *UniqueRowsTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.RowCount || col < 0 || col >= tab.ColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueRows[tab.RowNums[row]*tab.ColCount+col], nil
}

func (tab *UniqueRowsTable) Size() int {
	return len(tab.UniqueRows) + len(tab.RowNums)
}

// Unique returns the unique rows as a table.
func (tab *UniqueRowsTable) Unique() (*Table, error) {
	return NewTable(tab.UniqueRows, tab.ColCount)
}

func (tab *UniqueRowsTable) Compress(orig *Table) error {
	var uniqueRows []int
	rowNums := make([]int, orig.rowCount)
	key2RowNum := map[string]int{}
	for row := 0; row < orig.rowCount; row++ {
		start := row * orig.colCount
		cells := orig.entries[start : start+orig.colCount]

		key := make([]byte, 0, orig.colCount*binary.MaxVarintLen64)
		for _, v := range cells {
			key = binary.AppendVarint(key, int64(v))
		}
		rowNum, ok := key2RowNum[string(key)]
		if !ok {
			rowNum = len(key2RowNum)
			key2RowNum[string(key)] = rowNum
			uniqueRows = append(uniqueRows, cells...)
		}
		rowNums[row] = rowNum
	}

	tab.UniqueRows = uniqueRows
	tab.RowNums = rowNums
	tab.RowCount = orig.rowCount
	tab.ColCount = orig.colCount

	return nil
}

const noRow = -1

// RowDisplacementTable overlays sparse rows on one array. Each row is shifted by its displacement
// so that its non-empty cells land on free slots, and Bounds tells which row owns a slot.
type RowDisplacementTable struct {
	RowCount     int
	ColCount     int
	EmptyValue   int
	Entries      []int
	Bounds       []int
	Displacement []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if row < 0 || row >= tab.RowCount || col < 0 || col >= tab.ColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.Displacement[row]
	if d+col >= len(tab.Bounds) || tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable) Size() int {
	return len(tab.Entries) + len(tab.Bounds) + len(tab.Displacement)
}

type sparseRow struct {
	num  int
	cols []int
}

func (tab *RowDisplacementTable) Compress(orig *Table) error {
	rows := make([]*sparseRow, orig.rowCount)
	for row := 0; row < orig.rowCount; row++ {
		r := &sparseRow{
			num: row,
		}
		for col := 0; col < orig.colCount; col++ {
			if orig.entries[row*orig.colCount+col] != tab.EmptyValue {
				r.cols = append(r.cols, col)
			}
		}
		rows[row] = r
	}
	// Placing dense rows first leaves gaps that sparse rows fill.
	sort.SliceStable(rows, func(i int, j int) bool {
		return len(rows[i].cols) > len(rows[j].cols)
	})

	size := len(orig.entries)
	entries := make([]int, size)
	bounds := make([]int, size)
	for i := 0; i < size; i++ {
		entries[i] = tab.EmptyValue
		bounds[i] = noRow
	}
	displacement := make([]int, orig.rowCount)
	bottom := 0
	next := 0
	for _, r := range rows {
		if len(r.cols) == 0 {
			continue
		}
		for {
			free := true
			for _, col := range r.cols {
				if bounds[next+col] != noRow {
					free = false
					break
				}
			}
			if free {
				break
			}
			next++
		}

		displacement[r.num] = next
		for _, col := range r.cols {
			entries[next+col] = orig.entries[r.num*orig.colCount+col]
			bounds[next+col] = r.num
			if next+col+1 > bottom {
				bottom = next + col + 1
			}
		}
		next++
	}

	tab.RowCount = orig.rowCount
	tab.ColCount = orig.colCount
	tab.Entries = entries[:bottom]
	tab.Bounds = bounds[:bottom]
	tab.Displacement = displacement

	return nil
}
