package grammar

import (
	"fmt"

	"github.com/nihei9/gramlab/compressor"
)

// TableSize is the number of ints an ACTION/GOTO table takes. Dense is the plain table,
// UniqueRows shares identical rows, and Compressed also overlays the unique rows by row
// displacement. A conflicting cell counts its first action only.
type TableSize struct {
	Dense      int
	UniqueRows int
	Compressed int
}

func (t *ParsingTable) Size() (*TableSize, error) {
	action := make([]int, len(t.actionTable))
	for i, e := range t.actionTable {
		action[i] = int(e)
	}
	goTo := make([]int, len(t.goToTable))
	for i, e := range t.goToTable {
		goTo[i] = int(e)
	}

	size := &TableSize{}
	for _, tab := range []struct {
		name       string
		entries    []int
		colCount   int
		emptyValue int
	}{
		{"ACTION", action, t.terminalCount, int(actionEntryEmpty)},
		{"GOTO", goTo, t.nonTerminalCount, int(goToEntryEmpty)},
	} {
		dense, unique, compressed, err := compressTable(tab.entries, tab.colCount, tab.emptyValue)
		if err != nil {
			return nil, fmt.Errorf("failed to compress the %v table: %w", tab.name, err)
		}
		size.Dense += dense
		size.UniqueRows += unique
		size.Compressed += compressed
	}
	return size, nil
}

func compressTable(entries []int, colCount int, emptyValue int) (int, int, int, error) {
	orig, err := compressor.NewTable(entries, colCount)
	if err != nil {
		return 0, 0, 0, err
	}

	ueTab := compressor.NewUniqueRowsTable()
	err = ueTab.Compress(orig)
	if err != nil {
		return 0, 0, 0, err
	}

	rdTab := compressor.NewRowDisplacementTable(emptyValue)
	{
		unique, err := ueTab.Unique()
		if err != nil {
			return 0, 0, 0, err
		}
		err = rdTab.Compress(unique)
		if err != nil {
			return 0, 0, 0, err
		}
	}

	return orig.Size(), ueTab.Size(), len(ueTab.RowNums) + rdTab.Size(), nil
}
