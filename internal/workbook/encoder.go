package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pranav-027/delimited-files-excel-converter/internal/tabular"
)

// SheetName is the single sheet every generated workbook contains.
const SheetName = "Sheet1"

// Encode renders the grid into a standalone .xlsx byte stream with exactly
// one sheet. Cells are written as string values in grid order; no styles,
// no formulas, no header inference. The cell content of the output depends
// only on the grid.
func Encode(grid tabular.Grid) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for r, row := range grid {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("cell coordinates (%d,%d): %w", r, c, err)
			}
			if err := f.SetCellStr(SheetName, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
