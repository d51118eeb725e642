package sheet

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound indicates the requested worksheet does not exist in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// Load opens the workbook at path and returns the named worksheet as a cleaned Sheet.
func Load(path, sheetName string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadFile(f, sheetName)
}

// LoadFile reads sheetName from an open workbook.
//
// Raw cell values are read, vertically merged ranges are repaired, the first
// non-empty row becomes the column names and all-empty rows and columns are
// dropped.
func LoadFile(f *excelize.File, sheetName string) (*Sheet, error) {
	idx, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
	}

	grid, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	merges, err := f.GetMergeCells(sheetName)
	if err == nil {
		grid = repairMerges(grid, merges)
	}

	return fromGrid(sheetName, grid), nil
}

// fromGrid converts a raw 0-indexed cell grid into a Sheet.
func fromGrid(name string, grid [][]string) *Sheet {
	for i := range grid {
		for j := range grid[i] {
			grid[i][j] = normalizeText(grid[i][j])
		}
	}

	headerIdx := -1
	for i, row := range grid {
		if !isEmptyRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return New(name, nil, nil)
	}

	width := gridWidth(grid)
	columns := columnNames(grid[headerIdx], width)

	var rows []Row
	for i := headerIdx + 1; i < len(grid); i++ {
		if isEmptyRow(grid[i]) {
			continue
		}
		cells := make(map[string]string)
		for j, v := range grid[i] {
			if v == "" {
				continue
			}
			cells[columns[j]] = v
		}
		rows = append(rows, Row{R: i + 1, C: cells})
	}

	return New(name, nonEmptyColumns(columns, rows), rows)
}
