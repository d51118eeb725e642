package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// normalizeText folds compatibility characters (non-breaking spaces,
// full-width digits and letters) so marker matching sees plain text.
func normalizeText(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFKC.String(s)
	return strings.ReplaceAll(s, "\u200b", "")
}

// isEmptyRow reports whether every cell in row is empty.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// gridWidth returns the length of the longest row.
func gridWidth(grid [][]string) int {
	w := 0
	for _, row := range grid {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// columnNames builds unique column names from a header row.
// Blank headers become "Unnamed: <i>" (the first one "col_0"), repeats get
// ".1", ".2" suffixes.
func columnNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		var name string
		if i < len(header) {
			name = header[i]
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if name == "Unnamed: 0" {
			name = fmt.Sprintf("col_%d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

// nonEmptyColumns keeps the columns holding at least one value in rows.
func nonEmptyColumns(columns []string, rows []Row) []string {
	used := make(map[string]bool, len(columns))
	for _, r := range rows {
		for c := range r.C {
			used[c] = true
		}
	}
	var out []string
	for _, c := range columns {
		if used[c] {
			out = append(out, c)
		}
	}
	return out
}

// mergeArea is the 1-based cell bounds of a merged range.
type mergeArea struct {
	R1, C1, R2, C2 int
}

// parseMergeArea parses the start and end axes of a merged range (e.g. "A1", "A3").
func parseMergeArea(start, end string) *mergeArea {
	startCol, startRow, err := excelize.CellNameToCoordinates(strings.ReplaceAll(start, "$", ""))
	if err != nil {
		return nil
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(strings.ReplaceAll(end, "$", ""))
	if err != nil {
		return nil
	}
	return &mergeArea{R1: startRow, C1: startCol, R2: endRow, C2: endCol}
}

// repairMerges copies each merged range's anchor value down its anchor column.
// Horizontal spans are left alone so labels never leak into numeric columns.
func repairMerges(grid [][]string, merges []excelize.MergeCell) [][]string {
	for _, mc := range merges {
		area := parseMergeArea(mc.GetStartAxis(), mc.GetEndAxis())
		if area == nil || area.R2 <= area.R1 {
			continue
		}
		value := mc.GetCellValue()
		if value == "" {
			continue
		}
		col := area.C1 - 1
		for r := area.R1 - 1; r <= area.R2-1; r++ {
			for len(grid) <= r {
				grid = append(grid, nil)
			}
			for len(grid[r]) <= col {
				grid[r] = append(grid[r], "")
			}
			if grid[r][col] == "" {
				grid[r][col] = value
			}
		}
	}
	return grid
}
