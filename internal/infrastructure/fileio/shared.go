package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadAnyMaps picks a reader by file extension and returns data rows keyed by header.
// headerRow is 1-based; rows below it become records and blank rows are skipped.
func ReadAnyMaps(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	if headerRow <= 0 {
		headerRow = 1
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv":
		return readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
}

// pickHeader returns the trimmed header row, naming empty cells "Column N"
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx >= len(rows) {
		idx = 0
	}

	header := make([]string, len(rows[idx]))
	for i, v := range rows[idx] {
		v = strings.TrimSpace(strings.TrimPrefix(v, "\ufeff"))
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		header[i] = v
	}
	return header
}

// rowsToMaps converts the rows after the header into maps, dropping blank rows
func rowsToMaps(rows [][]string, header []string, headerRow int) []map[string]string {
	var out []map[string]string
	for _, rec := range rows[min(headerRow, len(rows)):] {
		m := make(map[string]string, len(header))
		blank := true
		for c, name := range header {
			var v string
			if c < len(rec) {
				v = strings.TrimSpace(rec[c])
			}
			if v != "" {
				blank = false
			}
			m[name] = v
		}
		if !blank {
			out = append(out, m)
		}
	}
	return out
}
