package fileio

import (
	"bytes"
	"errors"
	"io"
	"strings"

	xls "github.com/extrame/xls"
)

// maxXLSColumns bounds the column scan; Row.LastCol is unreliable in legacy exports
const maxXLSColumns = 256

// xlsCharsets are tried in order when opening legacy workbooks
var xlsCharsets = []string{"windows-1251", "utf-8"}

// readXLS reads the first sheet of a legacy Excel workbook
func readXLS(r io.Reader, headerRow int) ([]map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var wb *xls.WorkBook
	lastErr := errors.New("xls: failed to open workbook")
	for _, charset := range xlsCharsets {
		wb, err = xls.OpenReader(bytes.NewReader(data), charset)
		if err == nil && wb != nil {
			break
		}
		if err != nil {
			lastErr = err
		}
	}
	if wb == nil {
		return nil, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	width := sheetWidth(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		cols := make([]string, width)
		if row := sheet.Row(i); row != nil {
			for j := 0; j < width; j++ {
				cols[j] = strings.TrimSpace(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := pickHeader(rows, headerRow)
	return rowsToMaps(rows, header, headerRow), nil
}

// sheetWidth returns the index after the last non-empty column of any row
func sheetWidth(sheet *xls.WorkSheet) int {
	width := 1
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := width; j < maxXLSColumns; j++ {
			if strings.TrimSpace(row.Col(j)) != "" {
				width = j + 1
			}
		}
	}
	return width
}
