package fileio

import (
	"io"

	excelize "github.com/xuri/excelize/v2"
)

// readXLSX reads the first sheet of a workbook
func readXLSX(r io.Reader, headerRow int) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := pickHeader(rows, headerRow)
	return rowsToMaps(rows, header, headerRow), nil
}
