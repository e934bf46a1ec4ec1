package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const detectSample = 4096

// readCSV reads a CSV export, converting Windows-1251 to UTF-8 when detected.
// The delimiter is a semicolon when the first line has more semicolons than commas.
func readCSV(r io.Reader, headerRow int) ([]map[string]string, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(detectSample)
	var src io.Reader = br
	if isWindows1251(peek) {
		src = transform.NewReader(br, charmap.Windows1251.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = sniffDelimiter(peek)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := pickHeader(rows, headerRow)
	return rowsToMaps(rows, header, headerRow), nil
}

func isWindows1251(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil {
		return false
	}
	switch strings.ToLower(res.Charset) {
	case "windows-1251", "cp1251":
		return true
	}
	return false
}

func sniffDelimiter(sample []byte) rune {
	line := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		line = sample[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
