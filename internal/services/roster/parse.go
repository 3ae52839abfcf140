package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

var ErrUnreadable = errors.New("file is not a readable XLSX or CSV spreadsheet")

var zipMagic = []byte("PK\x03\x04")

// record is one data row keyed by normalized header name. Line is the row
// number as shown by a spreadsheet program (the header is line 1).
type record struct {
	Line   int
	Fields map[string]string
}

// parse reads the first sheet of an XLSX workbook, or a CSV file, into
// records. Rows where every cell is blank are dropped.
func parse(data []byte) ([]record, error) {
	var (
		rows  [][]string
		lines []int
		err   error
	)
	switch {
	case bytes.HasPrefix(data, zipMagic):
		rows, lines, err = readXLSX(data)
	case utf8.Valid(data):
		rows, lines, err = readCSV(data)
	default:
		return nil, ErrUnreadable
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var out []record
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		fields := make(map[string]string, len(header))
		for col, name := range header {
			if name == "" || col >= len(row) {
				continue
			}
			fields[name] = row[col]
		}
		out = append(out, record{Line: lines[i+1], Fields: fields})
	}
	return out, nil
}

func readXLSX(data []byte) ([][]string, []int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 1
	}
	return rows, lines, nil
}

func readCSV(data []byte) ([][]string, []int, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var (
		rows  [][]string
		lines []int
	)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, row)
		lines = append(lines, line)
	}
	return rows, lines, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
