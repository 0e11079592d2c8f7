// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package batchconv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

func xlsxToCSV(data []byte, _ ConvertOptions) ([]byte, error) {
	sheets, err := xlsxSheets(data)
	if err != nil {
		return nil, err
	}
	return sheetsToCSV(sheets)
}

func xlsxToMarkdown(data []byte, _ ConvertOptions) ([]byte, error) {
	sheets, err := xlsxSheets(data)
	if err != nil {
		return nil, err
	}
	return sheetsToMarkdown(sheets), nil
}

func xlsToCSV(data []byte, _ ConvertOptions) ([]byte, error) {
	sheets, err := xlsSheets(data)
	if err != nil {
		return nil, err
	}
	return sheetsToCSV(sheets)
}

func xlsToMarkdown(data []byte, _ ConvertOptions) ([]byte, error) {
	sheets, err := xlsSheets(data)
	if err != nil {
		return nil, err
	}
	return sheetsToMarkdown(sheets), nil
}

// csvToXLSX builds a single-sheet workbook from a CSV payload.
func csvToXLSX(data []byte, _ ConvertOptions) ([]byte, error) {
	records, err := parseCSV(data)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("set row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func csvToMarkdown(data []byte, _ ConvertOptions) ([]byte, error) {
	records, err := parseCSV(data)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return []byte(renderMarkdownTable(records)), nil
}

// sheet is a named grid of cell values.
type sheet struct {
	Name string
	Rows [][]string
}

func xlsxSheets(data []byte) ([]sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open XLSX: %w", err)
	}
	defer f.Close()

	var sheets []sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		sheets = append(sheets, sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

func xlsSheets(data []byte) ([]sheet, error) {
	// extrame/xls requires a file path, so spill to a temp file first.
	tmpFile, err := os.CreateTemp("", "batchconv-*.xls")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmpFile, bytes.NewReader(data)); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmpFile.Close()

	wb, err := xls.Open(tmpPath, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open XLS: %w", err)
	}

	var sheets []sheet
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}

		name := ws.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}

		var rows [][]string
		maxRow := int(ws.MaxRow)
		for rowIdx := 0; rowIdx <= maxRow; rowIdx++ {
			row := ws.Row(rowIdx)
			if row == nil {
				continue
			}
			var cells []string
			lastCol := row.LastCol()
			for colIdx := 0; colIdx < lastCol; colIdx++ {
				cells = append(cells, row.Col(colIdx))
			}
			rows = append(rows, cells)
		}
		if len(rows) == 0 {
			continue
		}
		sheets = append(sheets, sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

// sheetsToCSV flattens every sheet into one CSV stream. Multi-sheet
// workbooks get a comment-style sheet marker between sections.
func sheetsToCSV(sheets []sheet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for i, s := range sheets {
		if len(sheets) > 1 {
			if err := w.Write([]string{fmt.Sprintf("# %s", s.Name)}); err != nil {
				return nil, fmt.Errorf("write CSV: %w", err)
			}
		}
		for _, row := range s.Rows {
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("write CSV: %w", err)
			}
		}
		if i < len(sheets)-1 {
			if err := w.Write([]string{""}); err != nil {
				return nil, fmt.Errorf("write CSV: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func sheetsToMarkdown(sheets []sheet) []byte {
	var md strings.Builder
	for _, s := range sheets {
		fmt.Fprintf(&md, "## %s\n", s.Name)
		md.WriteString(renderMarkdownTable(s.Rows))
		md.WriteString("\n")
	}
	return []byte(md.String())
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(decodeText(data)))
	r.FieldsPerRecord = -1 // allow variable fields
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}
	return records, nil
}

// renderMarkdownTable renders a 2D string slice as a markdown table. The
// first row is treated as the header.
func renderMarkdownTable(records [][]string) string {
	if len(records) == 0 {
		return ""
	}

	numCols := len(records[0])

	var b strings.Builder

	b.WriteString("| ")
	for i := 0; i < numCols; i++ {
		if i < len(records[0]) {
			b.WriteString(records[0][i])
		}
		b.WriteString(" | ")
	}
	b.WriteString("\n")

	b.WriteString("| ")
	for i := 0; i < numCols; i++ {
		b.WriteString("---")
		b.WriteString(" | ")
	}
	b.WriteString("\n")

	for _, row := range records[1:] {
		b.WriteString("| ")
		for i := 0; i < numCols; i++ {
			if i < len(row) {
				b.WriteString(row[i])
			}
			b.WriteString(" | ")
		}
		b.WriteString("\n")
	}

	return b.String()
}
