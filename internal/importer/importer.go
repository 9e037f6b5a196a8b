// Package importer reads sprite lists from plain text, CSV and Excel files.
// Only entries naming a PNG source are kept; everything else is reported
// as a warning.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SpriteCut/internal/codec"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Paths    []string
	Errors   []string
	Warnings []string
}

// pathAliases are the accepted header names of the path column (all lowercase).
var pathAliases = []string{"path", "file", "filename", "file name", "image", "sprite", "source", "png"}

// ImportList imports a sprite list, choosing the reader by file extension.
// Files that are neither CSV nor Excel are read as whitespace-separated
// path lists.
func ImportList(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return ImportCSV(path)
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path)
	default:
		return ImportText(path)
	}
}

// ImportText imports a list of whitespace-separated paths.
func ImportText(path string) ImportResult {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	defer f.Close()
	return ImportTextFromReader(f)
}

// ImportTextFromReader imports whitespace-separated paths from r.
func ImportTextFromReader(r io.Reader) ImportResult {
	result := ImportResult{}

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	n := 0
	for sc.Scan() {
		n++
		addPath(&result, sc.Text(), fmt.Sprintf("Entry %d", n))
	}
	if err := sc.Err(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read list: %v", err))
	}
	if n == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "File is empty")
	}
	return result
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectPathColumn examines a header row and returns the index of the path
// column and true, or 0 and false when the row is not a header.
func DetectPathColumn(row []string) (int, bool) {
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for _, alias := range pathAliases {
			if normalized == alias {
				return i, true
			}
		}
	}
	return 0, false
}

// ImportCSV imports a sprite list from a CSV file.
// It automatically detects the delimiter and the path column.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	result = ImportCSVFromReader(bytes.NewReader(data), delimiter)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// ImportCSVFromReader imports a sprite list from a CSV reader with a
// specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line")
}

// ImportExcel imports a sprite list from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row")
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string) ImportResult {
	result := ImportResult{}

	col, hasHeader := DetectPathColumn(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := startRow; i < len(rows); i++ {
		cell := getCell(rows[i], col)
		if cell == "" {
			continue
		}
		addPath(&result, cell, fmt.Sprintf("%s %d", rowPrefix, i+1))
	}

	if len(result.Paths) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No sprite paths found")
	}
	return result
}

// addPath keeps p if it names a PNG file.
func addPath(result *ImportResult, p, label string) {
	if !codec.HasExt(p) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Skipping '%s', not a %s file", label, p, codec.Ext))
		return
	}
	result.Paths = append(result.Paths, p)
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
