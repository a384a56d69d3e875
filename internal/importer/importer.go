// Package importer turns externally supplied tabular sources into
// validated candidate submissions. Parsing and validation never touch
// persisted state; committing a validated batch is the bulk create
// operation's job.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/geobase-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// columnAliases maps accepted header spellings (Hebrew and English) to the
// four canonical fields. Matching is case-insensitive and trimmed;
// unmapped columns are dropped.
var columnAliases = map[string]string{
	"שאלה":     "question",
	"תשובה":    "answer",
	"קטגוריה":  "category",
	"מקור":     "source",
	"question": "question",
	"answer":   "answer",
	"category": "category",
	"source":   "source",
}

// CanonicalField resolves a raw column header to its canonical field name.
// Returns ("", false) for headers that are not part of the import schema.
func CanonicalField(header string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(header))
	field, ok := columnAliases[key]
	return field, ok
}

// CountWords returns the whitespace-delimited word count of s
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// Parse reads a spreadsheet in the format implied by the filename
// extension and returns its rows with canonical field names.
func Parse(filename string, r io.Reader) ([]models.RawRow, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx", ".xlsm":
		return ParseXLSX(r)
	case ".xls":
		return nil, fmt.Errorf("legacy .xls files are not supported, convert to .xlsx or .csv")
	default:
		return nil, fmt.Errorf("unsupported file format %q, use .xlsx or .csv", ext)
	}
}

// ParseCSV reads CSV input. The first record is the header row; columns
// that do not resolve to a canonical field are dropped.
func ParseCSV(r io.Reader) ([]models.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	fields := headerFields(header)
	var rows []models.RawRow

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if row, ok := mapRecord(fields, record); ok {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// ParseXLSX reads the first sheet of an XLSX workbook
func ParseXLSX(r io.Reader) ([]models.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	fields := headerFields(records[0])
	var rows []models.RawRow

	for _, record := range records[1:] {
		if row, ok := mapRecord(fields, record); ok {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// headerFields resolves each header column to its canonical field name;
// unknown columns get an empty name and are skipped by mapRecord.
func headerFields(header []string) []string {
	fields := make([]string, len(header))
	for i, h := range header {
		if field, ok := CanonicalField(h); ok {
			fields[i] = field
		}
	}
	return fields
}

// mapRecord builds a RawRow from one record. Returns ok=false for rows
// with no mapped, non-blank cells at all.
func mapRecord(fields []string, record []string) (models.RawRow, bool) {
	row := models.RawRow{}
	empty := true
	for i, field := range fields {
		if field == "" || i >= len(record) {
			continue
		}
		row[field] = record[i]
		if strings.TrimSpace(record[i]) != "" {
			empty = false
		}
	}
	return row, !empty
}

// ValidateRows checks every raw row against the caller's known category
// names. Validation is a pure function of (row, knownCategories): the
// category list is fetched once per batch, never per row.
func ValidateRows(rows []models.RawRow, knownCategories []string) []models.ImportRow {
	known := make(map[string]bool, len(knownCategories))
	for _, name := range knownCategories {
		known[name] = true
	}

	out := make([]models.ImportRow, 0, len(rows))
	for _, raw := range rows {
		out = append(out, validateRow(raw, known))
	}
	return out
}

func validateRow(raw models.RawRow, known map[string]bool) models.ImportRow {
	row := models.ImportRow{
		Question: strings.TrimSpace(raw["question"]),
		Answer:   strings.TrimSpace(raw["answer"]),
		Category: strings.TrimSpace(raw["category"]),
		Source:   strings.TrimSpace(raw["source"]),
	}

	var reasons []string
	if row.Question == "" {
		reasons = append(reasons, "question is missing")
	}
	if row.Answer == "" {
		reasons = append(reasons, "answer is missing")
	}
	if row.Category == "" {
		reasons = append(reasons, "category is missing")
	} else if !known[row.Category] {
		reasons = append(reasons, fmt.Sprintf("category %q does not exist", row.Category))
	}

	row.WordCount = CountWords(row.Answer)
	row.Valid = len(reasons) == 0
	row.Errors = reasons
	return row
}
