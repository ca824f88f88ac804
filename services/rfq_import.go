package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// ImportError is a single field-level problem on one uploaded row.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is returned after parsing and validating an uploaded RFQ sheet.
type ImportResult struct {
	TotalRows int                 `json:"total_rows"`
	ValidRows int                 `json:"valid_rows"`
	ErrorRows int                 `json:"error_rows"`
	Errors    []ImportError       `json:"errors"`
	Rows      []map[string]string `json:"-"`
	FileName  string              `json:"-"`
}

// rfqImportRequired are the columns every uploaded row must fill.
var rfqImportRequired = map[string]bool{"rfq_number": true, "kind": true}

// RFQImportFields lists the columns of the RFQ import sheet in template order.
func RFQImportFields() []FieldDef {
	fields := []FieldDef{
		{Key: "rfq_number", Label: "RFQ Number"},
		{Key: "kind", Label: "Type"},
	}
	fields = append(fields, CompanyDetailFields...)
	return append(fields, RFQDetailFields...)
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(all) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return all[0], all[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to field keys by label,
// ignoring case and the " *" marker the template adds to required columns.
// Unknown columns map to "".
func mapHeadersToFields(headers []string, fields []FieldDef) []string {
	labelToKey := make(map[string]string, len(fields))
	for _, f := range fields {
		labelToKey[normalizeHeader(f.Label)] = f.Key
	}

	mapped := make([]string, len(headers))
	for i, h := range headers {
		mapped[i] = labelToKey[normalizeHeader(h)]
	}
	return mapped
}

// normalizeHeader also drops the byte-order mark Excel writes at the start of
// a "CSV UTF-8" file.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.TrimSpace(strings.TrimSuffix(h, "*"))
}

// parseKind accepts the kind value or its display label in any case.
func parseKind(v string) (DraftKind, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case string(DraftMaterial):
		return DraftMaterial, true
	case string(DraftLogistic):
		return DraftLogistic, true
	}
	return "", false
}

// ValidateRFQFile parses an uploaded .csv or .xlsx RFQ sheet. RFQ numbers
// already in existing, or repeated within the file, are reported as errors.
func ValidateRFQFile(r io.Reader, fileName string, existing map[string]bool) (*ImportResult, error) {
	var (
		headers  []string
		dataRows [][]string
		err      error
	)
	switch lower := strings.ToLower(fileName); {
	case strings.HasSuffix(lower, ".csv"):
		headers, dataRows, err = parseCSV(r)
	case strings.HasSuffix(lower, ".xlsx"):
		headers, dataRows, err = parseExcel(r)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	fields := RFQImportFields()
	columnKeys := mapHeadersToFields(headers, fields)
	keyToLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		keyToLabel[f.Key] = f.Label
	}

	result := &ImportResult{
		TotalRows: len(dataRows),
		FileName:  fileName,
		Rows:      make([]map[string]string, 0, len(dataRows)),
	}
	seen := make(map[string]int)

	for i, row := range dataRows {
		rowNum := i + 2 // header is row 1
		data := make(map[string]string)
		for col, key := range columnKeys {
			if key == "" || col >= len(row) {
				continue
			}
			data[key] = CleanText(row[col])
		}

		for _, f := range fields {
			if rfqImportRequired[f.Key] && data[f.Key] == "" {
				result.Errors = append(result.Errors, ImportError{Row: rowNum, Field: f.Label, Message: f.Label + " is required"})
			}
			if TooLong(data[f.Key]) {
				result.Errors = append(result.Errors, ImportError{Row: rowNum, Field: f.Label, Message: fmt.Sprintf("%s is longer than %d characters", f.Label, MaxTextLength)})
				data[f.Key] = ""
			}
		}
		if v := data["kind"]; v != "" {
			if kind, ok := parseKind(v); ok {
				data["kind"] = string(kind)
			} else {
				result.Errors = append(result.Errors, ImportError{Row: rowNum, Field: keyToLabel["kind"], Message: "Type must be Material or Logistic"})
			}
		}
		if num := data["rfq_number"]; num != "" {
			switch {
			case existing[num]:
				result.Errors = append(result.Errors, ImportError{Row: rowNum, Field: keyToLabel["rfq_number"], Message: fmt.Sprintf("RFQ %s already exists", num)})
			case seen[num] > 0:
				result.Errors = append(result.Errors, ImportError{Row: rowNum, Field: keyToLabel["rfq_number"], Message: fmt.Sprintf("RFQ %s repeats row %d", num, seen[num])})
			default:
				seen[num] = rowNum
			}
		}
		result.Rows = append(result.Rows, data)
	}

	errorRows := make(map[int]bool)
	for _, e := range result.Errors {
		errorRows[e.Row] = true
	}
	result.ErrorRows = len(errorRows)
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result, nil
}

// CommitRFQImport inserts rows into the rfqs collection in one transaction;
// any failing row rolls back the whole import.
func CommitRFQImport(app core.App, rows []map[string]string) (int, error) {
	col, err := app.FindCollectionByNameOrId("rfqs")
	if err != nil {
		return 0, fmt.Errorf("rfqs collection not found: %w", err)
	}

	fields := RFQImportFields()
	err = app.RunInTransaction(func(txApp core.App) error {
		for i, data := range rows {
			record := core.NewRecord(col)
			for _, f := range fields {
				if v := data[f.Key]; v != "" {
					record.Set(f.Key, v)
				}
			}
			if err := txApp.Save(record); err != nil {
				return fmt.Errorf("row %d: %w", i+2, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// GenerateRFQTemplate creates the downloadable .xlsx import template: one
// header per import column, required ones marked and a Type drop-down.
func GenerateRFQTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "RFQs"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	requiredStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("required header style: %w", err)
	}
	optionalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("optional header style: %w", err)
	}

	for i, field := range RFQImportFields() {
		cell := cellName(i+1, 1)
		colName, _ := excelize.ColumnNumberToName(i + 1)

		label, style := field.Label, optionalStyle
		if rfqImportRequired[field.Key] {
			label, style = label+" *", requiredStyle
		}
		f.SetCellValue(sheet, cell, label)
		f.SetCellStyle(sheet, cell, cell, style)

		width := float64(len(field.Label)) * 1.3
		if width < 15 {
			width = 15
		}
		f.SetColWidth(sheet, colName, colName, width)

		if field.Key == "kind" {
			dv := excelize.NewDataValidation(true)
			dv.Sqref = fmt.Sprintf("%s2:%s1048576", colName, colName)
			if err := dv.SetDropList([]string{"Material", "Logistic"}); err != nil {
				return nil, fmt.Errorf("type drop-down: %w", err)
			}
			if err := f.AddDataValidation(sheet, dv); err != nil {
				return nil, fmt.Errorf("add type drop-down: %w", err)
			}
		}
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateImportErrorReport creates a downloadable .xlsx listing import errors.
func GenerateImportErrorReport(errs []ImportError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errs {
		f.SetCellValue(sheet, cellName(1, i+2), e.Row)
		f.SetCellValue(sheet, cellName(2, i+2), sanitizeExcelCell(e.Field))
		f.SetCellValue(sheet, cellName(3, i+2), sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
