package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RowError represents a single field-level error on one import row.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is returned after parsing and validating an uploaded file.
type ImportResult struct {
	TotalRows int        `json:"totalRows"`
	ValidRows int        `json:"validRows"`
	ErrorRows int        `json:"errorRows"`
	Errors    []RowError `json:"errors"`
	Created   int        `json:"created"`
	Skipped   int        `json:"skipped"`
	// Customers holds the rows without errors, in file order.
	Customers []Customer `json:"-"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
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

// mapHeadersToFields maps uploaded column headers to TemplateField keys.
// Unrecognized columns map to "".
func mapHeadersToFields(headers []string, fields []TemplateField) []string {
	labelToKey := make(map[string]string, len(fields)*2)
	for _, f := range fields {
		labelToKey[strings.ToLower(f.Label)] = f.Key
		labelToKey[f.Key] = f.Key
	}

	mapped := make([]string, len(headers))
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that the template adds for required fields
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		mapped[i] = labelToKey[norm]
	}
	return mapped
}

// ParseCustomerFile parses and validates an uploaded .csv or .xlsx customer
// list. Rows with errors are reported and left out of Customers.
func ParseCustomerFile(file io.Reader, fileName string) (*ImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, invalid("file", "unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, invalid("file", "%v", err)
	}

	fields := CustomerTemplateFields()
	columnKeys := mapHeadersToFields(headers, fields)
	keyToLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		keyToLabel[f.Key] = f.Label
	}

	result := &ImportResult{TotalRows: len(dataRows)}
	seenEmails := make(map[string]int)

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		values := make(map[string]string)
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			values[key] = strings.TrimSpace(row[colIdx])
		}

		c := normalizeCustomer(Customer{
			Name:    values["name"],
			Address: values["address"],
			State:   values["state"],
			Country: values["country"],
			Email:   values["email"],
			Phone:   values["phone"],
		})

		var rowErrors []RowError
		fieldErrs := ValidateCustomer(c)
		keys := make([]string, 0, len(fieldErrs))
		for k := range fieldErrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Field: keyToLabel[k], Message: fieldErrs[k]})
		}

		if c.Email != "" {
			if first, dup := seenEmails[c.Email]; dup {
				rowErrors = append(rowErrors, RowError{
					Row:     rowNum,
					Field:   "Email",
					Message: fmt.Sprintf("duplicate of row %d", first),
				})
			} else {
				seenEmails[c.Email] = rowNum
			}
		}

		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}
		result.Customers = append(result.Customers, c)
	}
	result.ValidRows = result.TotalRows - result.ErrorRows

	return result, nil
}

// Import stores every valid customer of result. Existing emails are
// counted as skipped.
func (s *CustomerStore) Import(result *ImportResult) error {
	for _, c := range result.Customers {
		_, created, err := s.Create(c)
		if err != nil {
			return fmt.Errorf("import customer %q: %w", c.Name, err)
		}
		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}
	log.Printf("customer_import: created %d, skipped %d existing, rejected %d row(s)", result.Created, result.Skipped, result.ErrorRows)
	return nil
}

// GenerateErrorReport creates a downloadable .xlsx file from import errors.
func GenerateErrorReport(errors []RowError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

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

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
