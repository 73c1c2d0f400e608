package services

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel creates an Excel workbook listing the exported invoices and
// returns the file contents as a byte slice.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Determine sheet name (max 31 chars).
	sheetName := data.Title
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Invoices"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Column references (A through L).
	columns := columnLetters(12)
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 14, 12, 14, 14, 32, 10, 16, 14, 14, 14, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	// Column header style: bold, white text, charcoal background, centered.
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	textStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create text style: %w", err)
	}

	// NumFmt 4 is "#,##0.00".
	moneyStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		NumFmt: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		NumFmt: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows (1-2) ───────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(sheetName, "A2", "Generated on "+data.CreatedDate)
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	// ── Row 4: Column Headers ───────────────────────────────────────────

	headers := []string{"#", "Number", "Type", "Date", "Due Date", "Customer", "Currency", "Sub Total", "Tax", "Discount", "Shipping", "Total"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s4", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A4", lastCol+"4", headerStyle)

	// ── Data Rows (starting row 5) ──────────────────────────────────────

	row := 5
	for i, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetName, "A"+rowStr, i+1)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.Number))
		f.SetCellValue(sheetName, "C"+rowStr, r.Kind)
		f.SetCellValue(sheetName, "D"+rowStr, r.Date)
		f.SetCellValue(sheetName, "E"+rowStr, r.DueDate)
		f.SetCellValue(sheetName, "F"+rowStr, sanitizeExcelCell(r.Customer))
		f.SetCellValue(sheetName, "G"+rowStr, r.Currency)
		f.SetCellStyle(sheetName, "A"+rowStr, "G"+rowStr, textStyle)

		f.SetCellValue(sheetName, "H"+rowStr, r.SubTotal.InexactFloat64())
		f.SetCellValue(sheetName, "I"+rowStr, r.Tax.InexactFloat64())
		f.SetCellValue(sheetName, "J"+rowStr, r.Discount.InexactFloat64())
		f.SetCellValue(sheetName, "K"+rowStr, r.Shipping.InexactFloat64())
		f.SetCellValue(sheetName, "L"+rowStr, r.Total.InexactFloat64())
		f.SetCellStyle(sheetName, "H"+rowStr, "L"+rowStr, moneyStyle)

		row++
	}

	// ── Summary Rows (one per currency) ─────────────────────────────────

	row++

	currencies := make([]string, 0, len(data.Totals))
	for c := range data.Totals {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)

	for _, c := range currencies {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "K"+rowStr, fmt.Sprintf("Total (%s):", c))
		f.SetCellStyle(sheetName, "K"+rowStr, "K"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "L"+rowStr, data.Totals[c].InexactFloat64())
		f.SetCellStyle(sheetName, "L"+rowStr, "L"+rowStr, summaryValueStyle)
		row++
	}

	// Freeze the header row.
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      4,
		TopLeftCell: "A5",
		ActivePane:  "bottomLeft",
	})

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
