package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// sheetStyles are the cell styles shared by the workbook exports.
type sheetStyles struct {
	title    int
	subtitle int
	header   int
	body     int
	selected int
	label    int
	value    int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	}); err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}
	if s.subtitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	}); err != nil {
		return s, fmt.Errorf("create subtitle style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}
	if s.body, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create body style: %w", err)
	}
	if s.selected, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DCFCE7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create selected style: %w", err)
	}
	if s.label, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return s, fmt.Errorf("create label style: %w", err)
	}
	if s.value, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	}); err != nil {
		return s, fmt.Errorf("create value style: %w", err)
	}
	return s, nil
}

// cellName converts 1-based column/row numbers to an A1 reference.
func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		// Only reachable with non-positive coordinates, which callers never pass.
		panic(err)
	}
	return name
}

// sheetTitle replaces characters Excel forbids in sheet names and truncates
// to the 31 character limit.
func sheetTitle(s, fallback string) string {
	s = strings.TrimSpace(strings.NewReplacer(
		":", "-", "\\", "-", "/", "-", "?", "", "*", "", "[", "(", "]", ")", "'", "",
	).Replace(s))
	if s == "" {
		return fallback
	}
	r := []rune(s)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}

// GenerateEvaluationExcel writes a saved evaluation to a single-sheet workbook:
// supplier details, the scoring matrix with chosen cells highlighted and the
// score summary.
func GenerateEvaluationExcel(data EvaluationExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetTitle(data.SupplierName, "Evaluation")
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	st, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	lastCol := 2 * NumCategories
	for c := 1; c <= lastCol; c++ {
		width := 8.0
		if c%2 == 1 {
			width = 28
		}
		colName, _ := excelize.ColumnNumberToName(c)
		if err := f.SetColWidth(sheet, colName, colName, width); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", colName, err)
		}
	}

	// ── Title block ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheet, "A1", cellName(lastCol, 1)); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", "Supplier Evaluation Form")
	f.SetCellStyle(sheet, "A1", "A1", st.title)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Format No: %s    Supersedes No: %s", data.Header.FormatNo, data.Header.SupersedesNo))
	f.SetCellStyle(sheet, "A2", "A2", st.subtitle)

	details := []LabeledValue{
		{"Supplier Name", data.SupplierName},
		{"Product Supplied", data.ProductSupplied},
		{"Period (From)", data.PeriodFrom},
		{"Period (To)", data.PeriodTo},
		{"Quantity Supplied", data.QuantitySupplied},
	}
	row := 4
	for _, d := range details {
		f.SetCellValue(sheet, cellName(1, row), d.Label)
		f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), st.label)
		f.SetCellValue(sheet, cellName(2, row), sanitizeExcelCell(d.Value))
		row++
	}

	// ── Scoring matrix ──────────────────────────────────────────────────

	row++
	headerRow := row
	for c, name := range Categories {
		first, second := cellName(2*c+1, headerRow), cellName(2*c+2, headerRow)
		if err := f.MergeCell(sheet, first, second); err != nil {
			return nil, fmt.Errorf("merge category header: %w", err)
		}
		f.SetCellValue(sheet, first, name)
		f.SetCellValue(sheet, cellName(2*c+1, headerRow+1), "Criteria")
		f.SetCellValue(sheet, cellName(2*c+2, headerRow+1), "Score")
	}
	f.SetCellStyle(sheet, cellName(1, headerRow), cellName(lastCol, headerRow+1), st.header)

	row = headerRow + 2
	for r := 0; r < NumCriteria; r++ {
		for c := 0; c < NumCategories; c++ {
			crit := ScoringMatrix[r][c]
			labelCell, scoreCell := cellName(2*c+1, row), cellName(2*c+2, row)
			f.SetCellValue(sheet, labelCell, crit.Label)
			f.SetCellValue(sheet, scoreCell, crit.Points)
			style := st.body
			if data.Summary.Selection[c] == r {
				style = st.selected
			}
			f.SetCellStyle(sheet, labelCell, scoreCell, style)
		}
		row++
	}

	// ── Summary ─────────────────────────────────────────────────────────

	row++
	f.SetCellValue(sheet, cellName(1, row), "Parameters")
	f.SetCellValue(sheet, cellName(2, row), "Individual Score Obtained")
	f.SetCellStyle(sheet, cellName(1, row), cellName(2, row), st.header)
	row++
	for c, name := range Categories {
		f.SetCellValue(sheet, cellName(1, row), name)
		f.SetCellValue(sheet, cellName(2, row), data.Summary.Scores[c])
		f.SetCellStyle(sheet, cellName(1, row), cellName(2, row), st.body)
		row++
	}
	f.SetCellValue(sheet, cellName(1, row), "Total Score")
	f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), st.label)
	f.SetCellValue(sheet, cellName(2, row), data.Summary.Total)
	f.SetCellStyle(sheet, cellName(2, row), cellName(2, row), st.value)
	row++
	f.SetCellValue(sheet, cellName(1, row), "Grade")
	f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), st.label)
	f.SetCellValue(sheet, cellName(2, row), data.Summary.Grade)
	f.SetCellStyle(sheet, cellName(2, row), cellName(2, row), st.value)
	row += 2

	f.SetCellValue(sheet, cellName(1, row), "Prepared By: "+sanitizeExcelCell(data.PreparedBy))
	f.SetCellValue(sheet, cellName(3, row), "Date: "+data.PreparedDate)
	row++
	f.SetCellValue(sheet, cellName(1, row), "Approved By: "+sanitizeExcelCell(data.ApprovedBy))
	f.SetCellValue(sheet, cellName(3, row), "Date: "+data.ApprovedDate)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateQuotationComparisonExcel lays every bid on an RFQ side by side so
// the buyer can compare them. Material bids get one line per vendor row;
// logistic bids get one line per bid with the provider fields as columns.
func GenerateQuotationComparisonExcel(data RFQExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetTitle(data.RFQNumber, "Quotations")
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	st, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	var headers []string
	if data.Kind == DraftLogistic {
		headers = []string{"Bid #", "Submitted"}
		for _, pf := range ProviderFields {
			headers = append(headers, pf.Label)
		}
		headers = append(headers, "Quote Amount", "Attachments")
	} else {
		headers = []string{"Bid #", "Submitted", "Sr. No", "Material Desc", "Lead Time", "Delivery", "Rate", "Payterms", "Validity Start", "Validity End", "Quote Amount", "Attachments"}
	}
	lastCol := len(headers)

	if err := f.MergeCell(sheet, "A1", cellName(lastCol, 1)); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeExcelCell("Quotation Comparison - "+data.RFQNumber))
	f.SetCellStyle(sheet, "A1", "A1", st.title)
	f.SetCellValue(sheet, "A2", "Date: "+data.CreatedDate)
	f.SetCellStyle(sheet, "A2", "A2", st.subtitle)

	for i, h := range headers {
		f.SetCellValue(sheet, cellName(i+1, 4), h)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, colName, colName, 18); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", colName, err)
		}
	}
	f.SetCellStyle(sheet, "A4", cellName(lastCol, 4), st.header)

	row := 5
	writeRow := func(values []any) {
		for i, v := range values {
			if s, ok := v.(string); ok {
				v = sanitizeExcelCell(s)
			}
			f.SetCellValue(sheet, cellName(i+1, row), v)
		}
		f.SetCellStyle(sheet, cellName(1, row), cellName(lastCol, row), st.body)
		row++
	}

	for _, q := range data.Quotations {
		attachments := fmt.Sprintf("%d", len(q.AttachmentNames))
		if data.Kind == DraftLogistic {
			values := []any{q.Index, q.SubmittedOn}
			byLabel := make(map[string]string, len(q.Provider))
			for _, p := range q.Provider {
				byLabel[p.Label] = p.Value
			}
			for _, pf := range ProviderFields {
				values = append(values, byLabel[pf.Label])
			}
			values = append(values, FormatAmountText(q.QuoteAmount), attachments)
			writeRow(values)
			continue
		}
		if len(q.Vendors) == 0 {
			writeRow([]any{q.Index, q.SubmittedOn, "", "", "", "", "", q.Payterms, q.ValidityStart, q.ValidityEnd, FormatAmountText(q.QuoteAmount), attachments})
			continue
		}
		for i, v := range q.Vendors {
			writeRow([]any{q.Index, q.SubmittedOn, i + 1, v.MaterialDesc, v.LeadTime, v.Delivery, v.Rate, q.Payterms, q.ValidityStart, q.ValidityEnd, FormatAmountText(q.QuoteAmount), attachments})
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas.
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

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}
