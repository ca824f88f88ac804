package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfHeaderBg   = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfWhite      = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfMuted      = &props.Color{Red: 90, Green: 90, Blue: 90}
	pdfFaint      = &props.Color{Red: 140, Green: 140, Blue: 140}
	pdfSelectedBg = &props.Color{Red: 220, Green: 252, Blue: 231}
	pdfSummaryBg  = &props.Color{Red: 240, Green: 240, Blue: 240}
)

// newFormDocument returns a landscape A4 maroto document with page numbers.
func newFormDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()
	return maroto.New(cfg)
}

// GenerateEvaluationPDF prints a saved supplier evaluation: document header,
// supplier details, the scoring matrix with the chosen cells shaded, the score
// summary and the sign-off block.
func GenerateEvaluationPDF(data EvaluationExport) ([]byte, error) {
	m := newFormDocument()

	addDocumentHeader(m, data.Header, "Supplier Evaluation Form")
	addLabeledGrid(m, []LabeledValue{
		{"Supplier Name", data.SupplierName},
		{"Product Supplied", data.ProductSupplied},
		{"Period (From)", data.PeriodFrom},
		{"Period (To)", data.PeriodTo},
		{"Quantity Supplied", data.QuantitySupplied},
	}, 3)
	m.AddRows(row.New(4))
	addGradeLegend(m)
	addScoringMatrix(m, data.Summary.Selection)
	addScoreSummary(m, data.Summary)
	addSignOff(m, data)
	addGeneratedOn(m, data.CreatedDate)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate evaluation PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addDocumentHeader prints the company name, form title and the format /
// supersedes numbers of the controlled document.
func addDocumentHeader(m core.Maroto, h DocumentHeader, title string) {
	m.AddRows(
		row.New(14).Add(
			col.New(3).Add(
				text.New(h.CompanyName, props.Text{
					Size:  10,
					Style: fontstyle.BoldItalic,
					Align: align.Left,
					Color: pdfMuted,
				}),
			),
			col.New(6).Add(
				text.New(title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
			col.New(3).Add(
				text.New("Format No: "+h.FormatNo, props.Text{Size: 8, Align: align.Right}),
				text.New("Supersedes No: "+h.SupersedesNo, props.Text{Size: 8, Align: align.Right, Top: 4}),
			),
		),
	)
	m.AddRows(row.New(4))
}

// addLabeledGrid lays label/value pairs out perRow pairs per row.
func addLabeledGrid(m core.Maroto, pairs []LabeledValue, perRow int) {
	width := 12 / perRow
	labelStyle := props.Text{Size: 7, Color: pdfMuted, Align: align.Left}
	valueStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left, Top: 3}

	for start := 0; start < len(pairs); start += perRow {
		r := row.New(10)
		for i := start; i < start+perRow && i < len(pairs); i++ {
			r.Add(col.New(width).Add(
				text.New(pairs[i].Label, labelStyle),
				text.New(DisplayValue(pairs[i].Value), valueStyle),
			))
		}
		m.AddRows(r)
	}
}

func addGradeLegend(m core.Maroto) {
	m.AddRows(row.New(7).Add(col.New(12).Add(
		text.New("Grade and Acceptance Criteria", props.Text{Size: 9, Style: fontstyle.Bold}),
	)))
	for _, rule := range GradeRules {
		m.AddRows(row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s: %s - %s", rule.Grade, rule.Range, rule.Acceptance), props.Text{Size: 8}),
		)))
	}
	m.AddRows(row.New(4))
}

// addScoringMatrix prints the 4x5 criteria table, one column per category,
// with the chosen cell shaded.
func addScoringMatrix(m core.Maroto, sel Selection) {
	headerText := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: pdfWhite}
	headerCell := &props.Cell{BackgroundColor: pdfHeaderBg}

	head := row.New(8)
	for _, name := range Categories {
		head.Add(col.New(2).Add(text.New(name, headerText)).WithStyle(headerCell))
	}
	m.AddRows(head)

	for rowIdx := 0; rowIdx < NumCriteria; rowIdx++ {
		cells := row.New(10)
		for c := 0; c < NumCategories; c++ {
			crit := ScoringMatrix[rowIdx][c]
			cell := col.New(2).Add(
				text.New(crit.Label, props.Text{Size: 7, Align: align.Left}),
				text.New(fmt.Sprintf("%d", crit.Points), props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right, Top: 5}),
			)
			if sel[c] == rowIdx {
				cell = cell.WithStyle(&props.Cell{BackgroundColor: pdfSelectedBg})
			}
			cells.Add(cell)
		}
		m.AddRows(cells)
	}
	m.AddRows(row.New(4))
}

func addScoreSummary(m core.Maroto, s ScoreSummary) {
	labelStyle := props.Text{Size: 9, Align: align.Left}
	valueStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	totalLabel := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	summaryCell := &props.Cell{BackgroundColor: pdfSummaryBg}

	for c, name := range Categories {
		m.AddRows(row.New(6).Add(
			col.New(8).Add(text.New(name, labelStyle)),
			col.New(4).Add(text.New(fmt.Sprintf("%d", s.Scores[c]), valueStyle)),
		))
	}

	grade := s.Grade
	if grade == "" {
		grade = "—"
	}
	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(text.New("Total Score", totalLabel)).WithStyle(summaryCell),
			col.New(4).Add(text.New(fmt.Sprintf("%d", s.Total), valueStyle)).WithStyle(summaryCell),
		),
		row.New(8).Add(
			col.New(8).Add(text.New("Grade", totalLabel)).WithStyle(summaryCell),
			col.New(4).Add(text.New(grade, valueStyle)).WithStyle(summaryCell),
		),
	)
	if acc := AcceptanceFor(s.Grade); acc != "" {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New(acc, props.Text{Size: 8, Style: fontstyle.Italic, Align: align.Right, Color: pdfMuted}),
		)))
	}
	m.AddRows(row.New(8))
}

func addSignOff(m core.Maroto, data EvaluationExport) {
	m.AddRows(row.New(20).Add(
		signatureCol(data.PreparedSignature),
		col.New(2),
		signatureCol(data.ApprovedSignature),
		col.New(2),
	))
	m.AddRows(row.New(10).Add(
		col.New(6).Add(
			text.New("Prepared By: "+data.PreparedBy, props.Text{Size: 9, Style: fontstyle.Bold}),
			text.New("Date: "+data.PreparedDate, props.Text{Size: 8, Top: 5}),
		),
		col.New(6).Add(
			text.New("Approved By: "+data.ApprovedBy, props.Text{Size: 9, Style: fontstyle.Bold}),
			text.New("Date: "+data.ApprovedDate, props.Text{Size: 8, Top: 5}),
		),
	))
}

func signatureCol(png []byte) core.Col {
	c := col.New(4)
	if len(png) > 0 {
		c.Add(image.NewFromBytes(png, extension.Png, props.Rect{Percent: 90}))
	}
	return c
}

func addGeneratedOn(m core.Maroto, date string) {
	m.AddRows(row.New(6))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Generated on "+date, props.Text{
			Size:  7,
			Align: align.Left,
			Color: pdfFaint,
		}),
	)))
}
