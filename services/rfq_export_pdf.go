package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateRFQPDF prints the "Quotation Data" sheet for an RFQ: company and
// RFQ details followed by every bid placed against it.
func GenerateRFQPDF(data RFQExport) ([]byte, error) {
	m := newFormDocument()

	title := "Quotation Data"
	if data.RFQNumber != "" {
		title += " - " + data.RFQNumber
	}
	addDocumentHeader(m, data.Header, title)

	addSectionTitle(m, "Company Details")
	addLabeledGrid(m, data.Company, 2)

	detailsTitle := "RFQ Details"
	if data.Kind == DraftLogistic {
		detailsTitle = "Logistic Details"
	}
	addSectionTitle(m, detailsTitle)
	addLabeledGrid(m, data.Details, 4)

	addSectionTitle(m, fmt.Sprintf("Quotations (%d)", len(data.Quotations)))
	if len(data.Quotations) == 0 {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("No quotations have been placed yet.", props.Text{Size: 8, Color: pdfMuted}),
		)))
	}
	for _, q := range data.Quotations {
		addQuotationBlock(m, q)
	}

	addGeneratedOn(m, data.CreatedDate)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate RFQ PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addSectionTitle(m core.Maroto, title string) {
	m.AddRows(row.New(4))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Left}),
	)))
}

func addQuotationBlock(m core.Maroto, q QuotationSummary) {
	m.AddRows(row.New(7).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Bid #%d", q.Index), props.Text{Size: 9, Style: fontstyle.Bold})),
		col.New(6).Add(text.New("Submitted "+q.SubmittedOn, props.Text{Size: 8, Align: align.Right, Color: pdfMuted})),
	))

	if len(q.Vendors) > 0 {
		addVendorTable(m, q.Vendors)
	}
	if len(q.Provider) > 0 {
		addLabeledGrid(m, q.Provider, 4)
	}

	var meta []LabeledValue
	if q.Kind == DraftMaterial {
		meta = append(meta,
			LabeledValue{"Payterms", q.Payterms},
			LabeledValue{"Validity Start", q.ValidityStart},
			LabeledValue{"Validity End", q.ValidityEnd},
		)
	}
	meta = append(meta, LabeledValue{"Quote Amount", FormatAmountText(q.QuoteAmount)})
	addLabeledGrid(m, meta, 4)

	if len(q.AttachmentNames) > 0 {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("Attachments: "+strings.Join(q.AttachmentNames, ", "), props.Text{Size: 7, Color: pdfMuted}),
		)))
	}
	m.AddRows(row.New(4))
}

func addVendorTable(m core.Maroto, rows []VendorQuoteRow) {
	headerText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: pdfWhite}
	headerCell := &props.Cell{BackgroundColor: pdfHeaderBg}

	m.AddRows(row.New(7).Add(
		col.New(1).Add(text.New("Sr. No", headerText)).WithStyle(headerCell),
		col.New(5).Add(text.New("Material Desc", headerText)).WithStyle(headerCell),
		col.New(2).Add(text.New("Lead Time", headerText)).WithStyle(headerCell),
		col.New(2).Add(text.New("Delivery", headerText)).WithStyle(headerCell),
		col.New(2).Add(text.New("Rate", headerText)).WithStyle(headerCell),
	))

	cellText := props.Text{Size: 8, Align: align.Left}
	for i, v := range rows {
		m.AddRows(row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", i+1), cellText)),
			col.New(5).Add(text.New(v.MaterialDesc, cellText)),
			col.New(2).Add(text.New(v.LeadTime, cellText)),
			col.New(2).Add(text.New(v.Delivery, cellText)),
			col.New(2).Add(text.New(v.Rate, cellText)),
		))
	}
}
