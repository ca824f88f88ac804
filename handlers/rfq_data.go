package handlers

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"supplierforms/services"
)

// labeledValues reads fields off rec in display order.
func labeledValues(rec *core.Record, fields []services.FieldDef) []services.LabeledValue {
	out := make([]services.LabeledValue, 0, len(fields))
	for _, f := range fields {
		out = append(out, services.LabeledValue{Label: f.Label, Value: rec.GetString(f.Key)})
	}
	return out
}

func rfqKind(rec *core.Record) services.DraftKind {
	if services.DraftKind(rec.GetString("kind")) == services.DraftLogistic {
		return services.DraftLogistic
	}
	return services.DraftMaterial
}

// findQuotations returns the bids for an RFQ, oldest first.
func findQuotations(app *pocketbase.PocketBase, rfqID string) ([]*core.Record, error) {
	return app.FindRecordsByFilter("quotations", "rfq = {:rfq}", "created", 0, 0, map[string]any{"rfq": rfqID})
}

// quotationSummary flattens a stored bid. index is its 1-based position.
func quotationSummary(rec *core.Record, index int) services.QuotationSummary {
	q := services.QuotationSummary{
		Index:         index,
		SubmittedOn:   createdDate(rec),
		Kind:          rfqKind(rec),
		QuoteAmount:   rec.GetString("quote_amount"),
		Payterms:      rec.GetString("payterms"),
		ValidityStart: rec.GetString("validity_start"),
		ValidityEnd:   rec.GetString("validity_end"),
	}

	if err := rec.UnmarshalJSONField("vendor_rows", &q.Vendors); err != nil {
		log.Printf("rfq_data: unreadable vendor_rows on %s: %v", rec.Id, err)
	}

	if q.Kind == services.DraftLogistic {
		provider := map[string]string{}
		if err := rec.UnmarshalJSONField("provider", &provider); err != nil {
			log.Printf("rfq_data: unreadable provider on %s: %v", rec.Id, err)
		}
		for _, f := range services.ProviderFields {
			q.Provider = append(q.Provider, services.LabeledValue{Label: f.Label, Value: provider[f.Key]})
		}
	}

	for _, name := range rec.GetStringSlice("attachments") {
		q.AttachmentNames = append(q.AttachmentNames, originalName(name))
	}
	return q
}

// buildRFQExport gathers an RFQ and all of its bids.
func buildRFQExport(app *pocketbase.PocketBase, header services.DocumentHeader, rfqID string) (services.RFQExport, error) {
	rec, err := app.FindRecordById("rfqs", rfqID)
	if err != nil {
		return services.RFQExport{}, fmt.Errorf("RFQ not found: %w", err)
	}

	quotes, err := findQuotations(app, rec.Id)
	if err != nil {
		log.Printf("rfq_data: could not query quotations for %s: %v", rec.Id, err)
		quotes = nil
	}

	data := services.RFQExport{
		Header:      header,
		RFQNumber:   rec.GetString("rfq_number"),
		Kind:        rfqKind(rec),
		Company:     labeledValues(rec, services.CompanyDetailFields),
		Details:     labeledValues(rec, services.RFQDetailFields),
		CreatedDate: createdDate(rec),
	}
	for i, q := range quotes {
		data.Quotations = append(data.Quotations, quotationSummary(q, i+1))
	}
	return data, nil
}
