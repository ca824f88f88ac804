package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"supplierforms/services"
	"supplierforms/templates"
)

func HandleRFQList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("rfqs", "", "-created", 0, 0)
		if err != nil {
			log.Printf("rfq_list: could not query rfqs: %v", err)
			records = nil
		}

		items := make([]templates.RFQListItem, 0, len(records))
		for _, rec := range records {
			count, err := app.CountRecords("quotations", dbx.HashExp{"rfq": rec.Id})
			if err != nil {
				log.Printf("rfq_list: could not count quotations for %s: %v", rec.Id, err)
			}
			items = append(items, templates.RFQListItem{
				ID:             rec.Id,
				RFQNumber:      rec.GetString("rfq_number"),
				Kind:           rfqKind(rec),
				Division:       rec.GetString("division"),
				RFQDate:        rec.GetString("rfq_date"),
				RFQCutoff:      rec.GetString("rfq_cutoff"),
				QuotationCount: int(count),
			})
		}

		header := GetHeaderData(e.Request)
		return render(e, templates.RFQListContent(items), templates.RFQListPage(items, header))
	}
}

func HandleRFQView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("rfqs", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "RFQ not found")
		}

		quotes, err := findQuotations(app, rec.Id)
		if err != nil {
			log.Printf("rfq_view: could not query quotations for %s: %v", rec.Id, err)
			quotes = nil
		}

		header := GetHeaderData(e.Request)
		data := templates.RFQViewData{
			ID:        rec.Id,
			Document:  header,
			RFQNumber: rec.GetString("rfq_number"),
			Kind:      rfqKind(rec),
			Company:   labeledValues(rec, services.CompanyDetailFields),
			Details:   labeledValues(rec, services.RFQDetailFields),
		}
		if name := rec.GetString("attachment"); name != "" {
			data.Attachment = &templates.Link{Name: originalName(name), URL: storedFileURL(rec, name)}
		}
		for i, q := range quotes {
			view := templates.QuotationView{QuotationSummary: quotationSummary(q, i+1)}
			for _, name := range q.GetStringSlice("attachments") {
				view.Attachments = append(view.Attachments, templates.Link{Name: originalName(name), URL: storedFileURL(q, name)})
			}
			data.Quotations = append(data.Quotations, view)
		}

		return render(e, templates.RFQViewContent(data), templates.RFQViewPage(data, header))
	}
}

// HandleRFQQuote opens a fresh draft for the RFQ and renders the material or
// logistic quotation page around it.
func HandleRFQQuote(app *pocketbase.PocketBase, store services.DraftStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("rfqs", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "RFQ not found")
		}

		kind := rfqKind(rec)
		draft, err := store.Create(e.Request.Context(), kind, rec.Id)
		if err != nil {
			return serverError(e, "rfq_quote", "could not create draft", err)
		}

		header := GetHeaderData(e.Request)
		data := templates.QuotationPageData{
			Document:  header,
			RFQID:     rec.Id,
			RFQNumber: rec.GetString("rfq_number"),
			Kind:      kind,
			Company:   labeledValues(rec, services.CompanyDetailFields),
			Details:   labeledValues(rec, services.RFQDetailFields),
			Draft:     draft,
		}
		return render(e, templates.QuotationContent(data), templates.QuotationPage(data, header))
	}
}
