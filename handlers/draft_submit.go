package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"

	"supplierforms/services"
)

// HandleDraftSubmit places the bid: the draft's lists and the posted form
// fields become one quotation record, then the draft is dropped.
func HandleDraftSubmit(app *pocketbase.PocketBase, store services.DraftStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		ctx := e.Request.Context()
		d, err := store.Get(ctx, e.Request.PathValue("draftId"))
		if errors.Is(err, services.ErrDraftNotFound) {
			return ErrorToast(e, http.StatusNotFound, draftExpiredMessage)
		}
		if err != nil {
			return serverError(e, "draft_submit", "could not load draft", err)
		}

		col, err := app.FindCollectionByNameOrId("quotations")
		if err != nil {
			return serverError(e, "draft_submit", "could not find quotations collection", err)
		}

		record := core.NewRecord(col)
		if err := setQuotationFields(record, d, e.Request.FormValue); err != nil {
			return serverError(e, "draft_submit", "could not prepare attachments", err)
		}
		if rejected, err := rejectOversized(e, record); rejected {
			return err
		}
		if err := app.Save(record); err != nil {
			return serverError(e, "draft_submit", "could not save quotation", err)
		}

		if err := store.Delete(ctx, d.ID); err != nil {
			log.Printf("draft_submit: could not drop draft %s: %v", d.ID, err)
		}

		SetToast(e, ToastSuccess, "Bid placed")
		return redirect(e, "/rfqs/"+d.RFQID)
	}
}

// setQuotationFields copies the draft lists and the posted fields onto record.
// Text is stored as typed; an unknown currency is dropped.
func setQuotationFields(record *core.Record, d *services.QuoteDraft, form func(string) string) error {
	record.Set("rfq", d.RFQID)
	record.Set("kind", string(d.Kind))
	record.Set("quote_amount", services.CleanText(form("quote_amount")))

	switch d.Kind {
	case services.DraftLogistic:
		provider := make(map[string]string, len(services.ProviderFields))
		for _, f := range services.ProviderFields {
			v := services.CleanText(form("provider_" + f.Key))
			if services.IsCurrencyField(f.Key) && v != "" && !services.ValidCurrency(v) {
				log.Printf("draft_submit: dropping unknown currency %q for %s", v, f.Key)
				v = ""
			}
			provider[f.Key] = v
		}
		record.Set("provider", provider)
	default:
		record.Set("vendor_rows", d.Vendors)
		record.Set("payterms", services.CleanText(form("payterms")))
		record.Set("validity_start", services.CleanText(form("validity_start")))
		record.Set("validity_end", services.CleanText(form("validity_end")))
	}

	files := make([]*filesystem.File, 0, len(d.Files))
	for _, f := range d.Files {
		file, err := newFile(f.Content, f.Name)
		if err != nil {
			return err
		}
		files = append(files, file)
	}
	if len(files) > 0 {
		record.Set("attachments", files)
	}
	return nil
}

// HandleDraftDiscard drops the draft without saving anything.
func HandleDraftDiscard(store services.DraftStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("draftId")
		if err := store.Delete(e.Request.Context(), id); err != nil && !errors.Is(err, services.ErrDraftNotFound) {
			log.Printf("draft_discard: could not drop draft %s: %v", id, err)
		}
		SetToast(e, ToastInfo, "Quotation discarded")
		return redirect(e, "/rfqs")
	}
}
