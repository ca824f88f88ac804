package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"supplierforms/services"
	"supplierforms/templates"
)

const dateLayout = "02 Jan 2006"

func HandleEvaluationList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("supplier_evaluations", "", "-created", 0, 0)
		if err != nil {
			log.Printf("evaluation_list: could not query evaluations: %v", err)
			records = nil
		}

		items := make([]templates.EvaluationListItem, 0, len(records))
		for _, rec := range records {
			items = append(items, templates.EvaluationListItem{
				ID:              rec.Id,
				SupplierName:    rec.GetString("supplier_name"),
				ProductSupplied: rec.GetString("product_supplied"),
				Period:          formatPeriod(rec.GetString("period_from"), rec.GetString("period_to")),
				TotalScore:      rec.GetInt("total_score"),
				Grade:           rec.GetString("grade"),
				Created:         rec.GetDateTime("created").Time().Format(dateLayout),
			})
		}

		header := GetHeaderData(e.Request)
		return render(e, templates.EvaluationListContent(items), templates.EvaluationListPage(items, header))
	}
}

func formatPeriod(from, to string) string {
	switch {
	case from == "" && to == "":
		return ""
	case to == "":
		return from
	case from == "":
		return to
	}
	return from + " to " + to
}

func HandleEvaluationView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("supplier_evaluations", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Evaluation not found")
		}

		header := GetHeaderData(e.Request)
		data := templates.EvaluationViewData{
			ID:               rec.Id,
			Document:         header,
			SupplierName:     rec.GetString("supplier_name"),
			ProductSupplied:  rec.GetString("product_supplied"),
			PeriodFrom:       rec.GetString("period_from"),
			PeriodTo:         rec.GetString("period_to"),
			QuantitySupplied: rec.GetString("quantity_supplied"),
			PreparedBy:       rec.GetString("prepared_by"),
			PreparedDate:     rec.GetString("prepared_date"),
			ApprovedBy:       rec.GetString("approved_by"),
			ApprovedDate:     rec.GetString("approved_date"),
			Summary:          services.Summarize(selectionFromRecord(rec)),
			Created:          rec.GetDateTime("created").Time().Format(dateLayout),
		}
		if name := rec.GetString("prepared_signature"); name != "" {
			data.PreparedSignature = storedFileURL(rec, name)
		}
		if name := rec.GetString("approved_signature"); name != "" {
			data.ApprovedSignature = storedFileURL(rec, name)
		}

		return render(e, templates.EvaluationViewContent(data), templates.EvaluationViewPage(data, header))
	}
}

func HandleEvaluationDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("supplier_evaluations", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Evaluation not found")
		}
		if err := app.Delete(rec); err != nil {
			return serverError(e, "evaluation_delete", "could not delete evaluation", err)
		}

		SetToast(e, ToastSuccess, "Evaluation deleted")
		if isHTMX(e.Request) {
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/evaluations")
	}
}
