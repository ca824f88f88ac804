package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"supplierforms/services"
	"supplierforms/templates"
)

func HandleEvaluationNew(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		header := GetHeaderData(e.Request)
		data := templates.EvaluationFormData{
			Document: header,
			Summary:  services.Summarize(services.NewSelection()),
			Errors:   make(map[string]string),
		}
		return render(e, templates.EvaluationFormContent(data), templates.EvaluationFormPage(data, header))
	}
}

// HandleEvaluationSummary recomputes the matrix highlight and the score
// summary from the posted selection. Nothing is stored.
func HandleEvaluationSummary(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		summary := services.Summarize(services.ParseSelection(e.Request.FormValue))
		return templates.ScoringSection(summary).Render(e.Request.Context(), e.Response)
	}
}

func HandleEvaluationSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		header := GetHeaderData(e.Request)
		form := e.Request.FormValue
		data := templates.EvaluationFormData{
			Document:         header,
			SupplierName:     services.CleanText(form("supplier_name")),
			ProductSupplied:  services.CleanText(form("product_supplied")),
			PeriodFrom:       services.CleanText(form("period_from")),
			PeriodTo:         services.CleanText(form("period_to")),
			QuantitySupplied: services.CleanText(form("quantity_supplied")),
			PreparedBy:       services.CleanText(form("prepared_by")),
			PreparedDate:     services.CleanText(form("prepared_date")),
			ApprovedBy:       services.CleanText(form("approved_by")),
			ApprovedDate:     services.CleanText(form("approved_date")),
			Summary:          services.Summarize(services.ParseSelection(form)),
			Errors:           make(map[string]string),
		}

		if data.SupplierName == "" {
			data.Errors["supplier_name"] = "Supplier name is required"
		}
		if len(data.Errors) > 0 {
			SetToast(e, ToastWarning, "Please fix the errors below")
			return render(e, templates.EvaluationFormContent(data), templates.EvaluationFormPage(data, header))
		}

		col, err := app.FindCollectionByNameOrId("supplier_evaluations")
		if err != nil {
			return serverError(e, "evaluation_save", "could not find supplier_evaluations collection", err)
		}

		record := core.NewRecord(col)
		setEvaluationFields(record, data)

		for _, field := range []string{"prepared_signature", "approved_signature"} {
			png, err := services.DecodeSignature(form(field))
			if err != nil {
				log.Printf("evaluation_save: dropping %s: %v", field, err)
				continue
			}
			if png == nil {
				continue
			}
			f, err := newFile(png, field+".png")
			if err != nil {
				log.Printf("evaluation_save: could not wrap %s: %v", field, err)
				continue
			}
			record.Set(field, f)
		}

		if rejected, err := rejectOversized(e, record); rejected {
			return err
		}
		if err := app.Save(record); err != nil {
			return serverError(e, "evaluation_save", "could not save evaluation", err)
		}

		SetToast(e, ToastSuccess, "Evaluation saved")
		return redirect(e, "/evaluations/"+record.Id)
	}
}

// setEvaluationFields copies the typed values and derived scores onto record.
func setEvaluationFields(record *core.Record, data templates.EvaluationFormData) {
	record.Set("supplier_name", data.SupplierName)
	record.Set("product_supplied", data.ProductSupplied)
	record.Set("period_from", data.PeriodFrom)
	record.Set("period_to", data.PeriodTo)
	record.Set("quantity_supplied", data.QuantitySupplied)
	record.Set("selections", data.Summary.Selection)
	record.Set("scores", data.Summary.Scores)
	record.Set("total_score", data.Summary.Total)
	record.Set("grade", data.Summary.Grade)
	record.Set("prepared_by", data.PreparedBy)
	record.Set("prepared_date", data.PreparedDate)
	record.Set("approved_by", data.ApprovedBy)
	record.Set("approved_date", data.ApprovedDate)
}

// selectionFromRecord reads the stored selection. Anything unreadable comes
// back as nothing selected.
func selectionFromRecord(record *core.Record) services.Selection {
	var rows []int
	if err := record.UnmarshalJSONField("selections", &rows); err != nil {
		log.Printf("evaluation: unreadable selections on %s: %v", record.Id, err)
	}
	sel := services.NewSelection()
	for c, r := range rows {
		_ = sel.Select(c, r)
	}
	return sel
}
