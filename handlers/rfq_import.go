package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"supplierforms/services"
	"supplierforms/templates"
)

const (
	// maxImportBytes caps an uploaded RFQ sheet.
	maxImportBytes = 10 << 20
	// importFormOverhead leaves room for multipart boundaries and part headers.
	importFormOverhead = 64 << 10
)

var importTooLargeMessage = fmt.Sprintf("File is larger than %d MB.", maxImportBytes>>20)

// HandleRFQImportPage renders the upload form.
func HandleRFQImportPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		header := GetHeaderData(e.Request)
		return render(e, templates.RFQImportContent(), templates.RFQImportPage(header))
	}
}

// HandleRFQTemplateDownload serves the Excel template for RFQ import.
func HandleRFQTemplateDownload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateRFQTemplate()
		if err != nil {
			log.Printf("rfq_template: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}
		return writeDownload(e, contentTypeXLSX, fmt.Sprintf("RFQ_Template_%d.xlsx", time.Now().Year()), xlsxBytes)
	}
}

// HandleRFQImport validates an uploaded sheet and, when every row passes,
// inserts all RFQs at once. A sheet with errors imports nothing and shows
// the error table instead.
func HandleRFQImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		e.Request.Body = http.MaxBytesReader(e.Response, e.Request.Body, maxImportBytes+importFormOverhead)
		if err := e.Request.ParseMultipartForm(maxImportBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return ErrorToast(e, http.StatusRequestEntityTooLarge, importTooLargeMessage)
			}
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		file, hdr, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()
		if hdr.Size > maxImportBytes {
			return ErrorToast(e, http.StatusRequestEntityTooLarge, importTooLargeMessage)
		}

		existing, err := existingRFQNumbers(app)
		if err != nil {
			return serverError(e, "rfq_import", "could not load existing RFQs", err)
		}

		result, err := services.ValidateRFQFile(file, hdr.Filename, existing)
		if err != nil {
			log.Printf("rfq_import: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		if result.ErrorRows > 0 {
			b, err := json.Marshal(result.Errors)
			if err != nil {
				log.Printf("rfq_import: marshal errors: %v", err)
			}
			SetToast(e, ToastWarning, fmt.Sprintf("%d rows have errors", result.ErrorRows))
			return templates.RFQImportResults(result, string(b)).Render(e.Request.Context(), e.Response)
		}

		n, err := services.CommitRFQImport(app, result.Rows)
		if err != nil {
			return serverError(e, "rfq_import", "could not save RFQs", err)
		}

		SetToast(e, ToastSuccess, fmt.Sprintf("%d RFQs imported", n))
		return redirect(e, "/rfqs")
	}
}

// HandleRFQImportErrorReport turns the posted error list into an .xlsx download.
func HandleRFQImportErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		var errs []services.ImportError
		if err := json.Unmarshal([]byte(e.Request.FormValue("errors_json")), &errs); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateImportErrorReport(errs)
		if err != nil {
			return serverError(e, "rfq_import_errors", "could not build report", err)
		}
		return writeDownload(e, contentTypeXLSX, fmt.Sprintf("RFQ_Import_Errors_%s.xlsx", time.Now().Format("2006-01-02")), xlsxBytes)
	}
}

func existingRFQNumbers(app *pocketbase.PocketBase) (map[string]bool, error) {
	records, err := app.FindAllRecords("rfqs")
	if err != nil {
		return nil, err
	}
	numbers := make(map[string]bool, len(records))
	for _, r := range records {
		numbers[r.GetString("rfq_number")] = true
	}
	return numbers, nil
}
