package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"supplierforms/services"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// buildEvaluationExport loads a saved evaluation with its signature images.
func buildEvaluationExport(app *pocketbase.PocketBase, header services.DocumentHeader, id string) (services.EvaluationExport, error) {
	rec, err := app.FindRecordById("supplier_evaluations", id)
	if err != nil {
		return services.EvaluationExport{}, fmt.Errorf("evaluation not found: %w", err)
	}

	data := services.EvaluationExport{
		Header:           header,
		SupplierName:     rec.GetString("supplier_name"),
		ProductSupplied:  rec.GetString("product_supplied"),
		PeriodFrom:       rec.GetString("period_from"),
		PeriodTo:         rec.GetString("period_to"),
		QuantitySupplied: rec.GetString("quantity_supplied"),
		Summary:          services.Summarize(selectionFromRecord(rec)),
		PreparedBy:       rec.GetString("prepared_by"),
		PreparedDate:     rec.GetString("prepared_date"),
		ApprovedBy:       rec.GetString("approved_by"),
		ApprovedDate:     rec.GetString("approved_date"),
		CreatedDate:      createdDate(rec),
	}

	signatures := map[string]*[]byte{
		"prepared_signature": &data.PreparedSignature,
		"approved_signature": &data.ApprovedSignature,
	}
	for field, dst := range signatures {
		name := rec.GetString(field)
		if name == "" {
			continue
		}
		b, err := readRecordFile(app, rec, name)
		if err != nil {
			log.Printf("export: skipping %s on %s: %v", field, rec.Id, err)
			continue
		}
		*dst = b
	}
	return data, nil
}

func createdDate(rec *core.Record) string {
	if dt := rec.GetDateTime("created"); !dt.IsZero() {
		return dt.Time().Format(dateLayout)
	}
	return "—"
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	return strings.NewReplacer(
		" ", "-",
		"/", "-",
		"\\", "-",
		":", "-",
		`"`, "",
	).Replace(s)
}

// writeDownload answers with content as a file attachment.
func writeDownload(e *core.RequestEvent, contentType, filename string, content []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, err := e.Response.Write(content)
	return err
}

func exportFilename(prefix, name, ext string) string {
	if name == "" {
		name = "untitled"
	}
	return fmt.Sprintf("%s_%s_%d.%s", prefix, sanitizeFilename(name), time.Now().Year(), ext)
}

func HandleEvaluationExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildEvaluationExport(app, documentHeader(e.Request), e.Request.PathValue("id"))
		if err != nil {
			log.Printf("evaluation_export_pdf: %v", err)
			return e.String(http.StatusNotFound, "Evaluation not found")
		}

		pdfBytes, err := services.GenerateEvaluationPDF(data)
		if err != nil {
			log.Printf("evaluation_export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}
		return writeDownload(e, contentTypePDF, exportFilename("Evaluation", data.SupplierName, "pdf"), pdfBytes)
	}
}

func HandleEvaluationExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildEvaluationExport(app, documentHeader(e.Request), e.Request.PathValue("id"))
		if err != nil {
			log.Printf("evaluation_export_excel: %v", err)
			return e.String(http.StatusNotFound, "Evaluation not found")
		}

		xlsxBytes, err := services.GenerateEvaluationExcel(data)
		if err != nil {
			log.Printf("evaluation_export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}
		return writeDownload(e, contentTypeXLSX, exportFilename("Evaluation", data.SupplierName, "xlsx"), xlsxBytes)
	}
}

func HandleRFQExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildRFQExport(app, documentHeader(e.Request), e.Request.PathValue("id"))
		if err != nil {
			log.Printf("rfq_export_pdf: %v", err)
			return e.String(http.StatusNotFound, "RFQ not found")
		}

		pdfBytes, err := services.GenerateRFQPDF(data)
		if err != nil {
			log.Printf("rfq_export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}
		return writeDownload(e, contentTypePDF, exportFilename("Quotation", data.RFQNumber, "pdf"), pdfBytes)
	}
}

func HandleRFQExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildRFQExport(app, documentHeader(e.Request), e.Request.PathValue("id"))
		if err != nil {
			log.Printf("rfq_export_excel: %v", err)
			return e.String(http.StatusNotFound, "RFQ not found")
		}

		xlsxBytes, err := services.GenerateQuotationComparisonExcel(data)
		if err != nil {
			log.Printf("rfq_export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}
		return writeDownload(e, contentTypeXLSX, exportFilename("Comparison", data.RFQNumber, "xlsx"), xlsxBytes)
	}
}
