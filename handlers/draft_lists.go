package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase/core"

	"supplierforms/services"
	"supplierforms/templates"
)

const draftExpiredMessage = "Draft expired. Please reload the page."

// updateDraft applies fn to the request's draft. When it returns a non-nil
// error the response has already been written and the caller should return it.
func updateDraft(e *core.RequestEvent, store services.DraftStore, area string, fn func(*services.QuoteDraft) error) (*services.QuoteDraft, error) {
	d, err := store.Update(e.Request.Context(), e.Request.PathValue("draftId"), fn)
	if errors.Is(err, services.ErrDraftNotFound) {
		return nil, ErrorToast(e, http.StatusNotFound, draftExpiredMessage)
	}
	if err != nil {
		return nil, serverError(e, area, "could not update draft", err)
	}
	return d, nil
}

// pathIndex reads {index}. Anything unparsable maps to -1, which the
// removal helpers ignore.
func pathIndex(e *core.RequestEvent) int {
	i, err := strconv.Atoi(e.Request.PathValue("index"))
	if err != nil {
		return -1
	}
	return i
}

// HandleDraftAddVendor appends a vendor row. A row with any blank field is
// rejected with the inline warning and the typed values are echoed back.
func HandleDraftAddVendor(store services.DraftStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		row := services.VendorQuoteRow{
			MaterialDesc: e.Request.FormValue("material_desc"),
			LeadTime:     e.Request.FormValue("lead_time"),
			Delivery:     e.Request.FormValue("delivery"),
			Rate:         e.Request.FormValue("rate"),
		}

		var added bool
		d, err := updateDraft(e, store, "draft_vendor_add", func(d *services.QuoteDraft) error {
			added = d.AddVendorRow(row)
			return nil
		})
		if d == nil {
			return err
		}

		pending := services.VendorQuoteRow{}
		if !added {
			pending = row
			SetToast(e, ToastWarning, d.VendorWarning)
		}
		return templates.VendorSection(d, pending).Render(e.Request.Context(), e.Response)
	}
}

func HandleDraftRemoveVendor(store services.DraftStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		i := pathIndex(e)
		d, err := updateDraft(e, store, "draft_vendor_remove", func(d *services.QuoteDraft) error {
			d.RemoveVendorRow(i)
			return nil
		})
		if d == nil {
			return err
		}
		return templates.VendorSection(d, services.VendorQuoteRow{}).Render(e.Request.Context(), e.Response)
	}
}

// HandleDraftAddFile appends the uploaded file. A request without a chosen
// file sets the file warning and leaves the list alone.
func HandleDraftAddFile(store services.DraftStore, maxBytes int64) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var upload *services.UploadedFile

		file, hdr, err := e.Request.FormFile("file")
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		case err != nil:
			log.Printf("draft_file_add: could not read multipart form: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Invalid upload")
		default:
			defer file.Close()
			upload, err = services.ReadUpload(hdr.Filename, file, maxBytes)
			if errors.Is(err, services.ErrFileTooLarge) {
				return ErrorToast(e, http.StatusRequestEntityTooLarge, fmt.Sprintf("File is larger than %d MB.", maxBytes>>20))
			}
			if err != nil {
				return serverError(e, "draft_file_add", "could not read upload", err)
			}
		}

		var added bool
		d, err := updateDraft(e, store, "draft_file_add", func(d *services.QuoteDraft) error {
			added = d.AddFile(upload)
			return nil
		})
		if d == nil {
			return err
		}

		if !added {
			SetToast(e, ToastWarning, d.FileWarning)
		}
		return templates.FileSection(d).Render(e.Request.Context(), e.Response)
	}
}

func HandleDraftRemoveFile(store services.DraftStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		i := pathIndex(e)
		d, err := updateDraft(e, store, "draft_file_remove", func(d *services.QuoteDraft) error {
			d.RemoveFile(i)
			return nil
		})
		if d == nil {
			return err
		}
		return templates.FileSection(d).Render(e.Request.Context(), e.Response)
	}
}

// HandleDraftViewFile serves a draft attachment, inline for previewable
// types, like opening an object URL for the picked file.
func HandleDraftViewFile(store services.DraftStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, err := store.Get(e.Request.Context(), e.Request.PathValue("draftId"))
		if errors.Is(err, services.ErrDraftNotFound) {
			return e.String(http.StatusNotFound, draftExpiredMessage)
		}
		if err != nil {
			return serverError(e, "draft_file_view", "could not load draft", err)
		}

		f, ok := d.File(pathIndex(e))
		if !ok {
			return e.String(http.StatusNotFound, "File not found")
		}
		return writeUploadedFile(e, f.Name, f.ContentType, f.Content)
	}
}

// HandleDraftClearWarning clears the vendor or file warning after the user
// edits the related input, and returns the empty placeholder.
func HandleDraftClearWarning(store services.DraftStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		which := e.Request.PathValue("which")
		if which != "vendor" && which != "file" {
			return e.String(http.StatusNotFound, "Unknown warning")
		}

		d, err := updateDraft(e, store, "draft_warning_clear", func(d *services.QuoteDraft) error {
			d.ClearWarning(which)
			return nil
		})
		if d == nil {
			return err
		}
		return templates.Warning(which+"-warning", "").Render(e.Request.Context(), e.Response)
	}
}
