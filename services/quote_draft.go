package services

import (
	"fmt"
	"time"
)

// MaxDraftFiles is the most attachments one quotation can carry.
const MaxDraftFiles = 100

// Warning texts shown next to the Add buttons.
const (
	WarnNoFileChosen     = "No file chosen. Please select a file before clicking Add."
	WarnVendorIncomplete = "Please fill all fields before adding a vendor."
)

// WarnTooManyFiles is shown once a draft holds MaxDraftFiles attachments.
var WarnTooManyFiles = fmt.Sprintf("A quotation can carry at most %d files. Remove one before adding another.", MaxDraftFiles)

// DraftKind selects which quotation page a draft belongs to.
type DraftKind string

const (
	DraftMaterial DraftKind = "material"
	DraftLogistic DraftKind = "logistic"
)

// UploadedFile is an attachment held in a draft until the bid is placed.
type UploadedFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Content     []byte `json:"content"`
}

// VendorQuoteRow is one vendor line on the material quotation page.
type VendorQuoteRow struct {
	MaterialDesc string `json:"material_desc"`
	LeadTime     string `json:"lead_time"`
	Delivery     string `json:"delivery"`
	Rate         string `json:"rate"`
}

// Clean returns the row with every field normalised.
func (r VendorQuoteRow) Clean() VendorQuoteRow {
	return VendorQuoteRow{
		MaterialDesc: CleanMultiline(r.MaterialDesc),
		LeadTime:     CleanText(r.LeadTime),
		Delivery:     CleanText(r.Delivery),
		Rate:         CleanText(r.Rate),
	}
}

// Complete reports whether all four fields are filled in.
func (r VendorQuoteRow) Complete() bool {
	return r.MaterialDesc != "" && r.LeadTime != "" && r.Delivery != "" && r.Rate != ""
}

// QuoteDraft is the server-side state of one open quotation page: the vendor
// rows and attachments collected so far plus the last warning per control.
type QuoteDraft struct {
	ID            string           `json:"id"`
	Kind          DraftKind        `json:"kind"`
	RFQID         string           `json:"rfq_id"`
	Files         []UploadedFile   `json:"files"`
	Vendors       []VendorQuoteRow `json:"vendors"`
	FileWarning   string           `json:"file_warning"`
	VendorWarning string           `json:"vendor_warning"`
	CreatedAt     time.Time        `json:"created_at"`
	ExpiresAt     time.Time        `json:"expires_at"`
}

// AddFile appends f. A nil or unnamed file, or a full list, sets the file
// warning and leaves the list unchanged. It reports whether the file was added.
func (d *QuoteDraft) AddFile(f *UploadedFile) bool {
	if f == nil || f.Name == "" {
		d.FileWarning = WarnNoFileChosen
		return false
	}
	if len(d.Files) >= MaxDraftFiles {
		d.FileWarning = WarnTooManyFiles
		return false
	}
	d.Files = append(d.Files, *f)
	d.FileWarning = ""
	return true
}

// RemoveFile drops the file at position i. Unknown positions are ignored.
func (d *QuoteDraft) RemoveFile(i int) {
	d.Files = removeAt(d.Files, i)
}

// File returns the file at position i.
func (d *QuoteDraft) File(i int) (UploadedFile, bool) {
	if i < 0 || i >= len(d.Files) {
		return UploadedFile{}, false
	}
	return d.Files[i], true
}

// AddVendorRow normalises and appends row. If any field is blank the vendor
// warning is set and the list is left unchanged.
func (d *QuoteDraft) AddVendorRow(row VendorQuoteRow) bool {
	row = row.Clean()
	if !row.Complete() {
		d.VendorWarning = WarnVendorIncomplete
		return false
	}
	d.Vendors = append(d.Vendors, row)
	d.VendorWarning = ""
	return true
}

// RemoveVendorRow drops the vendor row at position i. Unknown positions are ignored.
func (d *QuoteDraft) RemoveVendorRow(i int) {
	d.Vendors = removeAt(d.Vendors, i)
}

// ClearWarning resets the "vendor" or "file" warning. It reports false for
// any other name.
func (d *QuoteDraft) ClearWarning(which string) bool {
	switch which {
	case "vendor":
		d.VendorWarning = ""
	case "file":
		d.FileWarning = ""
	default:
		return false
	}
	return true
}

// Expired reports whether the draft outlived its TTL at now.
func (d *QuoteDraft) Expired(now time.Time) bool {
	return !d.ExpiresAt.IsZero() && now.After(d.ExpiresAt)
}

// removeAt returns a new slice without element i, keeping the order of the rest.
func removeAt[T any](items []T, i int) []T {
	if i < 0 || i >= len(items) {
		return items
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
