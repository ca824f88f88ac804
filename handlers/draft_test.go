package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"supplierforms/services"
	"supplierforms/testhelpers"
)

func newDraft(t *testing.T, store services.DraftStore, kind services.DraftKind, rfqID string) *services.QuoteDraft {
	t.Helper()
	d, err := store.Create(context.Background(), kind, rfqID)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	return d
}

func vendorForm(desc, lead, delivery, rate string) url.Values {
	return url.Values{
		"material_desc": {desc},
		"lead_time":     {lead},
		"delivery":      {delivery},
		"rate":          {rate},
	}
}

func runDraftHandler(t *testing.T, h func(*core.RequestEvent) error, req *http.Request, draftID string, extra map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	req.SetPathValue("draftId", draftID)
	for k, v := range extra {
		req.SetPathValue(k, v)
	}
	rec := httptest.NewRecorder()
	if err := h(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestHandleDraftAddVendor_Complete(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, "rfq1")

	req := newFormRequest(http.MethodPost, "/drafts/"+d.ID+"/vendors", vendorForm("Glucose kit", "2 weeks", "Bengaluru", "1200"))
	rec := runDraftHandler(t, HandleDraftAddVendor(store), req, d.ID, nil)

	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`id="vendor-section"`, "Glucose kit", "2 weeks", "1200",
		`<p id="vendor-warning" class="text-red-600 text-sm"></p>`,
	)

	got, _ := store.Get(context.Background(), d.ID)
	if len(got.Vendors) != 1 {
		t.Fatalf("expected 1 vendor row, got %d", len(got.Vendors))
	}
}

func TestHandleDraftAddVendor_Incomplete(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"missing rate", vendorForm("Glucose kit", "2 weeks", "Bengaluru", "")},
		{"blank desc", vendorForm("   ", "2 weeks", "Bengaluru", "1200")},
		{"all empty", vendorForm("", "", "", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
			d := newDraft(t, store, services.DraftMaterial, "rfq1")

			req := newFormRequest(http.MethodPost, "/drafts/"+d.ID+"/vendors", tt.form)
			rec := runDraftHandler(t, HandleDraftAddVendor(store), req, d.ID, nil)

			if rec.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", rec.Code)
			}
			testhelpers.AssertHTMLContains(t, rec.Body.String(), services.WarnVendorIncomplete)
			if toast := decodeToast(t, rec.Header().Get("HX-Trigger")); toast["type"] != ToastWarning {
				t.Errorf("expected warning toast, got %q", toast["type"])
			}

			got, _ := store.Get(context.Background(), d.ID)
			if len(got.Vendors) != 0 {
				t.Errorf("expected vendor list unchanged, got %d rows", len(got.Vendors))
			}
		})
	}
}

func TestHandleDraftAddVendor_EchoesTypedValuesOnWarning(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, "rfq1")

	req := newFormRequest(http.MethodPost, "/drafts/"+d.ID+"/vendors", vendorForm("Glucose kit", "", "", ""))
	rec := runDraftHandler(t, HandleDraftAddVendor(store), req, d.ID, nil)

	testhelpers.AssertHTMLContains(t, rec.Body.String(), ">Glucose kit</textarea>")
}

func TestHandleDraftRemoveVendor(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, "rfq1")
	_, _ = store.Update(context.Background(), d.ID, func(d *services.QuoteDraft) error {
		for _, desc := range []string{"A", "B", "C"} {
			d.AddVendorRow(services.VendorQuoteRow{MaterialDesc: desc, LeadTime: "1", Delivery: "x", Rate: "1"})
		}
		return nil
	})

	tests := []struct {
		index string
		want  []string
	}{
		{"1", []string{"A", "C"}},
		{"7", []string{"A", "C"}},
		{"abc", []string{"A", "C"}},
		{"0", []string{"C"}},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodDelete, "/drafts/"+d.ID+"/vendors/"+tt.index, nil)
		req.Header.Set("HX-Request", "true")
		runDraftHandler(t, HandleDraftRemoveVendor(store), req, d.ID, map[string]string{"index": tt.index})

		got, _ := store.Get(context.Background(), d.ID)
		var descs []string
		for _, v := range got.Vendors {
			descs = append(descs, v.MaterialDesc)
		}
		if strings.Join(descs, ",") != strings.Join(tt.want, ",") {
			t.Errorf("after removing %s: got %v, want %v", tt.index, descs, tt.want)
		}
	}
}

func TestHandleDraftAddFile_NoFileChosen(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftLogistic, "rfq1")

	req := newUploadRequest(t, "/drafts/"+d.ID+"/files", "", nil)
	rec := runDraftHandler(t, HandleDraftAddFile(store, 1<<20), req, d.ID, nil)

	testhelpers.AssertHTMLContains(t, rec.Body.String(), `id="file-section"`, services.WarnNoFileChosen)
	got, _ := store.Get(context.Background(), d.ID)
	if len(got.Files) != 0 {
		t.Errorf("expected no files, got %d", len(got.Files))
	}
}

func TestHandleDraftAddFile_NotMultipart(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, "rfq1")

	req := newFormRequest(http.MethodPost, "/drafts/"+d.ID+"/files", url.Values{})
	rec := runDraftHandler(t, HandleDraftAddFile(store, 1<<20), req, d.ID, nil)

	testhelpers.AssertHTMLContains(t, rec.Body.String(), services.WarnNoFileChosen)
}

func TestHandleDraftAddFile_Valid(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, "rfq1")
	_, _ = store.Update(context.Background(), d.ID, func(d *services.QuoteDraft) error {
		d.AddFile(nil)
		return nil
	})

	req := newUploadRequest(t, "/drafts/"+d.ID+"/files", "quote.pdf", []byte("%PDF-1.4 test"))
	rec := runDraftHandler(t, HandleDraftAddFile(store, 1<<20), req, d.ID, nil)

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		"quote.pdf",
		`<input id="file-input" type="file" name="file"`,
		`<p id="file-warning" class="text-red-600 text-sm"></p>`,
		"/drafts/"+d.ID+"/files/0",
	)
	testhelpers.AssertHTMLNotContains(t, body, services.WarnNoFileChosen)

	got, _ := store.Get(context.Background(), d.ID)
	if len(got.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(got.Files))
	}
	if got.Files[0].ContentType != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", got.Files[0].ContentType)
	}
}

func TestHandleDraftAddFile_TooLarge(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, "rfq1")

	req := newUploadRequest(t, "/drafts/"+d.ID+"/files", "big.bin", make([]byte, 2048))
	rec := runDraftHandler(t, HandleDraftAddFile(store, 1024), req, d.ID, nil)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
	got, _ := store.Get(context.Background(), d.ID)
	if len(got.Files) != 0 {
		t.Errorf("expected no files, got %d", len(got.Files))
	}
}

func TestHandleDraftAddFile_LimitReached(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, "rfq1")
	_, _ = store.Update(context.Background(), d.ID, func(d *services.QuoteDraft) error {
		for i := 0; i < services.MaxDraftFiles; i++ {
			d.AddFile(&services.UploadedFile{Name: "page.txt", ContentType: "text/plain", Content: []byte("p")})
		}
		return nil
	})

	req := newUploadRequest(t, "/drafts/"+d.ID+"/files", "extra.pdf", []byte("%PDF-1.4 test"))
	rec := runDraftHandler(t, HandleDraftAddFile(store, 1<<20), req, d.ID, nil)

	testhelpers.AssertHTMLContains(t, rec.Body.String(), services.WarnTooManyFiles)
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "at most 100 files") {
		t.Errorf("expected a warning toast, HX-Trigger = %q", rec.Header().Get("HX-Trigger"))
	}
	got, _ := store.Get(context.Background(), d.ID)
	if len(got.Files) != services.MaxDraftFiles {
		t.Errorf("expected %d files, got %d", services.MaxDraftFiles, len(got.Files))
	}
}

func TestHandleDraftSubmit_MaxFiles(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rfq := testhelpers.CreateTestRFQ(t, app, "RFQ-12", services.DraftMaterial)
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, rfq.Id)
	_, _ = store.Update(context.Background(), d.ID, func(d *services.QuoteDraft) error {
		for i := 0; i < services.MaxDraftFiles; i++ {
			d.AddFile(&services.UploadedFile{Name: "page.txt", ContentType: "text/plain", Content: []byte("p")})
		}
		return nil
	})

	req := newFormRequest(http.MethodPost, "/drafts/"+d.ID+"/submit", url.Values{})
	req.SetPathValue("draftId", d.ID)
	rec := httptest.NewRecorder()
	if err := HandleDraftSubmit(app, store)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/rfqs/"+rfq.Id)

	quotes, _ := findQuotations(app, rfq.Id)
	if len(quotes) != 1 || len(quotes[0].GetStringSlice("attachments")) != services.MaxDraftFiles {
		t.Errorf("expected a quotation with %d attachments", services.MaxDraftFiles)
	}
}

func TestHandleDraftRemoveFile(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, "rfq1")
	_, _ = store.Update(context.Background(), d.ID, func(d *services.QuoteDraft) error {
		d.AddFile(&services.UploadedFile{Name: "a.txt"})
		d.AddFile(&services.UploadedFile{Name: "b.txt"})
		return nil
	})

	req := httptest.NewRequest(http.MethodDelete, "/drafts/"+d.ID+"/files/0", nil)
	rec := runDraftHandler(t, HandleDraftRemoveFile(store), req, d.ID, map[string]string{"index": "0"})

	testhelpers.AssertHTMLContains(t, rec.Body.String(), "b.txt")
	testhelpers.AssertHTMLNotContains(t, rec.Body.String(), "a.txt")
}

func TestHandleDraftViewFile(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, "rfq1")
	_, _ = store.Update(context.Background(), d.ID, func(d *services.QuoteDraft) error {
		d.AddFile(&services.UploadedFile{Name: "note.txt", ContentType: "text/plain; charset=utf-8", Content: []byte("hello")})
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/drafts/"+d.ID+"/files/0", nil)
	rec := runDraftHandler(t, HandleDraftViewFile(store), req, d.ID, map[string]string{"index": "0"})

	if rec.Body.String() != "hello" {
		t.Errorf("body = %q, want hello", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline") {
		t.Errorf("content disposition = %q", cd)
	}

	req = httptest.NewRequest(http.MethodGet, "/drafts/"+d.ID+"/files/5", nil)
	rec = runDraftHandler(t, HandleDraftViewFile(store), req, d.ID, map[string]string{"index": "5"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown index, got %d", rec.Code)
	}
}

func TestHandleDraftViewFile_HTMLDownloadedSandboxed(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, "rfq1")

	page := []byte("<html><body><script>alert(document.cookie)</script></body></html>")
	req := newUploadRequest(t, "/drafts/"+d.ID+"/files", "quote.pdf", page)
	runDraftHandler(t, HandleDraftAddFile(store, 1<<20), req, d.ID, nil)

	req = httptest.NewRequest(http.MethodGet, "/drafts/"+d.ID+"/files/0", nil)
	rec := runDraftHandler(t, HandleDraftViewFile(store), req, d.ID, map[string]string{"index": "0"})

	if ct := rec.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("content type = %q, want application/octet-stream", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="quote.pdf"` {
		t.Errorf("content disposition = %q", cd)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got != "sandbox" {
		t.Errorf("Content-Security-Policy = %q", got)
	}
}

func TestHandleDraftClearWarning(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, "rfq1")
	_, _ = store.Update(context.Background(), d.ID, func(d *services.QuoteDraft) error {
		d.AddVendorRow(services.VendorQuoteRow{})
		d.AddFile(nil)
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/drafts/"+d.ID+"/warnings/vendor", nil)
	rec := runDraftHandler(t, HandleDraftClearWarning(store), req, d.ID, map[string]string{"which": "vendor"})

	if got := rec.Body.String(); got != `<p id="vendor-warning" class="text-red-600 text-sm"></p>` {
		t.Errorf("unexpected placeholder %q", got)
	}
	got, _ := store.Get(context.Background(), d.ID)
	if got.VendorWarning != "" {
		t.Error("expected vendor warning cleared")
	}
	if got.FileWarning == "" {
		t.Error("expected file warning untouched")
	}

	req = httptest.NewRequest(http.MethodPost, "/drafts/"+d.ID+"/warnings/other", nil)
	rec = runDraftHandler(t, HandleDraftClearWarning(store), req, d.ID, map[string]string{"which": "other"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown warning, got %d", rec.Code)
	}
}

func TestDraftHandlers_ExpiredDraft(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)

	req := newFormRequest(http.MethodPost, "/drafts/gone/vendors", vendorForm("a", "b", "c", "d"))
	rec := runDraftHandler(t, HandleDraftAddVendor(store), req, "gone", nil)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec.Body.String() != draftExpiredMessage {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandleDraftSubmit_Material(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rfq := testhelpers.CreateTestRFQ(t, app, "RFQ-9", services.DraftMaterial)
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, rfq.Id)
	_, _ = store.Update(context.Background(), d.ID, func(d *services.QuoteDraft) error {
		d.AddVendorRow(services.VendorQuoteRow{MaterialDesc: "Kit", LeadTime: "1w", Delivery: "Pune", Rate: "500"})
		d.AddFile(&services.UploadedFile{Name: "datasheet.txt", ContentType: "text/plain", Content: []byte("datasheet")})
		return nil
	})

	form := url.Values{
		"payterms":       {"45 days"},
		"validity_start": {"2025-09-01"},
		"validity_end":   {""},
		"quote_amount":   {"12,500"},
	}
	req := newFormRequest(http.MethodPost, "/drafts/"+d.ID+"/submit", form)
	req.SetPathValue("draftId", d.ID)
	rec := httptest.NewRecorder()
	if err := HandleDraftSubmit(app, store)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/rfqs/"+rfq.Id)

	quotes, err := findQuotations(app, rfq.Id)
	if err != nil || len(quotes) != 1 {
		t.Fatalf("expected 1 quotation, got %d (%v)", len(quotes), err)
	}
	q := quotationSummary(quotes[0], 1)
	if q.Payterms != "45 days" || q.QuoteAmount != "12,500" {
		t.Errorf("unexpected fields %+v", q)
	}
	if len(q.Vendors) != 1 || q.Vendors[0].Rate != "500" {
		t.Errorf("vendor rows not stored: %+v", q.Vendors)
	}
	if len(q.AttachmentNames) != 1 || q.AttachmentNames[0] != "datasheet.txt" {
		t.Errorf("attachments = %v", q.AttachmentNames)
	}

	if _, err := store.Get(context.Background(), d.ID); err == nil {
		t.Error("expected draft to be dropped after submit")
	}
}

func TestHandleDraftSubmit_LogisticProvider(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rfq := testhelpers.CreateTestRFQ(t, app, "RFQ-10", services.DraftLogistic)
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftLogistic, rfq.Id)

	form := url.Values{
		"provider_name":          {"FastFreight"},
		"provider_from_currency": {services.CurrencyOptions[0]},
		"provider_to_currency":   {"Monopoly money"},
		"quote_amount":           {"9000"},
	}
	req := newFormRequest(http.MethodPost, "/drafts/"+d.ID+"/submit", form)
	req.SetPathValue("draftId", d.ID)
	rec := httptest.NewRecorder()
	if err := HandleDraftSubmit(app, store)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	quotes, _ := findQuotations(app, rfq.Id)
	if len(quotes) != 1 {
		t.Fatalf("expected 1 quotation, got %d", len(quotes))
	}
	provider := map[string]string{}
	if err := quotes[0].UnmarshalJSONField("provider", &provider); err != nil {
		t.Fatalf("provider JSON: %v", err)
	}
	if provider["name"] != "FastFreight" {
		t.Errorf("provider name = %q", provider["name"])
	}
	if provider["from_currency"] != services.CurrencyOptions[0] {
		t.Errorf("from_currency = %q", provider["from_currency"])
	}
	if provider["to_currency"] != "" {
		t.Errorf("expected unknown currency dropped, got %q", provider["to_currency"])
	}
}

func TestHandleDraftSubmit_LongText(t *testing.T) {
	tests := []struct {
		name      string
		payterms  string
		wantSaved bool
	}{
		{"past the old 5000 cap", strings.Repeat("net 30 ", 1000), true},
		{"at the limit", strings.Repeat("x", services.MaxTextLength), true},
		{"over the limit", strings.Repeat("x", services.MaxTextLength+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			rfq := testhelpers.CreateTestRFQ(t, app, "RFQ-11", services.DraftMaterial)
			store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
			d := newDraft(t, store, services.DraftMaterial, rfq.Id)

			req := newFormRequest(http.MethodPost, "/drafts/"+d.ID+"/submit", url.Values{"payterms": {tt.payterms}})
			req.SetPathValue("draftId", d.ID)
			rec := httptest.NewRecorder()
			if err := HandleDraftSubmit(app, store)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			n, _ := app.CountRecords("quotations")
			if tt.wantSaved {
				testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/rfqs/"+rfq.Id)
				if n != 1 {
					t.Errorf("expected quotation saved, got %d", n)
				}
				return
			}
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected 422, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "Payterms is longer than") {
				t.Errorf("body = %q", rec.Body.String())
			}
			if n != 0 {
				t.Errorf("expected nothing saved, got %d", n)
			}
			if _, err := store.Get(context.Background(), d.ID); err != nil {
				t.Error("expected draft kept so the user can shorten the text")
			}
		})
	}
}

func TestHandleDraftSubmit_ExpiredDraft(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)

	req := newFormRequest(http.MethodPost, "/drafts/nope/submit", url.Values{})
	req.SetPathValue("draftId", "nope")
	rec := httptest.NewRecorder()
	if err := HandleDraftSubmit(app, store)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if n, _ := app.CountRecords("quotations"); n != 0 {
		t.Errorf("expected no quotation, got %d", n)
	}
}

func TestHandleDraftDiscard(t *testing.T) {
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)
	d := newDraft(t, store, services.DraftMaterial, "rfq1")

	req := httptest.NewRequest(http.MethodPost, "/drafts/"+d.ID+"/discard", nil)
	rec := runDraftHandler(t, HandleDraftDiscard(store), req, d.ID, nil)

	if rec.Code != http.StatusFound {
		t.Errorf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/rfqs" {
		t.Errorf("Location = %q, want /rfqs", loc)
	}
	if store.Len() != 0 {
		t.Errorf("expected draft dropped, %d left", store.Len())
	}
}
