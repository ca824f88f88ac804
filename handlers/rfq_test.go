package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"supplierforms/services"
	"supplierforms/testhelpers"
)

func TestHandleRFQList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	material := testhelpers.CreateTestRFQ(t, app, "RFQ-100", services.DraftMaterial)
	testhelpers.CreateTestRFQ(t, app, "RFQ-200", services.DraftLogistic)
	testhelpers.CreateTestQuotation(t, app, material.Id, nil, "100")
	testhelpers.CreateTestQuotation(t, app, material.Id, nil, "200")

	req := httptest.NewRequest(http.MethodGet, "/rfqs", nil)
	rec := httptest.NewRecorder()
	if err := HandleRFQList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		"<!doctype html>",
		"RFQ-100", "RFQ-200", "Material", "Logistic",
		`href="/rfqs/`+material.Id+`/quote"`,
	)
}

func TestHandleRFQList_Empty(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/rfqs", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleRFQList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "No RFQs found.")
	testhelpers.AssertHTMLNotContains(t, rec.Body.String(), "<!doctype html>")
}

func TestHandleRFQView(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rfq := testhelpers.CreateTestRFQ(t, app, "RFQ-300", services.DraftMaterial)
	testhelpers.CreateTestQuotation(t, app, rfq.Id, []services.VendorQuoteRow{
		{MaterialDesc: "Pipette tips", LeadTime: "3 days", Delivery: "Mumbai", Rate: "75"},
	}, "7,500")

	req := httptest.NewRequest(http.MethodGet, "/rfqs/"+rfq.Id, nil)
	req.SetPathValue("id", rfq.Id)
	rec := httptest.NewRecorder()
	if err := HandleRFQView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"RFQ-300",
		"Hamburg", "Nhava Sheva",
		"Quotations (1)", "Bid #1",
		"Pipette tips", "3 days", "75",
		"7,500", "30 days",
		"/rfqs/"+rfq.Id+"/export/excel",
	)
}

func TestHandleRFQView_NoQuotations(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rfq := testhelpers.CreateTestRFQ(t, app, "RFQ-301", services.DraftLogistic)

	req := httptest.NewRequest(http.MethodGet, "/rfqs/"+rfq.Id, nil)
	req.SetPathValue("id", rfq.Id)
	rec := httptest.NewRecorder()
	if err := HandleRFQView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Quotations (0)", "No quotations have been placed yet.")
}

func TestHandleRFQView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/rfqs/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	if err := HandleRFQView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleRFQQuote(t *testing.T) {
	tests := []struct {
		name    string
		kind    services.DraftKind
		want    []string
		notWant []string
	}{
		{
			name:    "material page",
			kind:    services.DraftMaterial,
			want:    []string{"Vendor Quotes", "Add Vendor", `name="payterms"`, "Place Bid"},
			notWant: []string{"Service Provider"},
		},
		{
			name:    "logistic page",
			kind:    services.DraftLogistic,
			want:    []string{"Service Provider", `name="provider_from_currency"`, "Select Currency", services.CurrencyOptions[0], "Place Bid"},
			notWant: []string{"Vendor Quotes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			rfq := testhelpers.CreateTestRFQ(t, app, "RFQ-400", tt.kind)
			store := services.NewMemoryDraftStore(services.DefaultDraftTTL)

			req := httptest.NewRequest(http.MethodGet, "/rfqs/"+rfq.Id+"/quote", nil)
			req.SetPathValue("id", rfq.Id)
			rec := httptest.NewRecorder()
			if err := HandleRFQQuote(app, store)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			body := rec.Body.String()
			testhelpers.AssertHTMLContains(t, body, append(tt.want, "RFQ-400", "Hamburg", `id="file-section"`)...)
			testhelpers.AssertHTMLNotContains(t, body, tt.notWant...)

			if store.Len() != 1 {
				t.Errorf("expected one draft opened, got %d", store.Len())
			}
		})
	}
}

func TestHandleRFQQuote_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewMemoryDraftStore(services.DefaultDraftTTL)

	req := httptest.NewRequest(http.MethodGet, "/rfqs/missing/quote", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	if err := HandleRFQQuote(app, store)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if store.Len() != 0 {
		t.Errorf("expected no draft, got %d", store.Len())
	}
}
