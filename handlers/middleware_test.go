package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"supplierforms/config"
	"supplierforms/services"
	"supplierforms/templates"
	"supplierforms/testhelpers"
)

func TestGetHeaderData_FromContext(t *testing.T) {
	expected := templates.HeaderData{CompanyName: "Acme", RFQCount: 3}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), HeaderDataKey, expected)
	req = req.WithContext(ctx)

	got := GetHeaderData(req)
	if got != expected {
		t.Errorf("expected %+v, got %+v", expected, got)
	}
}

func TestGetHeaderData_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetHeaderData(req); got != (templates.HeaderData{}) {
		t.Errorf("expected zero header data, got %+v", got)
	}
}

func TestBuildHeaderData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestRFQ(t, app, "RFQ-1", services.DraftMaterial)
	testhelpers.CreateTestRFQ(t, app, "RFQ-2", services.DraftLogistic)
	testhelpers.CreateTestEvaluation(t, app, "Acme", services.NewSelection())

	settings := config.Defaults()
	settings.CompanyName = "Acme Diagnostics"

	got := BuildHeaderData(app, settings, "/rfqs")
	if got.CompanyName != "Acme Diagnostics" || got.FormatNo != "XYZ-123" || got.SupersedesNo != "ABC-456" {
		t.Errorf("unexpected document numbers %+v", got)
	}
	if got.ActivePath != "/rfqs" {
		t.Errorf("ActivePath = %q", got.ActivePath)
	}
	if got.RFQCount != 2 {
		t.Errorf("RFQCount = %d, want 2", got.RFQCount)
	}
	if got.EvaluationCount != 1 {
		t.Errorf("EvaluationCount = %d, want 1", got.EvaluationCount)
	}
}

func TestHeaderMiddleware_SetsContext(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestRFQ(t, app, "RFQ-1", services.DraftMaterial)
	settings := config.Defaults()

	req := httptest.NewRequest(http.MethodGet, "/rfqs", nil)
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec

	// e.Next() with no handler set returns nil
	if err := HeaderMiddleware(app, &settings)(e); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}

	got := GetHeaderData(e.Request)
	if got.RFQCount != 1 {
		t.Errorf("RFQCount = %d, want 1", got.RFQCount)
	}
	if got.ActivePath != "/rfqs" {
		t.Errorf("ActivePath = %q", got.ActivePath)
	}
	if got.FormatNo != settings.FormatNo {
		t.Errorf("FormatNo = %q", got.FormatNo)
	}
}

func TestDocumentHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), HeaderDataKey, testHeader))

	got := documentHeader(req)
	want := services.DocumentHeader{CompanyName: "Diagnostics", FormatNo: "XYZ-123", SupersedesNo: "ABC-456"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRedirect(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := redirect(newTestRequestEvent(app, req, rec), "/rfqs"); err != nil {
		t.Fatal(err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/rfqs")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for htmx redirect, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	rec = httptest.NewRecorder()
	if err := redirect(newTestRequestEvent(app, req, rec), "/rfqs"); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/rfqs" {
		t.Errorf("expected 302 to /rfqs, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
