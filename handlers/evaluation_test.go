package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"supplierforms/services"
	"supplierforms/testhelpers"
)

func allRows(row int) url.Values {
	form := url.Values{}
	for c := 0; c < services.NumCategories; c++ {
		form.Set(services.SelectionFieldName(c), strconv.Itoa(row))
	}
	return form
}

func TestHandleEvaluationNew_FullPage(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/evaluations/new", nil)
	rec := httptest.NewRecorder()
	if err := HandleEvaluationNew(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		"<!doctype html>",
		"Supplier Evaluation Form",
		"Format No:", "XYZ-123", "ABC-456",
		"Quality of Items", "Quantity Commitment",
		"100% Compliance", "4-5 Weeks Late",
		`name="category_0"`,
		"Grade-A", "Continued as approved supplier",
		`data-total>0</td>`,
		`data-signature-pad="prepared_signature"`,
	)
	testhelpers.AssertHTMLNotContains(t, body, " checked")
}

func TestHandleEvaluationNew_HTMXFragment(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/evaluations/new", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleEvaluationNew(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLNotContains(t, rec.Body.String(), "<!doctype html>")
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `id="evaluation-form"`)
}

func TestHandleEvaluationSummary(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantTotal string
		wantGrade string
	}{
		{"best row everywhere", allRows(0), `data-total>100</td>`, `data-grade>Grade-A</td>`},
		{"second row everywhere", allRows(1), `data-total>80</td>`, `data-grade>Grade-A</td>`},
		{"third row everywhere", allRows(2), `data-total>50</td>`, `data-grade>Grade-B</td>`},
		{"worst row everywhere", allRows(3), `data-total>20</td>`, `data-grade>Grade-C</td>`},
		{"partial selection", url.Values{"category_0": {"0"}, "category_2": {"1"}}, `data-total>38</td>`, `data-grade></td>`},
		{"garbage ignored", url.Values{"category_0": {"x"}, "category_1": {"9"}}, `data-total>0</td>`, `data-grade></td>`},
	}

	app := testhelpers.NewTestApp(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newFormRequest(http.MethodPost, "/evaluations/summary", tt.form)
			rec := httptest.NewRecorder()
			if err := HandleEvaluationSummary(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			testhelpers.AssertHTMLContains(t, rec.Body.String(), `<div id="scoring">`, tt.wantTotal, tt.wantGrade)
		})
	}
}

func TestHandleEvaluationSummary_MarksSelectedCells(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newFormRequest(http.MethodPost, "/evaluations/summary", url.Values{"category_3": {"2"}})
	rec := httptest.NewRecorder()
	if err := HandleEvaluationSummary(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`id="cell-3-2" type="radio" class="sr-only" name="category_3" value="2" checked`,
		`data-score="3">10</td>`,
	)
}

func TestHandleEvaluationSave_Valid(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := allRows(0)
	form.Set("supplier_name", "  Acme   Labs ")
	form.Set("product_supplied", "Reagents")
	form.Set("period_from", "2025-01-01")
	form.Set("prepared_by", "R. Iyer")
	form.Set("prepared_signature", testPNGDataURL(t))
	form.Set("approved_signature", "data:text/plain;base64,aGVsbG8=")

	req := newFormRequest(http.MethodPost, "/evaluations", form)
	rec := httptest.NewRecorder()
	if err := HandleEvaluationSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	records, err := app.FindRecordsByFilter("supplier_evaluations", "supplier_name = {:n}", "", 1, 0,
		map[string]any{"n": "Acme Labs"})
	if err != nil || len(records) == 0 {
		t.Fatalf("expected evaluation to be saved with cleaned name: %v", err)
	}
	saved := records[0]
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/evaluations/"+saved.Id)

	if saved.GetInt("total_score") != 100 {
		t.Errorf("total_score = %d, want 100", saved.GetInt("total_score"))
	}
	if saved.GetString("grade") != services.GradeA {
		t.Errorf("grade = %q, want %q", saved.GetString("grade"), services.GradeA)
	}
	if saved.GetString("prepared_signature") == "" {
		t.Error("expected prepared signature to be stored")
	}
	if saved.GetString("approved_signature") != "" {
		t.Error("expected non-PNG approved signature to be dropped")
	}
	if sel := selectionFromRecord(saved); sel != (services.Selection{0, 0, 0, 0, 0}) {
		t.Errorf("stored selection = %v", sel)
	}
}

func TestHandleEvaluationSave_MissingSupplier(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := allRows(1)
	form.Set("supplier_name", "   ")
	form.Set("product_supplied", "Kits")

	req := newFormRequest(http.MethodPost, "/evaluations", form)
	rec := httptest.NewRecorder()
	if err := HandleEvaluationSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Header().Get("HX-Redirect") != "" {
		t.Error("expected no redirect on validation failure")
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Supplier name is required",
		`value="Kits"`,
		`data-total>80</td>`,
	)
	if n, _ := app.CountRecords("supplier_evaluations"); n != 0 {
		t.Errorf("expected nothing saved, got %d records", n)
	}
}

func TestHandleEvaluationList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestEvaluation(t, app, "Acme Labs", services.Selection{0, 0, 0, 0, 0})
	testhelpers.CreateTestEvaluation(t, app, "Beta Supplies", services.Selection{3, 3, 3, 3, 3})

	req := httptest.NewRequest(http.MethodGet, "/evaluations", nil)
	rec := httptest.NewRecorder()
	if err := HandleEvaluationList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Acme Labs", "Beta Supplies", "Grade-A", "Grade-C", "2025-01-01 to 2025-03-31",
	)
}

func TestHandleEvaluationList_Empty(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/evaluations", nil)
	rec := httptest.NewRecorder()
	if err := HandleEvaluationList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "No evaluations saved yet.")
}

func TestHandleEvaluationView(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	ev := testhelpers.CreateTestEvaluation(t, app, "Acme Labs", services.Selection{2, 2, 2, 2, 2})

	req := httptest.NewRequest(http.MethodGet, "/evaluations/"+ev.Id, nil)
	req.SetPathValue("id", ev.Id)
	rec := httptest.NewRecorder()
	if err := HandleEvaluationView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Acme Labs",
		`data-total>50</td>`,
		"Warning to improve",
		"/evaluations/"+ev.Id+"/export/pdf",
		"no value",
	)
}

func TestHandleEvaluationView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/evaluations/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	if err := HandleEvaluationView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleEvaluationDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	ev := testhelpers.CreateTestEvaluation(t, app, "Acme Labs", services.NewSelection())

	req := httptest.NewRequest(http.MethodDelete, "/evaluations/"+ev.Id, nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", ev.Id)
	rec := httptest.NewRecorder()
	if err := HandleEvaluationDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("supplier_evaluations", ev.Id); err == nil {
		t.Error("expected evaluation to be deleted")
	}
}

func TestHandleEvaluationSave_LongText(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := allRows(0)
	form.Set("supplier_name", "Acme Labs")
	form.Set("product_supplied", strings.Repeat("reagent ", 1000))
	req := newFormRequest(http.MethodPost, "/evaluations", form)
	rec := httptest.NewRecorder()
	if err := HandleEvaluationSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Header().Get("HX-Redirect") == "" {
		t.Fatalf("expected long but allowed text to save, got %d %q", rec.Code, rec.Body.String())
	}

	form.Set("product_supplied", strings.Repeat("r", services.MaxTextLength+1))
	req = newFormRequest(http.MethodPost, "/evaluations", form)
	rec = httptest.NewRecorder()
	if err := HandleEvaluationSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	if n, _ := app.CountRecords("supplier_evaluations"); n != 1 {
		t.Errorf("expected only the first evaluation saved, got %d", n)
	}
}
