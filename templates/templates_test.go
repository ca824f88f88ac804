package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"supplierforms/services"
	"supplierforms/testhelpers"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()

	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return buf.String()
}

func TestScoreSummaryTable_CompleteSelection(t *testing.T) {
	sel := services.NewSelection()
	for c := 0; c < services.NumCategories; c++ {
		if err := sel.Select(c, 0); err != nil {
			t.Fatal(err)
		}
	}

	body := render(t, ScoreSummaryTable(services.Summarize(sel)))

	testhelpers.AssertHTMLContains(t, body,
		`data-score="0">30</td>`,
		`data-score="4">10</td>`,
		`rowspan="5" data-total>100</td>`,
		`data-grade>Grade-A</td>`,
	)
}

func TestScoreSummaryTable_IncompleteHasNoGrade(t *testing.T) {
	sel := services.NewSelection()
	_ = sel.Select(0, 1)

	body := render(t, ScoreSummaryTable(services.Summarize(sel)))

	testhelpers.AssertHTMLContains(t, body, `data-total>24</td>`, `data-grade></td>`)
}

func TestScoringSection_MarksSelectedCell(t *testing.T) {
	sel := services.NewSelection()
	_ = sel.Select(3, 2)

	body := render(t, ScoringSection(services.Summarize(sel)))

	testhelpers.AssertHTMLContains(t, body,
		`<div id="scoring">`,
		`<td class="border p-2 cursor-pointer bg-green-100 font-semibold rounded-full"><label for="cell-3-2"`,
		`id="cell-3-2" type="radio" class="sr-only" name="category_3" value="2" checked hx-post="/evaluations/summary"`,
		"3rd Lowest (L3)",
	)
	if n := strings.Count(body, " checked"); n != 1 {
		t.Errorf("expected exactly one checked radio, got %d", n)
	}
}

func TestWarning_EscapesMessage(t *testing.T) {
	body := render(t, Warning("file-warning", `<script>alert("x")</script>`))

	testhelpers.AssertHTMLContains(t, body, `<p id="file-warning" class="text-red-600 text-sm">&lt;script&gt;`)
	testhelpers.AssertHTMLNotContains(t, body, "<script>")
}

func TestPage_HighlightsActiveLink(t *testing.T) {
	header := HeaderData{CompanyName: "Acme Labs", ActivePath: "/evaluations/new", EvaluationCount: 3, RFQCount: 7}

	body := render(t, Page("New", header, templ.Raw(`<p>inner</p>`)))

	testhelpers.AssertHTMLContains(t, body,
		"<!doctype html>",
		"<title>New</title>",
		`href="/evaluations/new" class="text-sm hover:text-blue-700 text-blue-700 font-semibold"`,
		`href="/evaluations" class="text-sm hover:text-blue-700"`,
		`<span class="ml-1 rounded-full bg-blue-100 px-2 text-xs">7</span>`,
		`<main id="main" class="py-10 px-4"><p>inner</p></main>`,
	)
}

func TestReadOnlyField_BlankValue(t *testing.T) {
	body := render(t, readOnlyField("Remarks", "   "))

	testhelpers.AssertHTMLContains(t, body, "no value")
}

func TestRFQImportResults_ListsErrors(t *testing.T) {
	result := &services.ImportResult{
		FileName:  "rfqs.csv",
		TotalRows: 2,
		ErrorRows: 1,
		Errors:    []services.ImportError{{Row: 2, Field: "Type", Message: "must be Material or Logistic"}},
	}

	body := render(t, RFQImportResults(result, `[{"row":2}]`))

	testhelpers.AssertHTMLContains(t, body,
		"rfqs.csv: 1 of 2 rows have errors.",
		`name="errors_json" value="[{&#34;row&#34;:2}]"`,
		`<td class="px-3 py-1">2</td><td class="px-3 py-1">Type</td>`,
		"must be Material or Logistic",
	)
}
