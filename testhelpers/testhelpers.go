// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"supplierforms/collections"
	"supplierforms/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestRFQ creates an RFQ of the given kind with a few details filled in.
func CreateTestRFQ(t *testing.T, app *pocketbase.PocketBase, number string, kind services.DraftKind) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("rfqs")
	if err != nil {
		t.Fatalf("failed to find rfqs collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("rfq_number", number)
	record.Set("kind", string(kind))
	record.Set("division", "Diagnostics")
	record.Set("sr_no", "1")
	record.Set("rfq_date", "2025-03-01")
	record.Set("rfq_cutoff", "2025-03-15")
	record.Set("port_of_loading", "Hamburg")
	record.Set("destination_port", "Nhava Sheva")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test RFQ: %v", err)
	}

	return record
}

// CreateTestEvaluation saves an evaluation for supplier with the given
// selection and its derived scores.
func CreateTestEvaluation(t *testing.T, app *pocketbase.PocketBase, supplier string, sel services.Selection) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("supplier_evaluations")
	if err != nil {
		t.Fatalf("failed to find supplier_evaluations collection: %v", err)
	}

	summary := services.Summarize(sel)
	record := core.NewRecord(col)
	record.Set("supplier_name", supplier)
	record.Set("product_supplied", "Reagent kits")
	record.Set("period_from", "2025-01-01")
	record.Set("period_to", "2025-03-31")
	record.Set("selections", summary.Selection)
	record.Set("scores", summary.Scores)
	record.Set("total_score", summary.Total)
	record.Set("grade", summary.Grade)
	record.Set("prepared_by", "A. Kumar")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test evaluation: %v", err)
	}

	return record
}

// CreateTestQuotation saves a material bid against rfqID with the given vendor rows.
func CreateTestQuotation(t *testing.T, app *pocketbase.PocketBase, rfqID string, vendors []services.VendorQuoteRow, amount string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		t.Fatalf("failed to find quotations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("rfq", rfqID)
	record.Set("kind", string(services.DraftMaterial))
	record.Set("vendor_rows", vendors)
	record.Set("payterms", "30 days")
	record.Set("quote_amount", amount)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quotation: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHTMLNotContains checks that body contains none of the fragments.
func AssertHTMLNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected HTML not to contain %q", frag)
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
