package collections_test

import (
	"testing"

	"supplierforms/collections"
	"supplierforms/services"
	"supplierforms/testhelpers"
)

func TestSeed_CreatesRFQs(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	col, _ := app.FindCollectionByNameOrId("rfqs")
	rfqs, err := app.FindAllRecords(col)
	if err != nil {
		t.Fatalf("query rfqs error: %v", err)
	}
	if len(rfqs) != 2 {
		t.Fatalf("expected 2 rfqs, got %d", len(rfqs))
	}

	kinds := map[string]string{}
	for _, r := range rfqs {
		kinds[r.GetString("rfq_number")] = r.GetString("kind")
	}
	if kinds["RFQ-2025-0142"] != string(services.DraftMaterial) {
		t.Errorf("RFQ-2025-0142 kind = %q, want material", kinds["RFQ-2025-0142"])
	}
	if kinds["RFQ-2025-0157"] != string(services.DraftLogistic) {
		t.Errorf("RFQ-2025-0157 kind = %q, want logistic", kinds["RFQ-2025-0157"])
	}
}

func TestSeed_SkipsWhenRFQsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestRFQ(t, app, "RFQ-EXISTING", services.DraftMaterial)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	n, err := app.CountRecords("rfqs")
	if err != nil {
		t.Fatalf("count rfqs: %v", err)
	}
	if n != 1 {
		t.Errorf("expected seed to be skipped, got %d rfqs", n)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	for i := 0; i < 2; i++ {
		if err := collections.Seed(app); err != nil {
			t.Fatalf("Seed() run %d error: %v", i+1, err)
		}
	}

	n, _ := app.CountRecords("rfqs")
	if n != 2 {
		t.Errorf("expected 2 rfqs after two seeds, got %d", n)
	}
}
