package collections_test

import (
	"testing"

	"supplierforms/collections"
	"supplierforms/services"
	"supplierforms/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"rfqs",
	"supplier_evaluations",
	"quotations",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_RFQFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("rfqs")

	fields := []string{"rfq_number", "kind", "attachment", "created", "updated"}
	for _, f := range services.CompanyDetailFields {
		fields = append(fields, f.Key)
	}
	for _, f := range services.RFQDetailFields {
		fields = append(fields, f.Key)
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("rfqs: missing field %q", f)
		}
	}

	kind, ok := col.Fields.GetByName("kind").(*core.SelectField)
	if !ok {
		t.Fatal("rfqs.kind is not a SelectField")
	}
	if len(kind.Values) != 2 {
		t.Errorf("rfqs.kind: expected 2 values, got %v", kind.Values)
	}
}

func TestSetup_EvaluationFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("supplier_evaluations")

	fields := []string{
		"supplier_name", "product_supplied", "period_from", "period_to", "quantity_supplied",
		"selections", "scores", "total_score", "grade",
		"prepared_by", "prepared_date", "approved_by", "approved_date",
		"prepared_signature", "approved_signature", "created", "updated",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("supplier_evaluations: missing field %q", f)
		}
	}

	sig, ok := col.Fields.GetByName("prepared_signature").(*core.FileField)
	if !ok {
		t.Fatal("prepared_signature is not a FileField")
	}
	if len(sig.MimeTypes) != 1 || sig.MimeTypes[0] != "image/png" {
		t.Errorf("prepared_signature: expected png only, got %v", sig.MimeTypes)
	}
}

func TestSetup_QuotationFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("quotations")
	rfqs, _ := app.FindCollectionByNameOrId("rfqs")

	fields := []string{
		"rfq", "kind", "vendor_rows", "provider", "payterms",
		"validity_start", "validity_end", "quote_amount", "attachments",
		"created", "updated",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("quotations: missing field %q", f)
		}
	}

	rel, ok := col.Fields.GetByName("rfq").(*core.RelationField)
	if !ok {
		t.Fatal("quotations.rfq is not a RelationField")
	}
	if rel.CollectionId != rfqs.Id {
		t.Error("quotations.rfq should point at rfqs")
	}
	if !rel.CascadeDelete {
		t.Error("quotations.rfq: expected CascadeDelete=true")
	}
}

func TestSetup_QuotationCascadeDeleteOnRFQ(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rfq := testhelpers.CreateTestRFQ(t, app, "RFQ-1", services.DraftMaterial)
	q := testhelpers.CreateTestQuotation(t, app, rfq.Id, nil, "1000")

	if err := app.Delete(rfq); err != nil {
		t.Fatalf("failed to delete RFQ: %v", err)
	}
	if _, err := app.FindRecordById("quotations", q.Id); err == nil {
		t.Error("quotation should have been cascade-deleted with its RFQ")
	}
}

func TestSetup_TextFieldLimits(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		for _, f := range col.Fields {
			tf, ok := f.(*core.TextField)
			if !ok || tf.System {
				continue
			}
			if tf.Max != services.MaxTextLength {
				t.Errorf("%s.%s Max = %d, want %d", name, tf.Name, tf.Max, services.MaxTextLength)
			}
		}
	}
}

func TestSetup_RaisesExistingTextLimits(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("quotations")
	col.Fields.GetByName("payterms").(*core.TextField).Max = 0
	if err := app.Save(col); err != nil {
		t.Fatalf("lower limit: %v", err)
	}

	collections.Setup(app)

	col, _ = app.FindCollectionByNameOrId("quotations")
	if got := col.Fields.GetByName("payterms").(*core.TextField).Max; got != services.MaxTextLength {
		t.Errorf("payterms Max = %d after Setup, want %d", got, services.MaxTextLength)
	}
}
