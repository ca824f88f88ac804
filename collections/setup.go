package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"supplierforms/services"
)

// MaxAttachmentBytes caps a single stored attachment.
const MaxAttachmentBytes = 50 << 20

// maxJSONBytes caps the vendor rows and provider details of one quotation.
const maxJSONBytes = 8 << 20

// textField is a free-text column holding up to services.MaxTextLength characters.
func textField(name string) *core.TextField {
	return &core.TextField{Name: name, Max: services.MaxTextLength}
}

// Setup programmatically creates/ensures the rfqs, supplier_evaluations and
// quotations collections exist.
func Setup(app *pocketbase.PocketBase) {
	rfqs := ensureCollection(app, "rfqs", func(c *core.Collection) {
		rfqNumber := textField("rfq_number")
		rfqNumber.Required = true
		c.Fields.Add(rfqNumber)
		c.Fields.Add(&core.SelectField{
			Name:      "kind",
			Required:  true,
			Values:    []string{string(services.DraftMaterial), string(services.DraftLogistic)},
			MaxSelect: 1,
		})
		for _, f := range services.CompanyDetailFields {
			c.Fields.Add(textField(f.Key))
		}
		for _, f := range services.RFQDetailFields {
			c.Fields.Add(textField(f.Key))
		}
		c.Fields.Add(&core.FileField{Name: "attachment", MaxSelect: 1, MaxSize: MaxAttachmentBytes})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "supplier_evaluations", func(c *core.Collection) {
		supplier := textField("supplier_name")
		supplier.Required = true
		c.Fields.Add(supplier)
		c.Fields.Add(textField("product_supplied"))
		c.Fields.Add(textField("period_from"))
		c.Fields.Add(textField("period_to"))
		c.Fields.Add(textField("quantity_supplied"))
		c.Fields.Add(&core.JSONField{Name: "selections"})
		c.Fields.Add(&core.JSONField{Name: "scores"})
		c.Fields.Add(&core.NumberField{Name: "total_score"})
		c.Fields.Add(textField("grade"))
		c.Fields.Add(textField("prepared_by"))
		c.Fields.Add(textField("prepared_date"))
		c.Fields.Add(textField("approved_by"))
		c.Fields.Add(textField("approved_date"))
		c.Fields.Add(&core.FileField{Name: "prepared_signature", MaxSelect: 1, MaxSize: 2 << 20, MimeTypes: []string{"image/png"}})
		c.Fields.Add(&core.FileField{Name: "approved_signature", MaxSelect: 1, MaxSize: 2 << 20, MimeTypes: []string{"image/png"}})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "quotations", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "rfq",
			Required:      true,
			CollectionId:  rfqs.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "kind",
			Required:  true,
			Values:    []string{string(services.DraftMaterial), string(services.DraftLogistic)},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "vendor_rows", MaxSize: maxJSONBytes})
		c.Fields.Add(&core.JSONField{Name: "provider", MaxSize: maxJSONBytes})
		c.Fields.Add(textField("payterms"))
		c.Fields.Add(textField("validity_start"))
		c.Fields.Add(textField("validity_end"))
		c.Fields.Add(textField("quote_amount"))
		c.Fields.Add(&core.FileField{Name: "attachments", MaxSelect: services.MaxDraftFiles, MaxSize: MaxAttachmentBytes})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		raiseTextLimits(app, existing)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}

// raiseTextLimits lifts text columns created with a smaller cap, including
// PocketBase's implicit 5000, to services.MaxTextLength.
func raiseTextLimits(app *pocketbase.PocketBase, collection *core.Collection) {
	var changed bool
	for _, f := range collection.Fields {
		tf, ok := f.(*core.TextField)
		if !ok || tf.System || tf.PrimaryKey || tf.Max >= services.MaxTextLength {
			continue
		}
		tf.Max = services.MaxTextLength
		changed = true
	}
	if !changed {
		return
	}
	if err := app.Save(collection); err != nil {
		log.Printf("collections: could not raise text limits on %q: %v", collection.Name, err)
	}
}
