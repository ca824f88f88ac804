package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"supplierforms/services"
)

type rfqDef struct {
	number string
	kind   services.DraftKind
	fields map[string]string
}

var seedRFQs = []rfqDef{
	{
		number: "RFQ-2025-0142",
		kind:   services.DraftMaterial,
		fields: map[string]string{
			"division":         "Clinical Chemistry",
			"sr_no":            "0142",
			"rfq_cutoff":       "2025-08-30",
			"rfq_date":         "2025-08-12",
			"mode_of_shipment": "Road",
			"destination_port": "Bengaluru ICD",
			"port_code":        "INWFD6",
			"port_of_loading":  "Chennai",
			"inco_terms":       "DAP",
			"ship_to_address":  "Plot 14, Peenya Industrial Area, Bengaluru 560058",
			"package_type":     "Carton",
			"no_of_pkg_units":  "40",
			"product_category": "Reagents",
			"vol_weight_kg":    "310",
			"actual_weight_kg": "285",
			"shipment_type":    "LCL",
			"consignee_name":   "Diagnostics Stores",
			"remarks":          "Cold chain 2-8°C",
		},
	},
	{
		number: "RFQ-2025-0157",
		kind:   services.DraftLogistic,
		fields: map[string]string{
			"division":         "Imaging",
			"sr_no":            "0157",
			"rfq_cutoff":       "2025-09-05",
			"rfq_date":         "2025-08-20",
			"mode_of_shipment": "Air",
			"destination_port": "Mumbai Air Cargo",
			"port_code":        "INBOM4",
			"port_of_loading":  "Frankfurt",
			"inco_terms":       "FCA",
			"ship_to_address":  "Unit 3, Andheri East, Mumbai 400093",
			"package_type":     "Crate",
			"no_of_pkg_units":  "2",
			"product_category": "Equipment spares",
			"vol_weight_kg":    "520",
			"actual_weight_kg": "410",
			"invoice_date":     "2025-08-18",
			"invoice_no":       "INV-DE-88231",
			"shipment_date":    "2025-09-10",
			"shipment_type":    "Import",
			"consignee_name":   "Diagnostics Imaging Division",
			"remarks":          "Fragile, keep upright",
		},
	},
}

// Seed inserts sample RFQs so the quotation screens have something to show.
// It is safe to call on every startup because it returns early if any RFQ
// records already exist.
func Seed(app *pocketbase.PocketBase) error {
	rfqsCol, err := app.FindCollectionByNameOrId("rfqs")
	if err != nil {
		return fmt.Errorf("seed: could not find rfqs collection: %w", err)
	}
	existing, err := app.FindAllRecords(rfqsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query rfqs: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: rfqs collection is empty – inserting seed data …")

	for _, d := range seedRFQs {
		r := core.NewRecord(rfqsCol)
		r.Set("rfq_number", d.number)
		r.Set("kind", string(d.kind))
		for key, val := range d.fields {
			r.Set(key, val)
		}
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: could not save rfq %s: %w", d.number, err)
		}
	}

	log.Printf("seed: inserted %d rfqs", len(seedRFQs))
	return nil
}
