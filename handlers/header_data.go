package handlers

import (
	"log"

	"github.com/pocketbase/pocketbase"

	"supplierforms/config"
	"supplierforms/templates"
)

// BuildHeaderData fills the navigation header: document numbers from the
// settings and record counts for the nav badges. Missing collections count as zero.
func BuildHeaderData(app *pocketbase.PocketBase, settings config.Settings, path string) templates.HeaderData {
	data := templates.HeaderData{
		CompanyName:  settings.CompanyName,
		FormatNo:     settings.FormatNo,
		SupersedesNo: settings.SupersedesNo,
		ActivePath:   path,
	}

	counts := map[string]*int{
		"supplier_evaluations": &data.EvaluationCount,
		"rfqs":                 &data.RFQCount,
	}
	for name, dst := range counts {
		n, err := app.CountRecords(name)
		if err != nil {
			log.Printf("header: could not count %s: %v", name, err)
			continue
		}
		*dst = int(n)
	}
	return data
}
