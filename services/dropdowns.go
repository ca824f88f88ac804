package services

// FieldDef describes one labelled form or detail field.
type FieldDef struct {
	Key         string
	Label       string
	Placeholder string
}

// LabeledValue pairs a field label with its display value.
type LabeledValue struct {
	Label string
	Value string
}

// RFQDetailFields are the read-only RFQ / logistic details shown on both
// quotation pages, in display order.
var RFQDetailFields = []FieldDef{
	{Key: "rfq_cutoff", Label: "RFQ CutOff"},
	{Key: "rfq_date", Label: "RFQ Date"},
	{Key: "mode_of_shipment", Label: "Mode of Shipment"},
	{Key: "destination_port", Label: "Destination Port"},
	{Key: "port_code", Label: "Port Code"},
	{Key: "port_of_loading", Label: "Port of Loading"},
	{Key: "inco_terms", Label: "Inco Terms"},
	{Key: "ship_to_address", Label: "Ship to Address"},
	{Key: "package_type", Label: "Package Type"},
	{Key: "no_of_pkg_units", Label: "No of Pkg Units"},
	{Key: "product_category", Label: "Product Category"},
	{Key: "vol_weight_kg", Label: "Vol Weight(KG)"},
	{Key: "actual_weight_kg", Label: "Actual Weight(KG)"},
	{Key: "invoice_date", Label: "Invoice Date"},
	{Key: "invoice_no", Label: "Invoice No"},
	{Key: "shipment_date", Label: "Shipment Date"},
	{Key: "shipment_type", Label: "Shipment Type"},
	{Key: "consignee_name", Label: "Consignee Name"},
	{Key: "remarks", Label: "Remarks"},
}

// CompanyDetailFields are shown above the RFQ details.
var CompanyDetailFields = []FieldDef{
	{Key: "division", Label: "Division"},
	{Key: "sr_no", Label: "Sr.No"},
}

// ProviderFields are filled in by the logistic service provider.
// The two currency fields are rendered as selects from CurrencyOptions.
var ProviderFields = []FieldDef{
	{Key: "name", Label: "Name", Placeholder: "Enter Name"},
	{Key: "chargeable_weight", Label: "Chargeable Weight (kg)", Placeholder: "Enter Weight"},
	{Key: "rate_per_kg", Label: "Rate/kg*", Placeholder: "Enter Rate"},
	{Key: "fuel_surcharge", Label: "Fuel surcharge*", Placeholder: "Enter Fuel Surcharge"},
	{Key: "surcharge", Label: "Surcharge", Placeholder: "Enter Surcharge"},
	{Key: "x_ray", Label: "X-Ray", Placeholder: "Enter X-Ray"},
	{Key: "pickup_origin", Label: "Pick Up/Origin", Placeholder: "Enter Pick-up Location"},
	{Key: "ex_works", Label: "Ex Works", Placeholder: "Enter Ex Works Value"},
	{Key: "total_freight", Label: "Total Freight*", Placeholder: "Enter Total Freight"},
	{Key: "from_currency", Label: "From Currency *"},
	{Key: "to_currency", Label: "To Currency *"},
	{Key: "xr_rate", Label: "XR (XE.COM)*", Placeholder: "Enter XE Conversion Rate"},
	{Key: "total_freight_inr", Label: "Total Freight INR*", Placeholder: "Enter Freight in INR"},
	{Key: "destination_charges_inr", Label: "Destination Charges (INR)*", Placeholder: "Enter Destination Charges"},
	{Key: "shipping_line_charges", Label: "Shipping Line Charges*", Placeholder: "Enter Shipping Charges"},
	{Key: "csf_charges", Label: "CSF Charges*", Placeholder: "Enter CSF Charges"},
	{Key: "total_landing_price_inr", Label: "Total Landing Price (INR)*", Placeholder: "Enter Landing Price"},
	{Key: "transit_days", Label: "Transit Days*", Placeholder: "Enter Transit Days"},
	{Key: "remarks", Label: "Remarks*", Placeholder: "Enter Remarks"},
}

// IsCurrencyField reports whether a provider field is a currency select.
func IsCurrencyField(key string) bool {
	return key == "from_currency" || key == "to_currency"
}

// CurrencyOptions lists the currencies offered in the provider form.
var CurrencyOptions = []string{
	"Austrian schilling",
	"Indonesian Rupiah",
	"Afghani (OID)",
	"West indian Guilder",
	"Aruban Guilder",
	"Barbados Dollar",
	"United Arab Emirates Dirham",
	"Angolan New Kwanza (OID)",
	"Armenian Dram",
	"Bangladesh Taka",
	"Argentine Peso",
}

// ValidCurrency reports whether c is one of CurrencyOptions. Anything else,
// including the "Select" placeholder, is stored as empty.
func ValidCurrency(c string) bool {
	for _, opt := range CurrencyOptions {
		if opt == c {
			return true
		}
	}
	return false
}
