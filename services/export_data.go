package services

// DocumentHeader carries the controlled-document block printed on every form.
type DocumentHeader struct {
	CompanyName  string
	FormatNo     string
	SupersedesNo string
}

// EvaluationExport holds everything needed to print a saved supplier evaluation.
type EvaluationExport struct {
	Header           DocumentHeader
	SupplierName     string
	ProductSupplied  string
	PeriodFrom       string
	PeriodTo         string
	QuantitySupplied string
	Summary          ScoreSummary
	PreparedBy       string
	PreparedDate     string
	ApprovedBy       string
	ApprovedDate     string
	// PNG bytes; nil when no signature was captured.
	PreparedSignature []byte
	ApprovedSignature []byte
	CreatedDate       string
}

// QuotationSummary is one submitted bid against an RFQ.
type QuotationSummary struct {
	Index           int
	SubmittedOn     string
	Kind            DraftKind
	QuoteAmount     string
	Payterms        string
	ValidityStart   string
	ValidityEnd     string
	Vendors         []VendorQuoteRow
	Provider        []LabeledValue
	AttachmentNames []string
}

// RFQExport holds an RFQ's read-only details and the bids placed against it.
type RFQExport struct {
	Header      DocumentHeader
	RFQNumber   string
	Kind        DraftKind
	Company     []LabeledValue
	Details     []LabeledValue
	Quotations  []QuotationSummary
	CreatedDate string
}
