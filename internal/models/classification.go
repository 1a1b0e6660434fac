package models

type FundType string

const (
	FundRestricted   FundType = "restricted"
	FundUnrestricted FundType = "unrestricted"
)

type TaxType string

const (
	TaxTypeNone     TaxType = "None"
	TaxTypeVAT      TaxType = "VAT"
	TaxTypeGST      TaxType = "GST"
	TaxTypeSalesTax TaxType = "SalesTax"
)

type Classification struct {
	IsInvoice       bool     `json:"is_invoice"`
	IsReceipt       bool     `json:"is_receipt"`
	IsCreditNote    bool     `json:"is_credit_note"`
	FundType        FundType `json:"fund_type"`
	SpendCategories []string `json:"spend_categories"`
	CategoryPrimary string   `json:"category_primary,omitempty"`
	Country         string   `json:"country,omitempty"`
	TaxType         TaxType  `json:"tax_type,omitempty"`
}

// NGOContext ties a document to the organization's funding structure.
type NGOContext struct {
	FiscalYear  string `json:"fiscal_year"`
	ProjectCode string `json:"project_code,omitempty"`
	GrantCode   string `json:"grant_code,omitempty"`
	Donor       string `json:"donor,omitempty"`
}
