package models

type ReportSummary struct {
	TotalDocuments int     `json:"total_documents"`
	TotalAmount    float64 `json:"total_amount"`
	AverageAmount  float64 `json:"average_amount"`
}

type VendorSpend struct {
	Vendor string  `json:"vendor"`
	Amount float64 `json:"amount"`
}

type FiscalYearReport struct {
	FiscalYear string             `json:"fiscal_year"`
	Summary    ReportSummary      `json:"summary"`
	ByProject  map[string]float64 `json:"by_project"`
	ByGrant    map[string]float64 `json:"by_grant"`
	ByStatus   map[string]int     `json:"by_status"`
	TopVendors []VendorSpend      `json:"top_vendors"`
}

type ProjectReport struct {
	ProjectCode    string             `json:"project_code"`
	TotalDocuments int                `json:"total_documents"`
	TotalAmount    float64            `json:"total_amount"`
	ByGrant        map[string]float64 `json:"by_grant"`
	ByCategory     map[string]float64 `json:"by_category"`
}
