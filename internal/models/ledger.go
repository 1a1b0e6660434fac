package models

import (
	"time"
)

// LedgerRow is the durable projection of a processed document, one per DocID.
type LedgerRow struct {
	DocID           string           `json:"doc_id"`
	IssueDate       string           `json:"issue_date"`
	DueDate         string           `json:"due_date"`
	Vendor          string           `json:"vendor"`
	InvoiceNumber   string           `json:"invoice_number"`
	Currency        string           `json:"currency"`
	Subtotal        float64          `json:"subtotal"`
	TaxAmount       float64          `json:"tax_amount"`
	GrandTotal      float64          `json:"grand_total"`
	ProjectCode     string           `json:"project_code"`
	GrantCode       string           `json:"grant_code"`
	FundType        FundType         `json:"fund_type"`
	CategoryPrimary string           `json:"category_primary"`
	Status          Status           `json:"status"`
	FiscalYear      string           `json:"fiscal_year"`
	FilePath        string           `json:"file_path"`
	FileName        string           `json:"file_name"`
	DedupeStatus    DedupeStatus     `json:"dedupe_status"`
	Approver        string           `json:"approver"`
	ApprovedAt      *time.Time       `json:"approved_at"`
	Checksum        string           `json:"checksum_sha256"`
	Fingerprint     string           `json:"doc_fingerprint"`
	ScoreConfidence float64          `json:"score_confidence"`
	Flags           []ValidationFlag `json:"flags"`
	IngestedAt      time.Time        `json:"ingested_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// LedgerColumns is the export column contract, in order.
var LedgerColumns = []string{
	"doc_id", "issue_date", "due_date", "vendor", "invoice_number",
	"currency", "subtotal", "tax_amount", "grand_total",
	"project_code", "grant_code", "fund_type", "category_primary",
	"status", "fiscal_year", "file_path", "file_name",
	"dedupe_status", "approver", "approved_at",
}

func (r *LedgerRow) HasHighFlags() bool {
	return HasSeverity(r.Flags, SeverityHigh)
}

// Filing returns the row's filing view.
func (r *LedgerRow) Filing() FilingInfo {
	return FilingInfo{
		FolderPath: r.FilePath,
		FileName:   r.FileName,
		Status:     r.Status,
		Approver:   r.Approver,
		ApprovedAt: r.ApprovedAt,
	}
}

func (r *LedgerRow) ArchiveKey() string {
	return r.Filing().ArchiveKey(r.DocID)
}

// Clone returns a deep copy safe to hand out of the store.
func (r *LedgerRow) Clone() *LedgerRow {
	if r == nil {
		return nil
	}
	c := *r
	if r.ApprovedAt != nil {
		t := *r.ApprovedAt
		c.ApprovedAt = &t
	}
	if r.Flags != nil {
		c.Flags = append([]ValidationFlag(nil), r.Flags...)
	}
	return &c
}

// LedgerFilters are conjunctive; nil fields do not filter.
type LedgerFilters struct {
	FiscalYear  *string  `json:"fiscal_year,omitempty"`
	ProjectCode *string  `json:"project_code,omitempty"`
	GrantCode   *string  `json:"grant_code,omitempty"`
	Vendor      *string  `json:"vendor,omitempty"`
	Status      *string  `json:"status,omitempty"`
	FundType    *string  `json:"fund_type,omitempty"`
	MinAmount   *float64 `json:"min_amount,omitempty"`
	MaxAmount   *float64 `json:"max_amount,omitempty"`
	StartDate   *string  `json:"start_date,omitempty"`
	EndDate     *string  `json:"end_date,omitempty"`
}

func (f LedgerFilters) IsEmpty() bool {
	return f == LedgerFilters{}
}

// Match reports whether row satisfies every set filter. Date bounds compare
// YYYY-MM-DD strings; rows with no issue date never satisfy a date bound.
func (f LedgerFilters) Match(row *LedgerRow) bool {
	exact := []struct {
		want *string
		got  string
	}{
		{f.FiscalYear, row.FiscalYear},
		{f.ProjectCode, row.ProjectCode},
		{f.GrantCode, row.GrantCode},
		{f.Vendor, row.Vendor},
		{f.Status, string(row.Status)},
		{f.FundType, string(row.FundType)},
	}
	for _, e := range exact {
		if e.want != nil && *e.want != e.got {
			return false
		}
	}

	if f.MinAmount != nil && row.GrandTotal < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && row.GrandTotal > *f.MaxAmount {
		return false
	}
	if f.StartDate != nil && (row.IssueDate == "" || row.IssueDate < *f.StartDate) {
		return false
	}
	if f.EndDate != nil && (row.IssueDate == "" || row.IssueDate > *f.EndDate) {
		return false
	}
	return true
}

type SummaryStats struct {
	TotalDocuments int                `json:"total_documents"`
	TotalAmount    float64            `json:"total_amount"`
	ByStatus       map[string]int     `json:"by_status"`
	ByProject      map[string]float64 `json:"by_project"`
	ByFiscalYear   map[string]float64 `json:"by_fiscal_year"`
}
