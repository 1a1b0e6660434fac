package dto

import (
	"strings"
	"time"

	"ngo-filer/internal/models"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "02/01/2006", "02.01.2006"}

// ParsedFieldsRequest is the wire form of extracted document fields. Dates
// travel as strings so an unreadable value can be reported instead of rejected.
type ParsedFieldsRequest struct {
	DocType    string            `json:"doc_type"`
	Vendor     models.Vendor     `json:"vendor"`
	Invoice    models.InvoiceRef `json:"invoice"`
	IssueDate  string            `json:"issue_date"`
	DueDate    string            `json:"due_date"`
	Amounts    models.Amounts    `json:"amounts"`
	Currency   string            `json:"currency"`
	LineItems  []models.LineItem `json:"line_items"`
	Confidence *float64          `json:"confidence,omitempty"`
	Unparsed   []string          `json:"unparsed,omitempty"`
}

// ToModel converts the request. Fields entered by hand default to full confidence.
func (r ParsedFieldsRequest) ToModel() *models.ParsedFields {
	fields := &models.ParsedFields{
		DocType:    models.ParseDocType(strings.ToLower(strings.TrimSpace(r.DocType))),
		Vendor:     r.Vendor,
		Invoice:    r.Invoice,
		Amounts:    r.Amounts,
		Currency:   strings.ToUpper(strings.TrimSpace(r.Currency)),
		LineItems:  r.LineItems,
		Confidence: 1.0,
		Unparsed:   append([]string(nil), r.Unparsed...),
	}
	if r.Confidence != nil {
		fields.Confidence = *r.Confidence
	}
	fields.Vendor.DisplayName = strings.TrimSpace(fields.Vendor.DisplayName)

	var ok bool
	if fields.Dates.Issue, ok = parseDate(r.IssueDate); !ok {
		fields.Unparsed = append(fields.Unparsed, "dates.issue_date")
	}
	if fields.Dates.Due, ok = parseDate(r.DueDate); !ok {
		fields.Unparsed = append(fields.Unparsed, "dates.due_date")
	}
	return fields
}

// parseDate returns nil, true for an empty value and nil, false for one that
// could not be read.
func parseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, true
		}
	}
	return nil, false
}

type ResubmitRequest struct {
	Fields      ParsedFieldsRequest `json:"fields"`
	ProjectCode string              `json:"project_code,omitempty"`
	GrantCode   string              `json:"grant_code,omitempty"`
}

type TransitionRequest struct {
	Status string `json:"status"`
}

type TransitionsResponse struct {
	DocID     string   `json:"doc_id"`
	Current   string   `json:"current"`
	Available []string `json:"available"`
}

type LedgerListResponse struct {
	Count int                 `json:"count"`
	Rows  []*models.LedgerRow `json:"rows"`
}
