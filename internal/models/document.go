package models

import (
	"time"
)

type DocType string

const (
	DocTypeInvoice    DocType = "invoice"
	DocTypeReceipt    DocType = "receipt"
	DocTypeCreditNote DocType = "credit_note"
	DocTypeProforma   DocType = "proforma"
	DocTypeOther      DocType = "other"
)

// Label is the folder name used for the document type.
func (t DocType) Label() string {
	switch t {
	case DocTypeInvoice:
		return "Invoice"
	case DocTypeReceipt:
		return "Receipt"
	case DocTypeCreditNote:
		return "CreditNote"
	case DocTypeProforma:
		return "Proforma"
	default:
		return "Other"
	}
}

// Title is used in human summaries ("Invoice from ...").
func (t DocType) Title() string {
	switch t {
	case DocTypeCreditNote:
		return "Credit_Note"
	case DocTypeOther, "":
		return "Other"
	default:
		return t.Label()
	}
}

func ParseDocType(s string) DocType {
	switch DocType(s) {
	case DocTypeInvoice, DocTypeReceipt, DocTypeCreditNote, DocTypeProforma:
		return DocType(s)
	default:
		return DocTypeOther
	}
}

// UnknownVendor is the placeholder the parser emits when no vendor was read.
const UnknownVendor = "Unknown Vendor"

type Vendor struct {
	DisplayName string `json:"display_name"`
	LegalName   string `json:"legal_name,omitempty"`
	TaxID       string `json:"tax_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	IBAN        string `json:"iban,omitempty"`
}

type InvoiceRef struct {
	Number       string `json:"number,omitempty"`
	PONumber     string `json:"po_number,omitempty"`
	Reference    string `json:"reference,omitempty"`
	PaymentTerms string `json:"payment_terms,omitempty"`
}

type Dates struct {
	Issue *time.Time `json:"issue_date,omitempty"`
	Due   *time.Time `json:"due_date,omitempty"`
}

type Amounts struct {
	Subtotal   float64  `json:"subtotal"`
	TaxAmount  float64  `json:"tax_amount"`
	TaxRate    *float64 `json:"tax_rate,omitempty"`
	Shipping   *float64 `json:"shipping,omitempty"`
	Discount   *float64 `json:"discount,omitempty"`
	GrandTotal float64  `json:"grand_total"`
}

type LineItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	Total       *float64 `json:"total,omitempty"`
	Category    string   `json:"category,omitempty"`
	ProjectCode string   `json:"project_code,omitempty"`
	GrantCode   string   `json:"grant_code,omitempty"`
}

// ParsedFields is what the extraction layer hands to the engine for one document.
type ParsedFields struct {
	DocType    DocType    `json:"doc_type"`
	Vendor     Vendor     `json:"vendor"`
	Invoice    InvoiceRef `json:"invoice"`
	Dates      Dates      `json:"dates"`
	Amounts    Amounts    `json:"amounts"`
	Currency   string     `json:"currency"`
	LineItems  []LineItem `json:"line_items"`
	Confidence float64    `json:"confidence"`
	// Unparsed lists fields the parser saw but could not read.
	Unparsed []string `json:"unparsed,omitempty"`
}

// Hints are user-supplied overrides for classification.
type Hints struct {
	ProjectCode string `json:"project_code,omitempty"`
	GrantCode   string `json:"grant_code,omitempty"`
}

// ProcessedDocument is the full result of running one document through the pipeline.
type ProcessedDocument struct {
	DocID          string           `json:"doc_id"`
	IngestedAt     time.Time        `json:"ingested_at"`
	SourceName     string           `json:"source_name"`
	Fields         *ParsedFields    `json:"fields"`
	Validation     ValidationResult `json:"validation"`
	Classification Classification   `json:"classification"`
	Context        NGOContext       `json:"ngo_context"`
	Filing         FilingInfo       `json:"filing"`
	Audit          []AuditEntry     `json:"audit_log"`
	Summary        string           `json:"human_summary"`
	Row            *LedgerRow       `json:"ledger_row"`
}
