package models

type FlagType string

const (
	FlagMathMismatch     FlagType = "math_mismatch"
	FlagMissingField     FlagType = "missing_field"
	FlagSuspiciousDate   FlagType = "suspicious_date"
	FlagCurrencyMismatch FlagType = "currency_mismatch"
	FlagTaxAnomaly       FlagType = "tax_anomaly"
	FlagDuplicate        FlagType = "duplicate"
	FlagVendorMismatch   FlagType = "vendor_mismatch"
	FlagOCRLowConfidence FlagType = "ocr_low_confidence"
	FlagParseFailed      FlagType = "parse_failed"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type ValidationFlag struct {
	Type     FlagType `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Field    string   `json:"field"`
}

type DedupeStatus string

const (
	DedupeUnique             DedupeStatus = "unique"
	DedupeDuplicate          DedupeStatus = "duplicate"
	DedupeSuspectedDuplicate DedupeStatus = "suspected_duplicate"
)

type ValidationResult struct {
	Checksum        string           `json:"checksum_sha256"`
	Fingerprint     string           `json:"doc_fingerprint"`
	DedupeStatus    DedupeStatus     `json:"dedupe_status"`
	ConfidenceScore float64          `json:"score_confidence"`
	Flags           []ValidationFlag `json:"flags"`
	Audit           []AuditEntry     `json:"-"`
}

// CountSeverity returns how many flags carry the given severity.
func CountSeverity(flags []ValidationFlag, s Severity) int {
	n := 0
	for _, f := range flags {
		if f.Severity == s {
			n++
		}
	}
	return n
}

func HasSeverity(flags []ValidationFlag, s Severity) bool {
	return CountSeverity(flags, s) > 0
}
