package service

import (
	"fmt"
	"strings"
	"time"

	"ngo-filer/internal/models"
	"ngo-filer/pkg/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DuplicateLookup finds an existing document by exact checksum or by
// fingerprint. excludeDocID keeps a re-submitted document from matching itself.
type DuplicateLookup interface {
	FindByChecksum(checksum, excludeDocID string) (docID string, found bool)
	FindByFingerprint(fingerprint, excludeDocID string) (docID string, found bool)
}

const (
	highPenalty   = 0.15
	mediumPenalty = 0.05
	checkCount    = 8
)

var hundred = decimal.NewFromInt(100)

type ValidationInput struct {
	DocID       string
	Fields      *models.ParsedFields
	Checksum    string
	Fingerprint string
}

type ValidationService struct {
	profile *config.Profile
	now     func() time.Time
	logger  *zap.Logger
}

func NewValidationService(profile *config.Profile, logger *zap.Logger) *ValidationService {
	return &ValidationService{
		profile: profile,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock replaces the source of "today" used by the stale-date check.
func (s *ValidationService) WithClock(now func() time.Time) *ValidationService {
	c := *s
	c.now = now
	return &c
}

// validationRun accumulates the flags and audit entries of one Validate call.
type validationRun struct {
	flags []models.ValidationFlag
	audit []models.AuditEntry
	at    time.Time
}

func (r *validationRun) flag(t models.FlagType, sev models.Severity, field, format string, args ...any) {
	r.flags = append(r.flags, models.ValidationFlag{
		Type:     t,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Field:    field,
	})
}

func (r *validationRun) record(step, format string, args ...any) {
	r.audit = append(r.audit, models.AuditEntry{
		Step:      step,
		Detail:    fmt.Sprintf(format, args...),
		Timestamp: r.at,
	})
}

// Validate runs every check against the parsed fields. No check short-circuits
// another; flags are ordered by check execution.
func (s *ValidationService) Validate(in ValidationInput, lookup DuplicateLookup) models.ValidationResult {
	fields := in.Fields
	run := &validationRun{at: s.now().UTC()}

	s.checkMath(run, fields.Amounts, fields.LineItems)
	s.checkDates(run, fields.Dates)
	s.checkTax(run, fields.Amounts, fields.Currency)
	s.checkCurrency(run, fields.Currency)
	s.checkVendor(run, fields.Vendor)
	s.checkUnparsed(run, fields)
	s.checkOCR(run, fields.Confidence)
	dedupe := s.checkDuplicate(run, in, lookup)

	score := confidenceScore(fields, run.flags)
	high := models.CountSeverity(run.flags, models.SeverityHigh)

	run.record("validate", "checks=%d, flags=%d, high=%d, dedupe=%s, score=%.2f",
		checkCount, len(run.flags), high, dedupe, score)

	s.logger.Debug("Document validated",
		zap.String("doc_id", in.DocID),
		zap.Int("flags", len(run.flags)),
		zap.Int("high", high),
		zap.String("dedupe", string(dedupe)),
		zap.Float64("score", score),
	)

	flags := run.flags
	if flags == nil {
		flags = []models.ValidationFlag{}
	}

	return models.ValidationResult{
		Checksum:        in.Checksum,
		Fingerprint:     in.Fingerprint,
		DedupeStatus:    dedupe,
		ConfidenceScore: score,
		Flags:           flags,
		Audit:           run.audit,
	}
}

func (s *ValidationService) checkMath(run *validationRun, a models.Amounts, items []models.LineItem) {
	eps := decimal.NewFromFloat(s.profile.Thresholds.AmountEpsilon)

	subtotal := decimal.NewFromFloat(a.Subtotal)
	tax := decimal.NewFromFloat(a.TaxAmount)
	shipping := decimalOrZero(a.Shipping)
	discount := decimalOrZero(a.Discount)
	grand := decimal.NewFromFloat(a.GrandTotal)

	computed := subtotal.Add(tax).Add(shipping).Sub(discount)
	diff := computed.Sub(grand).Abs()
	if diff.GreaterThan(eps) {
		run.flag(models.FlagMathMismatch, models.SeverityHigh, "totals.grand_total",
			"Grand total %s != computed %s (diff: %s)",
			grand.StringFixed(2), computed.StringFixed(2), diff.StringFixed(2))
	}

	linesSum := decimal.Zero
	anyLineTotal := false
	for _, item := range items {
		if item.Total == nil {
			continue
		}
		t := decimal.NewFromFloat(*item.Total)
		if !t.IsZero() {
			anyLineTotal = true
		}
		linesSum = linesSum.Add(t)
	}
	if anyLineTotal && linesSum.Sub(subtotal).Abs().GreaterThan(eps) {
		run.flag(models.FlagMathMismatch, models.SeverityMedium, "totals.subtotal",
			"Line items sum %s != subtotal %s", linesSum.StringFixed(2), subtotal.StringFixed(2))
	}

	run.record("validate_math", "grand_total=%s, computed=%s, diff=%s",
		grand.StringFixed(2), computed.StringFixed(2), diff.StringFixed(4))
}

func (s *ValidationService) checkDates(run *validationRun, d models.Dates) {
	if d.Issue != nil && d.Due != nil && civilDay(*d.Due).Before(civilDay(*d.Issue)) {
		run.flag(models.FlagSuspiciousDate, models.SeverityHigh, "dates.due_date",
			"Due date %s before issue date %s", formatDate(d.Due), formatDate(d.Issue))
	}

	if d.Issue == nil {
		run.flag(models.FlagMissingField, models.SeverityMedium, "dates.issue_date", "Issue date not found")
		run.record("validate_dates", "issue=none, due=%s", formatDate(d.Due))
		return
	}

	days := daysBetween(*d.Issue, run.at)
	if days > s.profile.Thresholds.StaleDateDays {
		run.flag(models.FlagSuspiciousDate, models.SeverityMedium, "dates.issue_date",
			"Issue date %s is %d days from today", formatDate(d.Issue), days)
	}

	run.record("validate_dates", "issue=%s, due=%s, fiscal_year=%s",
		formatDate(d.Issue), formatDate(d.Due), FiscalYear(*d.Issue, s.profile.FiscalYearStartMonth))
}

func (s *ValidationService) checkTax(run *validationRun, a models.Amounts, currency string) {
	subtotal := decimal.NewFromFloat(a.Subtotal)
	tax := decimal.NewFromFloat(a.TaxAmount)

	if !tax.IsPositive() || !subtotal.IsPositive() {
		run.record("validate_tax", "skipped: tax=%s, subtotal=%s", tax.StringFixed(2), subtotal.StringFixed(2))
		return
	}

	effective := tax.Div(subtotal).Mul(hundred)

	stated := "none"
	if a.TaxRate != nil && *a.TaxRate != 0 {
		rate := decimal.NewFromFloat(*a.TaxRate)
		stated = rate.String()
		tolerance := decimal.NewFromFloat(s.profile.Thresholds.StatedRateTolerance)
		if effective.Sub(rate).Abs().GreaterThan(tolerance) {
			run.flag(models.FlagTaxAnomaly, models.SeverityMedium, "totals.tax_rate",
				"Stated tax rate %s%% != effective %s%%", rate.String(), effective.StringFixed(1))
		}
	}

	if expected, ok := s.profile.VATRules[normalizeCurrency(currency)]; ok {
		exp := decimal.NewFromFloat(expected)
		tolerance := decimal.NewFromFloat(s.profile.Thresholds.ExpectedRateTolerance)
		if effective.Sub(exp).Abs().GreaterThan(tolerance) {
			run.flag(models.FlagTaxAnomaly, models.SeverityLow, "totals.tax_amount",
				"Tax rate %s%% differs from expected %s%% for %s",
				effective.StringFixed(1), exp.String(), currency)
		}
	}

	run.record("validate_tax", "tax=%s, subtotal=%s, effective_rate=%s%%, stated_rate=%s",
		tax.StringFixed(2), subtotal.StringFixed(2), effective.StringFixed(2), stated)
}

func (s *ValidationService) checkCurrency(run *validationRun, currency string) {
	valid := s.profile.AllowsCurrency(normalizeCurrency(currency))
	if !valid {
		run.flag(models.FlagCurrencyMismatch, models.SeverityMedium, "currency",
			"Currency '%s' not recognized or invalid", currency)
	}
	run.record("validate_currency", "currency=%s, valid=%t", currency, valid)
}

func (s *ValidationService) checkVendor(run *validationRun, v models.Vendor) {
	name := strings.TrimSpace(v.DisplayName)
	if name == "" || name == models.UnknownVendor {
		run.flag(models.FlagMissingField, models.SeverityHigh, "vendor.display_name", "Vendor name not found")
	}

	hasContact := strings.TrimSpace(v.TaxID) != "" ||
		strings.TrimSpace(v.Email) != "" ||
		strings.TrimSpace(v.Phone) != ""
	if !hasContact {
		run.flag(models.FlagVendorMismatch, models.SeverityLow, "vendor",
			"Vendor missing contact information (tax ID, email, or phone)")
	}

	run.record("validate_vendor", "vendor=%q, has_contact=%t", name, hasContact)
}

// checkUnparsed turns parser failures into low-severity missing_field flags.
// The issue date is skipped here because the date check already flags it.
// A document with no vendor, no issue date and no total is a failed parse.
func (s *ValidationService) checkUnparsed(run *validationRun, fields *models.ParsedFields) {
	n := 0
	for _, field := range fields.Unparsed {
		if field == "dates.issue_date" {
			continue
		}
		run.flag(models.FlagMissingField, models.SeverityLow, field, "Could not parse %s", field)
		n++
	}

	failed := strings.TrimSpace(fields.Vendor.DisplayName) == "" &&
		fields.Dates.Issue == nil &&
		fields.Amounts.GrandTotal == 0
	if failed {
		run.flag(models.FlagParseFailed, models.SeverityHigh, "document",
			"No vendor, issue date or total could be extracted")
	}
	run.record("validate_fields", "unparsed=%d, parse_failed=%t", n, failed)
}

func (s *ValidationService) checkOCR(run *validationRun, confidence float64) {
	threshold := s.profile.Thresholds.MinOCRConfidence
	if confidence < threshold {
		run.flag(models.FlagOCRLowConfidence, models.SeverityMedium, "confidence",
			"OCR confidence %.2f%% below threshold %.2f%%", confidence*100, threshold*100)
	}
	run.record("validate_ocr", "confidence=%.2f, threshold=%.2f", confidence, threshold)
}

// checkDuplicate gives an exact checksum match priority over a fingerprint match.
func (s *ValidationService) checkDuplicate(run *validationRun, in ValidationInput, lookup DuplicateLookup) models.DedupeStatus {
	status := models.DedupeUnique
	match := ""

	if lookup != nil {
		if id, ok := lookup.FindByChecksum(in.Checksum, in.DocID); ok && in.Checksum != "" {
			status, match = models.DedupeDuplicate, id
			run.flag(models.FlagDuplicate, models.SeverityHigh, "validation.checksum_sha256",
				"Exact duplicate found (SHA-256 match): %s", id)
		} else if id, ok := lookup.FindByFingerprint(in.Fingerprint, in.DocID); ok && in.Fingerprint != "" {
			status, match = models.DedupeSuspectedDuplicate, id
			run.flag(models.FlagDuplicate, models.SeverityHigh, "validation.doc_fingerprint",
				"Suspected duplicate (fingerprint match): %s", id)
		}
	}

	run.record("validate_dedupe", "status=%s, match=%s", status, match)
	return status
}

// confidenceScore is clamp(0, 1, base*completeness - penalty) rounded to cents.
func confidenceScore(fields *models.ParsedFields, flags []models.ValidationFlag) float64 {
	present := 0
	if fields.Vendor.DisplayName != "" {
		present++
	}
	if fields.Dates.Issue != nil {
		present++
	}
	if fields.Amounts.GrandTotal != 0 {
		present++
	}
	if fields.Currency != "" {
		present++
	}

	completeness := decimal.NewFromInt(int64(present)).Div(decimal.NewFromInt(4))
	penalty := decimal.NewFromFloat(highPenalty).Mul(decimal.NewFromInt(int64(models.CountSeverity(flags, models.SeverityHigh)))).
		Add(decimal.NewFromFloat(mediumPenalty).Mul(decimal.NewFromInt(int64(models.CountSeverity(flags, models.SeverityMedium)))))

	score := decimal.NewFromFloat(fields.Confidence).Mul(completeness).Sub(penalty)
	if score.IsNegative() {
		score = decimal.Zero
	}
	if score.GreaterThan(decimal.NewFromInt(1)) {
		score = decimal.NewFromInt(1)
	}
	return score.Round(2).InexactFloat64()
}

func decimalOrZero(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween is the absolute calendar-day distance between a and b.
func daysBetween(a, b time.Time) int {
	diff := civilDay(a).Sub(civilDay(b))
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.Format("2006-01-02")
}
