package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ngo-filer/internal/models"
	"ngo-filer/pkg/config"

	"go.uber.org/zap"
)

// currencyCountry is a fixed simplification, not geocoding.
var currencyCountry = map[string]string{
	"USD": "US", "EUR": "EU", "GBP": "GB", "ILS": "IL",
	"JPY": "JP", "CAD": "CA", "AUD": "AU", "CHF": "CH",
	"INR": "IN", "CNY": "CN", "MXN": "MX", "BRL": "BR",
}

type ClassificationResult struct {
	Classification models.Classification
	Context        models.NGOContext
	Audit          []models.AuditEntry
}

type ClassificationService struct {
	profile *config.Profile
	now     func() time.Time
	logger  *zap.Logger
}

func NewClassificationService(profile *config.Profile, logger *zap.Logger) *ClassificationService {
	return &ClassificationService{
		profile: profile,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *ClassificationService) WithClock(now func() time.Time) *ClassificationService {
	c := *s
	c.now = now
	return &c
}

// FiscalYear returns "{start}-{end}". Months before startMonth belong to the
// fiscal year that began the previous calendar year.
func FiscalYear(date time.Time, startMonth int) string {
	start := date.Year()
	if int(date.Month()) < startMonth {
		start--
	}
	return fmt.Sprintf("%d-%d", start, start+1)
}

// Normalize applies the profile to freshly parsed fields before they are
// fingerprinted: vendor aliases become the canonical name, a missing currency
// becomes the organization default, and uncategorized line items are matched
// against the category keywords. fields is not modified.
func (s *ClassificationService) Normalize(fields *models.ParsedFields) (*models.ParsedFields, models.AuditEntry) {
	out := *fields
	out.LineItems = append([]models.LineItem(nil), fields.LineItems...)

	vendor := out.Vendor.DisplayName
	if canonical, ok := s.canonicalVendor(vendor); ok {
		out.Vendor.DisplayName = canonical
	}

	defaulted := false
	if strings.TrimSpace(out.Currency) == "" && s.profile.DefaultCurrency != "" {
		out.Currency = s.profile.DefaultCurrency
		defaulted = true
	}

	categorized := 0
	for i := range out.LineItems {
		if out.LineItems[i].Category != "" {
			continue
		}
		if c := s.lineItemCategory(out.LineItems[i].Description); c != "" {
			out.LineItems[i].Category = c
			categorized++
		}
	}

	entry := models.AuditEntry{
		Step: "normalize",
		Detail: fmt.Sprintf("vendor=%q, currency=%s, currency_defaulted=%t, categorized_items=%d",
			out.Vendor.DisplayName, out.Currency, defaulted, categorized),
		Timestamp: s.now().UTC(),
	}
	return &out, entry
}

// canonicalVendor matches name against the alias table with the same folding
// the fingerprint uses.
func (s *ClassificationService) canonicalVendor(name string) (string, bool) {
	key := normalizeToken(name)
	if key == "" {
		return "", false
	}
	for alias, canonical := range s.profile.VendorAliases {
		if normalizeToken(alias) == key {
			return canonical, true
		}
	}
	return "", false
}

// lineItemCategory returns the first category, by name, with a keyword found
// in description.
func (s *ClassificationService) lineItemCategory(description string) string {
	desc := strings.ToLower(description)
	if strings.TrimSpace(desc) == "" {
		return ""
	}

	names := make([]string, 0, len(s.profile.CategoryKeywords))
	for name := range s.profile.CategoryKeywords {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, kw := range s.profile.CategoryKeywords[name] {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" && strings.Contains(desc, kw) {
				return name
			}
		}
	}
	return ""
}

// Classify assigns NGO context. Hints win over codes found on line items.
func (s *ClassificationService) Classify(fields *models.ParsedFields, hints models.Hints) ClassificationResult {
	now := s.now().UTC()

	projectCode := strings.TrimSpace(hints.ProjectCode)
	if projectCode == "" {
		projectCode = firstLineItemCode(fields.LineItems, func(li models.LineItem) string { return li.ProjectCode })
	}
	grantCode := strings.TrimSpace(hints.GrantCode)
	if grantCode == "" {
		grantCode = firstLineItemCode(fields.LineItems, func(li models.LineItem) string { return li.GrantCode })
	}

	fundType := models.FundUnrestricted
	donor := ""
	if grant, ok := s.profile.Grants[grantCode]; ok && grantCode != "" {
		donor = grant.Donor
		if grant.Restricted {
			fundType = models.FundRestricted
		}
	}

	categories, primary := spendCategories(fields.LineItems)
	country := currencyCountry[normalizeCurrency(fields.Currency)]

	issue := now
	if fields.Dates.Issue != nil {
		issue = *fields.Dates.Issue
	}
	fy := FiscalYear(issue, s.profile.FiscalYearStartMonth)

	result := ClassificationResult{
		Classification: models.Classification{
			IsInvoice:       fields.DocType == models.DocTypeInvoice,
			IsReceipt:       fields.DocType == models.DocTypeReceipt,
			IsCreditNote:    fields.DocType == models.DocTypeCreditNote,
			FundType:        fundType,
			SpendCategories: categories,
			CategoryPrimary: primary,
			Country:         country,
			TaxType:         taxType(fields.Amounts.TaxAmount, country),
		},
		Context: models.NGOContext{
			FiscalYear:  fy,
			ProjectCode: projectCode,
			GrantCode:   grantCode,
			Donor:       donor,
		},
	}

	result.Audit = []models.AuditEntry{{
		Step: "classify",
		Detail: fmt.Sprintf("fiscal_year=%s, project=%s, grant=%s, fund_type=%s, category=%s",
			fy, orNone(projectCode), orNone(grantCode), fundType, orNone(primary)),
		Timestamp: now,
	}}

	return result
}

func firstLineItemCode(items []models.LineItem, code func(models.LineItem) string) string {
	for _, item := range items {
		if c := strings.TrimSpace(code(item)); c != "" {
			return c
		}
	}
	return ""
}

// spendCategories returns the sorted distinct categories and the most frequent
// one; ties go to the lexicographically first.
func spendCategories(items []models.LineItem) ([]string, string) {
	counts := make(map[string]int)
	for _, item := range items {
		if item.Category != "" {
			counts[item.Category]++
		}
	}

	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	primary := ""
	best := 0
	for _, c := range categories {
		if counts[c] > best {
			primary, best = c, counts[c]
		}
	}
	return categories, primary
}

func taxType(taxAmount float64, country string) models.TaxType {
	if taxAmount == 0 {
		return models.TaxTypeNone
	}
	switch country {
	case "EU", "GB", "IL":
		return models.TaxTypeVAT
	case "IN", "AU", "SG", "NZ":
		return models.TaxTypeGST
	case "US", "CA":
		return models.TaxTypeSalesTax
	default:
		return ""
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
