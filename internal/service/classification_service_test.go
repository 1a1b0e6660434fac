package service

import (
	"reflect"
	"testing"
	"time"

	"ngo-filer/internal/models"
	"ngo-filer/pkg/config"

	"go.uber.org/zap"
)

func TestFiscalYear(t *testing.T) {
	tests := []struct {
		date  string
		start int
		want  string
	}{
		{"2024-03-15", 1, "2024-2025"},
		{"2024-12-31", 1, "2024-2025"},
		{"2024-03-31", 4, "2023-2024"},
		{"2024-04-01", 4, "2024-2025"},
		{"2024-06-30", 7, "2023-2024"},
		{"2024-07-01", 7, "2024-2025"},
	}
	for _, tt := range tests {
		if got := FiscalYear(*day(tt.date), tt.start); got != tt.want {
			t.Errorf("FiscalYear(%s, %d) = %s, want %s", tt.date, tt.start, got, tt.want)
		}
	}
}

func newClassifier() *ClassificationService {
	return NewClassificationService(config.DefaultProfile(), zap.NewNop()).WithClock(fixedClock)
}

func TestClassify_HintsAndRestrictedGrant(t *testing.T) {
	fields := cleanFields()
	fields.LineItems = []models.LineItem{
		{Description: "laptop", ProjectCode: "HLTH001", GrantCode: "GR2024"},
	}

	res := newClassifier().Classify(fields, models.Hints{ProjectCode: "EDU001", GrantCode: "GR2023"})

	if res.Context.ProjectCode != "EDU001" || res.Context.GrantCode != "GR2023" {
		t.Fatalf("hints should win over line items, got %+v", res.Context)
	}
	if res.Context.Donor != "UNICEF" {
		t.Fatalf("expected donor UNICEF, got %q", res.Context.Donor)
	}
	if res.Classification.FundType != models.FundRestricted {
		t.Fatalf("expected restricted fund, got %s", res.Classification.FundType)
	}
	if res.Context.FiscalYear != "2024-2025" {
		t.Fatalf("expected 2024-2025, got %s", res.Context.FiscalYear)
	}
	if !res.Classification.IsInvoice || res.Classification.IsReceipt {
		t.Fatalf("unexpected type flags %+v", res.Classification)
	}
	if len(res.Audit) != 1 || res.Audit[0].Step != "classify" {
		t.Fatalf("expected a single classify audit entry, got %+v", res.Audit)
	}
}

func TestClassify_FallsBackToLineItemCodes(t *testing.T) {
	fields := cleanFields()
	fields.LineItems = []models.LineItem{
		{Description: "no codes"},
		{Description: "water pump", ProjectCode: "WASH001"},
		{Description: "filter", GrantCode: "UNKNOWN"},
	}

	res := newClassifier().Classify(fields, models.Hints{})

	if res.Context.ProjectCode != "WASH001" || res.Context.GrantCode != "UNKNOWN" {
		t.Fatalf("expected codes from line items, got %+v", res.Context)
	}
	if res.Classification.FundType != models.FundUnrestricted || res.Context.Donor != "" {
		t.Fatalf("an unknown grant is unrestricted with no donor, got %+v / %+v", res.Classification, res.Context)
	}
}

func TestClassify_PrimaryCategoryTieBreak(t *testing.T) {
	fields := cleanFields()
	fields.LineItems = []models.LineItem{
		{Description: "flight", Category: "Travel"},
		{Description: "course", Category: "Training"},
		{Description: "hotel", Category: "Travel"},
		{Description: "seminar", Category: "Training"},
	}

	res := newClassifier().Classify(fields, models.Hints{})

	if want := []string{"Training", "Travel"}; !reflect.DeepEqual(res.Classification.SpendCategories, want) {
		t.Fatalf("expected %v, got %v", want, res.Classification.SpendCategories)
	}
	if res.Classification.CategoryPrimary != "Training" {
		t.Fatalf("ties go to the lexicographically first, got %s", res.Classification.CategoryPrimary)
	}
}

func TestClassify_TaxTypeAndCountry(t *testing.T) {
	tests := []struct {
		currency string
		tax      float64
		country  string
		want     models.TaxType
	}{
		{"USD", 255, "US", models.TaxTypeSalesTax},
		{"EUR", 20, "EU", models.TaxTypeVAT},
		{"ils", 17, "IL", models.TaxTypeVAT},
		{"INR", 18, "IN", models.TaxTypeGST},
		{"USD", 0, "US", models.TaxTypeNone},
		{"XYZ", 5, "", ""},
	}

	c := newClassifier()
	for _, tt := range tests {
		fields := cleanFields()
		fields.Currency = tt.currency
		fields.Amounts.TaxAmount = tt.tax

		res := c.Classify(fields, models.Hints{})
		if res.Classification.Country != tt.country || res.Classification.TaxType != tt.want {
			t.Errorf("%s/%v: got country=%q tax=%q, want %q/%q",
				tt.currency, tt.tax, res.Classification.Country, res.Classification.TaxType, tt.country, tt.want)
		}
	}
}

func TestClassify_MissingIssueDateUsesToday(t *testing.T) {
	profile := config.DefaultProfile()
	profile.FiscalYearStartMonth = 7
	c := NewClassificationService(profile, zap.NewNop()).WithClock(func() time.Time {
		return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	})

	fields := cleanFields()
	fields.Dates.Issue = nil

	if got := c.Classify(fields, models.Hints{}).Context.FiscalYear; got != "2024-2025" {
		t.Fatalf("expected 2024-2025, got %s", got)
	}
}

func TestNormalize_AppliesProfile(t *testing.T) {
	fields := cleanFields()
	fields.Vendor.DisplayName = "ACME Co."
	fields.Currency = " "
	fields.LineItems = []models.LineItem{
		{Description: "Round-trip FLIGHT to Nairobi"},
		{Description: "Laptop for field office"},
		{Description: "Printing", Category: "Outreach"},
		{Description: "Miscellaneous"},
	}

	out, entry := newClassifier().Normalize(fields)

	if out.Vendor.DisplayName != "Acme Corporation" {
		t.Fatalf("expected canonical vendor, got %q", out.Vendor.DisplayName)
	}
	if out.Currency != "USD" {
		t.Fatalf("expected default currency, got %q", out.Currency)
	}
	got := make([]string, len(out.LineItems))
	for i, li := range out.LineItems {
		got[i] = li.Category
	}
	// "Laptop for field office" also matches Office Supplies; the first category by name wins.
	want := []string{"Travel", "Equipment", "Outreach", ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("categories: expected %v, got %v", want, got)
	}
	if entry.Step != "normalize" || !entry.Timestamp.Equal(testNow) {
		t.Fatalf("unexpected audit entry %+v", entry)
	}

	if fields.Vendor.DisplayName != "ACME Co." || fields.Currency != " " || fields.LineItems[0].Category != "" {
		t.Fatal("Normalize must not modify its input")
	}
}

func TestNormalize_LeavesUnknownVendorAndCurrency(t *testing.T) {
	fields := cleanFields()
	fields.Currency = "EUR"

	out, _ := newClassifier().Normalize(fields)
	if out.Vendor.DisplayName != "Acme Corp" || out.Currency != "EUR" {
		t.Fatalf("unexpected normalization %q %q", out.Vendor.DisplayName, out.Currency)
	}
}
