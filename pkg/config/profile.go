package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is the organization profile every engine component is built from.
type Profile struct {
	NGOName              string              `yaml:"ngo_name"`
	FiscalYearStartMonth int                 `yaml:"fiscal_year_start_month"`
	DefaultCurrency      string              `yaml:"default_currency"`
	VATRules             map[string]float64  `yaml:"vat_rules"` // currency -> expected rate, percent
	Grants               map[string]Grant    `yaml:"grants"`
	Projects             map[string]string   `yaml:"projects"` // code -> name
	VendorAliases        map[string]string   `yaml:"vendor_aliases"`    // alias -> canonical display name
	CategoryKeywords     map[string][]string `yaml:"category_keywords"` // category -> line item keywords
	Currencies           []string            `yaml:"currencies"`
	Thresholds           Thresholds          `yaml:"thresholds"`
}

type Grant struct {
	Donor      string `yaml:"donor"`
	Restricted bool   `yaml:"restricted"`
}

// Thresholds holds the tolerances used by validation. Zero values are
// replaced by the defaults in DefaultThresholds.
type Thresholds struct {
	AmountEpsilon         float64 `yaml:"amount_epsilon"`
	StaleDateDays         int     `yaml:"stale_date_days"`
	MinOCRConfidence      float64 `yaml:"min_ocr_confidence"`
	StatedRateTolerance   float64 `yaml:"stated_rate_tolerance"`
	ExpectedRateTolerance float64 `yaml:"expected_rate_tolerance"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		AmountEpsilon:         0.02,
		StaleDateDays:         730,
		MinOCRConfidence:      0.75,
		StatedRateTolerance:   0.5,
		ExpectedRateTolerance: 1.0,
	}
}

var defaultCurrencies = []string{
	"USD", "EUR", "GBP", "JPY", "CHF", "CAD", "AUD", "NZD",
	"ILS", "INR", "CNY", "KRW", "SGD", "HKD", "THB", "MXN",
	"BRL", "ZAR", "RUB", "TRY", "SEK", "NOK", "DKK", "PLN",
}

// DefaultProfile returns the demo organization used when no profile file is configured.
func DefaultProfile() *Profile {
	return &Profile{
		NGOName:              "Demo NGO",
		FiscalYearStartMonth: 1,
		DefaultCurrency:      "USD",
		VATRules: map[string]float64{
			"ILS": 17.0,
			"EUR": 20.0,
			"GBP": 20.0,
		},
		Grants: map[string]Grant{
			"GR2023": {Donor: "UNICEF", Restricted: true},
			"GR2024": {Donor: "World Bank", Restricted: true},
		},
		Projects: map[string]string{
			"EDU001":  "Education Program",
			"HLTH001": "Healthcare Initiative",
			"WASH001": "Water and Sanitation",
		},
		VendorAliases: map[string]string{
			"tel aviv med ctr": "Tel Aviv Medical Center",
			"acme co":          "Acme Corporation",
		},
		CategoryKeywords: map[string][]string{
			"Travel":          {"flight", "hotel", "taxi", "transportation", "per diem"},
			"Training":        {"workshop", "training", "seminar", "course"},
			"Office Supplies": {"paper", "pens", "office", "supplies", "stationery"},
			"Consulting":      {"consultant", "consulting", "advisory", "expert"},
			"Equipment":       {"computer", "laptop", "equipment", "hardware"},
		},
		Currencies: append([]string(nil), defaultCurrencies...),
		Thresholds: DefaultThresholds(),
	}
}

// LoadProfile reads a YAML profile. An empty path yields DefaultProfile.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	return ParseProfile(data)
}

func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	p.applyDefaults()

	if p.FiscalYearStartMonth < 1 || p.FiscalYearStartMonth > 12 {
		return nil, fmt.Errorf("fiscal_year_start_month must be 1-12, got %d", p.FiscalYearStartMonth)
	}
	return &p, nil
}

func (p *Profile) applyDefaults() {
	if p.FiscalYearStartMonth == 0 {
		p.FiscalYearStartMonth = 1
	}
	if p.DefaultCurrency == "" {
		p.DefaultCurrency = "USD"
	}
	if len(p.Currencies) == 0 {
		p.Currencies = append([]string(nil), defaultCurrencies...)
	}
	if p.VATRules == nil {
		p.VATRules = map[string]float64{}
	}
	if p.Grants == nil {
		p.Grants = map[string]Grant{}
	}
	if p.Projects == nil {
		p.Projects = map[string]string{}
	}

	d := DefaultThresholds()
	if p.Thresholds.AmountEpsilon == 0 {
		p.Thresholds.AmountEpsilon = d.AmountEpsilon
	}
	if p.Thresholds.StaleDateDays == 0 {
		p.Thresholds.StaleDateDays = d.StaleDateDays
	}
	if p.Thresholds.MinOCRConfidence == 0 {
		p.Thresholds.MinOCRConfidence = d.MinOCRConfidence
	}
	if p.Thresholds.StatedRateTolerance == 0 {
		p.Thresholds.StatedRateTolerance = d.StatedRateTolerance
	}
	if p.Thresholds.ExpectedRateTolerance == 0 {
		p.Thresholds.ExpectedRateTolerance = d.ExpectedRateTolerance
	}
}

// AllowsCurrency reports whether code is on the ISO 4217 allow-list.
func (p *Profile) AllowsCurrency(code string) bool {
	for _, c := range p.Currencies {
		if c == code {
			return true
		}
	}
	return false
}
