package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseProfile_AppliesDefaults(t *testing.T) {
	data := []byte(`
ngo_name: Field Office
fiscal_year_start_month: 4
vat_rules:
  EUR: 21
grants:
  GR9:
    donor: EU Commission
    restricted: true
projects:
  WASH9: Wells
thresholds:
  stale_date_days: 365
vendor_aliases:
  unicef sc: UNICEF Supply Division
category_keywords:
  Medical: [syringe, vaccine]
`)
	p, err := ParseProfile(data)
	if err != nil {
		t.Fatalf("ParseProfile: %v", err)
	}
	if p.NGOName != "Field Office" || p.FiscalYearStartMonth != 4 {
		t.Fatalf("unexpected profile header: %+v", p)
	}
	if p.VATRules["EUR"] != 21 {
		t.Fatalf("expected EUR rate 21, got %v", p.VATRules["EUR"])
	}
	if g := p.Grants["GR9"]; g.Donor != "EU Commission" || !g.Restricted {
		t.Fatalf("unexpected grant: %+v", g)
	}
	if p.Thresholds.StaleDateDays != 365 {
		t.Fatalf("expected override 365, got %d", p.Thresholds.StaleDateDays)
	}
	if p.Thresholds.AmountEpsilon != 0.02 || p.Thresholds.MinOCRConfidence != 0.75 {
		t.Fatalf("defaults not applied: %+v", p.Thresholds)
	}
	if p.VendorAliases["unicef sc"] != "UNICEF Supply Division" || len(p.CategoryKeywords["Medical"]) != 2 {
		t.Fatalf("unexpected aliases or keywords: %v %v", p.VendorAliases, p.CategoryKeywords)
	}
	if p.DefaultCurrency != "USD" || !p.AllowsCurrency("ILS") {
		t.Fatalf("currency defaults not applied")
	}
}

func TestParseProfile_RejectsBadMonth(t *testing.T) {
	if _, err := ParseProfile([]byte("fiscal_year_start_month: 13\n")); err == nil {
		t.Fatalf("expected error for month 13")
	}
}

func TestLoadProfile_EmptyPathIsDefault(t *testing.T) {
	p, err := LoadProfile("")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.NGOName != "Demo NGO" {
		t.Fatalf("expected demo profile, got %q", p.NGOName)
	}
	if !p.Grants["GR2023"].Restricted {
		t.Fatalf("expected GR2023 restricted")
	}
}

func TestLoadProfile_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("ngo_name: Disk NGO\ncurrencies: [USD, XOF]\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if !p.AllowsCurrency("XOF") || p.AllowsCurrency("EUR") {
		t.Fatalf("expected custom allow-list, got %v", p.Currencies)
	}
}
