package service

import (
	"testing"
)

func TestChecksum_EmptyInput(t *testing.T) {
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Checksum(nil); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if Checksum([]byte("a")) == Checksum([]byte("b")) {
		t.Fatal("different content must hash differently")
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("Acme Corp", day("2024-03-15"), "INV-001", 1755.00)
	b := Fingerprint("Acme Corp", day("2024-03-15"), "INV-001", 1755.00)
	if a != b {
		t.Fatalf("fingerprint not deterministic: %s vs %s", a, b)
	}
	if len(a) != fingerprintLength {
		t.Fatalf("expected %d hex chars, got %d", fingerprintLength, len(a))
	}
}

func TestFingerprint_NormalizesVariants(t *testing.T) {
	base := Fingerprint("Acme Corp", day("2024-03-15"), "INV-001", 1755.00)

	variants := []struct {
		name    string
		vendor  string
		invoice string
		total   float64
	}{
		{"upper case and trailing dot", "ACME CORP.", "INV-001", 1755.00},
		{"diacritics", "Acmé Corp", "INV-001", 1755.00},
		{"punctuation", "Acme, Corp", "inv 001", 1755.00},
		{"cents ignored", "Acme Corp", "INV-001", 1755.90},
	}
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			if got := Fingerprint(v.vendor, day("2024-03-15"), v.invoice, v.total); got != base {
				t.Fatalf("expected %s, got %s", base, got)
			}
		})
	}
}

func TestFingerprint_DistinguishesDocuments(t *testing.T) {
	base := Fingerprint("Acme Corp", day("2024-03-15"), "INV-001", 1755.00)

	others := map[string]string{
		"total":   Fingerprint("Acme Corp", day("2024-03-15"), "INV-001", 1756.00),
		"date":    Fingerprint("Acme Corp", day("2024-03-16"), "INV-001", 1755.00),
		"invoice": Fingerprint("Acme Corp", day("2024-03-15"), "INV-002", 1755.00),
		"vendor":  Fingerprint("Beta Ltd", day("2024-03-15"), "INV-001", 1755.00),
		"no date": Fingerprint("Acme Corp", nil, "INV-001", 1755.00),
	}
	for name, fp := range others {
		if fp == base {
			t.Errorf("%s change should alter the fingerprint", name)
		}
	}
}

func TestFingerprint_MissingInvoiceUsesPlaceholder(t *testing.T) {
	if Fingerprint("Acme", nil, "", 10) != Fingerprint("Acme", nil, "---", 10) {
		t.Fatal("an invoice number with no word characters should match an empty one")
	}
}
