package models

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }
func numPtr(f float64) *float64 { return &f }

func TestLedgerFilters_Match(t *testing.T) {
	row := &LedgerRow{
		DocID:       "d1",
		IssueDate:   "2024-03-15",
		Vendor:      "Acme Corp",
		GrandTotal:  1755,
		ProjectCode: "EDU001",
		GrantCode:   "GR2023",
		FundType:    FundRestricted,
		Status:      StatusDraft,
		FiscalYear:  "2024-2025",
	}

	tests := []struct {
		name    string
		filters LedgerFilters
		want    bool
	}{
		{"empty matches all", LedgerFilters{}, true},
		{"project and grant", LedgerFilters{ProjectCode: strPtr("EDU001"), GrantCode: strPtr("GR2023")}, true},
		{"wrong status", LedgerFilters{Status: strPtr("approved")}, false},
		{"fund type", LedgerFilters{FundType: strPtr("restricted")}, true},
		{"vendor is exact", LedgerFilters{Vendor: strPtr("acme corp")}, false},
		{"amount inside", LedgerFilters{MinAmount: numPtr(1755), MaxAmount: numPtr(1755)}, true},
		{"amount below min", LedgerFilters{MinAmount: numPtr(2000)}, false},
		{"amount above max", LedgerFilters{MaxAmount: numPtr(100)}, false},
		{"date range inclusive", LedgerFilters{StartDate: strPtr("2024-03-15"), EndDate: strPtr("2024-03-15")}, true},
		{"before start", LedgerFilters{StartDate: strPtr("2024-03-16")}, false},
		{"after end", LedgerFilters{EndDate: strPtr("2024-03-14")}, false},
		{"one failing filter fails all", LedgerFilters{ProjectCode: strPtr("EDU001"), FiscalYear: strPtr("2023-2024")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.Match(row); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLedgerFilters_DateBoundExcludesUndated(t *testing.T) {
	row := &LedgerRow{DocID: "d1"}
	if (LedgerFilters{StartDate: strPtr("2000-01-01")}).Match(row) {
		t.Fatal("an undated row must not satisfy a date bound")
	}
	if !(LedgerFilters{}).Match(row) {
		t.Fatal("an undated row still matches empty filters")
	}
}

func TestLedgerRow_CloneIsDeep(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	row := &LedgerRow{
		DocID:      "d1",
		ApprovedAt: &at,
		Flags:      []ValidationFlag{{Type: FlagDuplicate, Severity: SeverityHigh}},
	}

	c := row.Clone()
	c.Flags[0].Severity = SeverityLow
	*c.ApprovedAt = at.Add(time.Hour)

	if row.Flags[0].Severity != SeverityHigh || !row.ApprovedAt.Equal(at) {
		t.Fatal("clone shares memory with the original")
	}
	if !row.HasHighFlags() || c.HasHighFlags() {
		t.Fatal("unexpected HasHighFlags results")
	}
	if (*LedgerRow)(nil).Clone() != nil {
		t.Fatal("nil clone should be nil")
	}
}

func TestFilingInfo_ArchiveKey(t *testing.T) {
	if got := (FilingInfo{FolderPath: "a/b", FileName: "c.pdf"}).ArchiveKey("d1"); got != "a/b/d1/c.pdf" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := (FilingInfo{FileName: "c.pdf"}).ArchiveKey("d1"); got != "d1/c.pdf" {
		t.Fatalf("unexpected key %q", got)
	}

	a := &LedgerRow{DocID: "a", FilePath: "x", FileName: "same.pdf"}
	b := &LedgerRow{DocID: "b", FilePath: "x", FileName: "same.pdf"}
	if a.ArchiveKey() == b.ArchiveKey() {
		t.Fatalf("rows with the same file name share key %q", a.ArchiveKey())
	}
}

func TestRolePermissions(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleViewer, PermRead, true},
		{RoleViewer, PermCreate, false},
		{RoleContributor, PermUpdate, true},
		{RoleContributor, PermApprove, false},
		{RoleApprover, PermApprove, true},
		{RoleApprover, PermExport, false},
		{RoleAdmin, PermExport, true},
		{Role("guest"), PermRead, false},
	}
	for _, tt := range tests {
		if got := tt.role.Can(tt.perm); got != tt.want {
			t.Errorf("%s.Can(%s) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}

	if _, ok := ParseRole("approver"); !ok {
		t.Error("approver should parse")
	}
	if _, ok := ParseRole("root"); ok {
		t.Error("root should not parse")
	}
}

func TestParseStatusAndDocType(t *testing.T) {
	if s, err := ParseStatus("needs_review"); err != nil || s != StatusNeedsReview {
		t.Fatalf("ParseStatus: %v %v", s, err)
	}
	if _, err := ParseStatus("archived"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if ParseDocType("credit_note") != DocTypeCreditNote || ParseDocType("memo") != DocTypeOther {
		t.Fatal("unexpected doc type parsing")
	}
	if DocTypeCreditNote.Label() != "CreditNote" || DocTypeCreditNote.Title() != "Credit_Note" {
		t.Fatal("unexpected doc type names")
	}
}
