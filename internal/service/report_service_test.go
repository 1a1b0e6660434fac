package service

import (
	"context"
	"reflect"
	"testing"

	"ngo-filer/internal/models"

	"go.uber.org/zap"
)

func newReportFixture(t *testing.T) *ReportService {
	t.Helper()
	ctx := context.Background()
	ledger := newMemLedger(t, newMemLedgerRepo())

	rows := []*models.LedgerRow{
		row("a", 100, func(r *models.LedgerRow) { r.CategoryPrimary = "Travel" }),
		row("b", 300, func(r *models.LedgerRow) { r.Vendor = "Beta" }),
		row("c", 300, func(r *models.LedgerRow) { r.Vendor = "Alpha"; r.GrantCode = "GR2023"; r.CategoryPrimary = "Travel" }),
		row("d", 50.25, func(r *models.LedgerRow) { r.Vendor = ""; r.Status = models.StatusPosted }),
		row("e", 999, func(r *models.LedgerRow) { r.FiscalYear = "2023-2024"; r.ProjectCode = "WASH001" }),
	}
	for _, r := range rows {
		if err := ledger.AddEntry(ctx, r); err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
	}
	return NewReportService(ledger, zap.NewNop())
}

func TestFiscalYearReport(t *testing.T) {
	rep := newReportFixture(t).FiscalYearReport("2024-2025")

	if rep.Summary.TotalDocuments != 4 || rep.Summary.TotalAmount != 750.25 {
		t.Fatalf("unexpected summary %+v", rep.Summary)
	}
	if rep.Summary.AverageAmount != 187.56 {
		t.Fatalf("expected average 187.56, got %v", rep.Summary.AverageAmount)
	}
	if rep.ByProject["EDU001"] != 750.25 || len(rep.ByProject) != 1 {
		t.Fatalf("unexpected projects %+v", rep.ByProject)
	}
	if rep.ByGrant["NoGrant"] != 450.25 || rep.ByGrant["GR2023"] != 300 {
		t.Fatalf("unexpected grants %+v", rep.ByGrant)
	}
	if rep.ByStatus["draft"] != 3 || rep.ByStatus["posted"] != 1 {
		t.Fatalf("unexpected statuses %+v", rep.ByStatus)
	}

	want := []models.VendorSpend{
		{Vendor: "Alpha", Amount: 300},
		{Vendor: "Beta", Amount: 300},
		{Vendor: "Acme Corp", Amount: 100},
		{Vendor: "Unknown", Amount: 50.25},
	}
	if !reflect.DeepEqual(rep.TopVendors, want) {
		t.Fatalf("unexpected vendor ranking %+v", rep.TopVendors)
	}
}

func TestFiscalYearReport_Empty(t *testing.T) {
	rep := newReportFixture(t).FiscalYearReport("1999-2000")
	if rep.Summary.TotalDocuments != 0 || rep.Summary.AverageAmount != 0 || len(rep.TopVendors) != 0 {
		t.Fatalf("expected an empty report, got %+v", rep)
	}
}

func TestProjectReport(t *testing.T) {
	rep := newReportFixture(t).ProjectReport("EDU001")

	if rep.TotalDocuments != 4 || rep.TotalAmount != 750.25 {
		t.Fatalf("unexpected totals %+v", rep)
	}
	if rep.ByCategory["Travel"] != 400 || rep.ByCategory["Uncategorized"] != 350.25 {
		t.Fatalf("unexpected categories %+v", rep.ByCategory)
	}
	if rep.ByGrant["GR2023"] != 300 {
		t.Fatalf("unexpected grants %+v", rep.ByGrant)
	}
}

func TestTopVendors_Limit(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger(t, newMemLedgerRepo())
	for i := 0; i < topVendorCount+5; i++ {
		id := string(rune('a' + i))
		if err := ledger.AddEntry(ctx, row(id, float64(i+1), func(r *models.LedgerRow) { r.Vendor = "v" + id })); err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
	}

	rep := NewReportService(ledger, zap.NewNop()).FiscalYearReport("2024-2025")
	if len(rep.TopVendors) != topVendorCount {
		t.Fatalf("expected %d vendors, got %d", topVendorCount, len(rep.TopVendors))
	}
	if rep.TopVendors[0].Amount != float64(topVendorCount+5) {
		t.Fatalf("largest spender should come first, got %+v", rep.TopVendors[0])
	}
}
