package service

import (
	"sort"

	"ngo-filer/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const topVendorCount = 10

type ReportService struct {
	ledger *LedgerService
	logger *zap.Logger
}

func NewReportService(ledger *LedgerService, logger *zap.Logger) *ReportService {
	return &ReportService{
		ledger: ledger,
		logger: logger,
	}
}

// FiscalYearReport aggregates spend for one fiscal year label such as "2024-2025".
func (s *ReportService) FiscalYearReport(fiscalYear string) models.FiscalYearReport {
	rows := s.ledger.Query(models.LedgerFilters{FiscalYear: &fiscalYear})

	total := decimal.Zero
	byProject := make(map[string]decimal.Decimal)
	byGrant := make(map[string]decimal.Decimal)
	byVendor := make(map[string]decimal.Decimal)
	byStatus := make(map[string]int)

	for _, row := range rows {
		amount := decimal.NewFromFloat(row.GrandTotal)
		total = total.Add(amount)

		project := orDefault(row.ProjectCode, "NoProject")
		byProject[project] = byProject[project].Add(amount)

		grant := orDefault(row.GrantCode, "NoGrant")
		byGrant[grant] = byGrant[grant].Add(amount)

		vendor := orDefault(row.Vendor, "Unknown")
		byVendor[vendor] = byVendor[vendor].Add(amount)

		byStatus[orDefault(string(row.Status), "unknown")]++
	}

	summary := models.ReportSummary{
		TotalDocuments: len(rows),
		TotalAmount:    roundCents(total),
	}
	if len(rows) > 0 {
		summary.AverageAmount = roundCents(total.Div(decimal.NewFromInt(int64(len(rows)))))
	}

	s.logger.Debug("Fiscal year report built", zap.String("fiscal_year", fiscalYear), zap.Int("rows", len(rows)))

	return models.FiscalYearReport{
		FiscalYear: fiscalYear,
		Summary:    summary,
		ByProject:  roundAll(byProject),
		ByGrant:    roundAll(byGrant),
		ByStatus:   byStatus,
		TopVendors: topVendors(byVendor, topVendorCount),
	}
}

func (s *ReportService) ProjectReport(projectCode string) models.ProjectReport {
	rows := s.ledger.Query(models.LedgerFilters{ProjectCode: &projectCode})

	total := decimal.Zero
	byGrant := make(map[string]decimal.Decimal)
	byCategory := make(map[string]decimal.Decimal)

	for _, row := range rows {
		amount := decimal.NewFromFloat(row.GrandTotal)
		total = total.Add(amount)

		grant := orDefault(row.GrantCode, "NoGrant")
		byGrant[grant] = byGrant[grant].Add(amount)

		category := orDefault(row.CategoryPrimary, "Uncategorized")
		byCategory[category] = byCategory[category].Add(amount)
	}

	return models.ProjectReport{
		ProjectCode:    projectCode,
		TotalDocuments: len(rows),
		TotalAmount:    roundCents(total),
		ByGrant:        roundAll(byGrant),
		ByCategory:     roundAll(byCategory),
	}
}

// topVendors orders by spend descending, then by name.
func topVendors(byVendor map[string]decimal.Decimal, n int) []models.VendorSpend {
	type entry struct {
		vendor string
		amount decimal.Decimal
	}
	entries := make([]entry, 0, len(byVendor))
	for v, amt := range byVendor {
		entries = append(entries, entry{v, amt})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].amount.Cmp(entries[j].amount); c != 0 {
			return c > 0
		}
		return entries[i].vendor < entries[j].vendor
	})
	if len(entries) > n {
		entries = entries[:n]
	}

	out := make([]models.VendorSpend, len(entries))
	for i, e := range entries {
		out[i] = models.VendorSpend{Vendor: e.vendor, Amount: roundCents(e.amount)}
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
