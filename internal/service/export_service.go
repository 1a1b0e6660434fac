package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ngo-filer/internal/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
	ExportXLSX ExportFormat = "xlsx"
)

const ledgerSheet = "Ledger"

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportCSV, ExportJSON, ExportXLSX:
		return f, nil
	case "":
		return ExportCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f ExportFormat) ContentType() string {
	switch f {
	case ExportJSON:
		return "application/json"
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

func (f ExportFormat) FileName(now time.Time) string {
	return fmt.Sprintf("ledger_%s.%s", now.UTC().Format("20060102_150405"), f)
}

type ExportService struct {
	ledger *LedgerService
	audit  *AuditService
	logger *zap.Logger
}

func NewExportService(ledger *LedgerService, audit *AuditService, logger *zap.Logger) *ExportService {
	return &ExportService{
		ledger: ledger,
		audit:  audit,
		logger: logger,
	}
}

// Export writes the ledger rows matching filters to w and returns the row count.
func (s *ExportService) Export(ctx context.Context, w io.Writer, format ExportFormat, filters models.LedgerFilters, actor string) (int, error) {
	rows := s.ledger.Query(filters)

	var err error
	switch format {
	case ExportCSV:
		err = writeCSV(w, rows)
	case ExportJSON:
		err = writeJSON(w, rows)
	case ExportXLSX:
		err = writeXLSX(w, rows)
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to export ledger: %w", err)
	}

	s.logger.Info("Ledger exported", zap.String("format", string(format)), zap.Int("rows", len(rows)))
	if s.audit != nil {
		details := map[string]any{"format": string(format), "rows": len(rows)}
		if err := s.audit.Log(ctx, "", models.EventExported, actor, details); err != nil {
			s.logger.Error("Audit trail write failed", zap.Error(err))
		}
	}
	return len(rows), nil
}

// exportRecord renders a row in LedgerColumns order.
func exportRecord(row *models.LedgerRow) []string {
	approvedAt := ""
	if row.ApprovedAt != nil {
		approvedAt = row.ApprovedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		row.DocID,
		row.IssueDate,
		row.DueDate,
		row.Vendor,
		row.InvoiceNumber,
		row.Currency,
		formatAmount(row.Subtotal),
		formatAmount(row.TaxAmount),
		formatAmount(row.GrandTotal),
		row.ProjectCode,
		row.GrantCode,
		string(row.FundType),
		row.CategoryPrimary,
		string(row.Status),
		row.FiscalYear,
		row.FilePath,
		row.FileName,
		string(row.DedupeStatus),
		row.Approver,
		approvedAt,
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeCSV(w io.Writer, rows []*models.LedgerRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.LedgerColumns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(exportRecord(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, rows []*models.LedgerRow) error {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		record := exportRecord(row)
		m := make(map[string]string, len(record))
		for i, col := range models.LedgerColumns {
			m[col] = record[i]
		}
		out = append(out, m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeXLSX(w io.Writer, rows []*models.LedgerRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(models.LedgerColumns))
	for i, col := range models.LedgerColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(ledgerSheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(ledgerSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, row := range rows {
		record := exportRecord(row)
		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = v
		}
		// amounts stay numeric in the sheet
		values[6], values[7], values[8] = row.Subtotal, row.TaxAmount, row.GrandTotal

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}
